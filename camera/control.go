package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// OnUpdate applies one frame of mouse interaction. Nothing happens unless the modifier key is held.
// While it is held the cursor delta is consumed every frame, a pan (preferred) or rotation is applied if the
// matching button is held, and the view is rebuilt even if nothing moved.
func (o *Orbit) OnUpdate(in Input) {
	if !in.IsKeyPressed(o.bindings.Modifier) {
		return
	}
	x, y := in.CursorPosition()
	mouse := mgl32.Vec2{x, y}
	delta := mouse.Sub(o.lastMouse).Mul(MouseSensitivity)
	o.lastMouse = mouse

	if in.IsMouseButtonPressed(o.bindings.Pan) {
		o.pan(delta)
	} else if in.IsMouseButtonPressed(o.bindings.Rotate) {
		o.rotate(delta)
	}

	o.updateView()
}

// OnMouseScrolled zooms with the vertical scroll amount (lines). Horizontal scrolling is ignored.
func (o *Orbit) OnMouseScrolled(_, y float32) {
	o.Zoom(y * ScrollSensitivity)
}

// Pan moves the focal point in the view plane, faster the farther away the camera is.
func (o *Orbit) Pan(delta mgl32.Vec2) {
	o.pan(delta)
	o.updateView()
}

// Rotate orbits around the focal point. The yaw direction follows the up vector so that dragging keeps
// feeling the same once the camera goes over a pole.
func (o *Orbit) Rotate(delta mgl32.Vec2) {
	o.rotate(delta)
	o.updateView()
}

// Zoom moves towards (positive) or away from the focal point. When the camera would get closer than
// MinDistance, the focal point is pushed one unit forward instead.
func (o *Orbit) Zoom(delta float32) {
	o.distance -= delta * o.ZoomSpeed()
	if o.distance < MinDistance {
		o.focalPoint = o.focalPoint.Add(o.Forward())
		o.distance = MinDistance
	}
	o.updateView()
}

func (o *Orbit) pan(delta mgl32.Vec2) {
	xSpeed, ySpeed := o.PanSpeed()
	o.focalPoint = o.focalPoint.Add(o.Right().Mul(-delta.X() * xSpeed * o.distance))
	o.focalPoint = o.focalPoint.Add(o.Up().Mul(delta.Y() * ySpeed * o.distance))
}

func (o *Orbit) rotate(delta mgl32.Vec2) {
	yawSign := float32(1)
	if o.Up().Y() < 0 {
		yawSign = -1
	}
	o.yaw += yawSign * delta.X() * o.RotationSpeed()
	o.pitch += delta.Y() * o.RotationSpeed()
}

// PanSpeed returns the horizontal and vertical pan factors for the current viewport.
// Bigger viewports pan slower (fitted curve, flat beyond 2400 pixels).
func (o *Orbit) PanSpeed() (x, y float32) {
	return panFactor(o.viewportWidth), panFactor(o.viewportHeight)
}

func panFactor(pixels float32) float32 {
	v := min(pixels/1000, maxPanViewport)
	return 0.0366*(v*v) - 0.1778*v + 0.3021
}

func (o *Orbit) RotationSpeed() float32 {
	return rotationSpeed
}

// ZoomSpeed grows with the square of the distance, up to a limit.
func (o *Orbit) ZoomSpeed() float32 {
	d := max(o.distance*0.2, 0)
	return min(d*d, maxZoomSpeed)
}
