// Package camera implements an orbit (arc-ball) camera driven by mouse input.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/learnvk/learnvk/input"
)

const (
	// DefaultDistance is the initial distance to the focal point.
	DefaultDistance = 10.0
	// MinDistance is the closest the camera gets to its focal point.
	MinDistance = 1.0
	// MouseSensitivity converts cursor pixels to orbit deltas.
	MouseSensitivity = 0.003
	// ScrollSensitivity converts scroll lines to zoom deltas.
	ScrollSensitivity = 0.1

	rotationSpeed  = 0.8
	maxZoomSpeed   = 100.0
	maxPanViewport = 2.4
)

var (
	axisX = mgl32.Vec3{1, 0, 0}
	axisY = mgl32.Vec3{0, 1, 0}
	axisZ = mgl32.Vec3{0, 0, 1}

	// clipFlipY turns the OpenGL style clip space of the base projection into Vulkan's (Y down)
	clipFlipY = mgl32.Diag4(mgl32.Vec4{1, -1, 1, 1})
	// leftHanded makes +Z the viewing direction of mgl32.Perspective
	leftHanded = mgl32.Scale3D(1, 1, -1)
)

// Input is the read-only view of the input state used by OnUpdate.
type Input interface {
	IsKeyPressed(key input.Key) bool
	IsMouseButtonPressed(button input.MouseButton) bool
	CursorPosition() (x, y float32)
}

// Bindings selects the controls used by OnUpdate.
type Bindings struct {
	Modifier input.Key         // Must be held for any mouse interaction
	Pan      input.MouseButton // Drag to move the focal point (wins over Rotate)
	Rotate   input.MouseButton // Drag to orbit around the focal point
}

// DefaultBindings returns Alt + right drag to pan and Alt + left drag to rotate.
func DefaultBindings() Bindings {
	return Bindings{Modifier: input.KeyAltLeft, Pan: input.MouseButtonRight, Rotate: input.MouseButtonLeft}
}

type orbitParams struct {
	focalPoint           mgl32.Vec3
	distance, pitch, yaw float32
}

// Orbit looks at a focal point from a distance, at an angle given by pitch and yaw.
//
// Every exported mutator leaves the position, view and projection matrices up to date before returning.
// Pitch and yaw accumulate without wrapping or clamping.
type Orbit struct {
	projection, view mgl32.Mat4
	position         mgl32.Vec3

	orbitParams
	home orbitParams // Restored by Reset

	lastMouse mgl32.Vec2 // Cursor position seen by the previous modifier-held OnUpdate

	viewportWidth, viewportHeight, aspectRatio float32
	fov, nearClip, farClip                     float32 // fov in degrees
	flipY                                      bool
	bindings                                   Bindings
}

// Option configures an Orbit at construction time.
type Option func(o *Orbit)

// WithBindings replaces the default controls.
func WithBindings(b Bindings) Option {
	return func(o *Orbit) {
		o.bindings = b
	}
}

// WithFlipY enables (default) or disables the Y flip applied by ProjectionMatrix.
// Disable it when the consumer already uses an OpenGL style clip space.
func WithFlipY(flip bool) Option {
	return func(o *Orbit) {
		o.flipY = flip
	}
}

// WithOrbit sets the initial (and reset) focal point, distance and angles (radians).
func WithOrbit(focalPoint mgl32.Vec3, distance, pitch, yaw float32) Option {
	return func(o *Orbit) {
		o.focalPoint = focalPoint
		o.distance = max(distance, MinDistance)
		o.pitch = pitch
		o.yaw = yaw
	}
}

// New builds a camera with a vertical field of view in degrees. The viewport must have a non-zero area.
func New(fov, viewportWidth, viewportHeight, nearClip, farClip float32, opts ...Option) *Orbit {
	o := &Orbit{
		view: mgl32.Ident4(),
		orbitParams: orbitParams{
			distance: DefaultDistance,
		},
		viewportWidth:  viewportWidth,
		viewportHeight: viewportHeight,
		fov:            fov,
		nearClip:       nearClip,
		farClip:        farClip,
		flipY:          true,
		bindings:       DefaultBindings(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.home = o.orbitParams
	o.updateProjection()
	o.updateView()
	return o
}

//-----------------------------------------------------------------------------
// INTRINSICS
//-----------------------------------------------------------------------------

// SetViewportSize changes the viewport and rebuilds the projection. Callers must not pass a zero area.
func (o *Orbit) SetViewportSize(width, height float32) {
	o.viewportWidth = width
	o.viewportHeight = height
	o.updateProjection()
}

// SetPerspective changes the field of view (degrees) and clip planes and rebuilds the projection.
func (o *Orbit) SetPerspective(fov, nearClip, farClip float32) {
	o.fov = fov
	o.nearClip = nearClip
	o.farClip = farClip
	o.updateProjection()
}

// SetBindings replaces the controls used by OnUpdate.
func (o *Orbit) SetBindings(b Bindings) {
	o.bindings = b
}

func (o *Orbit) Bindings() Bindings {
	return o.bindings
}

func (o *Orbit) ViewportSize() (width, height float32) {
	return o.viewportWidth, o.viewportHeight
}

func (o *Orbit) AspectRatio() float32 {
	return o.aspectRatio
}

// FOV returns the vertical field of view in degrees.
func (o *Orbit) FOV() float32 {
	return o.fov
}

func (o *Orbit) ClipPlanes() (near, far float32) {
	return o.nearClip, o.farClip
}

//-----------------------------------------------------------------------------
// ORBIT
//-----------------------------------------------------------------------------

func (o *Orbit) Position() mgl32.Vec3 {
	return o.position
}

func (o *Orbit) FocalPoint() mgl32.Vec3 {
	return o.focalPoint
}

func (o *Orbit) Distance() float32 {
	return o.distance
}

func (o *Orbit) Pitch() float32 {
	return o.pitch
}

func (o *Orbit) Yaw() float32 {
	return o.yaw
}

func (o *Orbit) SetFocalPoint(p mgl32.Vec3) {
	o.focalPoint = p
	o.updateView()
}

// SetDistance moves the camera along its forward axis. Values below MinDistance are raised to it.
func (o *Orbit) SetDistance(d float32) {
	o.distance = max(d, MinDistance)
	o.updateView()
}

func (o *Orbit) SetPitch(pitch float32) {
	o.pitch = pitch
	o.updateView()
}

func (o *Orbit) SetYaw(yaw float32) {
	o.yaw = yaw
	o.updateView()
}

// Reset restores the focal point, distance and angles the camera was built with.
func (o *Orbit) Reset() {
	o.orbitParams = o.home
	o.updateView()
}

// Orientation is the yaw rotation (world Y) applied after the pitch rotation (local X).
func (o *Orbit) Orientation() mgl32.Quat {
	pitch := mgl32.QuatRotate(o.pitch, axisX)
	yaw := mgl32.QuatRotate(o.yaw, axisY)
	return yaw.Mul(pitch)
}

func (o *Orbit) Forward() mgl32.Vec3 {
	return o.Orientation().Rotate(axisZ)
}

func (o *Orbit) Right() mgl32.Vec3 {
	return o.Orientation().Rotate(axisX)
}

func (o *Orbit) Up() mgl32.Vec3 {
	return o.Orientation().Rotate(axisY)
}

//-----------------------------------------------------------------------------
// MATRICES
//-----------------------------------------------------------------------------

func (o *Orbit) ViewMatrix() mgl32.Mat4 {
	return o.view
}

// ProjectionMatrix returns the projection, Y-flipped for Vulkan clip space unless disabled with WithFlipY.
func (o *Orbit) ProjectionMatrix() mgl32.Mat4 {
	if !o.flipY {
		return o.projection
	}
	return clipFlipY.Mul4(o.projection)
}

// ViewProjection returns projection × view in the base (OpenGL style, unflipped) clip space.
func (o *Orbit) ViewProjection() mgl32.Mat4 {
	return o.projection.Mul4(o.view)
}

// WorldTransform is the camera-to-world transform, the inverse of ViewMatrix.
func (o *Orbit) WorldTransform() mgl32.Mat4 {
	p := o.position
	return mgl32.Translate3D(p.X(), p.Y(), p.Z()).Mul4(o.Orientation().Mat4())
}

func (o *Orbit) updateProjection() {
	o.aspectRatio = o.viewportWidth / o.viewportHeight
	o.projection = mgl32.Perspective(mgl32.DegToRad(o.fov), o.aspectRatio, o.nearClip, o.farClip).Mul4(leftHanded)
}

func (o *Orbit) updateView() {
	o.position = o.focalPoint.Sub(o.Forward().Mul(o.distance))
	o.view = o.WorldTransform().Inv()
}
