// Package loop dispatches platform events to the input state and the camera, and drives the engine one frame
// at a time. Everything here runs on the event loop's goroutine.
package loop

import (
	"errors"
	"fmt"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/learnvk/learnvk/camera"
	"github.com/learnvk/learnvk/input"
	"github.com/learnvk/learnvk/internal/config"
)

// ErrClosed is returned by Frame once a CloseEvent has been handled.
var ErrClosed = errors.New("loop closed")

// Frame is everything the engine needs to draw one frame. Matrices are copies.
type Frame struct {
	Index          uint64
	View           mgl32.Mat4
	Projection     mgl32.Mat4 // Y-flipped unless the camera was built without the flip
	ViewProjection mgl32.Mat4 // OpenGL style clip space
	Eye            mgl32.Vec3
	FocalPoint     mgl32.Vec3
	Width, Height  int
}

// Engine consumes frames. Render must not keep references into the loop's state.
type Engine interface {
	Render(frame Frame) error
	Resize(width, height int)
	Destroy()
}

// Loop owns the input state and ties it to a camera and an engine.
type Loop struct {
	input    *input.State
	camera   *camera.Orbit
	engine   Engine
	resetKey input.Key

	width, height                  int
	minimized, resized, destroying bool
	frames                         uint64
}

// Option configures a Loop.
type Option func(l *Loop)

// WithResetKey sets the key that restores the initial camera (default R).
func WithResetKey(k input.Key) Option {
	return func(l *Loop) {
		l.resetKey = k
	}
}

// New creates a loop for a camera whose viewport already matches the window.
func New(cam *camera.Orbit, engine Engine, opts ...Option) *Loop {
	w, h := cam.ViewportSize()
	l := &Loop{
		input:    input.NewState(),
		camera:   cam,
		engine:   engine,
		resetKey: input.KeyR,
		width:    int(w),
		height:   int(h),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loop) Input() *input.State {
	return l.input
}

func (l *Loop) Camera() *camera.Orbit {
	return l.camera
}

func (l *Loop) ResetKey() input.Key {
	return l.resetKey
}

// Minimized reports whether rendering is suspended by a zero-area resize.
func (l *Loop) Minimized() bool {
	return l.minimized
}

func (l *Loop) Closed() bool {
	return l.destroying
}

// Frames returns how many frames were sent to the engine.
func (l *Loop) Frames() uint64 {
	return l.frames
}

// Handle applies one event. Events after a CloseEvent are ignored.
func (l *Loop) Handle(ev Event) {
	if l.destroying {
		return
	}
	switch ev := ev.(type) {
	case KeyEvent:
		l.input.SetKeyState(ev.Key, ev.Pressed)
		if ev.Pressed && ev.Key == l.resetKey {
			l.camera.Reset()
		}
	case MouseButtonEvent:
		l.input.SetMouseButtonState(ev.Button, ev.Pressed)
	case CursorMovedEvent:
		l.input.SetCursorPosition(ev.X, ev.Y)
	case ScrollEvent:
		l.camera.OnMouseScrolled(ev.DX, ev.DY)
	case ResizeEvent:
		if ev.Width <= 0 || ev.Height <= 0 {
			l.minimized = true
			return
		}
		l.minimized = false
		l.resized = true
		l.width, l.height = ev.Width, ev.Height
		l.camera.SetViewportSize(float32(ev.Width), float32(ev.Height))
	case CloseEvent:
		l.destroying = true
		l.engine.Destroy()
	default:
		panic(fmt.Sprintf("loop: unhandled event %T", ev))
	}
}

// Frame updates the camera from the input state and renders. It does nothing while minimized.
func (l *Loop) Frame() error {
	if l.destroying {
		return ErrClosed
	}
	if l.minimized {
		return nil
	}
	if l.resized {
		l.resized = false
		l.engine.Resize(l.width, l.height)
	}
	l.camera.OnUpdate(l.input)
	l.frames++
	return l.engine.Render(Frame{
		Index:          l.frames,
		View:           l.camera.ViewMatrix(),
		Projection:     l.camera.ProjectionMatrix(),
		ViewProjection: l.camera.ViewProjection(),
		Eye:            l.camera.Position(),
		FocalPoint:     l.camera.FocalPoint(),
		Width:          l.width,
		Height:         l.height,
	})
}

// ApplyCamera applies a reloaded camera section: perspective, bindings and reset key.
func (l *Loop) ApplyCamera(c config.CameraConfig) error {
	bindings, err := c.Bindings()
	if err != nil {
		return err
	}
	resetKey, err := c.ParseResetKey()
	if err != nil {
		return err
	}
	l.camera.SetPerspective(float32(c.FOV), float32(c.Near), float32(c.Far))
	l.camera.SetBindings(bindings)
	l.resetKey = resetKey
	return nil
}
