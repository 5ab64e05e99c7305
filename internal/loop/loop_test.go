package loop

import (
	"errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/learnvk/learnvk/camera"
	"github.com/learnvk/learnvk/input"
	"github.com/learnvk/learnvk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

type fakeEngine struct {
	frames    []Frame
	resizes   [][2]int
	destroyed int
	err       error
}

func (f *fakeEngine) Render(frame Frame) error {
	f.frames = append(f.frames, frame)
	return f.err
}

func (f *fakeEngine) Resize(width, height int) {
	f.resizes = append(f.resizes, [2]int{width, height})
}

func (f *fakeEngine) Destroy() {
	f.destroyed++
}

func newTestLoop() (*Loop, *fakeEngine) {
	engine := &fakeEngine{}
	return New(camera.New(45, 1024, 768, 0.1, 1000), engine), engine
}

func TestFrameRendersCameraMatrices(t *testing.T) {
	l, engine := newTestLoop()
	require.NoError(t, l.Frame())
	require.Len(t, engine.frames, 1)
	f := engine.frames[0]
	assert.Equal(t, uint64(1), f.Index)
	assert.Equal(t, l.Camera().ViewMatrix(), f.View)
	assert.Equal(t, l.Camera().ProjectionMatrix(), f.Projection)
	assert.Equal(t, l.Camera().ViewProjection(), f.ViewProjection)
	assert.Equal(t, mgl32.Vec3{0, 0, -10}, f.Eye)
	assert.Equal(t, 1024, f.Width)
	assert.Equal(t, 768, f.Height)
	assert.Empty(t, engine.resizes)
}

func TestMinimizeSuppressesFrames(t *testing.T) {
	l, engine := newTestLoop()
	l.Handle(ResizeEvent{Width: 0, Height: 0})
	assert.True(t, l.Minimized())
	require.NoError(t, l.Frame())
	require.NoError(t, l.Frame())
	assert.Empty(t, engine.frames)
	assert.Empty(t, engine.resizes)
	w, h := l.Camera().ViewportSize()
	assert.Equal(t, float32(1024), w) // Never told about the degenerate size
	assert.Equal(t, float32(768), h)

	l.Handle(ResizeEvent{Width: 800, Height: 0})
	assert.True(t, l.Minimized())

	l.Handle(ResizeEvent{Width: 640, Height: 480})
	assert.False(t, l.Minimized())
	require.NoError(t, l.Frame())
	assert.Equal(t, [][2]int{{640, 480}}, engine.resizes)
	require.Len(t, engine.frames, 1)
	assert.Equal(t, 640, engine.frames[0].Width)
	assert.InDelta(t, 640.0/480.0, l.Camera().AspectRatio(), 1e-6)

	require.NoError(t, l.Frame())
	assert.Len(t, engine.resizes, 1) // Resize is applied once
}

func TestInputEventsReachState(t *testing.T) {
	l, _ := newTestLoop()
	l.Handle(KeyEvent{Key: input.KeyAltLeft, Pressed: true})
	l.Handle(KeyEvent{Key: input.KeyAltLeft, Pressed: true})
	l.Handle(MouseButtonEvent{Button: input.MouseButtonLeft, Pressed: true})
	l.Handle(CursorMovedEvent{X: 12.5, Y: 7})
	assert.True(t, l.Input().IsKeyPressed(input.KeyAltLeft))
	assert.True(t, l.Input().IsMouseButtonPressed(input.MouseButtonLeft))
	x, y := l.Input().CursorPosition()
	assert.Equal(t, float32(12.5), x)
	assert.Equal(t, float32(7), y)

	l.Handle(KeyEvent{Key: input.KeyAltLeft, Pressed: false})
	assert.False(t, l.Input().IsKeyPressed(input.KeyAltLeft))
}

func TestDragRotatesOnFrame(t *testing.T) {
	l, engine := newTestLoop()
	l.Handle(KeyEvent{Key: input.KeyAltLeft, Pressed: true})
	l.Handle(MouseButtonEvent{Button: input.MouseButtonLeft, Pressed: true})
	l.Handle(CursorMovedEvent{X: 100, Y: 0})
	assert.Zero(t, l.Camera().Yaw()) // Nothing moves until the frame runs
	require.NoError(t, l.Frame())
	assert.InDelta(t, 100*camera.MouseSensitivity*l.Camera().RotationSpeed(), l.Camera().Yaw(), 1e-6)
	assert.Equal(t, l.Camera().Position(), engine.frames[0].Eye)
}

func TestScrollZoomsImmediately(t *testing.T) {
	l, _ := newTestLoop()
	l.Handle(ScrollEvent{DX: 3, DY: 1})
	assert.InDelta(t, 9.6, l.Camera().Distance(), 1e-5)
	assert.InDelta(t, -9.6, l.Camera().Position().Z(), 1e-5)
}

func TestResetKey(t *testing.T) {
	l, _ := newTestLoop()
	l.Camera().Rotate(mgl32.Vec2{1, 1})
	l.Handle(KeyEvent{Key: input.KeyR, Pressed: false})
	assert.NotZero(t, l.Camera().Yaw())
	l.Handle(KeyEvent{Key: input.KeyR, Pressed: true})
	assert.Zero(t, l.Camera().Yaw())
	assert.Zero(t, l.Camera().Pitch())
}

func TestCloseDestroysOnce(t *testing.T) {
	l, engine := newTestLoop()
	l.Handle(CloseEvent{})
	l.Handle(CloseEvent{})
	l.Handle(KeyEvent{Key: input.KeyAltLeft, Pressed: true})
	assert.True(t, l.Closed())
	assert.Equal(t, 1, engine.destroyed)
	assert.False(t, l.Input().IsKeyPressed(input.KeyAltLeft))
	assert.ErrorIs(t, l.Frame(), ErrClosed)
	assert.Empty(t, engine.frames)
}

func TestFramePropagatesEngineErrors(t *testing.T) {
	l, engine := newTestLoop()
	engine.err = errors.New("device lost")
	assert.EqualError(t, l.Frame(), "device lost")
}

func TestApplyCamera(t *testing.T) {
	l, _ := newTestLoop()
	c := config.Default().Camera
	c.FOV = 70
	c.OrbitModifier = "ControlLeft"
	c.ResetKey = "H"
	require.NoError(t, l.ApplyCamera(c))
	assert.Equal(t, float32(70), l.Camera().FOV())
	assert.Equal(t, input.KeyControlLeft, l.Camera().Bindings().Modifier)

	l.Camera().Rotate(mgl32.Vec2{1, 0})
	l.Handle(KeyEvent{Key: input.KeyH, Pressed: true})
	assert.Zero(t, l.Camera().Yaw())

	c.PanButton = "Thumb"
	assert.Error(t, l.ApplyCamera(c))
	assert.Equal(t, input.MouseButtonRight, l.Camera().Bindings().Pan)
}

func TestWithResetKey(t *testing.T) {
	engine := &fakeEngine{}
	l := New(camera.New(45, 100, 100, 0.1, 10), engine, WithResetKey(input.KeyEscape))
	assert.Equal(t, input.KeyEscape, l.ResetKey())
	l.Camera().Rotate(mgl32.Vec2{1, 0})
	l.Handle(KeyEvent{Key: input.KeyR, Pressed: true})
	assert.NotZero(t, l.Camera().Yaw())
	l.Handle(KeyEvent{Key: input.KeyEscape, Pressed: true})
	assert.Zero(t, l.Camera().Yaw())
}
