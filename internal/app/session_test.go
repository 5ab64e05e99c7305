package app

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/learnvk/learnvk/input"
	"github.com/learnvk/learnvk/internal/config"
	"github.com/learnvk/learnvk/internal/loop"
	"github.com/learnvk/learnvk/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"image/color"
	"testing"
	"time"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Window.Width, cfg.Window.Height = 128, 96
	cfg.Engine.MeshCells = 16
	return cfg
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	solid, err := scene.Pedestal()
	require.NoError(t, err)
	s, err := NewSession(testConfig(), solid)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func press(s *Session, k input.Key) {
	s.Handle(loop.KeyEvent{Key: k, Pressed: true})
	s.Handle(loop.KeyEvent{Key: k, Pressed: false})
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	solid, err := scene.Pedestal()
	require.NoError(t, err)
	cfg := testConfig()
	cfg.Camera.Near = 0
	_, err = NewSession(cfg, solid)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestSessionFitsCamera(t *testing.T) {
	s := newTestSession(t)
	cam := s.Loop().Camera()
	// The pedestal spans Y in about [-0.5, 2.7] once meshed
	assert.InDelta(t, 1.1, cam.FocalPoint().Y(), 0.3)
	assert.InDelta(t, 0, cam.FocalPoint().X(), 0.3)
	assert.Greater(t, cam.Distance(), float32(3))
	assert.Less(t, cam.Distance(), float32(20))
	assert.Greater(t, cam.Position().Y(), cam.FocalPoint().Y()) // Looking down on it

	// Reset goes back to the fitted orbit, not the camera defaults
	home := cam.Position()
	cam.Rotate(mgl32.Vec2{2, 1})
	press(s, input.KeyR)
	for i := range home {
		assert.InDelta(t, home[i], cam.Position()[i], 1e-4)
	}
}

func TestSessionHotkeys(t *testing.T) {
	s := newTestSession(t)
	r := s.Renderer()
	press(s, input.KeyC)
	assert.Equal(t, 1, r.Options().ColorMode)
	press(s, input.KeyC)
	assert.Equal(t, 0, r.Options().ColorMode)
	press(s, input.KeyW)
	assert.True(t, r.Options().Wireframe)
	press(s, input.KeyB)
	assert.True(t, r.Options().Bounds)
	assert.Contains(t, s.HelpText(60), "Boxes: true [B]")

	assert.Contains(t, s.HelpText(60), "Rotate cam [AltLeft+LeftMouse]")
	press(s, input.KeyH)
	assert.False(t, s.ShowHelp())
	assert.Empty(t, s.HelpText(60))
}

func TestSessionHotkeysYieldToCameraKeys(t *testing.T) {
	solid, err := scene.Pedestal()
	require.NoError(t, err)
	cfg := testConfig()
	cfg.Camera.ResetKey = "H"
	cfg.Camera.OrbitModifier = "W"
	s, err := NewSession(cfg, solid)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	cam := s.Loop().Camera()
	home := cam.Yaw()
	cam.Rotate(mgl32.Vec2{1, 0})
	press(s, input.KeyH)
	assert.Equal(t, home, cam.Yaw())
	assert.True(t, s.ShowHelp())
	press(s, input.KeyW)
	assert.False(t, s.Renderer().Options().Wireframe)
	press(s, input.KeyC)
	assert.Equal(t, 1, s.Renderer().Options().ColorMode)

	// Reloaded bindings move the collision with them
	reloaded := cfg.Clone()
	reloaded.Camera.ResetKey = "R"
	s.Reload(reloaded)
	require.NoError(t, s.Tick())
	press(s, input.KeyH)
	assert.False(t, s.ShowHelp())
}

func TestSessionTickRenders(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Tick())
	require.Eventually(t, func() bool {
		img, index := s.Renderer().Snapshot()
		return img != nil && index == 1
	}, 10*time.Second, 10*time.Millisecond)
	img, _ := s.Renderer().Snapshot()
	assert.Equal(t, 64, img.Rect.Dx()) // res_inv = 2
	assert.Equal(t, 48, img.Rect.Dy())

	s.Handle(loop.ResizeEvent{})
	require.NoError(t, s.Tick())
	assert.Equal(t, uint64(1), s.Loop().Frames())
}

func TestSessionReload(t *testing.T) {
	s := newTestSession(t)
	cfg := testConfig()
	cfg.Camera.FOV = 60
	s.Reload(cfg)
	cfg = cfg.Clone()
	cfg.Camera.FOV = 70
	cfg.Camera.OrbitModifier = "ShiftLeft"
	s.Reload(cfg) // Replaces the pending one
	require.NoError(t, s.Tick())
	assert.Equal(t, float32(70), s.Loop().Camera().FOV())
	assert.Equal(t, input.KeyShiftLeft, s.Loop().Camera().Bindings().Modifier)
	assert.Equal(t, 70.0, s.Config().Camera.FOV)

	bad := cfg.Clone()
	bad.Camera.RotateButton = "Back"
	bad.Camera.FOV = 30
	s.Reload(bad)
	require.NoError(t, s.Tick())
	assert.Equal(t, float32(70), s.Loop().Camera().FOV())
	assert.Equal(t, 70.0, s.Config().Camera.FOV)
}

func TestSessionClose(t *testing.T) {
	s := newTestSession(t)
	s.Handle(loop.CloseEvent{})
	assert.ErrorIs(t, s.Tick(), loop.ErrClosed)
	assert.ErrorIs(t, s.Renderer().Render(loop.Frame{Width: 1, Height: 1}), scene.ErrDestroyed)
	press(s, input.KeyC) // Ignored once closed
	assert.Equal(t, 0, s.Renderer().Options().ColorMode)
}

func TestRendererOptions(t *testing.T) {
	c := config.Default().Engine
	c.Background = "#fff"
	c.Validation = true
	c.ResInv = 3
	opts, err := RendererOptions(c)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, opts.Background)
	assert.True(t, opts.Validation)
	assert.Equal(t, 3, opts.ResInv)

	c.Background = "white"
	_, err = RendererOptions(c)
	assert.ErrorIs(t, err, config.ErrInvalid)
}
