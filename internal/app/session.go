// Package app assembles a camera, a renderer and an event loop from a configuration. It has no window system
// dependency: the ebiten adapter feeds it events and draws what it renders.
package app

import (
	"context"
	"errors"
	"fmt"
	"github.com/deadsy/sdfx/sdf"
	"github.com/fogleman/fauxgl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/learnvk/learnvk/camera"
	"github.com/learnvk/learnvk/input"
	"github.com/learnvk/learnvk/internal/config"
	"github.com/learnvk/learnvk/internal/loop"
	"github.com/learnvk/learnvk/internal/scene"
	"image/color"
	"log"
	"math"
)

// Hotkeys handled by the session itself (the reset key belongs to the loop)
const (
	colorKey     = input.KeyC
	wireframeKey = input.KeyW
	boundsKey    = input.KeyB
	helpKey      = input.KeyH
)

// Session is one running scene. All methods except Reload must be called from the event loop's goroutine.
type Session struct {
	cfg      *config.Config
	loop     *loop.Loop
	renderer *scene.Renderer
	reloads  chan *config.Config
	showHelp bool
}

// NewSession meshes solid, starts the renderer and points the camera at the whole mesh.
func NewSession(cfg *config.Config, solid sdf.SDF3) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := RendererOptions(cfg.Engine)
	if err != nil {
		return nil, err
	}
	mesh := scene.MeshCells(solid, cfg.Engine.MeshCells, float64(mgl32.DegToRad(float32(cfg.Engine.SmoothNormalsDegrees))))
	renderer, err := scene.NewRenderer(mesh, opts)
	if err != nil {
		return nil, err
	}
	renderer.SetBounds(scene.Bounds(solid))
	bindings, err := cfg.Camera.Bindings()
	if err != nil {
		renderer.Destroy()
		return nil, err
	}
	resetKey, err := cfg.Camera.ParseResetKey()
	if err != nil {
		renderer.Destroy()
		return nil, err
	}
	focal, distance := fitMesh(mesh, float32(cfg.Camera.FOV))
	cam := camera.New(float32(cfg.Camera.FOV), float32(cfg.Window.Width), float32(cfg.Window.Height),
		float32(cfg.Camera.Near), float32(cfg.Camera.Far),
		camera.WithBindings(bindings),
		camera.WithFlipY(cfg.Camera.FlipY),
		camera.WithOrbit(focal, distance, math.Pi/6, -math.Pi/4), // Look from 30º up and 45º left
	)
	log.Printf("[LearnVK] Session ready: %dx%d window, camera at %v looking at %v", cfg.Window.Width, cfg.Window.Height,
		cam.Position(), cam.FocalPoint())
	return &Session{
		cfg:      cfg.Clone(),
		loop:     loop.New(cam, renderer, loop.WithResetKey(resetKey)),
		renderer: renderer,
		reloads:  make(chan *config.Config, 1),
		showHelp: true,
	}, nil
}

// RendererOptions converts the engine section to renderer options.
func RendererOptions(c config.EngineConfig) (scene.Options, error) {
	opts := scene.DefaultOptions()
	bg, err := config.ParseHexColor(c.Background)
	if err != nil {
		return opts, fmt.Errorf("%w: engine.background: %s", config.ErrInvalid, err)
	}
	opts.Background = color.RGBA{R: bg[0], G: bg[1], B: bg[2], A: 255}
	opts.Validation = c.Validation
	opts.Wireframe = c.Wireframe
	opts.ResInv = c.ResInv
	return opts, nil
}

// fitMesh returns the center of the mesh's bounding box and the distance at which its bounding sphere fills the
// vertical field of view.
func fitMesh(mesh *fauxgl.Mesh, fovDegrees float32) (mgl32.Vec3, float32) {
	box := mesh.BoundingBox()
	center := box.Min.Add(box.Max).MulScalar(0.5)
	radius := box.Max.Sub(box.Min).Length() / 2
	distance := radius / math.Sin(float64(mgl32.DegToRad(fovDegrees))/2)
	return mgl32.Vec3{float32(center.X), float32(center.Y), float32(center.Z)}, max(float32(distance), camera.MinDistance)
}

//-----------------------------------------------------------------------------
// EVENTS
//-----------------------------------------------------------------------------

// Handle applies the session hotkeys and forwards ev to the loop. Keys bound to the camera (reset key, orbit
// modifier) are never session hotkeys.
func (s *Session) Handle(ev loop.Event) {
	if k, ok := ev.(loop.KeyEvent); ok && k.Pressed && !s.loop.Closed() && !s.boundToCamera(k.Key) {
		switch k.Key {
		case colorKey:
			s.renderer.SetColorMode(s.renderer.Options().ColorMode + 1)
		case wireframeKey:
			s.renderer.SetWireframe(!s.renderer.Options().Wireframe)
		case boundsKey:
			s.renderer.SetDrawBounds(!s.renderer.Options().Bounds)
		case helpKey:
			s.showHelp = !s.showHelp
		}
	}
	s.loop.Handle(ev)
}

func (s *Session) boundToCamera(k input.Key) bool {
	return k == s.loop.ResetKey() || k == s.loop.Camera().Bindings().Modifier
}

// Tick applies a pending configuration reload and runs one frame. Frames rejected by engine validation are
// skipped; loop.ErrClosed is returned once the session is closed.
func (s *Session) Tick() error {
	select {
	case cfg := <-s.reloads:
		s.apply(cfg)
	default:
	}
	err := s.loop.Frame()
	if errors.Is(err, scene.ErrInvalidFrame) {
		return nil
	}
	return err
}

func (s *Session) apply(cfg *config.Config) {
	if err := s.loop.ApplyCamera(cfg.Camera); err != nil {
		log.Println("[LearnVK] Ignoring reloaded camera settings:", err)
		return
	}
	s.cfg.Camera = cfg.Camera
	if cfg.Window != s.cfg.Window || cfg.Engine != s.cfg.Engine {
		log.Println("[LearnVK] Window and engine settings apply on restart")
	}
}

// Reload queues cfg for the next Tick, replacing an older pending one. Safe to call from any goroutine.
func (s *Session) Reload(cfg *config.Config) {
	for {
		select {
		case s.reloads <- cfg:
			return
		default:
		}
		select {
		case <-s.reloads:
		default:
		}
	}
}

// WatchConfig reloads the session every time the file at path changes, until ctx is done.
func (s *Session) WatchConfig(ctx context.Context, path string) error {
	return config.Watch(ctx, path, s.Reload)
}

//-----------------------------------------------------------------------------
// ACCESSORS
//-----------------------------------------------------------------------------

func (s *Session) Loop() *loop.Loop {
	return s.loop
}

func (s *Session) Renderer() *scene.Renderer {
	return s.renderer
}

// Config returns the settings in use (camera section included after reloads).
func (s *Session) Config() *config.Config {
	return s.cfg
}

func (s *Session) ShowHelp() bool {
	return s.showHelp
}

// Close destroys the engine if the loop did not already do it.
func (s *Session) Close() {
	s.loop.Handle(loop.CloseEvent{})
}
