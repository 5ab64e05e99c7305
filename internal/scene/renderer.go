package scene

import (
	"context"
	"errors"
	"fmt"
	"github.com/deadsy/sdfx/sdf"
	"github.com/fogleman/fauxgl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/learnvk/learnvk/internal/loop"
	"github.com/subchen/go-trylock/v2"
	"image"
	"image/color"
	"log"
	"math"
	"sync"
)

var (
	// ErrDestroyed is returned when rendering after Destroy.
	ErrDestroyed = errors.New("renderer destroyed")
	// ErrInvalidFrame is returned (with validation enabled) for frames that cannot be drawn.
	ErrInvalidFrame = errors.New("invalid frame")
)

// validationLogEvery is how often (in frames) validation logs a frame summary
const validationLogEvery = 300

//-----------------------------------------------------------------------------
// CONFIGURATION
//-----------------------------------------------------------------------------

// Options configures a Renderer.
type Options struct {
	Validation bool       // Check every frame and log diagnostics
	Wireframe  bool       // Draw triangle edges only
	Bounds     bool       // Draw the outlines set with SetBounds
	ColorMode  int        // 0: Phong shading, 1: normal XYZ as RGB
	ResInv     int        // Screen pixels per rendered pixel (on each axis)
	Background color.RGBA
	Surface    color.RGBA
	BoundsLine color.RGBA
	LightDir   mgl32.Vec3 // Points towards the light
}

// DefaultOptions returns the options used by NewRenderer when none are given.
func DefaultOptions() Options {
	return Options{
		ResInv:     2,
		Background: color.RGBA{R: 50, G: 100, B: 150, A: 255},
		Surface:    color.RGBA{R: 255 - 20, G: 255 - 40, B: 255 - 80, A: 255},
		BoundsLine: color.RGBA{R: 255, G: 255, A: 255},
		LightDir:   mgl32.Vec3{-1, 1, -1}.Normalize(),
	}
}

// ColorModes is the number of supported Options.ColorMode values.
const ColorModes = 2

//-----------------------------------------------------------------------------
// RENDERER
//-----------------------------------------------------------------------------

// Renderer draws a mesh with fauxgl. It implements loop.Engine: frames are handed to a worker goroutine
// through a one-slot mailbox (a newer frame replaces a pending one) and the last image is kept for Snapshot.
type Renderer struct {
	mesh *fauxgl.Mesh

	optsLock sync.RWMutex
	opts     Options

	renderingLock trylock.TryLocker // Held while rasterizing
	fauxglCtx     *fauxgl.Context   // Only touched with renderingLock held
	bounds        *fauxgl.Mesh      // Only touched with renderingLock held

	latestLock  sync.RWMutex
	latest      *image.NRGBA
	latestIndex uint64

	mailbox     chan loop.Frame
	done        chan struct{}
	workerWg    sync.WaitGroup
	destroyOnce sync.Once
}

// NewRenderer validates its inputs and starts the render worker. Failing here is a fatal startup error.
func NewRenderer(mesh *fauxgl.Mesh, opts Options) (*Renderer, error) {
	if mesh == nil || len(mesh.Triangles) == 0 {
		return nil, errors.New("creating renderer: empty mesh")
	}
	if opts.ResInv < 1 {
		return nil, fmt.Errorf("creating renderer: resolution divisor must be at least 1 (got %d)", opts.ResInv)
	}
	if opts.ColorMode < 0 || opts.ColorMode >= ColorModes {
		return nil, fmt.Errorf("creating renderer: unknown color mode %d", opts.ColorMode)
	}
	r := &Renderer{
		mesh:          mesh,
		opts:          opts,
		renderingLock: trylock.New(),
		mailbox:       make(chan loop.Frame, 1),
		done:          make(chan struct{}),
	}
	if opts.Validation {
		log.Println("[Engine] Validation enabled:", len(mesh.Triangles), "triangles, 1 /", opts.ResInv, "resolution")
	}
	r.workerWg.Add(1)
	go r.run()
	return r, nil
}

// Render queues frame for the worker. It never blocks.
func (r *Renderer) Render(frame loop.Frame) error {
	select {
	case <-r.done:
		return ErrDestroyed
	default:
	}
	opts := r.Options()
	if opts.Validation {
		if err := validateFrame(frame); err != nil {
			log.Println("[Engine] Rejected frame", frame.Index, ":", err)
			return err
		}
		if frame.Index%validationLogEvery == 1 {
			log.Printf("[Engine] Frame %d: %dx%d eye=%v focal=%v", frame.Index, frame.Width, frame.Height, frame.Eye, frame.FocalPoint)
		}
	}
	select { // Drop the stale pending frame, if any
	case <-r.mailbox:
	default:
	}
	select {
	case r.mailbox <- frame:
	default:
	}
	return nil
}

// Resize is informative: every frame carries its own size.
func (r *Renderer) Resize(width, height int) {
	if r.Options().Validation {
		log.Println("[Engine] Resized to", width, "x", height)
	}
}

// Destroy stops the worker. Later Render calls fail with ErrDestroyed.
func (r *Renderer) Destroy() {
	r.destroyOnce.Do(func() {
		close(r.done)
		r.workerWg.Wait()
		log.Println("[Engine] Destroyed")
	})
}

// Options returns a copy of the current options.
func (r *Renderer) Options() Options {
	r.optsLock.RLock()
	defer r.optsLock.RUnlock()
	return r.opts
}

// SetColorMode switches the shading used by the next frames (wrapping around ColorModes).
func (r *Renderer) SetColorMode(mode int) {
	r.optsLock.Lock()
	r.opts.ColorMode = ((mode % ColorModes) + ColorModes) % ColorModes
	r.optsLock.Unlock()
}

// SetWireframe toggles wireframe drawing for the next frames.
func (r *Renderer) SetWireframe(wireframe bool) {
	r.optsLock.Lock()
	r.opts.Wireframe = wireframe
	r.optsLock.Unlock()
}

// SetDrawBounds toggles the bounding box outlines for the next frames.
func (r *Renderer) SetDrawBounds(draw bool) {
	r.optsLock.Lock()
	r.opts.Bounds = draw
	r.optsLock.Unlock()
}

// SetBounds replaces the bounding boxes drawn when Options.Bounds is set (see Bounds).
func (r *Renderer) SetBounds(boxes []sdf.Box3) {
	mesh := BoundsMesh(boxes)
	r.renderingLock.Lock()
	r.bounds = mesh
	r.renderingLock.Unlock()
}

// Busy reports whether a frame is being rasterized right now (waiting at most until ctx is done).
func (r *Renderer) Busy(ctx context.Context) bool {
	if r.renderingLock.RTryLock(ctx) {
		r.renderingLock.RUnlock()
		return false
	}
	return true
}

// Snapshot returns the last finished image and the index of its frame (nil before the first one).
// The image must not be modified.
func (r *Renderer) Snapshot() (*image.NRGBA, uint64) {
	r.latestLock.RLock()
	defer r.latestLock.RUnlock()
	return r.latest, r.latestIndex
}

func (r *Renderer) run() {
	defer r.workerWg.Done()
	for {
		select {
		case <-r.done:
			return
		case frame := <-r.mailbox:
			img := r.Draw(frame)
			r.latestLock.Lock()
			r.latest = img
			r.latestIndex = frame.Index
			r.latestLock.Unlock()
		}
	}
}

// Draw rasterizes frame synchronously and returns a new image of the frame size divided by ResInv.
func (r *Renderer) Draw(frame loop.Frame) *image.NRGBA {
	opts := r.Options()
	r.renderingLock.Lock()
	defer r.renderingLock.Unlock()

	width, height := max(frame.Width/opts.ResInv, 1), max(frame.Height/opts.ResInv, 1)
	if r.fauxglCtx == nil || r.fauxglCtx.Width != width || r.fauxglCtx.Height != height {
		// Rebuild rendering context only when needed
		r.fauxglCtx = fauxgl.NewContext(width, height)
		r.fauxglCtx.Cull = fauxgl.CullNone
	} else {
		r.fauxglCtx.ClearDepthBuffer()
	}
	r.fauxglCtx.ClearColorBufferWith(fauxgl.MakeColor(opts.Background))

	matrix := toFauxglMatrix(frame.ViewProjection)
	if opts.ColorMode == 0 {
		shader := fauxgl.NewPhongShader(matrix, toFauxglVector(opts.LightDir), toFauxglVector(frame.Eye))
		shader.ObjectColor = fauxgl.MakeColor(opts.Surface)
		r.fauxglCtx.Shader = shader
	} else {
		r.fauxglCtx.Shader = &normalShader{matrix}
	}
	r.fauxglCtx.Wireframe = opts.Wireframe
	r.fauxglCtx.DrawMesh(r.mesh) // Already multithreaded
	if opts.Bounds && r.bounds != nil {
		// Draw bounding boxes over the image
		r.fauxglCtx.Shader = fauxgl.NewSolidColorShader(matrix, fauxgl.MakeColor(opts.BoundsLine))
		r.fauxglCtx.Wireframe = true
		r.fauxglCtx.DrawMesh(r.bounds)
	}

	src := r.fauxglCtx.Image().(*image.NRGBA)
	img := image.NewNRGBA(src.Rect)
	copy(img.Pix, src.Pix)
	return img
}

func validateFrame(frame loop.Frame) error {
	if frame.Width <= 0 || frame.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidFrame, frame.Width, frame.Height)
	}
	for name, m := range map[string]mgl32.Mat4{"view": frame.View, "projection": frame.Projection, "view-projection": frame.ViewProjection} {
		for _, v := range m {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return fmt.Errorf("%w: non-finite %s matrix", ErrInvalidFrame, name)
			}
		}
	}
	return nil
}

// toFauxglMatrix converts a column-major mgl32 matrix to fauxgl's row-major one
func toFauxglMatrix(m mgl32.Mat4) fauxgl.Matrix {
	at := func(row, col int) float64 {
		return float64(m.At(row, col))
	}
	return fauxgl.Matrix{
		X00: at(0, 0), X01: at(0, 1), X02: at(0, 2), X03: at(0, 3),
		X10: at(1, 0), X11: at(1, 1), X12: at(1, 2), X13: at(1, 3),
		X20: at(2, 0), X21: at(2, 1), X22: at(2, 2), X23: at(2, 3),
		X30: at(3, 0), X31: at(3, 1), X32: at(3, 2), X33: at(3, 3),
	}
}

func toFauxglVector(v mgl32.Vec3) fauxgl.Vector {
	return fauxgl.Vector{X: float64(v.X()), Y: float64(v.Y()), Z: float64(v.Z())}
}

// normalShader colors surfaces by the absolute value of their normals
type normalShader struct {
	Matrix fauxgl.Matrix
}

func (shader *normalShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex {
	v.Output = shader.Matrix.MulPositionW(v.Position)
	return v
}

func (shader *normalShader) Fragment(v fauxgl.Vertex) fauxgl.Color {
	return fauxgl.MakeColor(color.RGBA{
		R: uint8(math.Abs(v.Normal.X) * 255),
		G: uint8(math.Abs(v.Normal.Y) * 255),
		B: uint8(math.Abs(v.Normal.Z) * 255),
		A: 255,
	})
}
