// Package learnvk opens a window that orbits a camera around an SDF solid. Hold the orbit modifier (left Alt by
// default) and drag to rotate or pan; scroll to zoom.
package learnvk

import (
	"context"
	"errors"
	"github.com/deadsy/sdfx/sdf"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/learnvk/learnvk/input"
	"github.com/learnvk/learnvk/internal/app"
	"github.com/learnvk/learnvk/internal/config"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
)

// App is a window showing one solid.
type App struct {
	solid      sdf.SDF3
	cfg        *config.Config
	configPath string
	session    *app.Session

	// Event polling state (ebiten reports levels, the loop wants edges)
	keys                     []ebiten.Key
	cursorX, cursorY         int
	layoutSize, reportedSize [2]int
	minimized                bool
	closeRequested           atomic.Bool
	cachedRender             *ebiten.Image
}

// Option configures an App.
type Option func(a *App)

// OptConfig uses cfg instead of reading a configuration file.
func OptConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.cfg = cfg
	}
}

// OptConfigFile reads the configuration from path instead of config.DefaultPath.
func OptConfigFile(path string) Option {
	return func(a *App) {
		a.configPath = path
	}
}

// NewApp prepares a window for solid. Nothing is opened until Run.
func NewApp(solid sdf.SDF3, opts ...Option) *App {
	a := &App{solid: solid}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run blocks until the window is closed (or the process is interrupted).
func (a *App) Run() error {
	if err := a.loadConfig(); err != nil {
		return err
	}
	session, err := app.NewSession(a.cfg, a.solid)
	if err != nil {
		return err
	}
	a.session = session
	defer session.Close()
	a.layoutSize = [2]int{a.cfg.Window.Width, a.cfg.Window.Height}
	a.reportedSize = a.layoutSize

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if a.cfg.Watch && a.configPath != "" {
		go func() {
			if err := session.WatchConfig(ctx, a.configPath); err != nil {
				log.Println("[LearnVK] Config hot reload disabled:", err)
			}
		}()
	}
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, signals()...)
	defer signal.Stop(signalCh)
	go func() {
		select {
		case <-ctx.Done():
		case sig := <-signalCh:
			log.Println("[LearnVK] Received", sig, "closing...")
			a.closeRequested.Store(true)
		}
	}()

	ebiten.SetWindowTitle(a.cfg.Window.Title)
	ebiten.SetWindowSize(a.cfg.Window.Width, a.cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetRunnableOnUnfocused(true)
	err = ebiten.RunGame(appEbitenGame{a})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (a *App) loadConfig() error {
	if a.cfg != nil {
		return a.cfg.Validate()
	}
	if a.configPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		a.configPath = path
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	log.Println("[LearnVK] Configuration:", a.configPath)
	a.cfg = cfg
	return nil
}

//-----------------------------------------------------------------------------
// KEY MAPPING
//-----------------------------------------------------------------------------

// ebitenKeys lists the only keys the loop hears about; anything else is dropped
var ebitenKeys = map[ebiten.Key]input.Key{
	ebiten.KeyAltLeft:      input.KeyAltLeft,
	ebiten.KeyAltRight:     input.KeyAltRight,
	ebiten.KeyShiftLeft:    input.KeyShiftLeft,
	ebiten.KeyShiftRight:   input.KeyShiftRight,
	ebiten.KeyControlLeft:  input.KeyControlLeft,
	ebiten.KeyControlRight: input.KeyControlRight,
	ebiten.KeyEscape:       input.KeyEscape,
	ebiten.KeyB:            input.KeyB,
	ebiten.KeyC:            input.KeyC,
	ebiten.KeyH:            input.KeyH,
	ebiten.KeyR:            input.KeyR,
	ebiten.KeyW:            input.KeyW,
}

var ebitenMouseButtons = map[ebiten.MouseButton]input.MouseButton{
	ebiten.MouseButtonLeft:   input.MouseButtonLeft,
	ebiten.MouseButtonRight:  input.MouseButtonRight,
	ebiten.MouseButtonMiddle: input.MouseButtonMiddle,
}
