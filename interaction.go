package learnvk

import (
	"context"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/learnvk/learnvk/internal/loop"
	"golang.org/x/image/font/basicfont"
	"image/color"
	"time"
)

var defaultFont = basicfont.Face7x13

// pollEvents translates this tick's ebiten input into loop events, in the order they should be applied
func (a *App) pollEvents() []loop.Event {
	var events []loop.Event
	if ebiten.IsWindowBeingClosed() || a.closeRequested.Load() {
		return append(events, loop.CloseEvent{})
	}

	// Window size: minimized windows report a zero area
	minimized := ebiten.IsWindowMinimized()
	if minimized && !a.minimized {
		events = append(events, loop.ResizeEvent{})
	} else if !minimized && (a.minimized || a.layoutSize != a.reportedSize) {
		events = append(events, loop.ResizeEvent{Width: a.layoutSize[0], Height: a.layoutSize[1]})
		a.reportedSize = a.layoutSize
	}
	a.minimized = minimized

	// Keys (unmapped ones are dropped)
	a.keys = inpututil.AppendJustPressedKeys(a.keys[:0])
	for _, k := range a.keys {
		if key, ok := ebitenKeys[k]; ok {
			events = append(events, loop.KeyEvent{Key: key, Pressed: true})
		}
	}
	a.keys = inpututil.AppendJustReleasedKeys(a.keys[:0])
	for _, k := range a.keys {
		if key, ok := ebitenKeys[k]; ok {
			events = append(events, loop.KeyEvent{Key: key, Pressed: false})
		}
	}

	// Mouse
	for b, button := range ebitenMouseButtons {
		if inpututil.IsMouseButtonJustPressed(b) {
			events = append(events, loop.MouseButtonEvent{Button: button, Pressed: true})
		} else if inpututil.IsMouseButtonJustReleased(b) {
			events = append(events, loop.MouseButtonEvent{Button: button, Pressed: false})
		}
	}
	if cx, cy := ebiten.CursorPosition(); cx != a.cursorX || cy != a.cursorY {
		a.cursorX, a.cursorY = cx, cy
		events = append(events, loop.CursorMovedEvent{X: float32(cx), Y: float32(cy)})
	}
	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		events = append(events, loop.ScrollEvent{DX: float32(dx), DY: float32(dy)})
	}
	return events
}

// drawScene stretches the latest rendered frame over the screen
func (a *App) drawScene(screen *ebiten.Image) {
	img, _ := a.session.Renderer().Snapshot()
	if img == nil {
		return // First frame still rendering
	}
	size := img.Rect.Size()
	if a.cachedRender == nil || a.cachedRender.Bounds().Size() != size {
		if a.cachedRender != nil {
			a.cachedRender.Deallocate()
		}
		a.cachedRender = ebiten.NewImage(size.X, size.Y)
	}
	a.cachedRender.WritePixels(img.Pix) // Fully opaque: no premultiplication needed
	screenSize := screen.Bounds().Size()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(screenSize.X)/float64(size.X), float64(screenSize.Y)/float64(size.Y))
	screen.DrawImage(a.cachedRender, op)
}

func (a *App) drawUI(screen *ebiten.Image) {
	// Notify when rendering
	ctx, cancelFunc := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancelFunc()
	if a.session.Renderer().Busy(ctx) {
		drawDefaultTextWithShadow(screen, "Rendering...", 5, 5+12, color.RGBA{R: 255, A: 255})
	}

	// Draw current state and controls
	msg := a.session.HelpText(ebiten.ActualTPS())
	if msg == "" {
		return
	}
	boundString := text.BoundString(defaultFont, msg)
	drawDefaultTextWithShadow(screen, msg, 5, screen.Bounds().Dy()-boundString.Dy()+10, color.RGBA{G: 255, A: 255})
}

func drawDefaultTextWithShadow(screen *ebiten.Image, msg string, x, y int, c color.Color) {
	text.Draw(screen, msg, defaultFont, x+1, y+1, color.RGBA{A: 255})
	text.Draw(screen, msg, defaultFont, x, y, c)
}
