package learnvk

import (
	"errors"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/learnvk/learnvk/internal/loop"
)

// appEbitenGame hides the private ebiten implementation while behaving like an *App internally
type appEbitenGame struct {
	*App
}

func (a appEbitenGame) Update() error {
	for _, ev := range a.pollEvents() {
		a.session.Handle(ev)
	}
	err := a.session.Tick()
	if errors.Is(err, loop.ErrClosed) {
		return ebiten.Termination
	}
	return err
}

func (a appEbitenGame) Draw(screen *ebiten.Image) {
	a.drawScene(screen)
	a.drawUI(screen)
}

func (a appEbitenGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	// Layout runs before Update: the size change reaches the loop on the next poll
	if outsideWidth > 0 && outsideHeight > 0 {
		a.layoutSize = [2]int{outsideWidth, outsideHeight}
	}
	return outsideWidth, outsideHeight // Use all available pixels, no re-scaling (unless res_inv is set)
}
