package app

import (
	"fmt"
	"github.com/go-gl/mathgl/mgl32"
	"strings"
)

// HelpText returns the HUD contents: the current state and the controls. It is empty while help is hidden.
func (s *Session) HelpText(tps float64) string {
	if !s.showHelp {
		return ""
	}
	cam := s.loop.Camera()
	b := cam.Bindings()
	opts := s.renderer.Options()
	lines := []string{
		"Orbit camera",
		"============",
		fmt.Sprintf("TPS: %0.2f", tps),
		fmt.Sprintf("Frames: %d", s.loop.Frames()),
		fmt.Sprintf("Resolution: 1/%d", opts.ResInv),
		fmt.Sprintf("Distance: %.2f", cam.Distance()),
		fmt.Sprintf("Pitch: %.1fº Yaw: %.1fº", mgl32.RadToDeg(cam.Pitch()), mgl32.RadToDeg(cam.Yaw())),
		fmt.Sprintf("Color: %d [%s]", opts.ColorMode, colorKey),
		fmt.Sprintf("Wireframe: %t [%s]", opts.Wireframe, wireframeKey),
		fmt.Sprintf("Boxes: %t [%s]", opts.Bounds, boundsKey),
		fmt.Sprintf("Reset camera [%s]", s.cfg.Camera.ResetKey),
		fmt.Sprintf("Rotate cam [%s+%sMouse]", b.Modifier, b.Rotate),
		fmt.Sprintf("Translate cam [%s+%sMouse]", b.Modifier, b.Pan),
		"Zoom cam [MouseWheel]",
		fmt.Sprintf("Hide help [%s]", helpKey),
	}
	return strings.Join(lines, "\n")
}
