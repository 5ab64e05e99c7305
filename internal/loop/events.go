package loop

import (
	"github.com/learnvk/learnvk/input"
)

// Event is a platform event already translated to the module's key and button identifiers.
type Event interface {
	isEvent()
}

type KeyEvent struct {
	Key     input.Key
	Pressed bool
}

type MouseButtonEvent struct {
	Button  input.MouseButton
	Pressed bool
}

// CursorMovedEvent carries the absolute cursor position in window pixels.
type CursorMovedEvent struct {
	X, Y float32
}

// ScrollEvent carries wheel movement in lines. Only DY is used.
type ScrollEvent struct {
	DX, DY float32
}

// ResizeEvent reports the new framebuffer size. A zero area means the window was minimized.
type ResizeEvent struct {
	Width, Height int
}

// CloseEvent asks the loop to shut down.
type CloseEvent struct{}

func (KeyEvent) isEvent()         {}
func (MouseButtonEvent) isEvent() {}
func (CursorMovedEvent) isEvent() {}
func (ScrollEvent) isEvent()      {}
func (ResizeEvent) isEvent()      {}
func (CloseEvent) isEvent()       {}
