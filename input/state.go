// Package input tracks the keyboard, mouse button and cursor state reported by the platform event loop.
package input

// State is the last known state of keys, mouse buttons and the cursor.
// Anything never recorded reads as released. It is owned by the event loop and is not safe for concurrent use.
type State struct {
	keys    map[Key]bool
	buttons map[MouseButton]bool
	cursorX float32
	cursorY float32
}

// NewState returns an empty State (everything released, cursor at the origin).
func NewState() *State {
	return &State{
		keys:    map[Key]bool{},
		buttons: map[MouseButton]bool{},
	}
}

// SetKeyState records whether key is pressed. KeyUnknown is ignored.
func (s *State) SetKeyState(key Key, pressed bool) {
	if key == KeyUnknown {
		return
	}
	s.keys[key] = pressed
}

// IsKeyPressed reports whether key was last seen pressed.
func (s *State) IsKeyPressed(key Key) bool {
	return s.keys[key]
}

// SetMouseButtonState records whether button is pressed. MouseButtonUnknown is ignored.
func (s *State) SetMouseButtonState(button MouseButton, pressed bool) {
	if button == MouseButtonUnknown {
		return
	}
	s.buttons[button] = pressed
}

// IsMouseButtonPressed reports whether button was last seen pressed.
func (s *State) IsMouseButtonPressed(button MouseButton) bool {
	return s.buttons[button]
}

// SetCursorPosition stores the cursor position in window pixels.
func (s *State) SetCursorPosition(x, y float32) {
	s.cursorX, s.cursorY = x, y
}

// CursorPosition returns the last stored cursor position.
func (s *State) CursorPosition() (x, y float32) {
	return s.cursorX, s.cursorY
}
