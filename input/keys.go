package input

import (
	"fmt"
	"strings"
)

// Key identifies a keyboard key. Only the keys the application reacts to are listed: platform codes without a
// Key are dropped before they reach a State.
type Key int

const (
	KeyUnknown Key = iota
	KeyAltLeft
	KeyAltRight
	KeyShiftLeft
	KeyShiftRight
	KeyControlLeft
	KeyControlRight
	KeyEscape
	KeyB
	KeyC
	KeyH
	KeyR
	KeyW
	keyCount
)

var keyNames = [keyCount]string{
	KeyUnknown:      "Unknown",
	KeyAltLeft:      "AltLeft",
	KeyAltRight:     "AltRight",
	KeyShiftLeft:    "ShiftLeft",
	KeyShiftRight:   "ShiftRight",
	KeyControlLeft:  "ControlLeft",
	KeyControlRight: "ControlRight",
	KeyEscape:       "Escape",
	KeyB:            "B",
	KeyC:            "C",
	KeyH:            "H",
	KeyR:            "R",
	KeyW:            "W",
}

func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// ParseKey returns the Key with the given name (case-insensitive).
func ParseKey(name string) (Key, error) {
	for k := KeyUnknown + 1; k < keyCount; k++ {
		if strings.EqualFold(keyNames[k], name) {
			return k, nil
		}
	}
	return KeyUnknown, fmt.Errorf("unknown key %q", name)
}

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseButtonUnknown MouseButton = iota
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
	mouseButtonCount
)

var mouseButtonNames = [mouseButtonCount]string{
	MouseButtonUnknown: "Unknown",
	MouseButtonLeft:    "Left",
	MouseButtonRight:   "Right",
	MouseButtonMiddle:  "Middle",
}

func (b MouseButton) String() string {
	if b < 0 || b >= mouseButtonCount {
		return fmt.Sprintf("MouseButton(%d)", int(b))
	}
	return mouseButtonNames[b]
}

// ParseMouseButton returns the MouseButton with the given name (case-insensitive).
func ParseMouseButton(name string) (MouseButton, error) {
	for b := MouseButtonUnknown + 1; b < mouseButtonCount; b++ {
		if strings.EqualFold(mouseButtonNames[b], name) {
			return b, nil
		}
	}
	return MouseButtonUnknown, fmt.Errorf("unknown mouse button %q", name)
}
