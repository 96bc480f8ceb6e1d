package layout

import "fmt"

// Keycode identifies a non-character key sent to the host as a key event.
type Keycode uint16

const (
	// KeycodeNone represents no key.
	KeycodeNone Keycode = iota

	KeycodeEscape
	KeycodeEnter
	KeycodeTab
	KeycodeBackspace
	KeycodeDelete
	KeycodeInsert
	KeycodeHome
	KeycodeEnd
	KeycodePageUp
	KeycodePageDown

	// Arrow keys
	KeycodeUp
	KeycodeDown
	KeycodeLeft
	KeycodeRight

	// Function keys
	KeycodeF1
	KeycodeF2
	KeycodeF3
	KeycodeF4
	KeycodeF5
	KeycodeF6
	KeycodeF7
	KeycodeF8
	KeycodeF9
	KeycodeF10
	KeycodeF11
	KeycodeF12
)

var keycodeNames = map[Keycode]string{
	KeycodeNone:      "None",
	KeycodeEscape:    "Escape",
	KeycodeEnter:     "Enter",
	KeycodeTab:       "Tab",
	KeycodeBackspace: "Backspace",
	KeycodeDelete:    "Delete",
	KeycodeInsert:    "Insert",
	KeycodeHome:      "Home",
	KeycodeEnd:       "End",
	KeycodePageUp:    "PageUp",
	KeycodePageDown:  "PageDown",
	KeycodeUp:        "Up",
	KeycodeDown:      "Down",
	KeycodeLeft:      "Left",
	KeycodeRight:     "Right",
}

// String returns a human-readable name for the keycode.
func (k Keycode) String() string {
	if k.IsFunctionKey() {
		return fmt.Sprintf("F%d", int(k-KeycodeF1)+1)
	}
	if name, ok := keycodeNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Keycode(%d)", k)
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (k Keycode) IsFunctionKey() bool {
	return k >= KeycodeF1 && k <= KeycodeF12
}

// IsArrowKey returns true if this is an arrow key.
func (k Keycode) IsArrowKey() bool {
	return k >= KeycodeUp && k <= KeycodeRight
}

// IsNavigationKey returns true if this is a navigation key.
func (k Keycode) IsNavigationKey() bool {
	return k.IsArrowKey() || k == KeycodeHome || k == KeycodeEnd ||
		k == KeycodePageUp || k == KeycodePageDown
}

// FunctionKey returns the keycode for F<n>, or KeycodeNone when n is out of
// the 1..12 range.
func FunctionKey(n int) Keycode {
	if n < 1 || n > 12 {
		return KeycodeNone
	}
	return KeycodeF1 + Keycode(n-1)
}
