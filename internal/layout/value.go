package layout

import "fmt"

// Kind tags the payload carried by a Value.
type Kind uint8

const (
	// KindNone marks an empty slot.
	KindNone Kind = iota
	// KindChar carries a single rune.
	KindChar
	// KindString carries a string inserted as a whole.
	KindString
	// KindKeyevent carries a Keycode sent as a key event.
	KindKeyevent
	// KindEvent carries a keyboard-level Event.
	KindEvent
	// KindModifier carries a Mod.
	KindModifier
	// KindPlaceholder reserves a slot that never emits anything.
	KindPlaceholder
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindKeyevent:
		return "keyevent"
	case KindEvent:
		return "event"
	case KindModifier:
		return "modifier"
	case KindPlaceholder:
		return "placeholder"
	default:
		return "none"
	}
}

// Flags are rendering and behaviour hints attached to a Value.
type Flags uint16

const (
	// FlagSecondary renders the label with the secondary colour.
	FlagSecondary Flags = 1 << iota
	// FlagGreyed renders the label greyed out.
	FlagGreyed
	// FlagSmallerFont renders the label with a smaller font.
	FlagSmallerFont
	// FlagKeyFont renders the label with the special symbol font.
	FlagKeyFont
	// FlagLatch marks a modifier that latches when tapped.
	FlagLatch
	// FlagLock marks a modifier that locks on the first tap.
	FlagLock
)

// Mod identifies a modifier. The numeric order is the canonical order used
// when modifiers are folded and applied.
type Mod uint8

const (
	ModNone Mod = iota
	ModGrave
	ModAcute
	ModCircumflex
	ModTilde
	ModTrema
	ModFn
	ModShift
	ModSelectionMode
	ModCtrl
	ModAlt
	ModMeta
	ModCompose
)

// IsAccent returns true for dead-key accent modifiers.
func (m Mod) IsAccent() bool {
	return m >= ModGrave && m <= ModTrema
}

// String returns the modifier name.
func (m Mod) String() string {
	switch m {
	case ModGrave:
		return "grave"
	case ModAcute:
		return "acute"
	case ModCircumflex:
		return "circumflex"
	case ModTilde:
		return "tilde"
	case ModTrema:
		return "trema"
	case ModFn:
		return "fn"
	case ModShift:
		return "shift"
	case ModSelectionMode:
		return "selection_mode"
	case ModCtrl:
		return "ctrl"
	case ModAlt:
		return "alt"
	case ModMeta:
		return "meta"
	case ModCompose:
		return "compose"
	default:
		return "none"
	}
}

// ParseMod returns the modifier named s, as produced by Mod.String.
func ParseMod(s string) (Mod, bool) {
	for m := ModGrave; m <= ModCompose; m++ {
		if m.String() == s {
			return m, true
		}
	}
	return ModNone, false
}

// Event is a keyboard-level action handled by the host.
type Event uint8

const (
	EventNone Event = iota
	EventConfig
	EventSwitchText
	EventSwitchNumeric
	EventSwitchEmoji
	EventSwitchBack
	EventChangeMethod
	EventAction
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventConfig:
		return "config"
	case EventSwitchText:
		return "switch_text"
	case EventSwitchNumeric:
		return "switch_numeric"
	case EventSwitchEmoji:
		return "switch_emoji"
	case EventSwitchBack:
		return "switch_back"
	case EventChangeMethod:
		return "change_method"
	case EventAction:
		return "action"
	default:
		return "none"
	}
}

// Value is one of the up to nine values a key carries. It is an immutable,
// comparable tagged variant: the payload accessor that matches Kind is the
// only meaningful one.
type Value struct {
	kind  Kind
	char  rune
	str   string
	code  Keycode
	event Event
	mod   Mod
	flags Flags
	meta  MetaState
}

// MakeChar returns a character value.
func MakeChar(r rune) Value {
	return Value{kind: KindChar, char: r}
}

// MakeString returns a string value.
func MakeString(s string) Value {
	return Value{kind: KindString, str: s}
}

// MakeKeyevent returns a key event value.
func MakeKeyevent(code Keycode) Value {
	return Value{kind: KindKeyevent, code: code, flags: FlagKeyFont}
}

// MakeEvent returns a keyboard event value.
func MakeEvent(e Event) Value {
	return Value{kind: KindEvent, event: e, flags: FlagKeyFont}
}

// MakeModifier returns a latchable modifier value.
func MakeModifier(m Mod) Value {
	return Value{kind: KindModifier, mod: m, flags: FlagLatch}
}

// Placeholder returns a value that occupies a slot and never emits.
func Placeholder() Value {
	return Value{kind: KindPlaceholder}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsZero returns true for an empty slot.
func (v Value) IsZero() bool { return v.kind == KindNone }

// IsModifier returns true if the value is a modifier.
func (v Value) IsModifier() bool { return v.kind == KindModifier }

// Char returns the rune of a KindChar value.
func (v Value) Char() rune { return v.char }

// Str returns the string of a KindString value.
func (v Value) Str() string { return v.str }

// Keycode returns the keycode of a KindKeyevent value.
func (v Value) Keycode() Keycode { return v.code }

// Event returns the event of a KindEvent value.
func (v Value) Event() Event { return v.event }

// Mod returns the modifier of a KindModifier value.
func (v Value) Mod() Mod { return v.mod }

// Flags returns the value's flags.
func (v Value) Flags() Flags { return v.flags }

// Meta returns the meta state applied to the value.
func (v Value) Meta() MetaState { return v.meta }

// HasFlagsAny returns true if any of the given flags are set.
func (v Value) HasFlagsAny(f Flags) bool { return v.flags&f != 0 }

// WithFlags returns a copy with the given flags added.
func (v Value) WithFlags(f Flags) Value {
	v.flags |= f
	return v
}

// WithoutFlags returns a copy with the given flags removed.
func (v Value) WithoutFlags(f Flags) Value {
	v.flags &^= f
	return v
}

// WithMeta returns a copy with the given meta bits added.
func (v Value) WithMeta(m MetaState) Value {
	v.meta |= m
	return v
}

// WithChar returns a KindChar copy carrying r, keeping flags and meta.
func (v Value) WithChar(r rune) Value {
	v.kind = KindChar
	v.char = r
	v.str = ""
	return v
}

// WithString returns a KindString copy carrying s, keeping flags and meta.
func (v Value) WithString(s string) Value {
	v.kind = KindString
	v.str = s
	v.char = 0
	return v
}

// WithKeycode returns a KindKeyevent copy carrying code, keeping flags and
// meta.
func (v Value) WithKeycode(code Keycode) Value {
	v.kind = KindKeyevent
	v.code = code
	v.char = 0
	v.str = ""
	return v
}

// Identity returns the value with flags and meta stripped. Two values with
// the same identity denote the same key action.
func (v Value) Identity() Value {
	v.flags = 0
	v.meta = MetaNone
	return v
}

// SameAs reports whether v and o share an identity.
func (v Value) SameAs(o Value) bool {
	return v.Identity() == o.Identity()
}

// Label returns the text drawn on a key for this value.
func (v Value) Label() string {
	switch v.kind {
	case KindChar:
		return string(v.char)
	case KindString:
		return v.str
	case KindKeyevent:
		if l, ok := keycodeLabels[v.code]; ok {
			return l
		}
		return v.code.String()
	case KindEvent:
		if l, ok := eventLabels[v.event]; ok {
			return l
		}
		return v.event.String()
	case KindModifier:
		if l, ok := modLabels[v.mod]; ok {
			return l
		}
		return v.mod.String()
	default:
		return ""
	}
}

// String returns a debug representation of the value.
func (v Value) String() string {
	var body string
	switch v.kind {
	case KindChar:
		body = fmt.Sprintf("char %q", v.char)
	case KindString:
		body = fmt.Sprintf("string %q", v.str)
	case KindKeyevent:
		body = "keyevent " + v.code.String()
	case KindEvent:
		body = "event " + v.event.String()
	case KindModifier:
		body = "modifier " + v.mod.String()
	case KindPlaceholder:
		body = "placeholder"
	default:
		return "none"
	}
	if !v.meta.IsEmpty() {
		body += " [" + v.meta.String() + "]"
	}
	return body
}

var keycodeLabels = map[Keycode]string{
	KeycodeEscape:    "Esc",
	KeycodeEnter:     "⏎",
	KeycodeTab:       "⇥",
	KeycodeBackspace: "⌫",
	KeycodeDelete:    "⌦",
	KeycodeInsert:    "Ins",
	KeycodeHome:      "⇱",
	KeycodeEnd:       "⇲",
	KeycodePageUp:    "⇞",
	KeycodePageDown:  "⇟",
	KeycodeUp:        "↑",
	KeycodeDown:      "↓",
	KeycodeLeft:      "←",
	KeycodeRight:     "→",
}

var eventLabels = map[Event]string{
	EventConfig:        "⚙",
	EventSwitchText:    "ABC",
	EventSwitchNumeric: "123",
	EventSwitchEmoji:   "☺",
	EventSwitchBack:    "◀",
	EventChangeMethod:  "🌐",
	EventAction:        "Act",
}

var modLabels = map[Mod]string{
	ModGrave:         "`",
	ModAcute:         "´",
	ModCircumflex:    "^",
	ModTilde:         "~",
	ModTrema:         "¨",
	ModFn:            "Fn",
	ModShift:         "⇧",
	ModSelectionMode: "Sel",
	ModCtrl:          "Ctrl",
	ModAlt:           "Alt",
	ModMeta:          "Meta",
	ModCompose:       "◌",
}

// Named values used by the built-in layouts and by programmatic callers.
var (
	Shift         = MakeModifier(ModShift)
	Ctrl          = MakeModifier(ModCtrl)
	Alt           = MakeModifier(ModAlt)
	Meta          = MakeModifier(ModMeta)
	Fn            = MakeModifier(ModFn)
	Compose       = MakeModifier(ModCompose)
	SelectionMode = MakeModifier(ModSelectionMode)
	CapsLock      = MakeModifier(ModShift).WithFlags(FlagLock)

	Grave      = MakeModifier(ModGrave)
	Acute      = MakeModifier(ModAcute)
	Circumflex = MakeModifier(ModCircumflex)
	Tilde      = MakeModifier(ModTilde)
	Trema      = MakeModifier(ModTrema)

	Enter     = MakeKeyevent(KeycodeEnter)
	Escape    = MakeKeyevent(KeycodeEscape)
	Tab       = MakeKeyevent(KeycodeTab)
	Backspace = MakeKeyevent(KeycodeBackspace)
	Delete    = MakeKeyevent(KeycodeDelete)
	Left      = MakeKeyevent(KeycodeLeft)
	Right     = MakeKeyevent(KeycodeRight)
	Up        = MakeKeyevent(KeycodeUp)
	Down      = MakeKeyevent(KeycodeDown)

	Space = MakeChar(' ')

	SwitchNumeric = MakeEvent(EventSwitchNumeric)
	SwitchText    = MakeEvent(EventSwitchText)
	ConfigEvent   = MakeEvent(EventConfig)
	Action        = MakeEvent(EventAction)
)
