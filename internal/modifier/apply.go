package modifier

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/overboard/internal/layout"
)

// Apply returns the value emitted when v is pressed with m active. The
// second result is false when the combination cancels the key, which means
// nothing is emitted.
//
// Modifiers apply in canonical order: accents, Fn, Shift, selection mode,
// Ctrl, Alt, Meta, Compose. With Empty, every value except a placeholder is
// returned unchanged.
func Apply(v layout.Value, m Modifiers) (layout.Value, bool) {
	switch v.Kind() {
	case layout.KindPlaceholder, layout.KindNone:
		return layout.Value{}, false
	case layout.KindModifier, layout.KindEvent:
		return v, true
	}

	for _, e := range m.entries {
		var ok bool
		v, ok = applyOne(v, e.value.Mod())
		if !ok {
			return layout.Value{}, false
		}
	}
	return v, true
}

func applyOne(v layout.Value, mod layout.Mod) (layout.Value, bool) {
	switch mod {
	case layout.ModGrave, layout.ModAcute, layout.ModCircumflex, layout.ModTilde, layout.ModTrema:
		return applyAccent(v, mod), true
	case layout.ModFn:
		return applyFn(v), true
	case layout.ModShift:
		return applyShift(v), true
	case layout.ModSelectionMode:
		return applySelection(v), true
	case layout.ModCtrl:
		return applyMeta(v, layout.MetaCtrl)
	case layout.ModAlt:
		return applyMeta(v, layout.MetaAlt)
	case layout.ModMeta:
		return applyMeta(v, layout.MetaMeta)
	case layout.ModCompose:
		return applyCompose(v), true
	default:
		return v, true
	}
}

var combiningMarks = map[layout.Mod]rune{
	layout.ModGrave:      '\u0300',
	layout.ModAcute:      '\u0301',
	layout.ModCircumflex: '\u0302',
	layout.ModTilde:      '\u0303',
	layout.ModTrema:      '\u0308',
}

// applyAccent composes a character with the accent's combining mark. Values
// with no precomposed form are left unchanged.
func applyAccent(v layout.Value, mod layout.Mod) layout.Value {
	if v.Kind() != layout.KindChar {
		return v
	}
	composed := norm.NFC.String(string([]rune{v.Char(), combiningMarks[mod]}))
	r, size := utf8.DecodeRuneInString(composed)
	if size != len(composed) || r == utf8.RuneError {
		return v
	}
	return v.WithChar(r)
}

var fnDigits = map[rune]layout.Keycode{
	'1': layout.KeycodeF1,
	'2': layout.KeycodeF2,
	'3': layout.KeycodeF3,
	'4': layout.KeycodeF4,
	'5': layout.KeycodeF5,
	'6': layout.KeycodeF6,
	'7': layout.KeycodeF7,
	'8': layout.KeycodeF8,
	'9': layout.KeycodeF9,
	'0': layout.KeycodeF10,
	'-': layout.KeycodeF11,
	'=': layout.KeycodeF12,
}

var fnKeys = map[layout.Keycode]layout.Keycode{
	layout.KeycodeLeft:  layout.KeycodeHome,
	layout.KeycodeRight: layout.KeycodeEnd,
	layout.KeycodeUp:    layout.KeycodePageUp,
	layout.KeycodeDown:  layout.KeycodePageDown,
}

func applyFn(v layout.Value) layout.Value {
	switch v.Kind() {
	case layout.KindChar:
		if code, ok := fnDigits[v.Char()]; ok {
			return v.WithKeycode(code).WithFlags(layout.FlagKeyFont)
		}
	case layout.KindKeyevent:
		if code, ok := fnKeys[v.Keycode()]; ok {
			return v.WithKeycode(code)
		}
	}
	return v
}

var upper = cases.Upper(language.Und)

func applyShift(v layout.Value) layout.Value {
	switch v.Kind() {
	case layout.KindChar:
		return v.WithChar(unicode.ToUpper(v.Char()))
	case layout.KindString:
		return v.WithString(upper.String(v.Str()))
	case layout.KindKeyevent:
		return v.WithMeta(layout.MetaShift)
	}
	return v
}

// applySelection extends navigation keys into selections.
func applySelection(v layout.Value) layout.Value {
	if v.Kind() == layout.KindKeyevent && v.Keycode().IsNavigationKey() {
		return v.WithMeta(layout.MetaShift)
	}
	return v
}

// applyMeta records a chord modifier on the value. A string longer than one
// rune cannot be chorded and cancels the key.
func applyMeta(v layout.Value, bit layout.MetaState) (layout.Value, bool) {
	switch v.Kind() {
	case layout.KindString:
		s := v.Str()
		if utf8.RuneCountInString(s) != 1 {
			return layout.Value{}, false
		}
		r, _ := utf8.DecodeRuneInString(s)
		return v.WithChar(r).WithMeta(bit), true
	case layout.KindChar, layout.KindKeyevent:
		return v.WithMeta(bit), true
	}
	return v, true
}

var composeTable = map[rune]rune{
	'a': 'æ', 'A': 'Æ',
	'o': 'ø', 'O': 'Ø',
	's': 'ß',
	'e': '€',
	'c': '©',
	'r': '®',
	't': '™',
	'd': '°',
	'!': '¡',
	'?': '¿',
	'<': '«',
	'>': '»',
	'-': '–',
	'.': '…',
}

// applyCompose replaces characters that have a composed form.
func applyCompose(v layout.Value) layout.Value {
	if v.Kind() != layout.KindChar {
		return v
	}
	if r, ok := composeTable[v.Char()]; ok {
		return v.WithChar(r)
	}
	return v
}
