package layout

// KeyBuilder assembles a Key slot by slot.
type KeyBuilder struct {
	key Key
}

// NewKey starts a key of width 1 with the given main value.
func NewKey(main Value) *KeyBuilder {
	b := &KeyBuilder{key: Key{Width: 1}}
	b.key.Slots[SlotMain] = main
	return b
}

// At sets the value of a swipe slot.
func (b *KeyBuilder) At(s Slot, v Value) *KeyBuilder {
	if int(s) < SlotCount {
		b.key.Slots[s] = v
	}
	return b
}

// Width sets the key width in key-width units.
func (b *KeyBuilder) Width(w float64) *KeyBuilder {
	b.key.Width = w
	return b
}

// Shift sets the gap left of the key.
func (b *KeyBuilder) Shift(s float64) *KeyBuilder {
	b.key.Shift = s
	return b
}

// Indication sets the small hint drawn under the main label.
func (b *KeyBuilder) Indication(s string) *KeyBuilder {
	b.key.Indication = s
	return b
}

// Build returns the finished key.
func (b *KeyBuilder) Build() *Key {
	k := b.key
	return &k
}

// NewRow returns a row of height 1.
func NewRow(keys ...*Key) *Row {
	return &Row{Keys: keys, Height: 1}
}

func char(r rune) Value { return MakeChar(r) }

func secondary(r rune) Value { return MakeChar(r).WithFlags(FlagSecondary) }

// QWERTY returns the built-in US QWERTY layout. Digits sit on the top-right
// swipe of the first row, symbols on the bottom-left, dead-key accents on
// the bottom-right of the vowels.
func QWERTY() *Layout {
	row1 := NewRow(
		NewKey(char('q')).At(SlotNE, secondary('1')).At(SlotSW, secondary('~')).At(SlotNW, Escape).Build(),
		NewKey(char('w')).At(SlotNE, secondary('2')).At(SlotSW, secondary('@')).Build(),
		NewKey(char('e')).At(SlotNE, secondary('3')).At(SlotSW, secondary('#')).At(SlotSE, Acute).Build(),
		NewKey(char('r')).At(SlotNE, secondary('4')).At(SlotSW, secondary('$')).Build(),
		NewKey(char('t')).At(SlotNE, secondary('5')).At(SlotSW, secondary('%')).Build(),
		NewKey(char('y')).At(SlotNE, secondary('6')).At(SlotSW, secondary('^')).Build(),
		NewKey(char('u')).At(SlotNE, secondary('7')).At(SlotSW, secondary('&')).At(SlotSE, Trema).Build(),
		NewKey(char('i')).At(SlotNE, secondary('8')).At(SlotSW, secondary('*')).At(SlotSE, Circumflex).Build(),
		NewKey(char('o')).At(SlotNE, secondary('9')).At(SlotSW, secondary('(')).At(SlotSE, secondary(')')).Build(),
		NewKey(char('p')).At(SlotNE, secondary('0')).At(SlotSW, secondary('-')).At(SlotSE, secondary('=')).Build(),
	)

	row2 := NewRow(
		NewKey(char('a')).Shift(0.5).At(SlotNW, Tab).At(SlotSE, Grave).Build(),
		NewKey(char('s')).At(SlotSW, secondary('\\')).At(SlotNE, secondary('|')).Build(),
		NewKey(char('d')).At(SlotSW, secondary('/')).Build(),
		NewKey(char('f')).At(SlotSW, secondary('[')).At(SlotSE, secondary(']')).Build(),
		NewKey(char('g')).At(SlotSW, secondary('{')).At(SlotSE, secondary('}')).Build(),
		NewKey(char('h')).At(SlotSW, secondary('<')).At(SlotSE, secondary('>')).Build(),
		NewKey(char('j')).At(SlotSW, secondary('+')).Build(),
		NewKey(char('k')).At(SlotSW, secondary('"')).Build(),
		NewKey(char('l')).At(SlotSW, secondary('\'')).At(SlotNE, secondary(';')).At(SlotSE, secondary(':')).Build(),
	)

	row3 := NewRow(
		NewKey(Shift).Width(1.5).At(SlotS, CapsLock).Build(),
		NewKey(char('z')).Build(),
		NewKey(char('x')).Build(),
		NewKey(char('c')).At(SlotNE, secondary('!')).Build(),
		NewKey(char('v')).Build(),
		NewKey(char('b')).At(SlotNE, secondary('?')).Build(),
		NewKey(char('n')).At(SlotSE, Tilde).Build(),
		NewKey(char('m')).Build(),
		NewKey(Backspace).Width(1.5).At(SlotNE, Delete).Build(),
	)

	row4 := NewRow(
		NewKey(Ctrl).Width(1.5).At(SlotN, Meta).At(SlotS, SelectionMode).Build(),
		NewKey(Fn).At(SlotN, Alt).Build(),
		NewKey(Compose).At(SlotN, ConfigEvent).At(SlotS, SwitchNumeric).Build(),
		NewKey(Space).Width(4).At(SlotW, Left).At(SlotE, Right).At(SlotN, Up).At(SlotS, Down).Build(),
		NewKey(char('.')).At(SlotN, char(',')).At(SlotNW, char('!')).At(SlotNE, char('?')).Build(),
		NewKey(Enter).Width(1.5).At(SlotN, Action).Build(),
	)

	return New("qwerty_us", row1, row2, row3, row4)
}
