// Package layout holds the immutable keyboard geometry: rows of keys, each
// key carrying up to nine values (one main value and eight swipe values).
//
// A Layout is shared read-only by every pointer and by the renderer. Keys are
// compared by address, so a *Key is the identity of a key on the keyboard.
package layout

// Slot indexes the nine values of a key. Slot 0 is the main value; slots 1 to
// 8 are reached by swiping. The slot numbering matches the label positions
// drawn on the key face.
type Slot uint8

const (
	SlotMain Slot = iota
	SlotNW
	SlotNE
	SlotSW
	SlotSE
	SlotW
	SlotE
	SlotN
	SlotS

	// SlotCount is the number of value slots on a key.
	SlotCount = 9
)

// String returns the compass name of the slot.
func (s Slot) String() string {
	switch s {
	case SlotMain:
		return "main"
	case SlotNW:
		return "nw"
	case SlotNE:
		return "ne"
	case SlotSW:
		return "sw"
	case SlotSE:
		return "se"
	case SlotW:
		return "w"
	case SlotE:
		return "e"
	case SlotN:
		return "n"
	case SlotS:
		return "s"
	default:
		return "invalid"
	}
}

// Key is a single key. Width and Shift are in key-width units; Shift is the
// empty gap left of the key.
type Key struct {
	Slots      [SlotCount]Value
	Width      float64
	Shift      float64
	Indication string
}

// EmptyKey is the key bound to injected pointers that have no visible key,
// such as the selection-mode modifier.
var EmptyKey = &Key{}

// Main returns the key's main value.
func (k *Key) Main() Value {
	return k.Slots[SlotMain]
}

// Value returns the value in slot s and whether the slot is set.
func (k *Key) Value(s Slot) (Value, bool) {
	if k == nil || int(s) >= SlotCount {
		return Value{}, false
	}
	v := k.Slots[s]
	return v, !v.IsZero()
}

// HasValue reports whether any slot of the key holds a value with the
// identity of v.
func (k *Key) HasValue(v Value) bool {
	if k == nil {
		return false
	}
	id := v.Identity()
	for _, kv := range k.Slots {
		if !kv.IsZero() && kv.Identity() == id {
			return true
		}
	}
	return false
}

// Row is an ordered sequence of keys. Height and Shift are in row-height
// units; Shift is the empty band above the row.
type Row struct {
	Keys   []*Key
	Height float64
	Shift  float64
}

// Width returns the total width of the row in key-width units.
func (r *Row) Width() float64 {
	var w float64
	for _, k := range r.Keys {
		w += k.Shift + k.Width
	}
	return w
}

// Layout is an immutable keyboard: rows of keys plus the derived total size.
type Layout struct {
	Name string
	Rows []*Row

	// KeysWidth is the width of the widest row in key-width units.
	KeysWidth float64

	// KeysHeight is the summed height of all rows in row-height units.
	KeysHeight float64
}

// New builds a layout and computes its dimensions.
func New(name string, rows ...*Row) *Layout {
	l := &Layout{Name: name, Rows: rows}
	for _, r := range rows {
		if w := r.Width(); w > l.KeysWidth {
			l.KeysWidth = w
		}
		l.KeysHeight += r.Shift + r.Height
	}
	return l
}

// FindKeyWithValue returns the first key holding a value with the identity
// of v, or nil.
func (l *Layout) FindKeyWithValue(v Value) *Key {
	if l == nil {
		return nil
	}
	for _, r := range l.Rows {
		for _, k := range r.Keys {
			if k.HasValue(v) {
				return k
			}
		}
	}
	return nil
}

// Contains reports whether k is one of the layout's keys.
func (l *Layout) Contains(k *Key) bool {
	if l == nil || k == nil {
		return false
	}
	for _, r := range l.Rows {
		for _, rk := range r.Keys {
			if rk == k {
				return true
			}
		}
	}
	return false
}

// Locate returns the row and index of k in the layout.
func (l *Layout) Locate(k *Key) (row, index int, ok bool) {
	if l == nil || k == nil {
		return 0, 0, false
	}
	for i, r := range l.Rows {
		for j, rk := range r.Keys {
			if rk == k {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// KeyAt returns the key at row and index, or nil when out of range.
func (l *Layout) KeyAt(row, index int) *Key {
	if l == nil || row < 0 || row >= len(l.Rows) {
		return nil
	}
	keys := l.Rows[row].Keys
	if index < 0 || index >= len(keys) {
		return nil
	}
	return keys[index]
}
