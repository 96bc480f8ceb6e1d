package renderer

import (
	"math"

	"github.com/dshills/overboard/internal/geometry"
	"github.com/dshills/overboard/internal/layout"
	"github.com/dshills/overboard/internal/modifier"
	"github.com/dshills/overboard/internal/pointer"
	"github.com/dshills/overboard/internal/renderer/backend"
	"github.com/dshills/overboard/internal/renderer/core"
)

// Scale is the size of one terminal cell in keyboard pixels.
type Scale struct {
	X, Y float64
}

// DefaultScale fits three text rows in a default 45px keyboard row.
var DefaultScale = Scale{X: 10, Y: 15}

// ToPixels returns the pixel position of the centre of cell (col, row),
// with row counted from the top of the keyboard.
func (s Scale) ToPixels(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * s.X, (float64(row) + 0.5) * s.Y
}

// Width returns the pixel width of cols columns.
func (s Scale) Width(cols int) float64 {
	return float64(cols) * s.X
}

// Rect converts a pixel rectangle to cells, offset by top rows. Every
// non-empty rectangle covers at least one cell.
func (s Scale) Rect(r geometry.Rect, top int) core.ScreenRect {
	sr := core.ScreenRect{
		Left:   int(math.Round(r.Left / s.X)),
		Right:  int(math.Round(r.Right / s.X)),
		Top:    top + int(math.Round(r.Top/s.Y)),
		Bottom: top + int(math.Round(r.Bottom/s.Y)),
	}
	if sr.Right <= sr.Left {
		sr.Right = sr.Left + 1
	}
	if sr.Bottom <= sr.Top {
		sr.Bottom = sr.Top + 1
	}
	return sr
}

// State is the pointer state the keyboard is drawn from. *pointer.Tracker
// implements it.
type State interface {
	KeyFlags(v layout.Value) pointer.Flags
	IsKeyDown(k *layout.Key) bool
	Modifiers() modifier.Modifiers
}

// StateOf returns how k is drawn in s.
func StateOf(s State, k *layout.Key) KeyState {
	main := k.Main()
	if !main.IsModifier() {
		if s.IsKeyDown(k) {
			return StatePressed
		}
		return StateIdle
	}
	f := s.KeyFlags(main)
	switch {
	case f.Has(pointer.FlagLocked):
		return StateLocked
	case f.Has(pointer.FlagLatched):
		return StateLatched
	case f.Has(pointer.FlagHeld):
		return StatePressed
	}
	return StateIdle
}

// Keyboard draws a measured layout onto a backend.
type Keyboard struct {
	backend backend.Backend
	scale   Scale
	theme   Theme
}

// New creates a keyboard renderer.
func New(b backend.Backend, scale Scale, theme Theme) *Keyboard {
	return &Keyboard{backend: b, scale: scale, theme: theme}
}

// Scale returns the pixel scale.
func (k *Keyboard) Scale() Scale { return k.scale }

// Theme returns the colours in use.
func (k *Keyboard) Theme() Theme { return k.theme }

// SetTheme replaces the colours.
func (k *Keyboard) SetTheme(t Theme) { k.theme = t }

// Height returns the number of rows the keyboard of h occupies.
func (k *Keyboard) Height(h *geometry.HitTester) int {
	return int(math.Ceil(h.Metrics().Height / k.scale.Y))
}

// Draw paints every key of h with its top edge on row top. Show is left to
// the caller.
func (k *Keyboard) Draw(h *geometry.HitTester, s State, top int) {
	width, _ := k.backend.Size()
	bg := core.Cell{Rune: ' ', Style: core.DefaultStyle().WithBackground(k.theme.Background)}
	k.backend.Fill(core.NewScreenRect(top, 0, top+k.Height(h), width), bg)

	mods := s.Modifiers()
	h.Walk(func(b geometry.Box) bool {
		k.drawKey(b, StateOf(s, b.Key), mods, top)
		return true
	})
}

// slotPlaces lists where secondary values are drawn: a row (-1 top, 0
// middle, 1 bottom) and a column (-1 left, 0 centre, 1 right).
var slotPlaces = []struct {
	slot     layout.Slot
	row, col int
}{
	{layout.SlotNW, -1, -1},
	{layout.SlotN, -1, 0},
	{layout.SlotNE, -1, 1},
	{layout.SlotW, 0, -1},
	{layout.SlotE, 0, 1},
	{layout.SlotSW, 1, -1},
	{layout.SlotS, 1, 0},
	{layout.SlotSE, 1, 1},
}

func (k *Keyboard) drawKey(b geometry.Box, state KeyState, mods modifier.Modifiers, top int) {
	r := k.scale.Rect(b.Face, top)
	face := k.theme.Face(state)
	k.backend.Fill(r, core.Cell{Rune: ' ', Style: core.DefaultStyle().WithBackground(face)})

	mid := r.Top + r.Height()/2
	if r.Height() >= 3 && r.Width() >= 5 {
		small := core.DefaultStyle().
			WithForeground(k.theme.Secondary.Blend(face, 0.3)).
			WithBackground(face)
		for _, p := range slotPlaces {
			v, ok := b.Key.Value(p.slot)
			if !ok {
				continue
			}
			k.place(r, mid, p.row, p.col, Truncate(v.Label(), 1), small)
		}
		if _, ok := b.Key.Value(layout.SlotS); !ok && b.Key.Indication != "" {
			k.place(r, mid, 1, 0, Truncate(b.Key.Indication, r.Width()-2), small)
		}
	}

	main := b.Key.Main()
	style := k.labelStyle(main, face)
	if state == StateLocked {
		style = style.WithAttributes(core.AttrBold | core.AttrUnderline)
	}
	// Leave a column on each side for W and E.
	k.place(r, mid, 0, 0, Truncate(label(main, mods), max(r.Width()-2, 1)), style)
}

// place writes s inside r at the given row and column position.
func (k *Keyboard) place(r core.ScreenRect, mid, row, col int, s string, style core.Style) {
	if s == "" {
		return
	}
	y := mid
	switch row {
	case -1:
		y = r.Top
	case 1:
		y = r.Bottom - 1
	}
	w := Width(s)
	x := r.Left + (r.Width()-w)/2
	switch col {
	case -1:
		x = r.Left
	case 1:
		x = r.Right - w
	}
	DrawString(k.backend, x, y, s, style)
}

func (k *Keyboard) labelStyle(v layout.Value, face core.Color) core.Style {
	fg := k.theme.Label
	switch {
	case v.HasFlagsAny(layout.FlagGreyed):
		fg = fg.Blend(face, 0.5)
	case v.HasFlagsAny(layout.FlagSecondary):
		fg = k.theme.Secondary
	}
	return core.DefaultStyle().WithForeground(fg).WithBackground(face)
}

// label is what the key shows under mods: a shifted letter shows upper
// case. Modifier keys and cancelled combinations show their own label.
func label(v layout.Value, mods modifier.Modifiers) string {
	if v.IsModifier() || mods.IsEmpty() {
		return v.Label()
	}
	if eff, ok := modifier.Apply(v, mods); ok {
		return eff.Label()
	}
	return v.Label()
}
