// Package core provides the cell, style and colour types shared by the
// renderer and its backends.
package core

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Attribute represents text attributes (bold, dim, ...).
type Attribute uint8

// Text attribute flags.
const (
	AttrNone Attribute = 0
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrUnderline
	AttrReverse
)

// Has returns true if the attribute set contains attr.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Color is a true colour, or the terminal's default colour.
type Color struct {
	c   colorful.Color
	set bool
}

// ColorDefault is the terminal's default colour.
var ColorDefault = Color{}

// ColorFromRGB creates a colour from 8-bit components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{
		c:   colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255},
		set: true,
	}
}

// ColorFromHex parses "#rgb" or "#rrggbb".
func ColorFromHex(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return Color{c: c, set: true}, nil
}

// IsDefault reports whether c is the default colour.
func (c Color) IsDefault() bool { return !c.set }

// RGB returns the 8-bit components. The default colour is black.
func (c Color) RGB() (r, g, b uint8) {
	return c.c.Clamped().RGB255()
}

// Hex returns "#rrggbb", or "default".
func (c Color) Hex() string {
	if !c.set {
		return "default"
	}
	return c.c.Clamped().Hex()
}

func (c Color) String() string { return c.Hex() }

// Blend mixes c towards other in CIE L*a*b*; t=0 is c, t=1 is other. A
// default colour on either side yields the other side unchanged.
func (c Color) Blend(other Color, t float64) Color {
	switch {
	case !c.set:
		return other
	case !other.set:
		return c
	}
	return Color{c: c.c.BlendLab(other.c, t).Clamped(), set: true}
}

// Lighten raises the lightness by amount in [0, 1].
func (c Color) Lighten(amount float64) Color {
	if !c.set {
		return c
	}
	h, ch, l := c.c.Hcl()
	return Color{c: colorful.Hcl(h, ch, min(1, l+amount)).Clamped(), set: true}
}

// Equals reports whether the colours render identically.
func (c Color) Equals(o Color) bool {
	if c.set != o.set {
		return false
	}
	return c.Hex() == o.Hex()
}

// Style is a foreground, background and attribute combination.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle uses the terminal's colours.
func DefaultStyle() Style { return Style{} }

// WithForeground returns a copy with fg.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a copy with bg.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// WithAttributes returns a copy with attrs added.
func (s Style) WithAttributes(attrs Attribute) Style {
	s.Attributes |= attrs
	return s
}

// Equals reports whether two styles render identically.
func (s Style) Equals(o Style) bool {
	return s.Foreground.Equals(o.Foreground) &&
		s.Background.Equals(o.Background) &&
		s.Attributes == o.Attributes
}

// Cell is one screen cell: a grapheme cluster and its style.
type Cell struct {
	Rune      rune
	Combining []rune
	Style     Style
}

// EmptyCell is a space in the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' '}
}

// NewStyledCell creates a cell holding r.
func NewStyledCell(r rune, s Style) Cell {
	return Cell{Rune: r, Style: s}
}

// Equals reports whether two cells render identically.
func (c Cell) Equals(o Cell) bool {
	if c.Rune != o.Rune || len(c.Combining) != len(o.Combining) || !c.Style.Equals(o.Style) {
		return false
	}
	for i := range c.Combining {
		if c.Combining[i] != o.Combining[i] {
			return false
		}
	}
	return true
}

// ScreenRect is a rectangle of cells; Right and Bottom are exclusive.
type ScreenRect struct {
	Top, Left, Bottom, Right int
}

// NewScreenRect creates a rectangle.
func NewScreenRect(top, left, bottom, right int) ScreenRect {
	return ScreenRect{Top: top, Left: left, Bottom: bottom, Right: right}
}

// Width returns the number of columns.
func (r ScreenRect) Width() int { return r.Right - r.Left }

// Height returns the number of rows.
func (r ScreenRect) Height() int { return r.Bottom - r.Top }

// IsEmpty reports whether the rectangle covers no cell.
func (r ScreenRect) IsEmpty() bool { return r.Right <= r.Left || r.Bottom <= r.Top }

// Contains reports whether the cell (x, y) lies inside r.
func (r ScreenRect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}
