package renderer

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/overboard/internal/renderer/backend"
	"github.com/dshills/overboard/internal/renderer/core"
)

// Width returns the number of cells s occupies.
func Width(s string) int {
	return uniseg.StringWidth(s)
}

// Truncate shortens s to at most width cells without splitting a grapheme
// cluster.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	return b.String()
}

// TruncateLeft keeps the tail of s that fits in width cells.
func TruncateLeft(s string, width int) string {
	if width <= 0 {
		return ""
	}
	total := uniseg.StringWidth(s)
	if total <= width {
		return s
	}
	skip := total - width
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		if skip <= 0 {
			start, _ := g.Positions()
			return s[start:]
		}
		skip -= g.Width()
	}
	return ""
}

// DrawString writes s from (x, y), one grapheme cluster per cell, and
// returns the number of columns used.
func DrawString(b backend.Backend, x, y int, s string, style core.Style) int {
	col := x
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		rs := g.Runes()
		b.SetCell(col, y, core.Cell{Rune: rs[0], Combining: rs[1:], Style: style})
		col += max(g.Width(), 1)
	}
	return col - x
}
