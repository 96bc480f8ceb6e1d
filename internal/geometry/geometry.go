// Package geometry maps screen coordinates to keys.
//
// The hit tester and every renderer walk the layout with the same
// accumulation of margins, row shifts and key shifts. Renderers must draw
// from Walk rather than recomputing positions, so that what is drawn is
// exactly what is hit.
package geometry

import "github.com/dshills/overboard/internal/layout"

// Config holds the geometric constants shared by hit-testing and drawing.
// All values are in screen pixels.
type Config struct {
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64

	// RowHeight is the height of one row-height unit.
	RowHeight float64

	// KeyHorizontalMargin and KeyVerticalMargin are the gaps between drawn
	// key faces. They shrink the face, never the hit region.
	KeyHorizontalMargin float64
	KeyVerticalMargin   float64
}

// DefaultConfig returns the default geometry for a phone-sized view.
func DefaultConfig() Config {
	return Config{
		MarginTop:           3,
		MarginBottom:        7,
		MarginLeft:          2,
		MarginRight:         2,
		RowHeight:           45,
		KeyHorizontalMargin: 4,
		KeyVerticalMargin:   6,
	}
}

// Metrics are the measured dimensions of a layout for a view width.
type Metrics struct {
	Config

	// KeyWidth is the width of one key-width unit.
	KeyWidth float64

	Width  float64
	Height float64
}

// Measure computes metrics for showing l in a view of the given width.
func Measure(l *layout.Layout, width float64, cfg Config) Metrics {
	m := Metrics{Config: cfg, Width: width}
	if l == nil || l.KeysWidth <= 0 {
		return m
	}
	m.KeyWidth = (width - cfg.MarginLeft - cfg.MarginRight) / l.KeysWidth
	m.Height = cfg.RowHeight*l.KeysHeight + cfg.MarginTop + cfg.MarginBottom
	return m
}

// Rect is an axis-aligned rectangle; Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Width returns the rectangle's width.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the rectangle's height.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Center returns the rectangle's center point.
func (r Rect) Center() (float64, float64) {
	return (r.Left + r.Right) / 2, (r.Top + r.Bottom) / 2
}
