package geometry

import "github.com/dshills/overboard/internal/layout"

// Hit identifies the key under a point.
type Hit struct {
	Row   int
	Index int
	Key   *layout.Key
}

// Box is a key's placement on screen. Hit is the touch-sensitive region,
// Face is the drawn key face inside it.
type Box struct {
	Row   int
	Index int
	Key   *layout.Key
	Hit   Rect
	Face  Rect
}

// HitTester resolves coordinates against a layout measured with Metrics.
type HitTester struct {
	layout  *layout.Layout
	metrics Metrics
}

// NewHitTester creates a hit tester for l.
func NewHitTester(l *layout.Layout, m Metrics) *HitTester {
	return &HitTester{layout: l, metrics: m}
}

// Layout returns the layout being tested against.
func (h *HitTester) Layout() *layout.Layout { return h.layout }

// Metrics returns the metrics in use.
func (h *HitTester) Metrics() Metrics { return h.metrics }

// eachRow walks rows from the top margin. top is where the row's band starts
// (its shift included), bodyTop where its keys start, bottom where it ends.
func (h *HitTester) eachRow(fn func(i int, r *layout.Row, top, bodyTop, bottom float64) bool) {
	rh := h.metrics.RowHeight
	y := h.metrics.MarginTop
	for i, r := range h.layout.Rows {
		top := y
		bodyTop := y + r.Shift*rh
		y = bodyTop + r.Height*rh
		if !fn(i, r, top, bodyTop, y) {
			return
		}
	}
}

// eachKey walks the keys of r from the left margin. left excludes the key's
// shift gap.
func (h *HitTester) eachKey(r *layout.Row, fn func(j int, k *layout.Key, left, right float64) bool) {
	kw := h.metrics.KeyWidth
	x := h.metrics.MarginLeft
	for j, k := range r.Keys {
		left := x + k.Shift*kw
		x = left + k.Width*kw
		if !fn(j, k, left, x) {
			return
		}
	}
}

// Hit returns the key under (x, y). Points in the margins, in a key's shift
// gap, or past the last key of a row miss.
func (h *HitTester) Hit(x, y float64) (Hit, bool) {
	if h == nil || h.layout == nil || y < h.metrics.MarginTop || x < h.metrics.MarginLeft {
		return Hit{}, false
	}

	var (
		row   *layout.Row
		rowIx = -1
	)
	h.eachRow(func(i int, r *layout.Row, _, _, bottom float64) bool {
		if y < bottom {
			row, rowIx = r, i
			return false
		}
		return true
	})
	if row == nil {
		return Hit{}, false
	}

	var (
		result Hit
		found  bool
	)
	h.eachKey(row, func(j int, k *layout.Key, left, right float64) bool {
		if x < left {
			return false
		}
		if x < right {
			result = Hit{Row: rowIx, Index: j, Key: k}
			found = true
			return false
		}
		return true
	})
	return result, found
}

// KeyAt returns the key under (x, y), or nil.
func (h *HitTester) KeyAt(x, y float64) *layout.Key {
	hit, ok := h.Hit(x, y)
	if !ok {
		return nil
	}
	return hit.Key
}

// Walk calls fn for every key in row order until fn returns false.
func (h *HitTester) Walk(fn func(Box) bool) {
	if h == nil || h.layout == nil {
		return
	}
	hm := h.metrics.KeyHorizontalMargin / 2
	vm := h.metrics.KeyVerticalMargin / 2
	stop := false
	h.eachRow(func(i int, r *layout.Row, top, bodyTop, bottom float64) bool {
		h.eachKey(r, func(j int, k *layout.Key, left, right float64) bool {
			box := Box{
				Row:   i,
				Index: j,
				Key:   k,
				Hit:   Rect{Left: left, Top: top, Right: right, Bottom: bottom},
				Face:  Rect{Left: left + hm, Top: bodyTop + vm, Right: right - hm, Bottom: bottom - vm},
			}
			stop = !fn(box)
			return !stop
		})
		return !stop
	})
}

// BoxOf returns the box of key k, if k belongs to the layout.
func (h *HitTester) BoxOf(k *layout.Key) (Box, bool) {
	var (
		result Box
		found  bool
	)
	h.Walk(func(b Box) bool {
		if b.Key == k {
			result, found = b, true
			return false
		}
		return true
	})
	return result, found
}
