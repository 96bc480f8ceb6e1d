package geometry

import (
	"testing"

	"github.com/dshills/overboard/internal/layout"
)

func testLayout() (*layout.Layout, *layout.Key, *layout.Key, *layout.Key) {
	a := &layout.Key{Width: 1}
	a.Slots[layout.SlotMain] = layout.MakeChar('a')
	b := &layout.Key{Width: 1, Shift: 0.5}
	b.Slots[layout.SlotMain] = layout.MakeChar('b')
	c := &layout.Key{Width: 2}
	c.Slots[layout.SlotMain] = layout.MakeChar('c')

	l := layout.New("test",
		&layout.Row{Keys: []*layout.Key{a, b}, Height: 1},
		&layout.Row{Keys: []*layout.Key{c}, Height: 1, Shift: 0.5},
	)
	return l, a, b, c
}

func testConfig() Config {
	return Config{
		MarginTop:   10,
		MarginLeft:  5,
		MarginRight: 5,
		RowHeight:   20,
	}
}

func TestMeasure(t *testing.T) {
	l, _, _, _ := testLayout()
	m := Measure(l, 110, testConfig())

	if m.KeyWidth != 40 {
		t.Errorf("KeyWidth = %v, want 40", m.KeyWidth)
	}
	if m.Height != 10+20*2.5 {
		t.Errorf("Height = %v, want %v", m.Height, 10+20*2.5)
	}

	if got := Measure(nil, 100, testConfig()); got.KeyWidth != 0 {
		t.Errorf("Measure(nil) KeyWidth = %v, want 0", got.KeyWidth)
	}
}

func TestHit(t *testing.T) {
	l, a, b, c := testLayout()
	h := NewHitTester(l, Measure(l, 110, testConfig()))

	tests := []struct {
		name string
		x, y float64
		want *layout.Key
	}{
		{"first key", 6, 11, a},
		{"key shift gap", 50, 15, nil},
		{"shifted key", 70, 29, b},
		{"past last key", 100, 35, nil},
		{"row shift band belongs to row", 10, 35, c},
		{"bottom edge inside", 10, 59.9, c},
		{"below keyboard", 10, 60, nil},
		{"above keyboard", 10, 5, nil},
		{"left margin", 3, 15, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.KeyAt(tt.x, tt.y)
			if got != tt.want {
				t.Errorf("KeyAt(%v, %v) = %p, want %p", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestHitReportsPosition(t *testing.T) {
	l, _, b, _ := testLayout()
	h := NewHitTester(l, Measure(l, 110, testConfig()))

	hit, ok := h.Hit(70, 20)
	if !ok {
		t.Fatal("Hit() missed")
	}
	if hit.Row != 0 || hit.Index != 1 || hit.Key != b {
		t.Errorf("Hit() = %+v, want row 0 index 1", hit)
	}
}

func TestWalkMatchesHit(t *testing.T) {
	l := layout.QWERTY()
	h := NewHitTester(l, Measure(l, 1080, DefaultConfig()))

	count := 0
	h.Walk(func(b Box) bool {
		count++
		x, y := b.Face.Center()
		if got := h.KeyAt(x, y); got != b.Key {
			t.Errorf("face center of row %d key %d hits %p, want %p", b.Row, b.Index, got, b.Key)
		}
		if got := h.KeyAt(b.Hit.Left, b.Hit.Top); got != b.Key {
			t.Errorf("hit corner of row %d key %d hits %p, want %p", b.Row, b.Index, got, b.Key)
		}
		if b.Face.Left < b.Hit.Left || b.Face.Right > b.Hit.Right {
			t.Errorf("face of row %d key %d exceeds hit region", b.Row, b.Index)
		}
		return true
	})

	want := 0
	for _, r := range l.Rows {
		want += len(r.Keys)
	}
	if count != want {
		t.Errorf("Walk visited %d keys, want %d", count, want)
	}
}

func TestWalkStops(t *testing.T) {
	l := layout.QWERTY()
	h := NewHitTester(l, Measure(l, 1080, DefaultConfig()))

	count := 0
	h.Walk(func(Box) bool {
		count++
		return count < 3
	})
	if count != 3 {
		t.Errorf("Walk visited %d keys after stop, want 3", count)
	}
}

func TestBoxOf(t *testing.T) {
	l := layout.QWERTY()
	h := NewHitTester(l, Measure(l, 1080, DefaultConfig()))

	shift := l.FindKeyWithValue(layout.Shift)
	box, ok := h.BoxOf(shift)
	if !ok {
		t.Fatal("BoxOf(shift) not found")
	}
	if box.Row != 2 || box.Index != 0 {
		t.Errorf("BoxOf(shift) = row %d index %d, want row 2 index 0", box.Row, box.Index)
	}
	if _, ok := h.BoxOf(layout.EmptyKey); ok {
		t.Error("BoxOf(EmptyKey) should not be found")
	}
}
