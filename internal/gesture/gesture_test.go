package gesture

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/overboard/internal/layout"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

const keyWidth = 100

func fullKey() *layout.Key {
	return layout.NewKey(layout.MakeChar('e')).
		At(layout.SlotNW, layout.MakeChar('1')).
		At(layout.SlotNE, layout.MakeChar('2')).
		At(layout.SlotSW, layout.MakeChar('3')).
		At(layout.SlotSE, layout.MakeChar('4')).
		At(layout.SlotW, layout.MakeChar('5')).
		At(layout.SlotE, layout.MakeChar('6')).
		At(layout.SlotN, layout.MakeChar('7')).
		At(layout.SlotS, layout.MakeChar('8')).
		Build()
}

func TestDirectionOf(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   Direction
	}{
		{1, 0, DirE},
		{1, 1, DirSE},
		{0, 1, DirS},
		{-1, 1, DirSW},
		{-1, 0, DirW},
		{-1, -1, DirNW},
		{0, -1, DirN},
		{1, -1, DirNE},
		{1, -0.1, DirE},
	}
	for _, tt := range tests {
		got, _ := DirectionOf(tt.dx, tt.dy, 0)
		assert.Equal(t, tt.want, got, "DirectionOf(%v, %v)", tt.dx, tt.dy)
	}
}

func TestDirectionOfOffset(t *testing.T) {
	rad := 20 * math.Pi / 180
	dx, dy := math.Cos(rad), math.Sin(rad)

	got, bias := DirectionOf(dx, dy, 0)
	assert.Equal(t, DirE, got)
	assert.InDelta(t, 20, bias, 1e-9)

	got, bias = DirectionOf(dx, dy, -10)
	assert.Equal(t, DirSE, got)
	assert.InDelta(t, -15, bias, 1e-9)
}

func TestDirectionSlots(t *testing.T) {
	seen := map[layout.Slot]bool{}
	for d := Direction(0); d < directionCount; d++ {
		s := d.Slot()
		assert.NotEqual(t, layout.SlotMain, s, "%v", d)
		assert.False(t, seen[s], "slot %v mapped twice", s)
		seen[s] = true
	}
	assert.Equal(t, layout.SlotN, DirN.Slot())
	assert.Equal(t, layout.SlotE, DirE.Slot())
	assert.Equal(t, "nw", DirNW.String())
}

func TestTap(t *testing.T) {
	c := NewClassifier(DefaultConfig(), keyWidth)
	k := fullKey()
	g := Begin(k, 50, 50, epoch)

	res, committed := c.Update(g, 55, 52, epoch.Add(50*time.Millisecond))
	assert.False(t, committed)
	assert.Equal(t, Pending, res.Kind)

	res = c.Release(g)
	assert.Equal(t, Tap, res.Kind)
	assert.Equal(t, layout.MakeChar('e'), g.Value())
}

func TestSwipeUp(t *testing.T) {
	c := NewClassifier(DefaultConfig(), keyWidth)
	g := Begin(fullKey(), 50, 50, epoch)

	res, committed := c.Update(g, 50, 10, epoch.Add(20*time.Millisecond))
	require.True(t, committed)
	assert.Equal(t, Swipe, res.Kind)
	assert.Equal(t, DirN, res.Direction)
	assert.Equal(t, layout.MakeChar('7'), g.Value())
}

func TestSwipeIsIrrevocable(t *testing.T) {
	c := NewClassifier(DefaultConfig(), keyWidth)
	g := Begin(fullKey(), 50, 50, epoch)

	_, committed := c.Update(g, 90, 50, epoch)
	require.True(t, committed)

	res, committed := c.Update(g, 50, 90, epoch.Add(10*time.Millisecond))
	assert.False(t, committed)
	assert.Equal(t, DirE, res.Direction)

	res, _ = c.Update(g, 51, 50, epoch.Add(20*time.Millisecond))
	assert.Equal(t, Swipe, res.Kind, "retreating below threshold keeps the swipe")

	_, committed = c.CheckHold(g, epoch.Add(time.Second))
	assert.False(t, committed)
	assert.Equal(t, Swipe, c.Release(g).Kind)
	assert.Equal(t, layout.MakeChar('6'), g.Value())
}

func TestThresholdIsRelativeToKeyWidth(t *testing.T) {
	c := NewClassifier(DefaultConfig(), keyWidth)
	assert.InDelta(t, 30, c.Threshold(), 1e-9)

	g := Begin(fullKey(), 0, 0, epoch)
	_, committed := c.Update(g, 30, 0, epoch)
	assert.False(t, committed, "exactly at threshold")
	_, committed = c.Update(g, 30.5, 0, epoch)
	assert.True(t, committed)
}

func TestHold(t *testing.T) {
	c := NewClassifier(DefaultConfig(), keyWidth)
	g := Begin(fullKey(), 50, 50, epoch)

	_, committed := c.CheckHold(g, epoch.Add(399*time.Millisecond))
	assert.False(t, committed)

	res, committed := c.CheckHold(g, epoch.Add(400*time.Millisecond))
	require.True(t, committed)
	assert.Equal(t, Hold, res.Kind)

	_, committed = c.CheckHold(g, epoch.Add(time.Second))
	assert.False(t, committed, "hold fires once")

	res, committed = c.Update(g, 50, 0, epoch.Add(time.Second))
	assert.False(t, committed)
	assert.Equal(t, Hold, res.Kind)

	assert.Equal(t, Hold, c.Release(g).Kind, "release after hold is not a tap")
	assert.Equal(t, layout.MakeChar('e'), g.Value())
}

func TestUpdateCommitsHoldWhenStill(t *testing.T) {
	c := NewClassifier(DefaultConfig(), keyWidth)
	g := Begin(fullKey(), 50, 50, epoch)

	res, committed := c.Update(g, 51, 51, epoch.Add(500*time.Millisecond))
	assert.True(t, committed)
	assert.Equal(t, Hold, res.Kind)
}

func TestEmptySlotFallsBackToNearerNeighbour(t *testing.T) {
	k := layout.NewKey(layout.MakeChar('a')).
		At(layout.SlotNE, layout.MakeChar('!')).
		At(layout.SlotNW, layout.MakeChar('?')).
		Build()
	c := NewClassifier(DefaultConfig(), keyWidth)

	g := Begin(k, 0, 0, epoch)
	res, committed := c.Update(g, 7, -40, epoch)
	require.True(t, committed)
	assert.Equal(t, DirNE, res.Direction)
	assert.Equal(t, layout.MakeChar('!'), g.Value())

	g = Begin(k, 0, 0, epoch)
	res, committed = c.Update(g, -7, -40, epoch)
	require.True(t, committed)
	assert.Equal(t, DirNW, res.Direction)
}

func TestNoValueNoSwipe(t *testing.T) {
	k := layout.NewKey(layout.MakeChar('a')).
		At(layout.SlotE, layout.MakeChar('!')).
		Build()
	c := NewClassifier(DefaultConfig(), keyWidth)
	g := Begin(k, 0, 0, epoch)

	res, committed := c.Update(g, -50, 0, epoch)
	assert.False(t, committed)
	assert.Equal(t, Pending, res.Kind)

	res, committed = c.Update(g, 50, 0, epoch)
	assert.True(t, committed, "a later movement into a bound sector still commits")
	assert.Equal(t, DirE, res.Direction)
}
