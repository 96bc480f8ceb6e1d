package trace

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dshills/overboard/internal/layout"
	"github.com/dshills/overboard/internal/timeline"
)

// Player replays traces against a layout.
type Player struct {
	layout  *layout.Layout
	width   float64
	playing atomic.Bool
}

// NewPlayer creates a player resolving keys on l.
func NewPlayer(l *layout.Layout) *Player {
	return &Player{layout: l}
}

// SetWidth sets the view width of the replaying tracker. Traces stamped
// with another width are rejected; zero on either side skips the check.
func (p *Player) SetWidth(width float64) {
	p.width = width
}

// IsPlaying returns true while a replay is in progress.
func (p *Player) IsPlaying() bool {
	return p.playing.Load()
}

// Replay drives target with the events of tr. Before each event the clock
// is advanced to the event's offset, firing whatever the target scheduled
// in between. target must schedule on clock.
func (p *Player) Replay(ctx context.Context, tr *Trace, target Target, clock *timeline.Manual) error {
	if tr == nil || target == nil || clock == nil {
		return fmt.Errorf("%w: nil trace, target or clock", ErrBadEvent)
	}
	if tr.Layout != "" && p.layout != nil && tr.Layout != p.layout.Name {
		return fmt.Errorf("%w: %q, replaying on %q", ErrLayoutMismatch, tr.Layout, p.layout.Name)
	}
	if tr.Width != 0 && p.width != 0 && tr.Width != p.width {
		return fmt.Errorf("%w: %g, replaying at %g", ErrWidthMismatch, tr.Width, p.width)
	}
	if !p.playing.CompareAndSwap(false, true) {
		return ErrAlreadyPlaying
	}
	defer p.playing.Store(false)

	start := clock.Now()
	for i, e := range tr.Events {
		if err := ctx.Err(); err != nil {
			return err
		}
		clock.AdvanceTo(start.Add(e.At))
		if err := p.apply(e, target); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}

func (p *Player) apply(e Event, target Target) error {
	switch e.Kind {
	case KindDown:
		k := p.layout.KeyAt(e.Key.Row, e.Key.Index)
		if k == nil {
			return fmt.Errorf("%w: no key at %d/%d", ErrBadEvent, e.Key.Row, e.Key.Index)
		}
		target.Down(e.X, e.Y, e.ID, k)
	case KindMove:
		target.Move(e.X, e.Y, e.ID)
	case KindUp:
		target.Up(e.ID)
	case KindCancel:
		target.Cancel()
	case KindClear:
		target.Clear()
	case KindFake:
		k := layout.EmptyKey
		if e.Key != NoKey {
			if k = p.layout.KeyAt(e.Key.Row, e.Key.Index); k == nil {
				return fmt.Errorf("%w: no key at %d/%d", ErrBadEvent, e.Key.Row, e.Key.Index)
			}
		}
		target.SetFakePointerState(k, e.Value(), e.Latched, e.Lock)
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrBadEvent, e.Kind)
	}
	return nil
}
