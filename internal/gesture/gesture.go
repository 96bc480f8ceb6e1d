// Package gesture classifies a single pointer's motion into a tap, a
// directional swipe or a hold.
//
// A Gesture commits to exactly one resolution. Once a swipe direction or a
// hold has been committed it never changes, whatever the finger does next.
package gesture

import (
	"math"
	"time"

	"github.com/dshills/overboard/internal/layout"
)

// Config holds the classifier's tuning.
type Config struct {
	// SwipeDistance is the travel, as a fraction of the key width, that a
	// finger must exceed before a swipe direction is committed.
	SwipeDistance float64

	// HoldTimeout is how long a pointer must stay down without swiping for a
	// hold to fire.
	HoldTimeout time.Duration

	// SectorOffset rotates the eight sector boundaries clockwise, in degrees.
	SectorOffset float64
}

// DefaultConfig returns the default tuning.
func DefaultConfig() Config {
	return Config{
		SwipeDistance: 0.3,
		HoldTimeout:   400 * time.Millisecond,
	}
}

// Kind is the kind of a resolution.
type Kind uint8

const (
	// Pending means nothing has been committed yet.
	Pending Kind = iota
	Tap
	Swipe
	Hold
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Pending:
		return "pending"
	case Tap:
		return "tap"
	case Swipe:
		return "swipe"
	case Hold:
		return "hold"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of classifying a gesture. Direction and Slot are
// only meaningful for swipes.
type Resolution struct {
	Kind      Kind
	Direction Direction
	Slot      layout.Slot
}

// Committed returns true once the resolution can no longer change.
func (r Resolution) Committed() bool {
	return r.Kind != Pending
}

// Gesture is the motion state of one pointer.
type Gesture struct {
	key    *layout.Key
	ox, oy float64
	x, y   float64
	start  time.Time
	res    Resolution
}

// Begin starts a gesture on key at (x, y).
func Begin(key *layout.Key, x, y float64, now time.Time) *Gesture {
	return &Gesture{key: key, ox: x, oy: y, x: x, y: y, start: now}
}

// Key returns the key the gesture is bound to.
func (g *Gesture) Key() *layout.Key { return g.key }

// Origin returns where the gesture started.
func (g *Gesture) Origin() (x, y float64) { return g.ox, g.oy }

// Position returns the last known position.
func (g *Gesture) Position() (x, y float64) { return g.x, g.y }

// Start returns when the gesture started.
func (g *Gesture) Start() time.Time { return g.start }

// Resolution returns the current resolution.
func (g *Gesture) Resolution() Resolution { return g.res }

// Value returns the value selected by the resolution so far: the swipe slot's
// value for swipes, the main value otherwise.
func (g *Gesture) Value() layout.Value {
	if g.res.Kind == Swipe {
		if v, ok := g.key.Value(g.res.Slot); ok {
			return v
		}
	}
	return g.key.Main()
}

// Classifier resolves gestures against a key size.
type Classifier struct {
	cfg       Config
	threshold float64
}

// NewClassifier creates a classifier for keys keyWidth pixels wide.
func NewClassifier(cfg Config, keyWidth float64) *Classifier {
	return &Classifier{cfg: cfg, threshold: cfg.SwipeDistance * keyWidth}
}

// Config returns the classifier's tuning.
func (c *Classifier) Config() Config { return c.cfg }

// Threshold returns the swipe distance in pixels.
func (c *Classifier) Threshold() float64 { return c.threshold }

// Update records a new position and classifies the gesture. It returns the
// resolution and whether it was committed by this call.
func (c *Classifier) Update(g *Gesture, x, y float64, now time.Time) (Resolution, bool) {
	g.x, g.y = x, y
	if g.res.Committed() {
		return g.res, false
	}

	dx, dy := x-g.ox, y-g.oy
	if math.Hypot(dx, dy) > c.threshold {
		if dir, ok := c.pick(g.key, dx, dy); ok {
			g.res = Resolution{Kind: Swipe, Direction: dir, Slot: dir.Slot()}
			return g.res, true
		}
	}
	return c.CheckHold(g, now)
}

// CheckHold commits a hold if nothing else has been committed and the hold
// timeout has elapsed.
func (c *Classifier) CheckHold(g *Gesture, now time.Time) (Resolution, bool) {
	if g.res.Committed() {
		return g.res, false
	}
	if now.Sub(g.start) >= c.cfg.HoldTimeout {
		g.res = Resolution{Kind: Hold}
		return g.res, true
	}
	return g.res, false
}

// Release finalizes the gesture. A gesture that committed nothing becomes a
// tap.
func (c *Classifier) Release(g *Gesture) Resolution {
	if !g.res.Committed() {
		g.res = Resolution{Kind: Tap}
	}
	return g.res
}

// pick quantizes (dx, dy) and returns the direction to commit. When the
// sector's slot is empty the neighbouring sector nearer to the angle is
// tried, then the other neighbour.
func (c *Classifier) pick(key *layout.Key, dx, dy float64) (Direction, bool) {
	dir, bias := DirectionOf(dx, dy, c.cfg.SectorOffset)
	candidates := [3]Direction{dir, dir.prev(), dir.next()}
	if bias >= 0 {
		candidates[1], candidates[2] = dir.next(), dir.prev()
	}
	for _, d := range candidates {
		if _, ok := key.Value(d.Slot()); ok {
			return d, true
		}
	}
	return dir, false
}
