package trace

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/overboard/internal/layout"
)

var (
	// ErrUnsupportedVersion is returned when a trace file is newer than
	// this package understands.
	ErrUnsupportedVersion = errors.New("unsupported trace version")

	// ErrLayoutMismatch is returned when a trace is replayed on a layout
	// other than the one it was recorded on.
	ErrLayoutMismatch = errors.New("trace recorded on a different layout")

	// ErrWidthMismatch is returned when a trace is replayed at a view
	// width other than the one it was recorded at. Swipe thresholds and
	// hit regions scale with the width, so the same coordinates would
	// classify differently.
	ErrWidthMismatch = errors.New("trace recorded at a different width")

	// ErrBadEvent is returned for an event that cannot be replayed.
	ErrBadEvent = errors.New("invalid trace event")

	// ErrAlreadyPlaying is returned when a player is asked to replay while
	// a replay is in progress.
	ErrAlreadyPlaying = errors.New("already replaying a trace")
)

// Target is the tracker input surface a trace drives.
type Target interface {
	Down(x, y float64, id int, key *layout.Key)
	Move(x, y float64, id int)
	Up(id int)
	Cancel()
	Clear()
	SetFakePointerState(key *layout.Key, v layout.Value, latched, lock bool)
}

// Kind is the kind of a recorded call.
type Kind string

const (
	KindDown   Kind = "down"
	KindMove   Kind = "move"
	KindUp     Kind = "up"
	KindCancel Kind = "cancel"
	KindClear  Kind = "clear"
	KindFake   Kind = "fake"
)

// NoKey marks an event whose key is not part of the layout (layout.EmptyKey).
var NoKey = KeyRef{Row: -1, Index: -1}

// KeyRef locates a key by row and index.
type KeyRef struct {
	Row   int
	Index int
}

// Event is one recorded call.
type Event struct {
	At   time.Duration
	Kind Kind
	ID   int
	X, Y float64
	Key  KeyRef

	// Fake pointer state.
	Mod      layout.Mod
	LockOnly bool
	Latched  bool
	Lock     bool
}

// Value returns the modifier value of a fake event.
func (e Event) Value() layout.Value {
	v := layout.MakeModifier(e.Mod)
	if e.LockOnly {
		v = v.WithFlags(layout.FlagLock)
	}
	return v
}

func (e Event) String() string {
	switch e.Kind {
	case KindDown:
		return fmt.Sprintf("%v down id=%d (%.1f,%.1f) key=%d/%d", e.At, e.ID, e.X, e.Y, e.Key.Row, e.Key.Index)
	case KindMove:
		return fmt.Sprintf("%v move id=%d (%.1f,%.1f)", e.At, e.ID, e.X, e.Y)
	case KindUp:
		return fmt.Sprintf("%v up id=%d", e.At, e.ID)
	case KindFake:
		return fmt.Sprintf("%v fake %s latched=%t lock=%t", e.At, e.Mod, e.Latched, e.Lock)
	default:
		return fmt.Sprintf("%v %s", e.At, e.Kind)
	}
}

// Trace is a recorded session.
type Trace struct {
	Session uuid.UUID
	Layout  string
	// Width is the view width in pixels; zero when unknown.
	Width   float64
	Started time.Time
	Events  []Event
}

// Duration returns the offset of the last event.
func (t *Trace) Duration() time.Duration {
	if len(t.Events) == 0 {
		return 0
	}
	return t.Events[len(t.Events)-1].At
}
