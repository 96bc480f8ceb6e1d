package trace

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/overboard/internal/layout"
	"github.com/dshills/overboard/internal/timeline"
)

// Recorder forwards every call to its target and, while recording, logs it.
type Recorder struct {
	target Target
	layout *layout.Layout
	clock  timeline.Clock
	width  float64

	mu        sync.Mutex
	recording bool
	current   *Trace
	start     time.Time
}

// NewRecorder creates a recorder in front of target. l resolves keys to
// positions; clock stamps events.
func NewRecorder(target Target, l *layout.Layout, clock timeline.Clock) *Recorder {
	return &Recorder{target: target, layout: l, clock: clock}
}

// SetLayout changes the layout keys are resolved against. A recording in
// progress is stopped and discarded.
func (r *Recorder) SetLayout(l *layout.Layout) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layout = l
	r.recording = false
	r.current = nil
}

// SetWidth sets the view width stamped on traces. A recording in progress
// is stopped and discarded when the width changes.
func (r *Recorder) SetWidth(width float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width == r.width {
		return
	}
	r.width = width
	r.recording = false
	r.current = nil
}

// Start begins a new recording, discarding any in progress.
func (r *Recorder) Start() uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.start = r.clock.Now()
	r.current = &Trace{
		Session: uuid.New(),
		Width:   r.width,
		Started: r.start,
	}
	if r.layout != nil {
		r.current.Layout = r.layout.Name
	}
	r.recording = true
	return r.current.Session
}

// Stop ends the recording and returns it, or nil if not recording.
func (r *Recorder) Stop() *Trace {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return nil
	}
	r.recording = false
	tr := r.current
	r.current = nil
	return tr
}

// IsRecording returns true while recording.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Len returns the number of events recorded so far.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return 0
	}
	return len(r.current.Events)
}

func (r *Recorder) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return
	}
	e.At = r.clock.Now().Sub(r.start)
	r.current.Events = append(r.current.Events, e)
}

func (r *Recorder) ref(k *layout.Key) KeyRef {
	r.mu.Lock()
	l := r.layout
	r.mu.Unlock()
	if row, index, ok := l.Locate(k); ok {
		return KeyRef{Row: row, Index: index}
	}
	return NoKey
}

// Down records and forwards a touch down.
func (r *Recorder) Down(x, y float64, id int, key *layout.Key) {
	r.record(Event{Kind: KindDown, ID: id, X: x, Y: y, Key: r.ref(key)})
	r.target.Down(x, y, id, key)
}

// Move records and forwards a touch move.
func (r *Recorder) Move(x, y float64, id int) {
	r.record(Event{Kind: KindMove, ID: id, X: x, Y: y, Key: NoKey})
	r.target.Move(x, y, id)
}

// Up records and forwards a touch up.
func (r *Recorder) Up(id int) {
	r.record(Event{Kind: KindUp, ID: id, Key: NoKey})
	r.target.Up(id)
}

// Cancel records and forwards a cancel.
func (r *Recorder) Cancel() {
	r.record(Event{Kind: KindCancel, Key: NoKey})
	r.target.Cancel()
}

// Clear records and forwards a clear.
func (r *Recorder) Clear() {
	r.record(Event{Kind: KindClear, Key: NoKey})
	r.target.Clear()
}

// SetFakePointerState records and forwards an injected pointer update.
// Values that are not modifiers are forwarded but not recorded; the
// target ignores them anyway.
func (r *Recorder) SetFakePointerState(key *layout.Key, v layout.Value, latched, lock bool) {
	if v.IsModifier() {
		r.record(Event{
			Kind:     KindFake,
			Key:      r.ref(key),
			Mod:      v.Mod(),
			LockOnly: v.HasFlagsAny(layout.FlagLock),
			Latched:  latched,
			Lock:     lock,
		})
	}
	r.target.SetFakePointerState(key, v, latched, lock)
}
