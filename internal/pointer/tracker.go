// Package pointer tracks every active touch and injected pointer and turns
// them into key actions.
//
// The Tracker owns the pointer set and the current Modifiers. All methods
// must be called on one event-processing timeline (see package timeline);
// hold callbacks are scheduled on that same timeline, so no locking is done.
//
// Real pointers use the host's touch ids, which must not be negative.
// Injected pointers get negative ids reserved per modifier identity.
package pointer

import (
	"fmt"
	"time"

	"github.com/dshills/overboard/internal/config"
	"github.com/dshills/overboard/internal/geometry"
	"github.com/dshills/overboard/internal/gesture"
	"github.com/dshills/overboard/internal/layout"
	"github.com/dshills/overboard/internal/logging"
	"github.com/dshills/overboard/internal/modifier"
	"github.com/dshills/overboard/internal/timeline"
)

// defaultKeyWidth is used for the swipe threshold until a hit tester is set.
const defaultKeyWidth = 100

// record is one pointer. A held record has a finger on it. A released
// modifier stays in the set as latched or locked until consumed or toggled
// off. Fake records are injected and never held.
type record struct {
	id      int
	seq     uint64
	key     *layout.Key
	value   layout.Value
	gesture *gesture.Gesture

	held       bool
	fake       bool
	state      modifier.State
	consumed   bool
	holdLocked bool
	latchedAt  time.Time
	holdTask   timeline.Task
}

func (r *record) locked() bool {
	return r.state == modifier.Locked || r.holdLocked
}

// Tracker resolves pointers into key actions.
type Tracker struct {
	dispatcher Dispatcher
	sched      timeline.Scheduler
	hit        *geometry.HitTester
	classifier *gesture.Classifier
	gestureCfg gesture.Config
	doubleTap  time.Duration
	lockOnHold bool

	records []*record
	mods    modifier.Modifiers
	seq     uint64

	fakeIDs  map[layout.Value]int
	nextFake int

	strict  bool
	logger  *logging.Logger
	metrics *Metrics
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithHitTester enables slide correction and sizes the swipe threshold from
// the tester's key width.
func WithHitTester(h *geometry.HitTester) Option {
	return func(t *Tracker) { t.hit = h }
}

// WithConfig sets the tuning.
func WithConfig(cfg config.Config) Option {
	return func(t *Tracker) { t.applyConfig(cfg) }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

// New creates a tracker that reports to d and schedules on sched.
func New(d Dispatcher, sched timeline.Scheduler, opts ...Option) *Tracker {
	t := &Tracker{
		dispatcher: d,
		sched:      sched,
		mods:       modifier.Empty,
		fakeIDs:    make(map[layout.Value]int),
		nextFake:   -1,
		logger:     logging.Null,
	}
	t.applyConfig(config.Default())
	for _, opt := range opts {
		opt(t)
	}
	if t.metrics == nil {
		t.metrics = NewMetrics()
	}
	t.logger = logging.OrNull(t.logger).WithComponent("pointer")
	t.rebuildClassifier()
	return t
}

func (t *Tracker) applyConfig(cfg config.Config) {
	t.gestureCfg = gesture.Config{
		SwipeDistance: cfg.Gesture.SwipeDistance,
		HoldTimeout:   cfg.Gesture.HoldTimeout.Std(),
		SectorOffset:  cfg.Gesture.SectorOffset,
	}
	t.doubleTap = cfg.Modifier.DoubleTapWindow.Std()
	t.lockOnHold = cfg.Modifier.LockOnHold
}

func (t *Tracker) rebuildClassifier() {
	kw := float64(defaultKeyWidth)
	if t.hit != nil && t.hit.Metrics().KeyWidth > 0 {
		kw = t.hit.Metrics().KeyWidth
	}
	t.classifier = gesture.NewClassifier(t.gestureCfg, kw)
}

// Configure swaps the tuning. Pointers already down keep their gesture state
// and are classified with the new tuning from now on; pending holds are
// rearmed for the new hold timeout.
func (t *Tracker) Configure(cfg config.Config) {
	t.applyConfig(cfg)
	t.rebuildClassifier()
	for _, r := range t.records {
		if r.holdTask != nil {
			t.cancelHold(r)
			t.scheduleHold(r)
		}
	}
	t.logger.Debug("configured: %s", cfg)
}

// SetHitTester replaces the hit tester, for instance after a resize.
func (t *Tracker) SetHitTester(h *geometry.HitTester) {
	t.hit = h
	t.rebuildClassifier()
}

// SetStrict makes protocol violations panic. Tests turn it on; production
// code tolerates violations.
func (t *Tracker) SetStrict(strict bool) {
	t.strict = strict
}

// Metrics returns the tracker's metrics.
func (t *Tracker) Metrics() *Metrics {
	return t.metrics
}

func (t *Tracker) violation(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if t.strict {
		panic("pointer: " + msg)
	}
	t.logger.Warn("%s", msg)
}

// Down starts tracking touch id on key, which the caller has already
// hit-tested. The press is reported with the modifiers of every other
// pointer, so a modifier never modifies itself.
func (t *Tracker) Down(x, y float64, id int, key *layout.Key) {
	defer t.metrics.observe(time.Now())

	if key == nil || id < 0 {
		t.metrics.recordIgnored()
		t.violation("down: invalid pointer %d on key %p", id, key)
		return
	}
	if old := t.held(id); old != nil {
		t.violation("down: pointer %d already tracked", id)
		t.cancelHold(old)
		t.remove(old)
	}

	mods := t.mods
	t.seq++
	r := &record{
		id:      id,
		seq:     t.seq,
		key:     key,
		value:   key.Main(),
		gesture: gesture.Begin(key, x, y, t.sched.Now()),
		held:    true,
		state:   modifier.Down,
	}
	t.records = append(t.records, r)
	t.recompute()
	t.scheduleHold(r)
	t.metrics.recordDown()
	t.logger.Debug("down id=%d value=%s", id, r.value)

	t.dispatcher.OnPointerDown(preview(r.value, mods), false)
}

// Move updates touch id. Untracked ids are ignored. A committed swipe is
// reported as a swipe press; while nothing is committed, sliding onto
// another key releases the old key and presses the new one.
func (t *Tracker) Move(x, y float64, id int) {
	defer t.metrics.observe(time.Now())

	r := t.held(id)
	if r == nil {
		t.metrics.recordIgnored()
		return
	}

	res, committed := t.classifier.Update(r.gesture, x, y, t.sched.Now())
	if committed {
		switch res.Kind {
		case gesture.Swipe:
			t.commitSwipe(r)
		case gesture.Hold:
			t.cancelHold(r)
			t.fireHold(r)
		}
		return
	}
	if res.Committed() || t.hit == nil {
		return
	}

	k := t.hit.KeyAt(x, y)
	if k == nil || k == r.key {
		return
	}
	t.metrics.recordSlide()
	t.logger.Debug("slide id=%d to %s", id, k.Main())
	t.release(r)
	t.Down(x, y, id, k)
}

// Up resolves touch id: its tap or swipe value is emitted with the current
// modifiers, or, for a modifier key, the modifier's own state advances.
func (t *Tracker) Up(id int) {
	defer t.metrics.observe(time.Now())

	r := t.held(id)
	if r == nil {
		t.metrics.recordIgnored()
		t.violation("up: pointer %d not tracked", id)
		return
	}
	t.release(r)
}

// Cancel drops every real pointer without emitting anything. Injected
// pointers are kept.
func (t *Tracker) Cancel() {
	kept := t.records[:0]
	dropped := 0
	for _, r := range t.records {
		if r.fake {
			kept = append(kept, r)
			continue
		}
		t.cancelHold(r)
		dropped++
	}
	clear(t.records[len(kept):])
	t.records = kept
	t.recompute()
	if dropped > 0 {
		t.metrics.recordCancel()
		t.logger.Debug("cancel dropped %d pointers", dropped)
	}
}

// Clear drops every pointer, real and injected, and resets the modifiers.
func (t *Tracker) Clear() {
	for _, r := range t.records {
		t.cancelHold(r)
	}
	clear(t.records)
	t.records = t.records[:0]
	t.mods = modifier.Empty
}

// SetFakePointerState injects, updates or removes the pointer that forces v
// active without a touch. Both latched and lock false removes it. key must
// hold v, or be layout.EmptyKey for modifiers without a visible key; other
// requests are ignored. A latched injected modifier is consumed like a real
// one; a locked one stays until removed.
func (t *Tracker) SetFakePointerState(key *layout.Key, v layout.Value, latched, lock bool) {
	if key == nil || !v.IsModifier() || (key != layout.EmptyKey && !key.HasValue(v)) {
		t.logger.Debug("ignored fake pointer %s", v)
		return
	}
	t.metrics.recordFakeUpdate()

	id := v.Identity()
	r := t.find(func(r *record) bool { return r.fake && r.value.Identity() == id })

	if !latched && !lock {
		if r != nil {
			t.remove(r)
			t.recompute()
		}
		return
	}

	if r == nil {
		r = &record{id: t.fakeID(id), fake: true}
		t.records = append(t.records, r)
	}
	r.key = key
	r.value = v
	r.state = modifier.Latched
	if lock {
		r.state = modifier.Locked
	}
	t.recompute()
}

// IsKeyDown reports whether any pointer, held, latched, locked or injected,
// is bound to key.
func (t *Tracker) IsKeyDown(key *layout.Key) bool {
	return t.find(func(r *record) bool { return r.key == key }) != nil
}

// IsPointerDown reports whether touch id is held.
func (t *Tracker) IsPointerDown(id int) bool {
	return t.held(id) != nil
}

// KeyFlags returns the state of pointers bound to v's identity, or Inactive.
func (t *Tracker) KeyFlags(v layout.Value) Flags {
	id := v.Identity()
	flags := Inactive
	for _, r := range t.records {
		if r.value.Identity() != id {
			continue
		}
		if flags == Inactive {
			flags = 0
		}
		flags |= r.flags()
	}
	return flags
}

// Modifiers returns the current modifiers.
func (t *Tracker) Modifiers() modifier.Modifiers {
	return t.mods
}

// Len returns the number of tracked pointers.
func (t *Tracker) Len() int {
	return len(t.records)
}

// release finalizes a held pointer.
func (t *Tracker) release(r *record) {
	t.cancelHold(r)
	res := t.classifier.Release(r.gesture)
	r.held = false

	if r.value.IsModifier() {
		t.releaseModifier(r, res)
		return
	}

	t.remove(r)
	if res.Kind == gesture.Hold {
		// The hold already resolved this pointer.
		t.recompute()
		return
	}

	t.recompute()
	mods := t.mods
	eff, ok := modifier.Apply(r.value, mods)
	changed := t.consume()
	t.recompute()

	if res.Kind == gesture.Swipe {
		t.metrics.recordSwipe()
	} else {
		t.metrics.recordTap()
	}
	if ok {
		t.logger.Debug("up id=%d %s value=%s mods=%s", r.id, res.Kind, eff, mods)
		t.dispatcher.OnPointerUp(eff, mods)
	} else {
		t.logger.Debug("up id=%d %s value=%s cancelled by %s", r.id, res.Kind, r.value, mods)
	}
	if changed {
		t.dispatcher.OnPointerFlagsChanged(false)
	}
}

// releaseModifier advances the released modifier's state instead of
// emitting it.
func (t *Tracker) releaseModifier(r *record, res gesture.Resolution) {
	if res.Kind == gesture.Hold && r.holdLocked {
		r.state = modifier.Locked
		r.holdLocked = false
		t.dropOthers(r)
		t.recompute()
		return
	}

	id := r.value.Identity()
	prev := t.find(func(o *record) bool {
		return o != r && !o.held && o.value.Identity() == id
	})

	var vibrate bool
	switch {
	case r.consumed:
		r.state, _ = modifier.Transition(r.state, modifier.Consume)
	case prev != nil && prev.state == modifier.Locked:
		prev.state, _ = modifier.Transition(prev.state, modifier.Tap)
		r.state = modifier.Up
	case prev != nil && prev.state == modifier.Latched:
		ev := modifier.Tap
		if r.value.HasFlagsAny(layout.FlagLock) ||
			!prev.latchedAt.IsZero() && t.sched.Now().Sub(prev.latchedAt) <= t.doubleTap {
			ev = modifier.DoubleTap
		}
		prev.state, _ = modifier.Transition(prev.state, ev)
		vibrate = prev.state == modifier.Locked
		r.state = modifier.Up
	case r.value.HasFlagsAny(layout.FlagLock):
		r.state = modifier.Locked
		vibrate = true
	default:
		r.state, _ = modifier.Transition(r.state, modifier.Release)
		r.latchedAt = t.sched.Now()
		vibrate = true
	}

	if prev != nil && prev.state == modifier.Up {
		t.remove(prev)
	}
	if r.state == modifier.Up {
		t.remove(r)
	}
	t.recompute()
	t.logger.Debug("modifier %s -> %s", r.value, t.mods)
	t.dispatcher.OnPointerFlagsChanged(vibrate)
}

// consume applies a non-modifier resolution to every modifier: held ones
// are marked so that their release does not latch, latched ones are
// dropped. It reports whether the modifiers changed.
func (t *Tracker) consume() bool {
	changed := false
	kept := t.records[:0]
	for _, r := range t.records {
		if r.value.IsModifier() {
			switch {
			case r.held:
				r.consumed = true
			case r.state == modifier.Latched:
				t.logger.Debug("consumed %s", r.value)
				changed = true
				continue
			}
		}
		kept = append(kept, r)
	}
	clear(t.records[len(kept):])
	t.records = kept
	return changed
}

func (t *Tracker) commitSwipe(r *record) {
	t.cancelHold(r)
	r.value = r.gesture.Value()
	t.recompute()
	t.logger.Debug("swipe id=%d %s value=%s", r.id, r.gesture.Resolution().Direction, r.value)
	t.dispatcher.OnPointerDown(preview(r.value, t.modsExcluding(r)), true)
}

// scheduleHold arms the hold timer for the time left before r's gesture
// reaches the hold timeout. The timeout may change while the finger is down,
// so a callback that finds the gesture not yet due arms it again.
func (t *Tracker) scheduleHold(r *record) {
	id, seq := r.id, r.seq
	delay := max(t.gestureCfg.HoldTimeout-t.sched.Now().Sub(r.gesture.Start()), 0)
	r.holdTask = t.sched.Schedule(delay, func() {
		cur := t.held(id)
		if cur == nil || cur.seq != seq {
			return
		}
		cur.holdTask = nil
		res, committed := t.classifier.CheckHold(cur.gesture, t.sched.Now())
		switch {
		case committed:
			t.fireHold(cur)
		case !res.Committed():
			t.scheduleHold(cur)
		}
	})
}

func (t *Tracker) cancelHold(r *record) {
	if r.holdTask != nil {
		r.holdTask.Cancel()
		r.holdTask = nil
	}
}

// fireHold resolves a held pointer as a hold. A held modifier locks when
// lock-on-hold is enabled; other keys report the hold and consume latched
// modifiers.
func (t *Tracker) fireHold(r *record) {
	t.metrics.recordHold()

	if r.value.IsModifier() {
		if t.lockOnHold {
			r.holdLocked = true
			t.recompute()
			t.logger.Debug("hold locked %s", r.value)
			t.dispatcher.OnPointerFlagsChanged(true)
		}
		return
	}

	mods := t.modsExcluding(r)
	eff, ok := modifier.Apply(r.value, mods)
	changed := t.consume()
	t.recompute()
	if ok {
		t.logger.Debug("hold id=%d value=%s mods=%s", r.id, eff, mods)
		t.dispatcher.OnPointerHold(eff, mods)
	}
	if changed {
		t.dispatcher.OnPointerFlagsChanged(false)
	}
}

// dropOthers removes released records sharing r's identity.
func (t *Tracker) dropOthers(r *record) {
	id := r.value.Identity()
	kept := t.records[:0]
	for _, o := range t.records {
		if o != r && !o.held && o.value.Identity() == id {
			continue
		}
		kept = append(kept, o)
	}
	clear(t.records[len(kept):])
	t.records = kept
}

// recompute rebuilds the modifiers from the whole pointer set.
func (t *Tracker) recompute() {
	t.mods = modifier.Combine(t.contributions(nil))
}

func (t *Tracker) modsExcluding(r *record) modifier.Modifiers {
	return modifier.Combine(t.contributions(r))
}

func (t *Tracker) contributions(skip *record) []modifier.Contribution {
	cs := make([]modifier.Contribution, 0, len(t.records))
	for _, r := range t.records {
		if r == skip || !r.value.IsModifier() {
			continue
		}
		cs = append(cs, modifier.Contribution{Value: r.value, Locked: r.locked()})
	}
	return cs
}

func (t *Tracker) held(id int) *record {
	return t.find(func(r *record) bool { return r.held && r.id == id })
}

func (t *Tracker) find(match func(*record) bool) *record {
	for _, r := range t.records {
		if match(r) {
			return r
		}
	}
	return nil
}

func (t *Tracker) remove(r *record) {
	for i, o := range t.records {
		if o == r {
			t.records = append(t.records[:i], t.records[i+1:]...)
			return
		}
	}
}

// fakeID returns the reserved id for an injected modifier identity.
func (t *Tracker) fakeID(id layout.Value) int {
	if n, ok := t.fakeIDs[id]; ok {
		return n
	}
	n := t.nextFake
	t.nextFake--
	t.fakeIDs[id] = n
	return n
}

// preview applies mods for a provisional press, falling back to the bare
// value when the combination cancels it.
func preview(v layout.Value, mods modifier.Modifiers) layout.Value {
	if eff, ok := modifier.Apply(v, mods); ok {
		return eff
	}
	return v
}
