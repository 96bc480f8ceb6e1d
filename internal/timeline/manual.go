package timeline

import (
	"sort"
	"time"
)

// Manual is a hand-driven clock. Scheduled tasks run only inside Advance or
// AdvanceTo, in due-time order, on the caller's goroutine. It is not safe for
// concurrent use; like the real timeline, it has a single owner.
type Manual struct {
	now   time.Time
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	state taskState
	due   time.Time
	seq   uint64
	fn    func()
}

func (t *manualTask) Cancel() bool {
	return t.state.cancel()
}

// NewManual returns a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now implements Clock.
func (m *Manual) Now() time.Time {
	return m.now
}

// Schedule implements Scheduler.
func (m *Manual) Schedule(d time.Duration, fn func()) Task {
	m.seq++
	t := &manualTask{due: m.now.Add(d), seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Post runs fn immediately on the caller's goroutine.
func (m *Manual) Post(fn func()) error {
	fn()
	return nil
}

// Advance moves the clock forward by d, running every task that falls due.
func (m *Manual) Advance(d time.Duration) {
	m.AdvanceTo(m.now.Add(d))
}

// AdvanceTo moves the clock to target, running every task due at or before
// it. Tasks scheduled by running tasks are honoured if they also fall due.
// Moving backwards is ignored.
func (m *Manual) AdvanceTo(target time.Time) {
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		if next.due.After(m.now) {
			m.now = next.due
		}
		if next.state.claim() {
			next.fn()
		}
	}
	if target.After(m.now) {
		m.now = target
	}
}

// nextDue removes and returns the earliest pending task due by target.
func (m *Manual) nextDue(target time.Time) *manualTask {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if t.state.state.Load() == taskPending {
			live = append(live, t)
		}
	}
	m.tasks = live
	if len(m.tasks) == 0 {
		return nil
	}
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].due.Equal(m.tasks[j].due) {
			return m.tasks[i].seq < m.tasks[j].seq
		}
		return m.tasks[i].due.Before(m.tasks[j].due)
	})
	first := m.tasks[0]
	if first.due.After(target) {
		return nil
	}
	m.tasks = m.tasks[1:]
	return first
}

// Pending returns the number of tasks that have neither run nor been
// cancelled.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.tasks {
		if t.state.state.Load() == taskPending {
			n++
		}
	}
	return n
}
