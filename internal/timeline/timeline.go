// Package timeline provides the single event-processing timeline on which
// the touch core runs: a clock, and cancellable single-shot tasks that fire
// on the same timeline as touch events.
//
// Two implementations exist. Loop serializes work on one goroutine and is
// what a host runs. Manual is a deterministic clock advanced by hand, used by
// tests and by trace replay.
package timeline

import (
	"sync/atomic"
	"time"
)

// Clock reports the current time on the timeline.
type Clock interface {
	Now() time.Time
}

// Task is a scheduled single-shot callback.
type Task interface {
	// Cancel prevents the task from running. It returns false if the task
	// already ran or was already cancelled.
	Cancel() bool
}

// Scheduler schedules callbacks on the timeline.
type Scheduler interface {
	Clock

	// Schedule runs fn once, after d, on the timeline.
	Schedule(d time.Duration, fn func()) Task
}

// Executor is a Scheduler that also accepts work to run on the timeline.
type Executor interface {
	Scheduler

	// Post runs fn on the timeline.
	Post(fn func()) error
}

const (
	taskPending int32 = iota
	taskFired
	taskCancelled
)

// taskState resolves the fire/cancel race: exactly one of claim or cancel
// succeeds.
type taskState struct {
	state atomic.Int32
}

func (s *taskState) claim() bool {
	return s.state.CompareAndSwap(taskPending, taskFired)
}

func (s *taskState) cancel() bool {
	return s.state.CompareAndSwap(taskPending, taskCancelled)
}
