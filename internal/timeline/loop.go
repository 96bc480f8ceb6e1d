package timeline

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLoopClosed is returned when work is posted to a closed loop.
var ErrLoopClosed = errors.New("timeline: loop closed")

// Loop runs posted functions one at a time on the goroutine that called Run.
// Timers scheduled with Schedule post their callback into the loop, so touch
// events and deferred callbacks never run concurrently.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
	now   func() time.Time
}

// NewLoop creates a loop with the given queue capacity.
func NewLoop(capacity int) *Loop {
	if capacity <= 0 {
		capacity = 256
	}
	return &Loop{
		queue: make(chan func(), capacity),
		done:  make(chan struct{}),
		now:   time.Now,
	}
}

// Now implements Clock.
func (l *Loop) Now() time.Time {
	return l.now()
}

// Post queues fn to run on the loop. It blocks while the queue is full and
// returns ErrLoopClosed once the loop has been closed.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrLoopClosed
	default:
	}
	select {
	case l.queue <- fn:
		return nil
	case <-l.done:
		return ErrLoopClosed
	}
}

// Run processes posted work until ctx is cancelled or Close is called. The
// loop is closed when Run returns, so later posts fail with ErrLoopClosed.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.queue:
			fn()
		}
	}
}

// Close stops the loop. Pending work is dropped.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}

// Schedule implements Scheduler.
func (l *Loop) Schedule(d time.Duration, fn func()) Task {
	t := &loopTask{}
	t.timer = time.AfterFunc(d, func() {
		_ = l.Post(func() {
			if t.state.claim() {
				fn()
			}
		})
	})
	return t
}

type loopTask struct {
	state taskState
	timer *time.Timer
}

func (t *loopTask) Cancel() bool {
	if !t.state.cancel() {
		return false
	}
	t.timer.Stop()
	return true
}
