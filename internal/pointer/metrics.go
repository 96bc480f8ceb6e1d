package pointer

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const latencySamples = 512

// Metrics counts tracker activity and samples per-event processing time.
// Counters may be read from any goroutine.
type Metrics struct {
	downs       atomic.Uint64
	taps        atomic.Uint64
	swipes      atomic.Uint64
	holds       atomic.Uint64
	slides      atomic.Uint64
	cancels     atomic.Uint64
	ignored     atomic.Uint64
	fakeUpdates atomic.Uint64

	mu        sync.Mutex
	latencies []time.Duration
	next      int
	filled    bool
	peak      atomic.Int64

	enabled atomic.Bool
}

// NewMetrics creates an enabled metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{latencies: make([]time.Duration, latencySamples)}
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables collection.
func (m *Metrics) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

func (m *Metrics) count(c *atomic.Uint64) {
	if !m.enabled.Load() {
		return
	}
	c.Add(1)
}

func (m *Metrics) recordDown()       { m.count(&m.downs) }
func (m *Metrics) recordTap()        { m.count(&m.taps) }
func (m *Metrics) recordSwipe()      { m.count(&m.swipes) }
func (m *Metrics) recordHold()       { m.count(&m.holds) }
func (m *Metrics) recordSlide()      { m.count(&m.slides) }
func (m *Metrics) recordCancel()     { m.count(&m.cancels) }
func (m *Metrics) recordIgnored()    { m.count(&m.ignored) }
func (m *Metrics) recordFakeUpdate() { m.count(&m.fakeUpdates) }

// observe records the processing time of an event that started at start.
func (m *Metrics) observe(start time.Time) {
	if !m.enabled.Load() {
		return
	}
	d := time.Since(start)

	ns := d.Nanoseconds()
	for {
		cur := m.peak.Load()
		if ns <= cur || m.peak.CompareAndSwap(cur, ns) {
			break
		}
	}

	m.mu.Lock()
	m.latencies[m.next] = d
	m.next = (m.next + 1) % len(m.latencies)
	if m.next == 0 {
		m.filled = true
	}
	m.mu.Unlock()
}

// Snapshot is a point-in-time view of the metrics.
type Snapshot struct {
	Downs       uint64
	Taps        uint64
	Swipes      uint64
	Holds       uint64
	Slides      uint64
	Cancels     uint64
	Ignored     uint64
	FakeUpdates uint64

	AvgLatency  time.Duration
	P99Latency  time.Duration
	PeakLatency time.Duration
}

// Snapshot returns the current counters and latency statistics.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Downs:       m.downs.Load(),
		Taps:        m.taps.Load(),
		Swipes:      m.swipes.Load(),
		Holds:       m.holds.Load(),
		Slides:      m.slides.Load(),
		Cancels:     m.cancels.Load(),
		Ignored:     m.ignored.Load(),
		FakeUpdates: m.fakeUpdates.Load(),
		PeakLatency: time.Duration(m.peak.Load()),
	}

	m.mu.Lock()
	n := m.next
	if m.filled {
		n = len(m.latencies)
	}
	samples := make([]time.Duration, n)
	copy(samples, m.latencies[:n])
	m.mu.Unlock()

	if n == 0 {
		return snap
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	var total time.Duration
	for _, s := range samples {
		total += s
	}
	snap.AvgLatency = total / time.Duration(n)
	snap.P99Latency = samples[(n*99)/100]
	return snap
}

// Reset clears all counters and samples.
func (m *Metrics) Reset() {
	for _, c := range []*atomic.Uint64{&m.downs, &m.taps, &m.swipes, &m.holds, &m.slides, &m.cancels, &m.ignored, &m.fakeUpdates} {
		c.Store(0)
	}
	m.peak.Store(0)
	m.mu.Lock()
	m.next = 0
	m.filled = false
	m.mu.Unlock()
}
