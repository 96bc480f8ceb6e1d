package sim

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/overboard/internal/config"
	"github.com/dshills/overboard/internal/layout"
	"github.com/dshills/overboard/internal/renderer"
	"github.com/dshills/overboard/internal/renderer/backend"
	"github.com/dshills/overboard/internal/timeline"
)

type fixture struct {
	t     *testing.T
	term  *backend.NullBackend
	clock *timeline.Manual
	sim   *Sim
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	term := backend.NewNullBackend(100, 20)
	require.NoError(t, term.Init())
	clock := timeline.NewManual(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	s, err := New(term, clock, layout.QWERTY(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return &fixture{t: t, term: term, clock: clock, sim: s}
}

// cell returns a terminal cell inside the key holding v.
func (f *fixture) cell(v layout.Value) (int, int) {
	f.t.Helper()
	view := f.sim.View()
	k := view.Layout().FindKeyWithValue(v)
	require.NotNil(f.t, k)
	box, ok := view.HitTester().BoxOf(k)
	require.True(f.t, ok)
	x, y := box.Hit.Center()
	return int(x / renderer.DefaultScale.X), int(f.sim.top.Load()) + int(y/renderer.DefaultScale.Y)
}

func (f *fixture) mouse(x, y int, buttons backend.ButtonMask) {
	f.sim.Handle(backend.Event{Type: backend.EventMouse, MouseX: x, MouseY: y, Buttons: buttons})
}

func (f *fixture) click(v layout.Value) {
	x, y := f.cell(v)
	f.mouse(x, y, backend.ButtonPrimary)
	f.clock.Advance(30 * time.Millisecond)
	f.mouse(x, y, backend.ButtonNone)
	f.clock.Advance(30 * time.Millisecond)
}

func (f *fixture) key(k backend.Key) bool {
	return f.sim.Handle(backend.Event{Type: backend.EventKey, Key: k})
}

// drain handles the redraw requests queued by the view.
func (f *fixture) drain() {
	for f.term.Pending() > 0 {
		f.sim.Handle(f.term.PollEvent())
	}
}

func (f *fixture) statusRow() string {
	return f.term.Row(int(f.sim.top.Load()) - 1)
}

func TestDrawsKeyboardAtBottom(t *testing.T) {
	f := newFixture(t)

	assert.EqualValues(t, 7, f.sim.top.Load())
	assert.Positive(t, f.term.Shows())

	x, y := f.cell(layout.MakeChar('q'))
	// Autocapitalisation latched shift, so labels are upper case.
	assert.Contains(t, f.term.Row(y), "Q")
	assert.True(t, f.term.GetCell(x, y).Style.Background.Equals(renderer.DefaultTheme().Key))
	assert.Contains(t, f.statusRow(), "qwerty_us")
	assert.Contains(t, f.statusRow(), "mods: shift")
}

func TestClicksType(t *testing.T) {
	f := newFixture(t)
	f.click(layout.MakeChar('q'))
	f.click(layout.MakeChar('w'))

	assert.Equal(t, "Qw", f.sim.View().Text())
	assert.Positive(t, f.term.Pending(), "changes request a redraw")

	f.drain()
	assert.True(t, strings.HasPrefix(f.term.Row(0), "Qw▏"), "text row = %q", f.term.Row(0))
}

func TestTwoButtonChord(t *testing.T) {
	f := newFixture(t)
	f.click(layout.MakeChar('q'))

	sx, sy := f.cell(layout.Shift)
	wx, wy := f.cell(layout.MakeChar('w'))

	f.mouse(sx, sy, backend.ButtonPrimary)
	f.mouse(wx, wy, backend.ButtonPrimary|backend.ButtonSecondary)
	f.mouse(wx, wy, backend.ButtonPrimary)
	f.mouse(wx, wy, backend.ButtonNone)
	f.click(layout.MakeChar('e'))

	assert.Equal(t, "QWe", f.sim.View().Text())
	assert.Zero(t, f.sim.View().Tracker().Len())
}

func TestDragSwipes(t *testing.T) {
	f := newFixture(t)
	f.click(layout.MakeChar('q'))

	x, y := f.cell(layout.MakeChar('q'))
	f.mouse(x, y, backend.ButtonPrimary)
	f.mouse(x+4, y-2, backend.ButtonPrimary)
	f.mouse(x+4, y-2, backend.ButtonNone)

	assert.Equal(t, "Q1", f.sim.View().Text())
}

func TestFocusLossCancelsTouches(t *testing.T) {
	f := newFixture(t)
	x, y := f.cell(layout.MakeChar('q'))
	f.mouse(x, y, backend.ButtonPrimary)
	require.Equal(t, 1, f.sim.View().Tracker().Len()-1, "touch plus the autocap latch")

	f.sim.Handle(backend.Event{Type: backend.EventFocus, Focused: false})
	f.mouse(x, y, backend.ButtonNone)

	assert.Empty(t, f.sim.View().Text())
	assert.Equal(t, 1, f.sim.View().Tracker().Len(), "only the injected latch is left")
}

func TestTraceToggle(t *testing.T) {
	cfg := config.Default()
	cfg.Trace.Dir = t.TempDir()
	f := newFixture(t, WithConfig(cfg))

	f.key(backend.KeyCtrlT)
	assert.True(t, f.sim.View().Recording())
	assert.Contains(t, f.statusRow(), "● rec")

	f.click(layout.MakeChar('q'))
	f.key(backend.KeyCtrlT)
	assert.False(t, f.sim.View().Recording())
	assert.Contains(t, f.statusRow(), "saved ")

	entries, err := os.ReadDir(cfg.Trace.Dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".yaml"))
}

func TestTraceWithoutDirectory(t *testing.T) {
	f := newFixture(t)
	f.key(backend.KeyCtrlT)
	assert.Contains(t, f.statusRow(), "trace directory not configured")
}

func TestClearAndQuit(t *testing.T) {
	f := newFixture(t)
	f.click(layout.MakeChar('q'))

	assert.True(t, f.key(backend.KeyCtrlL))
	assert.Empty(t, f.sim.View().Text())

	assert.False(t, f.key(backend.KeyEscape))
	assert.False(t, f.key(backend.KeyCtrlQ))
	assert.False(t, f.sim.Handle(backend.Event{Type: backend.EventQuit}))
}

func TestResize(t *testing.T) {
	f := newFixture(t)
	f.term.Resize(50, 30)
	f.sim.Handle(backend.Event{Type: backend.EventResize, Width: 50, Height: 30})

	assert.InDelta(t, 49.6, f.sim.View().HitTester().Metrics().KeyWidth, 1e-9)
	assert.EqualValues(t, 17, f.sim.top.Load())
}

func TestConfigure(t *testing.T) {
	f := newFixture(t)

	cfg := config.Default()
	cfg.Theme.Key = "#000000"
	require.NoError(t, f.sim.Configure(cfg))
	assert.Equal(t, "#000000", f.sim.keyboard.Theme().Key.Hex())
	assert.Contains(t, f.statusRow(), "configuration reloaded")

	cfg.Theme.Key = "black"
	assert.Error(t, f.sim.Configure(cfg))
}

func TestBadThemeFailsNew(t *testing.T) {
	cfg := config.Default()
	cfg.Theme.Label = "white"
	term := backend.NewNullBackend(100, 20)
	require.NoError(t, term.Init())
	_, err := New(term, timeline.NewManual(time.Now()), layout.QWERTY(), WithConfig(cfg))
	assert.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, f.sim.Run(ctx), context.Canceled)
}
