package host

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/overboard/internal/config"
	"github.com/dshills/overboard/internal/layout"
	"github.com/dshills/overboard/internal/modifier"
	"github.com/dshills/overboard/internal/timeline"
	"github.com/dshills/overboard/internal/trace"
)

type fixture struct {
	t     *testing.T
	clock *timeline.Manual
	view  *View
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	clock := timeline.NewManual(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	v, err := New(clock, layout.QWERTY(), 1000, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { v.Close() })
	return &fixture{t: t, clock: clock, view: v}
}

func (f *fixture) center(val layout.Value) (float64, float64) {
	f.t.Helper()
	k := f.view.Layout().FindKeyWithValue(val)
	require.NotNil(f.t, k, "no key for %v", val)
	box, ok := f.view.HitTester().BoxOf(k)
	require.True(f.t, ok)
	return box.Hit.Center()
}

func (f *fixture) tap(val layout.Value) {
	f.t.Helper()
	x, y := f.center(val)
	require.NoError(f.t, f.view.TouchDown(0, x, y))
	f.clock.Advance(30 * time.Millisecond)
	require.NoError(f.t, f.view.TouchUp(0))
	f.clock.Advance(30 * time.Millisecond)
}

func (f *fixture) swipe(val layout.Value, dx, dy float64) {
	f.t.Helper()
	x, y := f.center(val)
	require.NoError(f.t, f.view.TouchDown(0, x, y))
	require.NoError(f.t, f.view.TouchMove(0, x+dx, y+dy))
	require.NoError(f.t, f.view.TouchUp(0))
}

func (f *fixture) typeText(s string) {
	f.t.Helper()
	for _, r := range s {
		f.tap(layout.MakeChar(r))
	}
}

func TestTyping(t *testing.T) {
	f := newFixture(t, WithAutoCapitalize(false))
	f.typeText("hello world")
	assert.Equal(t, "hello world", f.view.Text())
}

func TestAutoCapitalization(t *testing.T) {
	f := newFixture(t)
	f.typeText("hi. yo")
	assert.Equal(t, "Hi. Yo", f.view.Text())
	assert.True(t, f.view.Tracker().Modifiers().IsEmpty())
}

func TestShiftKeyLatches(t *testing.T) {
	f := newFixture(t, WithAutoCapitalize(false))
	f.tap(layout.Shift)
	f.typeText("ab")

	assert.Equal(t, "Ab", f.view.Text())
	assert.Equal(t, 1, f.view.Vibrations())
}

func TestComposePending(t *testing.T) {
	f := newFixture(t, WithAutoCapitalize(false))
	f.view.SetComposePending(true)
	f.typeText("ee")
	assert.Equal(t, "€e", f.view.Text())
}

func TestSelectAllLocksSelectionMode(t *testing.T) {
	f := newFixture(t, WithAutoCapitalize(false))
	f.typeText("abc")

	f.tap(layout.Ctrl)
	f.tap(layout.MakeChar('a'))
	assert.Equal(t, "abc", f.view.Buffer().Selected())
	assert.True(t, f.view.Tracker().Modifiers().IsLocked(layout.ModSelectionMode))

	f.typeText("x")
	assert.Equal(t, "x", f.view.Text())
	assert.False(t, f.view.Tracker().Modifiers().Has(layout.ModSelectionMode))
}

func TestSelectionModeExtendsArrows(t *testing.T) {
	f := newFixture(t, WithAutoCapitalize(false))
	f.typeText("abc")

	f.swipe(layout.Space, -40, 0)
	assert.Equal(t, 2, f.view.Buffer().Cursor())
	assert.False(t, f.view.Buffer().HasSelection())

	f.view.SetSelectionState(true)
	f.swipe(layout.Space, -40, 0)
	assert.Equal(t, "b", f.view.Buffer().Selected())
}

func TestHoldTypesOnce(t *testing.T) {
	f := newFixture(t, WithAutoCapitalize(false))
	f.typeText("ab")

	x, y := f.center(layout.Backspace)
	require.NoError(t, f.view.TouchDown(3, x, y))
	f.clock.Advance(time.Second)
	require.NoError(t, f.view.TouchUp(3))

	assert.Equal(t, "a", f.view.Text())
}

func TestTouchOutsideKeys(t *testing.T) {
	f := newFixture(t, WithAutoCapitalize(false))
	require.NoError(t, f.view.TouchDown(0, 500, 5000))
	require.NoError(t, f.view.TouchMove(0, 510, 5000))
	require.NoError(t, f.view.TouchUp(0))

	assert.Empty(t, f.view.Text())
	assert.Zero(t, f.view.Tracker().Len())
}

func TestSetLayoutClearsPointers(t *testing.T) {
	f := newFixture(t, WithAutoCapitalize(false))
	x, y := f.center(layout.MakeChar('a'))
	require.NoError(t, f.view.TouchDown(1, x, y))
	f.tap(layout.Shift)
	require.Equal(t, 2, f.view.Tracker().Len())

	require.NoError(t, f.view.SetLayout(layout.QWERTY()))
	require.NoError(t, f.view.TouchUp(1))

	assert.Zero(t, f.view.Tracker().Len())
	assert.True(t, f.view.Tracker().Modifiers().IsEmpty())
	assert.Empty(t, f.view.Text())
}

func TestSetLayoutRestoresAutoCap(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.view.SetLayout(layout.QWERTY()))
	assert.True(t, f.view.Tracker().Modifiers().Has(layout.ModShift))
}

func TestScriptHook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hooks.lua")
	require.NoError(t, os.WriteFile(path, []byte(`
function on_key_up(v, mods)
  if v.text == "." then return "!" end
end
`), 0o644))

	cfg := config.Default()
	cfg.Script.Path = path
	f := newFixture(t, WithConfig(cfg), WithAutoCapitalize(false))

	f.typeText("a.")
	assert.Equal(t, "a!", f.view.Text())

	cfg.Script.Path = ""
	require.NoError(t, f.view.Configure(cfg))
	f.typeText(".")
	assert.Equal(t, "a!.", f.view.Text())
}

func TestBadScriptFailsNew(t *testing.T) {
	cfg := config.Default()
	cfg.Script.Path = filepath.Join(t.TempDir(), "missing.lua")
	_, err := New(timeline.NewManual(time.Now()), layout.QWERTY(), 1000, WithConfig(cfg))
	assert.Error(t, err)
}

func TestTraceRecording(t *testing.T) {
	cfg := config.Default()
	cfg.Trace.Dir = t.TempDir()
	f := newFixture(t, WithConfig(cfg), WithAutoCapitalize(false))

	require.NoError(t, f.view.StartTrace())
	assert.True(t, f.view.Recording())
	f.typeText("ab")
	path, err := f.view.StopTrace()
	require.NoError(t, err)
	assert.Equal(t, cfg.Trace.Dir, filepath.Dir(path))

	tr, err := trace.Load(path)
	require.NoError(t, err)
	kinds := make([]trace.Kind, len(tr.Events))
	for i, e := range tr.Events {
		kinds[i] = e.Kind
	}
	assert.Equal(t, []trace.Kind{trace.KindDown, trace.KindUp, trace.KindDown, trace.KindUp}, kinds)
	assert.Equal(t, "qwerty_us", tr.Layout)
	assert.InDelta(t, 1000, tr.Width, 1e-9)

	path, err = f.view.StopTrace()
	assert.NoError(t, err)
	assert.Empty(t, path)
}

func TestTraceDisabled(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.view.StartTrace(), ErrTracingDisabled)
}

func TestResize(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.view.Resize(500))
	assert.InDelta(t, 49.6, f.view.HitTester().Metrics().KeyWidth, 1e-9)
}

func TestResizeStopsTrace(t *testing.T) {
	cfg := config.Default()
	cfg.Trace.Dir = t.TempDir()
	f := newFixture(t, WithConfig(cfg))

	require.NoError(t, f.view.StartTrace())
	require.NoError(t, f.view.Resize(500))
	assert.False(t, f.view.Recording(), "a trace cannot mix widths")
}

func TestEventsAndActions(t *testing.T) {
	var got []layout.Event
	f := newFixture(t, WithAutoCapitalize(false), OnEvent(func(e layout.Event) { got = append(got, e) }))

	f.view.OnPointerUp(layout.SwitchNumeric, modifier.Empty)
	f.view.OnPointerUp(layout.Action, modifier.Empty)

	assert.Equal(t, []layout.Event{layout.EventSwitchNumeric}, got)
	assert.Equal(t, "\n", f.view.Text())
}

func TestOnChange(t *testing.T) {
	changes := 0
	f := newFixture(t, WithAutoCapitalize(false), OnChange(func() { changes++ }))
	f.typeText("a")
	assert.Equal(t, 2, changes, "one for the press, one for the release")
	assert.True(t, f.view.Pressed().IsZero())
}
