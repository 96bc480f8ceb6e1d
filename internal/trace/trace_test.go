package trace

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/overboard/internal/geometry"
	"github.com/dshills/overboard/internal/layout"
	"github.com/dshills/overboard/internal/modifier"
	"github.com/dshills/overboard/internal/pointer"
	"github.com/dshills/overboard/internal/timeline"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// sink collects what a tracker emits, one line per action.
type sink struct {
	pointer.NopDispatcher
	lines []string
}

func (s *sink) OnPointerUp(v layout.Value, mods modifier.Modifiers) {
	s.lines = append(s.lines, "up "+v.String()+" "+mods.String())
}

func (s *sink) OnPointerHold(v layout.Value, mods modifier.Modifiers) {
	s.lines = append(s.lines, "hold "+v.String()+" "+mods.String())
}

func newTracker(clock *timeline.Manual) (*pointer.Tracker, *sink) {
	s := &sink{}
	return pointer.New(s, clock), s
}

// recordSession types "Qw", holds "e" and locks selection mode.
func recordSession(t *testing.T) (*Trace, []string) {
	t.Helper()
	l := layout.QWERTY()
	hit := geometry.NewHitTester(l, geometry.Measure(l, 1000, geometry.Config{RowHeight: 100}))
	clock := timeline.NewManual(epoch)
	tracker, s := newTracker(clock)
	rec := NewRecorder(tracker, l, clock)
	rec.SetWidth(1000)

	session := rec.Start()
	if session == uuid.Nil {
		t.Fatal("Start() returned a nil session id")
	}

	tap := func(id int, x, y float64) {
		rec.Down(x, y, id, hit.KeyAt(x, y))
		clock.Advance(30 * time.Millisecond)
		rec.Up(id)
		clock.Advance(30 * time.Millisecond)
	}
	tap(0, 75, 250) // shift
	tap(0, 50, 50)  // q
	tap(1, 150, 50) // w

	rec.Down(250, 50, 0, hit.KeyAt(250, 50))
	clock.Advance(500 * time.Millisecond)
	rec.Up(0)

	rec.SetFakePointerState(layout.EmptyKey, layout.SelectionMode, false, true)
	rec.SetFakePointerState(layout.EmptyKey, layout.MakeChar('x'), true, false)

	if got := rec.Len(); got != 9 {
		t.Fatalf("Len() = %d, want 9", got)
	}
	tr := rec.Stop()
	if tr == nil {
		t.Fatal("Stop() returned nil")
	}
	if tr.Session != session {
		t.Errorf("Session = %v, want %v", tr.Session, session)
	}
	return tr, s.lines
}

func TestRecorderRecordsOffsets(t *testing.T) {
	tr, lines := recordSession(t)

	want := []string{
		`up char 'Q' shift`,
		`up char 'w' none`,
		`hold char 'e' none`,
	}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("session = %q, want %q", lines, want)
	}

	if tr.Layout != "qwerty_us" {
		t.Errorf("Layout = %q, want qwerty_us", tr.Layout)
	}
	if got := tr.Events[0].Key; got != (KeyRef{Row: 2, Index: 0}) {
		t.Errorf("first key = %+v, want shift at 2/0", got)
	}
	if got := tr.Events[1].At; got != 30*time.Millisecond {
		t.Errorf("Events[1].At = %v, want 30ms", got)
	}
	if got, want := tr.Duration(), 680*time.Millisecond; got != want {
		t.Errorf("Duration() = %v, want %v", got, want)
	}
	last := tr.Events[len(tr.Events)-1]
	if last.Kind != KindFake || last.Mod != layout.ModSelectionMode || !last.Lock || last.Key != NoKey {
		t.Errorf("last event = %+v", last)
	}
}

func TestRecorderIdle(t *testing.T) {
	clock := timeline.NewManual(epoch)
	tracker, s := newTracker(clock)
	l := layout.QWERTY()
	rec := NewRecorder(tracker, l, clock)

	rec.Down(50, 50, 0, l.KeyAt(0, 0))
	rec.Up(0)

	if rec.IsRecording() || rec.Len() != 0 {
		t.Error("recorder recorded without Start()")
	}
	if rec.Stop() != nil {
		t.Error("Stop() without Start() returned a trace")
	}
	if len(s.lines) != 1 {
		t.Errorf("forwarded %d actions, want 1", len(s.lines))
	}
}

func TestRecorderWidthChangeDiscards(t *testing.T) {
	clock := timeline.NewManual(epoch)
	tracker, _ := newTracker(clock)
	rec := NewRecorder(tracker, layout.QWERTY(), clock)
	rec.SetWidth(1000)

	rec.Start()
	rec.SetWidth(1000)
	if !rec.IsRecording() {
		t.Fatal("setting the same width stopped the recording")
	}
	rec.SetWidth(800)
	if rec.IsRecording() || rec.Stop() != nil {
		t.Error("a resize did not discard the recording")
	}

	rec.Start()
	if tr := rec.Stop(); tr == nil || tr.Width != 800 {
		t.Errorf("Stop() = %+v, want a trace stamped with width 800", tr)
	}
}

func TestSaveLoadReplay(t *testing.T) {
	tr, original := recordSession(t)

	path := filepath.Join(t.TempDir(), "traces", FileName(tr.Session))
	if err := Save(tr, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Session != tr.Session || !loaded.Started.Equal(tr.Started) {
		t.Errorf("header = %v %v, want %v %v", loaded.Session, loaded.Started, tr.Session, tr.Started)
	}
	if loaded.Width != 1000 {
		t.Errorf("Width = %g, want 1000", loaded.Width)
	}
	if !reflect.DeepEqual(loaded.Events, tr.Events) {
		t.Fatalf("events differ after load:\n got %v\nwant %v", loaded.Events, tr.Events)
	}

	clock := timeline.NewManual(epoch.Add(time.Hour))
	tracker, s := newTracker(clock)
	p := NewPlayer(layout.QWERTY())
	p.SetWidth(1000)
	if err := p.Replay(context.Background(), loaded, tracker, clock); err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if !reflect.DeepEqual(s.lines, original) {
		t.Errorf("replay = %q, want %q", s.lines, original)
	}
	if !tracker.Modifiers().IsLocked(layout.ModSelectionMode) {
		t.Error("replay did not restore the injected selection mode")
	}
}

func TestReplayTestdata(t *testing.T) {
	tr, err := Load(filepath.Join("testdata", "capslock.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(tr.Events) != 7 {
		t.Fatalf("len(Events) = %d, want 7", len(tr.Events))
	}

	clock := timeline.NewManual(epoch)
	tracker, s := newTracker(clock)
	if err := NewPlayer(layout.QWERTY()).Replay(context.Background(), tr, tracker, clock); err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	want := []string{`up char 'Q' shift!`, `up char 'W' shift!`}
	if !reflect.DeepEqual(s.lines, want) {
		t.Errorf("replay = %q, want %q", s.lines, want)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"future version", "version: 2\nevents: []\n", ErrUnsupportedVersion},
		{"missing version", "events: []\n", ErrUnsupportedVersion},
		{"unknown kind", "version: 1\nevents:\n  - at: 0s\n    kind: wiggle\n", ErrBadEvent},
		{"unknown modifier", "version: 1\nevents:\n  - at: 0s\n    kind: fake\n    mod: hyper\n", ErrBadEvent},
		{"bad offset", "version: 1\nevents:\n  - at: soon\n    kind: up\n", ErrBadEvent},
		{"down without key", "version: 1\nevents:\n  - at: 0s\n    kind: down\n", ErrBadEvent},
		{"short key", "version: 1\nevents:\n  - at: 0s\n    kind: down\n    key: [1]\n", ErrBadEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.yaml))
			if !errors.Is(err, tt.want) {
				t.Errorf("Unmarshal() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Unmarshal([]byte("version: 1\nsession: nope\n")); err == nil {
		t.Error("Unmarshal() accepted an invalid session id")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file succeeded")
	}
}

func TestMarshalFormat(t *testing.T) {
	tr := &Trace{
		Session: uuid.MustParse("3f9c2a4e-8b1d-4c6a-9e2f-1a2b3c4d5e6f"),
		Layout:  "qwerty_us",
		Width:   1000,
		Events: []Event{
			{At: 0, Kind: KindDown, X: 75, Y: 250, Key: KeyRef{Row: 2, Index: 0}},
			{At: 20 * time.Millisecond, Kind: KindUp, Key: NoKey},
		},
	}
	out, err := Marshal(tr)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{"version: 1", "width: 1000", "key: [2, 0]", "at: 20ms", "kind: up"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("Marshal() output missing %q:\n%s", want, out)
		}
	}
}

func TestReplayErrors(t *testing.T) {
	clock := timeline.NewManual(epoch)
	tracker, _ := newTracker(clock)
	p := NewPlayer(layout.QWERTY())

	err := p.Replay(context.Background(), &Trace{Layout: "dvorak"}, tracker, clock)
	if !errors.Is(err, ErrLayoutMismatch) {
		t.Errorf("Replay() error = %v, want %v", err, ErrLayoutMismatch)
	}

	p.SetWidth(1000)
	err = p.Replay(context.Background(), &Trace{Layout: "qwerty_us", Width: 500}, tracker, clock)
	if !errors.Is(err, ErrWidthMismatch) {
		t.Errorf("Replay() error = %v, want %v", err, ErrWidthMismatch)
	}

	bad := &Trace{Events: []Event{{Kind: KindDown, Key: KeyRef{Row: 9, Index: 0}}}}
	if err := p.Replay(context.Background(), bad, tracker, clock); !errors.Is(err, ErrBadEvent) {
		t.Errorf("Replay() error = %v, want %v", err, ErrBadEvent)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok := &Trace{Events: []Event{{Kind: KindClear, Key: NoKey}}}
	if err := p.Replay(ctx, ok, tracker, clock); !errors.Is(err, context.Canceled) {
		t.Errorf("Replay() error = %v, want %v", err, context.Canceled)
	}
	if p.IsPlaying() {
		t.Error("IsPlaying() after replay returned")
	}
}
