// Package host is a reference keyboard view. It owns the layout, the hit
// tester and the pointer tracker, runs them on one timeline and turns the
// resolved keys into edits of a text buffer.
//
// Touch methods may be called from any goroutine; they post onto the
// timeline. Every other method must run on the timeline, for instance from
// a function passed to Post or from the OnChange callback.
package host

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dshills/overboard/internal/config"
	"github.com/dshills/overboard/internal/geometry"
	"github.com/dshills/overboard/internal/layout"
	"github.com/dshills/overboard/internal/logging"
	"github.com/dshills/overboard/internal/modifier"
	"github.com/dshills/overboard/internal/pointer"
	"github.com/dshills/overboard/internal/script"
	"github.com/dshills/overboard/internal/timeline"
	"github.com/dshills/overboard/internal/trace"
)

// ErrTracingDisabled is returned when a trace is requested without a trace
// directory configured.
var ErrTracingDisabled = errors.New("trace directory not configured")

// View is a keyboard bound to a text buffer.
type View struct {
	exec   timeline.Executor
	cfg    config.Config
	logger *logging.Logger

	layout   *layout.Layout
	width    float64
	hit      *geometry.HitTester
	tracker  *pointer.Tracker
	script   *script.Dispatcher
	recorder *trace.Recorder

	buffer    *Buffer
	clipboard string

	autoCap   bool
	autoShift bool
	selecting bool
	pressed   layout.Value

	vibrations int
	onChange   func()
	onEvent    func(layout.Event)
}

// Option configures a View.
type Option func(*View)

// WithConfig sets the configuration.
func WithConfig(cfg config.Config) Option {
	return func(v *View) { v.cfg = cfg }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(v *View) { v.logger = l }
}

// WithAutoCapitalize latches shift at the start of a sentence.
func WithAutoCapitalize(on bool) Option {
	return func(v *View) { v.autoCap = on }
}

// OnChange registers a callback run on the timeline after every change
// that affects what is drawn.
func OnChange(fn func()) Option {
	return func(v *View) { v.onChange = fn }
}

// OnEvent registers a callback for keyboard events such as layout switches.
func OnEvent(fn func(layout.Event)) Option {
	return func(v *View) { v.onEvent = fn }
}

// New creates a view of l, width pixels wide, running on exec. It fails
// only when the configured script cannot be loaded.
func New(exec timeline.Executor, l *layout.Layout, width float64, opts ...Option) (*View, error) {
	v := &View{
		exec:    exec,
		cfg:     config.Default(),
		logger:  logging.Null,
		layout:  l,
		width:   width,
		buffer:  NewBuffer(),
		autoCap: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.logger = logging.OrNull(v.logger).WithComponent("host")

	v.hit = geometry.NewHitTester(l, geometry.Measure(l, width, geometryConfig(v.cfg.Geometry)))
	v.script = script.New(v, script.WithLogger(v.logger))
	if v.cfg.Script.Path != "" {
		if err := v.script.LoadFile(v.cfg.Script.Path); err != nil {
			return nil, err
		}
	}
	v.tracker = pointer.New(v.script, exec,
		pointer.WithHitTester(v.hit),
		pointer.WithConfig(v.cfg),
		pointer.WithLogger(v.logger),
	)
	v.recorder = trace.NewRecorder(v.tracker, l, exec)
	v.recorder.SetWidth(width)

	if err := exec.Post(v.refreshAutoCap); err != nil {
		return nil, err
	}
	return v, nil
}

func geometryConfig(g config.GeometryConfig) geometry.Config {
	return geometry.Config{
		MarginTop:           g.MarginTop,
		MarginBottom:        g.MarginBottom,
		MarginLeft:          g.MarginLeft,
		MarginRight:         g.MarginRight,
		RowHeight:           g.RowHeight,
		KeyHorizontalMargin: g.KeyHorizontalMargin,
		KeyVerticalMargin:   g.KeyVerticalMargin,
	}
}

// Post runs fn on the timeline.
func (v *View) Post(fn func()) error {
	return v.exec.Post(fn)
}

// TouchDown starts touch id at (x, y). Touches outside every key are
// ignored.
func (v *View) TouchDown(id int, x, y float64) error {
	return v.exec.Post(func() {
		k := v.hit.KeyAt(x, y)
		if k == nil {
			v.logger.Debug("touch %d at (%.0f,%.0f) hit no key", id, x, y)
			return
		}
		v.recorder.Down(x, y, id, k)
	})
}

// TouchMove moves touch id.
func (v *View) TouchMove(id int, x, y float64) error {
	return v.exec.Post(func() { v.recorder.Move(x, y, id) })
}

// TouchUp ends touch id.
func (v *View) TouchUp(id int) error {
	return v.exec.Post(func() {
		// Touches that started outside every key never reached the tracker.
		if !v.tracker.IsPointerDown(id) {
			return
		}
		v.recorder.Up(id)
	})
}

// TouchCancel drops every touch, for instance when the view loses focus.
func (v *View) TouchCancel() error {
	return v.exec.Post(func() {
		v.recorder.Cancel()
		v.changed()
	})
}

// SetLayout switches layouts. Every pointer is dropped.
func (v *View) SetLayout(l *layout.Layout) error {
	return v.exec.Post(func() {
		v.recorder.Clear()
		v.layout = l
		v.rebuild()
		v.recorder.SetLayout(l)
		v.autoShift = false
		v.refreshAutoCap()
		v.changed()
	})
}

// Resize changes the view width.
func (v *View) Resize(width float64) error {
	return v.exec.Post(func() {
		v.width = width
		v.rebuild()
		v.recorder.SetWidth(width)
		v.changed()
	})
}

// Configure applies a new configuration, reloading the script when its
// path changed.
func (v *View) Configure(cfg config.Config) error {
	return v.exec.Post(func() {
		old := v.cfg
		v.cfg = cfg
		v.tracker.Configure(cfg)
		if cfg.Geometry != old.Geometry {
			v.rebuild()
		}
		if cfg.Script.Path != old.Script.Path {
			v.reloadScript()
		}
		v.changed()
	})
}

// ReloadScript reloads the configured script from disk.
func (v *View) ReloadScript() error {
	return v.exec.Post(v.reloadScript)
}

func (v *View) reloadScript() {
	if v.cfg.Script.Path == "" {
		v.script.Unload()
		return
	}
	if err := v.script.LoadFile(v.cfg.Script.Path); err != nil {
		v.logger.Error("script reload failed: %v", err)
	}
}

func (v *View) rebuild() {
	v.hit = geometry.NewHitTester(v.layout, geometry.Measure(v.layout, v.width, geometryConfig(v.cfg.Geometry)))
	v.tracker.SetHitTester(v.hit)
}

// Close releases the script state.
func (v *View) Close() error {
	return v.script.Close()
}

// SetShiftState injects shift, for autocapitalisation.
func (v *View) SetShiftState(latched, lock bool) {
	v.recorder.SetFakePointerState(v.keyFor(layout.Shift), layout.Shift, latched, lock)
}

// SetComposePending injects compose while a compose sequence is pending.
func (v *View) SetComposePending(pending bool) {
	v.recorder.SetFakePointerState(v.keyFor(layout.Compose), layout.Compose, pending, false)
}

// SetSelectionState locks selection mode while the host has a selection.
func (v *View) SetSelectionState(on bool) {
	v.recorder.SetFakePointerState(layout.EmptyKey, layout.SelectionMode, false, on)
}

func (v *View) keyFor(val layout.Value) *layout.Key {
	if k := v.layout.FindKeyWithValue(val); k != nil {
		return k
	}
	return layout.EmptyKey
}

// StartTrace begins recording touches.
func (v *View) StartTrace() error {
	if v.cfg.Trace.Dir == "" {
		return ErrTracingDisabled
	}
	id := v.recorder.Start()
	v.logger.Info("recording trace %s", id)
	return nil
}

// StopTrace stops recording and saves the trace. It returns the file path,
// or "" when nothing was being recorded.
func (v *View) StopTrace() (string, error) {
	tr := v.recorder.Stop()
	if tr == nil {
		return "", nil
	}
	if v.cfg.Trace.Dir == "" {
		return "", ErrTracingDisabled
	}
	path := filepath.Join(v.cfg.Trace.Dir, trace.FileName(tr.Session))
	if err := trace.Save(tr, path); err != nil {
		return "", fmt.Errorf("save trace: %w", err)
	}
	v.logger.Info("saved %d events to %s", len(tr.Events), path)
	return path, nil
}

// Text returns the buffer contents.
func (v *View) Text() string { return v.buffer.String() }

// Buffer returns the text buffer.
func (v *View) Buffer() *Buffer { return v.buffer }

// Layout returns the current layout.
func (v *View) Layout() *layout.Layout { return v.layout }

// HitTester returns the current hit tester; renderers draw from its Walk.
func (v *View) HitTester() *geometry.HitTester { return v.hit }

// Tracker returns the pointer tracker.
func (v *View) Tracker() *pointer.Tracker { return v.tracker }

// Pressed returns the value of the last provisional press.
func (v *View) Pressed() layout.Value { return v.pressed }

// Vibrations returns how many haptic pulses were requested.
func (v *View) Vibrations() int { return v.vibrations }

// Recording reports whether a trace is being recorded.
func (v *View) Recording() bool { return v.recorder.IsRecording() }

func (v *View) changed() {
	if v.onChange != nil {
		v.onChange()
	}
}

// OnPointerDown implements pointer.Dispatcher.
func (v *View) OnPointerDown(val layout.Value, isSwipe bool) {
	v.pressed = val
	v.changed()
}

// OnPointerUp implements pointer.Dispatcher.
func (v *View) OnPointerUp(val layout.Value, mods modifier.Modifiers) {
	v.pressed = layout.Value{}
	v.apply(val)
	v.syncSelection()
	v.refreshAutoCap()
	v.changed()
}

// OnPointerHold implements pointer.Dispatcher. A held key is typed once.
func (v *View) OnPointerHold(val layout.Value, mods modifier.Modifiers) {
	v.apply(val)
	v.syncSelection()
	v.refreshAutoCap()
	v.changed()
}

// OnPointerFlagsChanged implements pointer.Dispatcher.
func (v *View) OnPointerFlagsChanged(vibrate bool) {
	if vibrate {
		v.vibrations++
	}
	v.changed()
}

func (v *View) apply(val layout.Value) {
	switch val.Kind() {
	case layout.KindChar:
		if val.Meta().Has(layout.MetaCtrl) || val.Meta().Has(layout.MetaAlt) || val.Meta().Has(layout.MetaMeta) {
			v.shortcut(val)
			return
		}
		v.buffer.Insert(string(val.Char()))
	case layout.KindString:
		v.buffer.Insert(val.Str())
	case layout.KindKeyevent:
		v.keyevent(val)
	case layout.KindEvent:
		if val.Event() == layout.EventAction {
			v.buffer.Insert("\n")
			return
		}
		v.logger.Debug("event %s", val.Event())
		if v.onEvent != nil {
			v.onEvent(val.Event())
		}
	default:
		v.logger.Debug("ignored %s", val)
	}
}

func (v *View) keyevent(val layout.Value) {
	b := v.buffer
	extend := val.Meta().Has(layout.MetaShift)
	switch val.Keycode() {
	case layout.KeycodeLeft:
		b.MoveBy(-1, extend)
	case layout.KeycodeRight:
		b.MoveBy(1, extend)
	case layout.KeycodeUp, layout.KeycodeHome, layout.KeycodePageUp:
		b.MoveTo(0, extend)
	case layout.KeycodeDown, layout.KeycodeEnd, layout.KeycodePageDown:
		b.MoveTo(b.Len(), extend)
	case layout.KeycodeBackspace:
		b.Backspace()
	case layout.KeycodeDelete:
		b.Delete()
	case layout.KeycodeEnter:
		b.Insert("\n")
	case layout.KeycodeTab:
		b.Insert("\t")
	case layout.KeycodeEscape:
		b.Collapse()
	default:
		v.logger.Debug("ignored key %s", val)
	}
}

func (v *View) shortcut(val layout.Value) {
	b := v.buffer
	switch {
	case val.Meta().Has(layout.MetaCtrl) && val.Char() == 'a':
		b.SelectAll()
	case val.Meta().Has(layout.MetaCtrl) && val.Char() == 'c':
		v.clipboard = b.Selected()
	case val.Meta().Has(layout.MetaCtrl) && val.Char() == 'x':
		v.clipboard = b.Selected()
		b.Insert("")
	case val.Meta().Has(layout.MetaCtrl) && val.Char() == 'v':
		b.Insert(v.clipboard)
	default:
		v.logger.Debug("ignored shortcut %s", val)
	}
}

// syncSelection keeps selection mode locked while text is selected, so
// arrows extend the selection.
func (v *View) syncSelection() {
	if sel := v.buffer.HasSelection(); sel != v.selecting {
		v.selecting = sel
		v.SetSelectionState(sel)
	}
}

// refreshAutoCap latches shift at the start of a sentence and releases the
// latch it set once the cursor leaves it.
func (v *View) refreshAutoCap() {
	if !v.autoCap {
		return
	}
	want := startsSentence(v.buffer.BeforeCursor())
	fake := v.tracker.KeyFlags(layout.Shift).Has(pointer.FlagFake)
	switch {
	case want && !fake:
		v.SetShiftState(true, false)
	case !want && fake && v.autoShift:
		v.SetShiftState(false, false)
	}
	v.autoShift = want
}

func startsSentence(before string) bool {
	trimmed := strings.TrimRight(before, " ")
	if trimmed == "" || strings.HasSuffix(before, "\n") {
		return true
	}
	if trimmed == before {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(trimmed)
	return r == '.' || r == '!' || r == '?'
}
