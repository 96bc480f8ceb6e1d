package script

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/overboard/internal/layout"
	"github.com/dshills/overboard/internal/logging"
	"github.com/dshills/overboard/internal/modifier"
	"github.com/dshills/overboard/internal/pointer"
)

// Dispatcher wraps a pointer.Dispatcher and lets the loaded script rewrite
// key-up and hold notifications before they reach it. Without a script, or
// when a hook fails, notifications pass through unchanged.
type Dispatcher struct {
	next    pointer.Dispatcher
	logger  *logging.Logger
	timeout time.Duration

	mu     sync.Mutex
	L      *lua.LState
	source string
	closed bool

	failures atomic.Uint64
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger that receives script output and hook errors.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithTimeout bounds each hook call.
func WithTimeout(t time.Duration) Option {
	return func(d *Dispatcher) { d.timeout = t }
}

// New creates a script dispatcher forwarding to next.
func New(next pointer.Dispatcher, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		next:    next,
		logger:  logging.Null,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.OrNull(d.logger).WithComponent("script")
	return d
}

// LoadFile loads a script from path, replacing the current one. On error
// the current script stays active. The top-level chunk gets the same time
// limit as a hook call.
func (d *Dispatcher) LoadFile(path string) error {
	return d.load(path, func(L *lua.LState) error { return L.DoFile(path) })
}

// LoadString loads a script from source; name identifies it in logs.
func (d *Dispatcher) LoadString(name, src string) error {
	return d.load(name, func(L *lua.LState) error { return L.DoString(src) })
}

func (d *Dispatcher) load(name string, run func(*lua.LState) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}

	L := newState(d.logger.WithField("script", name))
	if err := guard(L, d.timeout, func() error { return run(L) }); err != nil {
		L.Close()
		return fmt.Errorf("load script %s: %w", name, err)
	}
	if d.L != nil {
		d.L.Close()
	}
	d.L = L
	d.source = name
	d.logger.Info("loaded script %s", name)
	return nil
}

// Unload drops the current script.
func (d *Dispatcher) Unload() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.L != nil {
		d.L.Close()
		d.L = nil
		d.source = ""
	}
}

// Loaded returns the name of the loaded script, or "".
func (d *Dispatcher) Loaded() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.source
}

// Failures returns how many hook calls have failed.
func (d *Dispatcher) Failures() uint64 {
	return d.failures.Load()
}

// Close releases the Lua state. Notifications keep passing through.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	if d.L != nil {
		d.L.Close()
		d.L = nil
	}
	d.source = ""
	d.closed = true
	return nil
}

// Rewrite runs on_key_up for v. It returns the value to emit and false when
// the script dropped it.
func (d *Dispatcher) Rewrite(v layout.Value, mods modifier.Modifiers) (layout.Value, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.L == nil {
		return v, true, ErrScriptNotLoaded
	}
	ret, err := call(d.L, d.timeout, "on_key_up", valueTable(d.L, v), modsTable(d.L, mods))
	if err != nil {
		return v, true, err
	}

	switch r := ret.(type) {
	case lua.LString:
		return replacement(string(r))
	case lua.LBool:
		if !bool(r) {
			return v, false, nil
		}
	}
	return v, true, nil
}

// HandleHold runs on_hold for v and reports whether the script handled it.
func (d *Dispatcher) HandleHold(v layout.Value, mods modifier.Modifiers) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.L == nil {
		return false, ErrScriptNotLoaded
	}
	ret, err := call(d.L, d.timeout, "on_hold", valueTable(d.L, v), modsTable(d.L, mods))
	if err != nil {
		return false, err
	}
	return lua.LVAsBool(ret), nil
}

func (d *Dispatcher) failed(hook string, err error) {
	if errors.Is(err, ErrScriptNotLoaded) {
		return
	}
	d.failures.Add(1)
	d.logger.Warn("%s failed: %v", hook, err)
}

func (d *Dispatcher) OnPointerDown(v layout.Value, isSwipe bool) {
	d.next.OnPointerDown(v, isSwipe)
}

func (d *Dispatcher) OnPointerUp(v layout.Value, mods modifier.Modifiers) {
	out, keep, err := d.Rewrite(v, mods)
	if err != nil {
		d.failed("on_key_up", err)
		out, keep = v, true
	}
	if keep {
		d.next.OnPointerUp(out, mods)
	}
}

func (d *Dispatcher) OnPointerHold(v layout.Value, mods modifier.Modifiers) {
	handled, err := d.HandleHold(v, mods)
	if err != nil {
		d.failed("on_hold", err)
	}
	if !handled {
		d.next.OnPointerHold(v, mods)
	}
}

func (d *Dispatcher) OnPointerFlagsChanged(vibrate bool) {
	d.next.OnPointerFlagsChanged(vibrate)
}

func replacement(s string) (layout.Value, bool, error) {
	switch utf8.RuneCountInString(s) {
	case 0:
		return layout.Value{}, false, nil
	case 1:
		r, _ := utf8.DecodeRuneInString(s)
		return layout.MakeChar(r), true, nil
	default:
		return layout.MakeString(s), true, nil
	}
}

func valueTable(L *lua.LState, v layout.Value) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("kind", lua.LString(v.Kind().String()))
	t.RawSetString("text", lua.LString(valueText(v)))
	t.RawSetString("label", lua.LString(v.Label()))
	t.RawSetString("meta", lua.LString(v.Meta().ShortString()))
	return t
}

func valueText(v layout.Value) string {
	switch v.Kind() {
	case layout.KindChar:
		return string(v.Char())
	case layout.KindString:
		return v.Str()
	case layout.KindKeyevent:
		return v.Keycode().String()
	case layout.KindEvent:
		return v.Event().String()
	case layout.KindModifier:
		return v.Mod().String()
	default:
		return ""
	}
}

func modsTable(L *lua.LState, mods modifier.Modifiers) *lua.LTable {
	t := L.NewTable()
	for _, m := range mods.Mods() {
		t.Append(lua.LString(m.String()))
	}
	return t
}
