// Package sim runs the keyboard in a terminal. Each mouse button is one
// finger: pressing a button starts a touch, dragging moves it and releasing
// lifts it, so two buttons held together exercise multi-touch chords.
//
// Keys handled by the simulator itself:
//
//	Esc, Ctrl-C, Ctrl-Q  quit
//	Ctrl-T               start or stop recording a touch trace
//	Ctrl-R               reload the output script
//	Ctrl-L               clear the text
package sim

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/dshills/overboard/internal/config"
	"github.com/dshills/overboard/internal/host"
	"github.com/dshills/overboard/internal/layout"
	"github.com/dshills/overboard/internal/logging"
	"github.com/dshills/overboard/internal/renderer"
	"github.com/dshills/overboard/internal/renderer/backend"
	"github.com/dshills/overboard/internal/renderer/core"
	"github.com/dshills/overboard/internal/timeline"
)

// Sim binds a host view to a terminal backend.
type Sim struct {
	backend backend.Backend
	exec    timeline.Executor
	logger  *logging.Logger
	cfg     config.Config

	view     *host.View
	keyboard *renderer.Keyboard

	// top is the first keyboard row, written by draw on the timeline and
	// read by the event loop.
	top atomic.Int64

	// Event loop state.
	buttons backend.ButtonMask
	lastX   int
	lastY   int

	// Timeline state.
	status string
}

// Option configures a Sim.
type Option func(*Sim)

// WithConfig sets the configuration.
func WithConfig(cfg config.Config) Option {
	return func(s *Sim) { s.cfg = cfg }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Sim) { s.logger = l }
}

// New creates a simulator drawing l on b. The backend must be initialised.
func New(b backend.Backend, exec timeline.Executor, l *layout.Layout, opts ...Option) (*Sim, error) {
	s := &Sim{
		backend: b,
		exec:    exec,
		cfg:     config.Default(),
		logger:  logging.Null,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNull(s.logger).WithComponent("sim")

	theme, err := renderer.ThemeFromConfig(s.cfg.Theme)
	if err != nil {
		return nil, err
	}
	s.keyboard = renderer.New(b, renderer.DefaultScale, theme)

	width, _ := b.Size()
	view, err := host.New(exec, l, s.keyboard.Scale().Width(width),
		host.WithConfig(s.cfg),
		host.WithLogger(s.logger),
		host.OnChange(s.changed),
		host.OnEvent(s.event),
	)
	if err != nil {
		return nil, err
	}
	s.view = view
	s.redraw()
	return s, nil
}

// View returns the simulated keyboard view.
func (s *Sim) View() *host.View { return s.view }

// Close releases the view.
func (s *Sim) Close() error { return s.view.Close() }

// Run handles terminal events until the user quits or ctx is done.
func (s *Sim) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.backend.PostEvent(backend.Event{Type: backend.EventQuit})
		case <-done:
		}
	}()

	for {
		if !s.Handle(s.backend.PollEvent()) {
			return ctx.Err()
		}
	}
}

// Handle processes one terminal event and reports whether to keep running.
func (s *Sim) Handle(ev backend.Event) bool {
	switch ev.Type {
	case backend.EventQuit:
		return false
	case backend.EventKey:
		return s.handleKey(ev)
	case backend.EventMouse:
		s.handleMouse(ev)
	case backend.EventResize:
		s.report(s.view.Resize(s.keyboard.Scale().Width(ev.Width)))
		s.redraw()
	case backend.EventFocus:
		if !ev.Focused {
			s.liftAll()
		}
	case backend.EventInterrupt:
		s.redraw()
	}
	return true
}

func (s *Sim) handleKey(ev backend.Event) bool {
	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlC, backend.KeyCtrlQ:
		return false
	case backend.KeyCtrlT:
		s.post(s.toggleTrace)
	case backend.KeyCtrlR:
		s.report(s.view.ReloadScript())
		s.post(func() { s.status = "script reloaded" })
	case backend.KeyCtrlL:
		s.post(func() {
			s.view.Buffer().Reset()
			s.status = ""
		})
	}
	s.redraw()
	return true
}

// handleMouse turns button transitions into touches. Touch ids follow
// backend.Buttons: primary is 0, secondary 1, middle 2. A terminal has a
// single pointer, so held touches only follow it on drags; pressing or
// releasing another button leaves them where they are.
func (s *Sim) handleMouse(ev backend.Event) {
	x, y := s.toPixels(ev.MouseX, ev.MouseY)
	drag := ev.Buttons == s.buttons && (ev.MouseX != s.lastX || ev.MouseY != s.lastY)
	for id, b := range backend.Buttons {
		was, is := s.buttons.Has(b), ev.Buttons.Has(b)
		switch {
		case !was && is:
			s.report(s.view.TouchDown(id, x, y))
		case was && is && drag:
			s.report(s.view.TouchMove(id, x, y))
		case was && !is:
			s.report(s.view.TouchUp(id))
		}
	}
	s.buttons = ev.Buttons
	s.lastX, s.lastY = ev.MouseX, ev.MouseY
}

// liftAll drops every touch, for instance when the terminal loses focus
// with a button still down.
func (s *Sim) liftAll() {
	if s.buttons == backend.ButtonNone {
		return
	}
	s.buttons = backend.ButtonNone
	s.report(s.view.TouchCancel())
}

func (s *Sim) toPixels(col, row int) (float64, float64) {
	return s.keyboard.Scale().ToPixels(col, row-int(s.top.Load()))
}

// Configure applies a reloaded configuration.
func (s *Sim) Configure(cfg config.Config) error {
	theme, err := renderer.ThemeFromConfig(cfg.Theme)
	if err != nil {
		return err
	}
	if err := s.view.Configure(cfg); err != nil {
		return err
	}
	s.post(func() {
		s.cfg = cfg
		s.keyboard.SetTheme(theme)
		s.status = "configuration reloaded"
	})
	s.redraw()
	return nil
}

func (s *Sim) changed() {
	// Runs on the timeline, possibly in the middle of a dispatch: defer the
	// redraw to the event loop.
	s.backend.PostEvent(backend.Event{Type: backend.EventInterrupt})
}

func (s *Sim) event(e layout.Event) {
	s.status = "event " + e.String()
	if e == layout.EventConfig {
		s.backend.Beep()
	}
}

func (s *Sim) toggleTrace() {
	if s.view.Recording() {
		path, err := s.view.StopTrace()
		if err != nil {
			s.status = err.Error()
			return
		}
		s.status = "saved " + path
		return
	}
	if err := s.view.StartTrace(); err != nil {
		s.status = err.Error()
		return
	}
	s.status = "recording"
}

func (s *Sim) post(fn func()) {
	s.report(s.exec.Post(fn))
}

func (s *Sim) redraw() {
	s.post(s.draw)
}

func (s *Sim) report(err error) {
	if err != nil {
		s.logger.Warn("%v", err)
	}
}

// draw paints the whole screen: text on top, a status line, then the
// keyboard at the bottom. It runs on the timeline.
func (s *Sim) draw() {
	width, height := s.backend.Size()
	hit := s.view.HitTester()
	top := max(height-s.keyboard.Height(hit), 1)
	s.top.Store(int64(top))

	s.backend.Clear()
	s.drawText(width, top-1)
	s.drawStatus(width, top-1)
	s.keyboard.Draw(hit, s.view.Tracker(), top)
	s.backend.Show()
}

// drawText shows the last lines of the buffer above row limit, with a bar
// marking the cursor.
func (s *Sim) drawText(width, limit int) {
	b := s.view.Buffer()
	before := []rune(b.String())
	text := string(before[:b.Cursor()]) + "▏" + string(before[b.Cursor():])
	lines := strings.Split(text, "\n")
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	for i, line := range lines {
		line = strings.ReplaceAll(line, "\t", "    ")
		renderer.DrawString(s.backend, 0, i, renderer.TruncateLeft(line, width), core.DefaultStyle())
	}
}

func (s *Sim) drawStatus(width, row int) {
	if row < 0 {
		return
	}
	t := s.view.Tracker()
	parts := []string{s.view.Layout().Name, "mods: " + t.Modifiers().String()}
	if s.view.Recording() {
		parts = append(parts, "● rec")
	}
	if s.status != "" {
		parts = append(parts, s.status)
	}
	line := fmt.Sprintf(" %s ", strings.Join(parts, " | "))
	style := core.DefaultStyle().WithAttributes(core.AttrReverse)
	s.backend.Fill(core.NewScreenRect(row, 0, row+1, width), core.Cell{Rune: ' ', Style: style})
	renderer.DrawString(s.backend, 0, row, renderer.Truncate(line, width), style)
}
