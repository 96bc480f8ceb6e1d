package trace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/dshills/overboard/internal/layout"
)

const currentVersion = 1

// persistedEvent is the YAML form of Event.
type persistedEvent struct {
	At       string  `yaml:"at"`
	Kind     Kind    `yaml:"kind"`
	ID       int     `yaml:"id,omitempty"`
	X        float64 `yaml:"x,omitempty"`
	Y        float64 `yaml:"y,omitempty"`
	Key      []int   `yaml:"key,omitempty,flow"`
	Mod      string  `yaml:"mod,omitempty"`
	LockOnly bool    `yaml:"lock_only,omitempty"`
	Latched  bool    `yaml:"latched,omitempty"`
	Lock     bool    `yaml:"lock,omitempty"`
}

// persistedTrace is the root of a trace file.
type persistedTrace struct {
	Version int              `yaml:"version"`
	Session string           `yaml:"session"`
	Layout  string           `yaml:"layout,omitempty"`
	Width   float64          `yaml:"width,omitempty"`
	Started time.Time        `yaml:"started,omitempty"`
	Events  []persistedEvent `yaml:"events"`
}

func toPersistedEvent(e Event) persistedEvent {
	p := persistedEvent{
		At:   e.At.String(),
		Kind: e.Kind,
		ID:   e.ID,
		X:    e.X,
		Y:    e.Y,
	}
	if e.Key != NoKey {
		p.Key = []int{e.Key.Row, e.Key.Index}
	}
	if e.Kind == KindFake {
		p.Mod = e.Mod.String()
		p.LockOnly = e.LockOnly
		p.Latched = e.Latched
		p.Lock = e.Lock
	}
	return p
}

func toEvent(p persistedEvent) (Event, error) {
	at, err := time.ParseDuration(p.At)
	if err != nil {
		return Event{}, fmt.Errorf("%w: offset %q", ErrBadEvent, p.At)
	}
	e := Event{
		At:       at,
		Kind:     p.Kind,
		ID:       p.ID,
		X:        p.X,
		Y:        p.Y,
		Key:      NoKey,
		LockOnly: p.LockOnly,
		Latched:  p.Latched,
		Lock:     p.Lock,
	}

	switch len(p.Key) {
	case 0:
	case 2:
		e.Key = KeyRef{Row: p.Key[0], Index: p.Key[1]}
	default:
		return Event{}, fmt.Errorf("%w: key %v is not [row, index]", ErrBadEvent, p.Key)
	}

	switch p.Kind {
	case KindDown:
		if e.Key == NoKey {
			return Event{}, fmt.Errorf("%w: down without key", ErrBadEvent)
		}
	case KindMove, KindUp, KindCancel, KindClear:
	case KindFake:
		m, ok := layout.ParseMod(p.Mod)
		if !ok {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrBadEvent, p.Mod)
		}
		e.Mod = m
	default:
		return Event{}, fmt.Errorf("%w: unknown kind %q", ErrBadEvent, p.Kind)
	}
	return e, nil
}

// Marshal encodes a trace as YAML.
func Marshal(tr *Trace) ([]byte, error) {
	data := persistedTrace{
		Version: currentVersion,
		Session: tr.Session.String(),
		Layout:  tr.Layout,
		Width:   tr.Width,
		Started: tr.Started,
		Events:  make([]persistedEvent, len(tr.Events)),
	}
	for i, e := range tr.Events {
		data.Events[i] = toPersistedEvent(e)
	}
	out, err := yaml.Marshal(&data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trace: %w", err)
	}
	return out, nil
}

// Unmarshal decodes a YAML trace.
func Unmarshal(raw []byte) (*Trace, error) {
	var data persistedTrace
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trace: %w", err)
	}
	if data.Version < 1 || data.Version > currentVersion {
		return nil, fmt.Errorf("%w: %d (max supported: %d)", ErrUnsupportedVersion, data.Version, currentVersion)
	}

	tr := &Trace{
		Layout:  data.Layout,
		Width:   data.Width,
		Started: data.Started,
		Events:  make([]Event, 0, len(data.Events)),
	}
	if data.Session != "" {
		id, err := uuid.Parse(data.Session)
		if err != nil {
			return nil, fmt.Errorf("invalid session id: %w", err)
		}
		tr.Session = id
	}
	for i, p := range data.Events {
		e, err := toEvent(p)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		tr.Events = append(tr.Events, e)
	}
	return tr, nil
}

// Save writes a trace to path atomically using a temporary file and rename.
func Save(tr *Trace, path string) error {
	out, err := Marshal(tr)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads a trace from path.
func Load(path string) (*Trace, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	return Unmarshal(raw)
}

// FileName returns the file name used for a session's trace.
func FileName(session uuid.UUID) string {
	return "trace-" + session.String() + ".yaml"
}
