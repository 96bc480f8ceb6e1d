// Package config holds the keyboard's tuning: gesture thresholds, modifier
// timing, geometry constants and host settings.
//
// Configuration is layered. Defaults come first, then an optional TOML file,
// then environment variables prefixed with OVERBOARD_. A Watcher reloads the
// file when it changes on disk.
package config

import (
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Duration is a time.Duration written as a string ("400ms") in TOML.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the complete configuration.
type Config struct {
	Gesture  GestureConfig  `toml:"gesture"`
	Modifier ModifierConfig `toml:"modifier"`
	Geometry GeometryConfig `toml:"geometry"`
	Logging  LoggingConfig  `toml:"logging"`
	Script   ScriptConfig   `toml:"script"`
	Trace    TraceConfig    `toml:"trace"`
	Theme    ThemeConfig    `toml:"theme"`
}

// GestureConfig tunes swipe and hold classification.
type GestureConfig struct {
	// SwipeDistance is the travel needed to commit a swipe, as a fraction of
	// the key width.
	SwipeDistance float64 `toml:"swipe_distance"`
	// HoldTimeout is how long a still finger must stay down to hold.
	HoldTimeout Duration `toml:"hold_timeout"`
	// SectorOffset rotates the swipe sectors clockwise, in degrees.
	SectorOffset float64 `toml:"sector_offset"`
}

// ModifierConfig tunes the latch and lock state machine.
type ModifierConfig struct {
	// DoubleTapWindow is the time within which a second tap locks a latched
	// modifier.
	DoubleTapWindow Duration `toml:"double_tap_window"`
	// LockOnHold locks a modifier when its key is held.
	LockOnHold bool `toml:"lock_on_hold"`
}

// GeometryConfig holds the constants shared by hit-testing and rendering, in
// pixels.
type GeometryConfig struct {
	MarginTop           float64 `toml:"margin_top"`
	MarginBottom        float64 `toml:"margin_bottom"`
	MarginLeft          float64 `toml:"margin_left"`
	MarginRight         float64 `toml:"margin_right"`
	RowHeight           float64 `toml:"row_height"`
	KeyHorizontalMargin float64 `toml:"key_horizontal_margin"`
	KeyVerticalMargin   float64 `toml:"key_vertical_margin"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// ScriptConfig points at an optional Lua output hook script.
type ScriptConfig struct {
	Path string `toml:"path"`
}

// TraceConfig configures touch-trace recording.
type TraceConfig struct {
	// Dir is where recorded traces are saved. Empty disables recording.
	Dir string `toml:"dir"`
}

// ThemeConfig holds the simulator's colours as "#rrggbb" strings.
type ThemeConfig struct {
	Background string `toml:"background"`
	Key        string `toml:"key"`
	Label      string `toml:"label"`
	Secondary  string `toml:"secondary"`
	Pressed    string `toml:"pressed"`
	Latched    string `toml:"latched"`
	Locked     string `toml:"locked"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Gesture: GestureConfig{
			SwipeDistance: 0.3,
			HoldTimeout:   Duration(400 * time.Millisecond),
		},
		Modifier: ModifierConfig{
			DoubleTapWindow: Duration(300 * time.Millisecond),
			LockOnHold:      true,
		},
		Geometry: GeometryConfig{
			MarginTop:           3,
			MarginBottom:        7,
			MarginLeft:          2,
			MarginRight:         2,
			RowHeight:           45,
			KeyHorizontalMargin: 4,
			KeyVerticalMargin:   6,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Theme: ThemeConfig{
			Background: "#1b1d23",
			Key:        "#3a3f4b",
			Label:      "#e6e6e6",
			Secondary:  "#8fa1b3",
			Pressed:    "#6a9fb5",
			Latched:    "#b58a4a",
			Locked:     "#c0504d",
		},
	}
}

// Validate checks every setting and returns the first failure.
func (c Config) Validate() error {
	checks := []struct {
		path string
		ok   bool
		msg  string
		val  any
	}{
		{"gesture.swipe_distance", c.Gesture.SwipeDistance > 0 && c.Gesture.SwipeDistance <= 2, "must be in (0, 2]", c.Gesture.SwipeDistance},
		{"gesture.hold_timeout", c.Gesture.HoldTimeout > 0, "must be positive", c.Gesture.HoldTimeout.Std()},
		{"gesture.sector_offset", c.Gesture.SectorOffset > -45 && c.Gesture.SectorOffset < 45, "must be in (-45, 45)", c.Gesture.SectorOffset},
		{"modifier.double_tap_window", c.Modifier.DoubleTapWindow >= 0, "must not be negative", c.Modifier.DoubleTapWindow.Std()},
		{"geometry.row_height", c.Geometry.RowHeight > 0, "must be positive", c.Geometry.RowHeight},
		{"geometry.margin_top", c.Geometry.MarginTop >= 0, "must not be negative", c.Geometry.MarginTop},
		{"geometry.margin_bottom", c.Geometry.MarginBottom >= 0, "must not be negative", c.Geometry.MarginBottom},
		{"geometry.margin_left", c.Geometry.MarginLeft >= 0, "must not be negative", c.Geometry.MarginLeft},
		{"geometry.margin_right", c.Geometry.MarginRight >= 0, "must not be negative", c.Geometry.MarginRight},
		{"geometry.key_horizontal_margin", c.Geometry.KeyHorizontalMargin >= 0, "must not be negative", c.Geometry.KeyHorizontalMargin},
		{"geometry.key_vertical_margin", c.Geometry.KeyVerticalMargin >= 0, "must not be negative", c.Geometry.KeyVerticalMargin},
		{"logging.level", validLevel(c.Logging.Level), "must be debug, info, warn or error", c.Logging.Level},
		{"theme.background", validColor(c.Theme.Background), "must be a #rrggbb colour", c.Theme.Background},
		{"theme.key", validColor(c.Theme.Key), "must be a #rrggbb colour", c.Theme.Key},
		{"theme.label", validColor(c.Theme.Label), "must be a #rrggbb colour", c.Theme.Label},
		{"theme.secondary", validColor(c.Theme.Secondary), "must be a #rrggbb colour", c.Theme.Secondary},
		{"theme.pressed", validColor(c.Theme.Pressed), "must be a #rrggbb colour", c.Theme.Pressed},
		{"theme.latched", validColor(c.Theme.Latched), "must be a #rrggbb colour", c.Theme.Latched},
		{"theme.locked", validColor(c.Theme.Locked), "must be a #rrggbb colour", c.Theme.Locked},
	}
	for _, ch := range checks {
		if !ch.ok {
			return &ValidationError{Path: ch.path, Message: ch.msg, Value: ch.val}
		}
	}
	return nil
}

func validLevel(s string) bool {
	switch s {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func validColor(s string) bool {
	_, err := colorful.Hex(s)
	return err == nil
}

// String summarizes the tuning for log lines.
func (c Config) String() string {
	return fmt.Sprintf("swipe=%.2f hold=%v offset=%.1f double_tap=%v lock_on_hold=%t",
		c.Gesture.SwipeDistance, c.Gesture.HoldTimeout.Std(), c.Gesture.SectorOffset,
		c.Modifier.DoubleTapWindow.Std(), c.Modifier.LockOnHold)
}
