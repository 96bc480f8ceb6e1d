package config

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "OVERBOARD_"

// envSetters maps a setting path to a function that parses and stores it.
var envSetters = map[string]func(c *Config, s string) error{
	"gesture.swipe_distance":         floatSetter(func(c *Config) *float64 { return &c.Gesture.SwipeDistance }),
	"gesture.hold_timeout":           durationSetter(func(c *Config) *Duration { return &c.Gesture.HoldTimeout }),
	"gesture.sector_offset":          floatSetter(func(c *Config) *float64 { return &c.Gesture.SectorOffset }),
	"modifier.double_tap_window":     durationSetter(func(c *Config) *Duration { return &c.Modifier.DoubleTapWindow }),
	"modifier.lock_on_hold":          boolSetter(func(c *Config) *bool { return &c.Modifier.LockOnHold }),
	"geometry.margin_top":            floatSetter(func(c *Config) *float64 { return &c.Geometry.MarginTop }),
	"geometry.margin_bottom":         floatSetter(func(c *Config) *float64 { return &c.Geometry.MarginBottom }),
	"geometry.margin_left":           floatSetter(func(c *Config) *float64 { return &c.Geometry.MarginLeft }),
	"geometry.margin_right":          floatSetter(func(c *Config) *float64 { return &c.Geometry.MarginRight }),
	"geometry.row_height":            floatSetter(func(c *Config) *float64 { return &c.Geometry.RowHeight }),
	"geometry.key_horizontal_margin": floatSetter(func(c *Config) *float64 { return &c.Geometry.KeyHorizontalMargin }),
	"geometry.key_vertical_margin":   floatSetter(func(c *Config) *float64 { return &c.Geometry.KeyVerticalMargin }),
	"logging.level":                  stringSetter(func(c *Config) *string { return &c.Logging.Level }),
	"script.path":                    stringSetter(func(c *Config) *string { return &c.Script.Path }),
	"trace.dir":                      stringSetter(func(c *Config) *string { return &c.Trace.Dir }),
	"theme.background":               stringSetter(func(c *Config) *string { return &c.Theme.Background }),
	"theme.key":                      stringSetter(func(c *Config) *string { return &c.Theme.Key }),
	"theme.label":                    stringSetter(func(c *Config) *string { return &c.Theme.Label }),
	"theme.secondary":                stringSetter(func(c *Config) *string { return &c.Theme.Secondary }),
	"theme.pressed":                  stringSetter(func(c *Config) *string { return &c.Theme.Pressed }),
	"theme.latched":                  stringSetter(func(c *Config) *string { return &c.Theme.Latched }),
	"theme.locked":                   stringSetter(func(c *Config) *string { return &c.Theme.Locked }),
}

// envAliases are short names accepted in addition to the derived ones.
var envAliases = map[string]string{
	"OVERBOARD_LOG_LEVEL": "logging.level",
	"OVERBOARD_SCRIPT":    "script.path",
	"OVERBOARD_TRACE_DIR": "trace.dir",
}

// ApplyEnv overlays OVERBOARD_ variables from environ (KEY=value pairs) onto
// cfg. OVERBOARD_GESTURE_HOLD_TIMEOUT sets gesture.hold_timeout. Empty values
// are treated as set; variables naming no setting are ignored.
func ApplyEnv(cfg *Config, environ []string) error {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, EnvPrefix) {
			continue
		}
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}

		path, ok := envAliases[name]
		if !ok {
			path = envToPath(name)
		}
		set, ok := envSetters[path]
		if !ok {
			continue
		}
		if err := set(cfg, value); err != nil {
			return &ValidationError{Path: path, Message: "could not be parsed (" + err.Error() + ")", Value: value}
		}
	}
	return nil
}

// envToPath converts OVERBOARD_GESTURE_HOLD_TIMEOUT to gesture.hold_timeout.
func envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, EnvPrefix))
	section, setting, ok := strings.Cut(name, "_")
	if !ok {
		return name
	}
	return section + "." + setting
}

func floatSetter(field func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.New("not a number")
		}
		*field(c) = v
		return nil
	}
}

func durationSetter(field func(*Config) *Duration) func(*Config, string) error {
	return func(c *Config, s string) error {
		v, err := time.ParseDuration(s)
		if err != nil {
			return errors.New("not a duration")
		}
		*field(c) = Duration(v)
		return nil
	}
}

func boolSetter(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, s string) error {
		switch strings.ToLower(s) {
		case "true", "yes", "on", "1":
			*field(c) = true
		case "false", "no", "off", "0":
			*field(c) = false
		default:
			return errors.New("not a boolean")
		}
		return nil
	}
}

func stringSetter(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, s string) error {
		*field(c) = s
		return nil
	}
}
