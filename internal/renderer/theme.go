package renderer

import (
	"fmt"

	"github.com/dshills/overboard/internal/config"
	"github.com/dshills/overboard/internal/renderer/core"
)

// Theme holds the keyboard colours.
type Theme struct {
	Background core.Color
	Key        core.Color
	Label      core.Color
	Secondary  core.Color
	Pressed    core.Color
	Latched    core.Color
	Locked     core.Color
}

// ThemeFromConfig parses the configured colours.
func ThemeFromConfig(c config.ThemeConfig) (Theme, error) {
	var t Theme
	for _, f := range []struct {
		name string
		hex  string
		dst  *core.Color
	}{
		{"background", c.Background, &t.Background},
		{"key", c.Key, &t.Key},
		{"label", c.Label, &t.Label},
		{"secondary", c.Secondary, &t.Secondary},
		{"pressed", c.Pressed, &t.Pressed},
		{"latched", c.Latched, &t.Latched},
		{"locked", c.Locked, &t.Locked},
	} {
		col, err := core.ColorFromHex(f.hex)
		if err != nil {
			return Theme{}, fmt.Errorf("theme.%s: %w", f.name, err)
		}
		*f.dst = col
	}
	return t, nil
}

// DefaultTheme returns the colours of the default configuration.
func DefaultTheme() Theme {
	t, err := ThemeFromConfig(config.Default().Theme)
	if err != nil {
		panic(err)
	}
	return t
}

// KeyState is how a key is drawn.
type KeyState int

const (
	StateIdle KeyState = iota
	StatePressed
	StateLatched
	StateLocked
)

func (s KeyState) String() string {
	switch s {
	case StatePressed:
		return "pressed"
	case StateLatched:
		return "latched"
	case StateLocked:
		return "locked"
	default:
		return "idle"
	}
}

// Face returns the key face colour for s. A pressed key is tinted rather
// than replaced so that it stays recognisable.
func (t Theme) Face(s KeyState) core.Color {
	switch s {
	case StatePressed:
		return t.Key.Blend(t.Pressed, 0.7)
	case StateLatched:
		return t.Latched
	case StateLocked:
		return t.Locked
	default:
		return t.Key
	}
}
