package pointer

import (
	"strings"

	"github.com/dshills/overboard/internal/modifier"
)

// Flags describes the pointers bound to a key value.
type Flags int

// Inactive is returned for values no pointer is bound to.
const Inactive Flags = -1

const (
	// FlagHeld means a finger is on the key.
	FlagHeld Flags = 1 << iota
	// FlagLatched means the modifier is latched.
	FlagLatched
	// FlagLocked means the modifier is locked.
	FlagLocked
	// FlagFake means the pointer was injected.
	FlagFake
)

// Has reports whether every bit of f is set. It is false for Inactive.
func (fl Flags) Has(f Flags) bool {
	return fl != Inactive && fl&f == f
}

// String returns the set flags joined with "|", "inactive" or "none".
func (fl Flags) String() string {
	if fl == Inactive {
		return "inactive"
	}
	var parts []string
	for _, f := range []struct {
		bit  Flags
		name string
	}{
		{FlagHeld, "held"},
		{FlagLatched, "latched"},
		{FlagLocked, "locked"},
		{FlagFake, "fake"},
	} {
		if fl&f.bit != 0 {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

func (r *record) flags() Flags {
	var f Flags
	if r.held {
		f |= FlagHeld
	}
	if r.fake {
		f |= FlagFake
	}
	switch {
	case r.locked():
		f |= FlagLocked
	case r.state == modifier.Latched:
		f |= FlagLatched
	}
	return f
}
