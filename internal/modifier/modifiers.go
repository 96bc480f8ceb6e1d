// Package modifier folds active modifier keys into an immutable Modifiers
// value and applies it to key values.
//
// Combine is a pure, order-independent recomputation over every active
// contribution. Apply is a pure function of a value and a Modifiers; it is
// safe to call repeatedly, for instance to preview labels.
package modifier

import (
	"sort"
	"strings"

	"github.com/dshills/overboard/internal/layout"
)

// Contribution is one active modifier: the value held by a pointer and
// whether it is locked.
type Contribution struct {
	Value  layout.Value
	Locked bool
}

type entry struct {
	value  layout.Value
	locked bool
}

// Modifiers is an immutable set of active modifiers, ordered by modifier
// kind. The zero value is Empty.
type Modifiers struct {
	entries []entry
}

// Empty is the Modifiers value with nothing active.
var Empty = Modifiers{}

// Combine folds contributions into a Modifiers value. Non-modifier values
// are ignored. The result does not depend on the order of cs; duplicates of
// the same modifier merge, locked winning over latched.
func Combine(cs []Contribution) Modifiers {
	var entries []entry
	for _, c := range cs {
		if !c.Value.IsModifier() {
			continue
		}
		id := c.Value.Identity()
		merged := false
		for i := range entries {
			if entries[i].value == id {
				entries[i].locked = entries[i].locked || c.Locked
				merged = true
				break
			}
		}
		if !merged {
			entries = append(entries, entry{value: id, locked: c.Locked})
		}
	}
	if len(entries) == 0 {
		return Empty
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].value.Mod() < entries[j].value.Mod()
	})
	return Modifiers{entries: entries}
}

// IsEmpty returns true if no modifier is active.
func (m Modifiers) IsEmpty() bool {
	return len(m.entries) == 0
}

// Len returns the number of active modifiers.
func (m Modifiers) Len() int {
	return len(m.entries)
}

// Has reports whether mod is active.
func (m Modifiers) Has(mod layout.Mod) bool {
	for _, e := range m.entries {
		if e.value.Mod() == mod {
			return true
		}
	}
	return false
}

// IsLocked reports whether mod is active and locked.
func (m Modifiers) IsLocked(mod layout.Mod) bool {
	for _, e := range m.entries {
		if e.value.Mod() == mod {
			return e.locked
		}
	}
	return false
}

// Mods returns the active modifiers in canonical order.
func (m Modifiers) Mods() []layout.Mod {
	mods := make([]layout.Mod, len(m.entries))
	for i, e := range m.entries {
		mods[i] = e.value.Mod()
	}
	return mods
}

// Equal reports whether m and o hold the same modifiers in the same states.
func (m Modifiers) Equal(o Modifiers) bool {
	if len(m.entries) != len(o.entries) {
		return false
	}
	for i := range m.entries {
		if m.entries[i] != o.entries[i] {
			return false
		}
	}
	return true
}

// String returns the modifiers joined with "+", locked ones marked with a
// trailing "!", or "none".
func (m Modifiers) String() string {
	if m.IsEmpty() {
		return "none"
	}
	parts := make([]string, len(m.entries))
	for i, e := range m.entries {
		parts[i] = e.value.Mod().String()
		if e.locked {
			parts[i] += "!"
		}
	}
	return strings.Join(parts, "+")
}
