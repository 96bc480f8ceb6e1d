package pointer

import (
	"github.com/dshills/overboard/internal/layout"
	"github.com/dshills/overboard/internal/modifier"
)

// Dispatcher receives resolved key actions. The tracker calls it on the
// event-processing timeline after its own state is consistent, so a
// Dispatcher may query or update the tracker from inside a callback. The
// Dispatcher performs all side effects; the tracker performs none.
type Dispatcher interface {
	// OnPointerDown reports a provisional press: the value a key would emit
	// right now. isSwipe is true when a swipe direction has just committed.
	OnPointerDown(v layout.Value, isSwipe bool)

	// OnPointerUp reports a resolved key with the modifiers that applied.
	OnPointerUp(v layout.Value, mods modifier.Modifiers)

	// OnPointerHold reports a key held past the hold timeout.
	OnPointerHold(v layout.Value, mods modifier.Modifiers)

	// OnPointerFlagsChanged reports that modifier state changed. vibrate is
	// true when a modifier was latched or locked.
	OnPointerFlagsChanged(vibrate bool)
}

// NopDispatcher ignores every notification. Embed it to implement only some
// callbacks.
type NopDispatcher struct{}

func (NopDispatcher) OnPointerDown(layout.Value, bool)               {}
func (NopDispatcher) OnPointerUp(layout.Value, modifier.Modifiers)   {}
func (NopDispatcher) OnPointerHold(layout.Value, modifier.Modifiers) {}
func (NopDispatcher) OnPointerFlagsChanged(bool)                     {}
