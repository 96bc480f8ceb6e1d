package modifier

// State is the state of one modifier key.
type State uint8

const (
	Up State = iota
	Down
	Latched
	Locked
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Up:
		return "up"
	case Down:
		return "down"
	case Latched:
		return "latched"
	case Locked:
		return "locked"
	default:
		return "unknown"
	}
}

// Event drives a modifier's state machine.
type Event uint8

const (
	// Press is a finger touching the modifier key.
	Press Event = iota
	// Release is the finger lifting without the modifier having been used.
	Release
	// Consume is the modifier being used by a non-modifier key resolution.
	Consume
	// DoubleTap is a second tap within the double-tap window.
	DoubleTap
	// Tap is a tap on the modifier outside any double-tap window.
	Tap
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case Press:
		return "press"
	case Release:
		return "release"
	case Consume:
		return "consume"
	case DoubleTap:
		return "double_tap"
	case Tap:
		return "tap"
	default:
		return "unknown"
	}
}

// Transition returns the state after e and whether e applies in s. Events
// that do not apply leave the state unchanged.
//
//	Up      + Press     -> Down
//	Down    + Release   -> Latched
//	Down    + Consume   -> Up
//	Latched + DoubleTap -> Locked
//	Latched + Tap       -> Up
//	Latched + Consume   -> Up
//	Locked  + Tap       -> Up
//	Locked  + DoubleTap -> Up
//
// A locked modifier ignores Consume.
func Transition(s State, e Event) (State, bool) {
	switch s {
	case Up:
		if e == Press {
			return Down, true
		}
	case Down:
		switch e {
		case Release:
			return Latched, true
		case Consume:
			return Up, true
		}
	case Latched:
		switch e {
		case DoubleTap:
			return Locked, true
		case Tap, Consume:
			return Up, true
		}
	case Locked:
		switch e {
		case Tap, DoubleTap:
			return Up, true
		}
	}
	return s, false
}
