package script

import "errors"

var (
	// ErrScriptNotLoaded is returned when a hook is invoked before a script
	// was loaded.
	ErrScriptNotLoaded = errors.New("no script loaded")

	// ErrClosed is returned when loading into a closed dispatcher.
	ErrClosed = errors.New("script dispatcher is closed")

	// ErrTimeout is returned when a hook runs longer than its timeout.
	ErrTimeout = errors.New("script hook timed out")
)
