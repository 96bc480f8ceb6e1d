package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is matched by every validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownSetting means a file key or environment variable names no
	// setting.
	ErrUnknownSetting = errors.New("unknown setting")
)

// ParseError reports a TOML document that could not be decoded. Line and
// Column are zero when the decoder gave no position.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError names the setting that holds an unusable value.
type ValidationError struct {
	Path    string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s, got %v", e.Path, e.Message, e.Value)
}

// Is makes every ValidationError match ErrInvalidConfig.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}
