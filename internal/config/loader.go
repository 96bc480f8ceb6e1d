package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Load builds a configuration from defaults, the TOML file at path and the
// process environment, then validates it. A missing file is not an error; an
// empty path skips the file layer.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, bytes.NewReader(data), &cfg); err != nil {
				return Config{}, err
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := ApplyEnv(&cfg, os.Environ()); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromReader decodes TOML from r on top of the defaults and validates
// the result. The environment is not consulted.
func LoadFromReader(r io.Reader) (Config, error) {
	cfg := Default()
	if err := decode("<reader>", r, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode overlays the TOML document in r onto cfg. Keys absent from the
// document keep their current values; unknown keys are rejected.
func decode(source string, r io.Reader, cfg *Config) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()

	err := dec.Decode(cfg)
	if err == nil {
		return nil
	}

	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		pe.Line, pe.Column = decErr.Position()
	}

	var strictErr *toml.StrictMissingError
	if errors.As(err, &strictErr) {
		pe.Err = fmt.Errorf("%w: %s", ErrUnknownSetting, strictErr.String())
		if len(strictErr.Errors) > 0 {
			pe.Line, pe.Column = strictErr.Errors[0].Position()
		}
	}
	return pe
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	enc := toml.NewEncoder(w)
	return enc.Encode(cfg)
}
