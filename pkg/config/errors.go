package config

import (
	"errors"
	"fmt"
	"strings"
)

// Resolution failures. Every ConfigError wraps exactly one of these so that
// callers can branch with errors.Is.
var (
	// ErrMissingOption is returned when a required option has no value and no default.
	ErrMissingOption = errors.New("missing required config")

	// ErrInvalidInteger is returned when an integer option cannot be parsed.
	ErrInvalidInteger = errors.New("invalid integer")

	// ErrInvalidBoolean is returned when a boolean option is not a recognised word.
	ErrInvalidBoolean = errors.New("invalid boolean")

	// ErrInvalidChoice is returned when an enum option is outside its allowed set.
	ErrInvalidChoice = errors.New("invalid choice")
)

// ConfigError reports the option that stopped resolution.
type ConfigError struct {
	Key         string
	Description string
	Example     string

	// Value is the rejected external value, empty for missing options.
	Value   string
	Allowed []string

	Err error
}

func (e *ConfigError) Error() string {
	switch {
	case errors.Is(e.Err, ErrMissingOption):
		return fmt.Sprintf("missing required config: '%s' for the %s e.g. '%s'", e.Key, e.Description, e.Example)
	case errors.Is(e.Err, ErrInvalidChoice):
		return fmt.Sprintf("invalid config '%s': %q is not one of %s", e.Key, e.Value, strings.Join(e.Allowed, ", "))
	default:
		return fmt.Sprintf("invalid config '%s': %v %q for the %s e.g. '%s'", e.Key, e.Err, e.Value, e.Description, e.Example)
	}
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsTypeCoercion reports whether err is a failure to coerce an external value.
func IsTypeCoercion(err error) bool {
	return errors.Is(err, ErrInvalidInteger) || errors.Is(err, ErrInvalidBoolean)
}
