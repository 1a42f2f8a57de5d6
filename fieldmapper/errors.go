package fieldmapper

import (
	"errors"
	"fmt"
)

var (
	// ErrScope is returned when a field refers to a scope that is not available:
	// ParentObject outside an array child, or BuilderSelf without a builder.
	ErrScope = errors.New("scope not available")

	// ErrUnknownConstant is returned when a ConstantRef names an unregistered constant.
	ErrUnknownConstant = errors.New("unknown constant")

	// ErrNotEnumerable is returned when an ArrayField path resolves to a value
	// that is not a sequence.
	ErrNotEnumerable = errors.New("value is not enumerable")

	// ErrInvalidPath is returned by ParsePath for malformed accessor chains.
	ErrInvalidPath = errors.New("invalid path")
)

// ConfigError reports a mapping mistake for a specific output field.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is a mapping configuration error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
