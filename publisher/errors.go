package publisher

import (
	"errors"
)

var (
	// ErrInvalidConfig is returned when the pipeline configuration is malformed.
	ErrInvalidConfig = errors.New("invalid publisher configuration")

	// ErrUnknownFieldType is returned for a field whose type is not one of
	// string, model, parent_model, self, constant or array.
	ErrUnknownFieldType = errors.New("unknown field type")

	// ErrUnknownBuilder is returned when a configuration names a message
	// builder that is not registered.
	ErrUnknownBuilder = errors.New("unknown message builder")

	// ErrBuilderPanic wraps a panic recovered while building a message.
	ErrBuilderPanic = errors.New("message builder panicked")
)

// IsConfigError reports whether err came from loading or validating configuration.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrUnknownFieldType) || errors.Is(err, ErrUnknownBuilder)
}
