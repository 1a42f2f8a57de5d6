package schema_registry

import (
	"errors"
)

var (
	// ErrSchemaFetch is returned when the registry cannot be reached or answers
	// with a non-2xx status.
	ErrSchemaFetch = errors.New("schema fetch failed")

	// ErrTooManyRedirects is returned, wrapped in ErrSchemaFetch, when the
	// registry redirects more than MaxRedirects times. It is a transport
	// failure, not a problem with the schema itself.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrSchemaParse is returned when cached or fetched text is not a valid schema.
	ErrSchemaParse = errors.New("schema parse failed")

	// ErrEncoding is returned when a document does not conform to its schema.
	ErrEncoding = errors.New("encoding failed")

	// ErrInvalidHeader is returned by DecodeHeader for data without the
	// single-object marker.
	ErrInvalidHeader = errors.New("invalid single-object header")

	// ErrFingerprintMismatch is returned by Decode when the payload was written
	// with a different schema.
	ErrFingerprintMismatch = errors.New("schema fingerprint mismatch")

	// ErrCacheMiss is returned by a SharedCache that does not hold the schema.
	ErrCacheMiss = errors.New("schema not in cache")
)

// IsFetchError reports whether err came from talking to the registry.
func IsFetchError(err error) bool {
	return errors.Is(err, ErrSchemaFetch)
}

// IsParseError reports whether err is a schema parse failure.
func IsParseError(err error) bool {
	return errors.Is(err, ErrSchemaParse)
}

// IsEncodingError reports whether err is a document/schema mismatch.
func IsEncodingError(err error) bool {
	return errors.Is(err, ErrEncoding)
}

// IsTransportError reports whether err is a network-level failure such as a
// redirect loop, as opposed to a registry answer.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTooManyRedirects)
}
