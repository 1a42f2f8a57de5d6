package schema_registry

import (
	"context"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/aalemi-dev/lims-events/fieldmapper"
	"github.com/aalemi-dev/lims-events/observability"
)

// Single-object encoding marker and header size.
const (
	MagicByte0 byte = 0xC3
	MagicByte1 byte = 0x01
	HeaderSize      = 10
)

// Encoder turns built documents into framed Avro payloads.
type Encoder struct {
	observer observability.Observer
	logger   Logger
}

// NewEncoder returns an Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode serialises document against schema and prepends the single-object
// header: C3 01, then the schema fingerprint as 8 little-endian bytes.
// document may be a *fieldmapper.Document, a fieldmapper.Map or a
// map[string]any. Mismatches are reported as ErrEncoding.
func (e *Encoder) Encode(ctx context.Context, schema *ResolvedSchema, document any) ([]byte, error) {
	start := time.Now()
	out, err := encode(schema, document)

	if schema != nil {
		observeOperation(e.observer, "encode", schema.Subject, strconv.Itoa(schema.Version), time.Since(start), err, int64(len(out)), nil)
		if err != nil {
			logWarn(e.logger, ctx, "failed to encode document", err, map[string]interface{}{
				"subject": schema.Subject,
				"version": schema.Version,
			})
		}
	}
	return out, err
}

func encode(schema *ResolvedSchema, document any) ([]byte, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: no schema", ErrEncoding)
	}
	if doc, ok := document.(*fieldmapper.Document); ok {
		if doc == nil {
			return nil, fmt.Errorf("%w: nil document", ErrEncoding)
		}
		document = doc.Map()
	}

	native, err := toNative(schema.root, document, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %s v%d: %w", ErrEncoding, schema.Subject, schema.Version, err)
	}

	buf := EncodeHeader(schema.Fingerprint)
	buf, err = schema.codec.BinaryFromNative(buf, native)
	if err != nil {
		return nil, fmt.Errorf("%w: %s v%d: %w", ErrEncoding, schema.Subject, schema.Version, err)
	}
	return buf, nil
}

// Decode checks the header against schema and decodes the record payload into
// plain Go values with union wrappers removed.
func (e *Encoder) Decode(schema *ResolvedSchema, data []byte) (map[string]any, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: no schema", ErrEncoding)
	}
	fingerprint, payload, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	if fingerprint != schema.Fingerprint {
		return nil, fmt.Errorf("%w: payload %016x, schema %016x", ErrFingerprintMismatch, fingerprint, schema.Fingerprint)
	}

	native, rest, err := schema.codec.NativeFromBinary(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrEncoding, len(rest))
	}
	record, ok := fromNative(schema.root, native).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s v%d is not a record schema", ErrEncoding, schema.Subject, schema.Version)
	}
	return record, nil
}

// EncodeHeader returns the 10-byte single-object header for fingerprint.
func EncodeHeader(fingerprint uint64) []byte {
	buf := make([]byte, HeaderSize)
	buf[0] = MagicByte0
	buf[1] = MagicByte1
	binary.LittleEndian.PutUint64(buf[2:], fingerprint)
	return buf
}

// DecodeHeader splits data into the schema fingerprint and the Avro payload.
func DecodeHeader(data []byte) (uint64, []byte, error) {
	if len(data) < HeaderSize {
		return 0, nil, fmt.Errorf("%w: expected at least %d bytes, got %d", ErrInvalidHeader, HeaderSize, len(data))
	}
	if data[0] != MagicByte0 || data[1] != MagicByte1 {
		return 0, nil, fmt.Errorf("%w: marker 0x%02x%02x", ErrInvalidHeader, data[0], data[1])
	}
	return binary.LittleEndian.Uint64(data[2:HeaderSize]), data[HeaderSize:], nil
}

// WithObserver sets the observer and returns the encoder for chaining.
func (e *Encoder) WithObserver(observer observability.Observer) *Encoder {
	e.observer = observer
	return e
}

// WithLogger sets the logger and returns the encoder for chaining.
func (e *Encoder) WithLogger(logger Logger) *Encoder {
	e.logger = logger
	return e
}
