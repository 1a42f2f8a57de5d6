package schema_registry

import (
	"context"
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalemi-dev/lims-events/fieldmapper"
)

const volumeTrackingSchema = `{
  "type": "record",
  "name": "VolumeTracking",
  "namespace": "uk.ac.sanger.lims",
  "fields": [
    {"name": "lims", "type": "string"},
    {"name": "volume_tracking", "type": {
      "type": "record",
      "name": "Aliquot",
      "fields": [
        {"name": "source_type", "type": {"type": "enum", "name": "SourceType", "symbols": ["library", "pool", "sample"]}},
        {"name": "source_barcode", "type": "string"},
        {"name": "volume", "type": ["null", "double"]},
        {"name": "insert_size", "type": ["null", "int"], "default": null},
        {"name": "recorded_at", "type": {"type": "long", "logicalType": "timestamp-millis"}},
        {"name": "tags", "type": {"type": "array", "items": "string"}},
        {"name": "attributes", "type": {"type": "map", "values": "string"}, "default": {}},
        {"name": "note", "type": "string", "default": ""}
      ]
    }}
  ]
}`

var recordedAt = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

func parseVolumeTracking(t *testing.T) *ResolvedSchema {
	t.Helper()
	schema, err := ParseSchema("create-aliquot-in-mlwh", 1, volumeTrackingSchema)
	require.NoError(t, err)
	return schema
}

func volumeTrackingDocument() *fieldmapper.Document {
	inner := fieldmapper.NewDocument()
	inner.Set("source_type", "library")
	inner.Set("source_barcode", "TRAC-2-1")
	inner.Set("volume", 1.5)
	inner.Set("recorded_at", recordedAt)
	inner.Set("tags", []any{"a", "b"})

	doc := fieldmapper.NewDocument()
	doc.Set("lims", "Traction")
	doc.Set("volume_tracking", inner)
	return doc
}

func TestEncodeFramesPayload(t *testing.T) {
	schema := parseVolumeTracking(t)
	enc := NewEncoder()

	data, err := enc.Encode(context.Background(), schema, volumeTrackingDocument())
	require.NoError(t, err)
	require.Greater(t, len(data), HeaderSize)

	assert.Equal(t, byte(0xC3), data[0])
	assert.Equal(t, byte(0x01), data[1])
	assert.Equal(t, schema.Fingerprint, binary.LittleEndian.Uint64(data[2:10]))

	fp, payload, err := DecodeHeader(data)
	require.NoError(t, err)
	assert.Equal(t, schema.Fingerprint, fp)
	assert.Equal(t, data[HeaderSize:], payload)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	schema := parseVolumeTracking(t)
	enc := NewEncoder()

	data, err := enc.Encode(context.Background(), schema, volumeTrackingDocument())
	require.NoError(t, err)

	decoded, err := enc.Decode(schema, data)
	require.NoError(t, err)
	assert.Equal(t, "Traction", decoded["lims"])

	inner, ok := decoded["volume_tracking"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "library", inner["source_type"])
	assert.Equal(t, "TRAC-2-1", inner["source_barcode"])
	assert.Equal(t, 1.5, inner["volume"])
	assert.Nil(t, inner["insert_size"])
	assert.Equal(t, []any{"a", "b"}, inner["tags"])
	assert.Equal(t, "", inner["note"])

	at, ok := inner["recorded_at"].(time.Time)
	require.True(t, ok)
	assert.True(t, recordedAt.Equal(at))
}

func TestEncodeIsDeterministic(t *testing.T) {
	schema := parseVolumeTracking(t)
	enc := NewEncoder()

	a, err := enc.Encode(context.Background(), schema, volumeTrackingDocument())
	require.NoError(t, err)
	b, err := enc.Encode(context.Background(), schema, volumeTrackingDocument().Map())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncodeAcceptsUnionValues(t *testing.T) {
	schema := parseVolumeTracking(t)
	enc := NewEncoder()

	doc := volumeTrackingDocument().Map()
	inner := doc["volume_tracking"].(map[string]any)
	inner["volume"] = nil
	inner["insert_size"] = 350

	data, err := enc.Encode(context.Background(), schema, doc)
	require.NoError(t, err)

	decoded, err := enc.Decode(schema, data)
	require.NoError(t, err)
	got := decoded["volume_tracking"].(map[string]any)
	assert.Nil(t, got["volume"])
	assert.Equal(t, int32(350), got["insert_size"])
}

func TestEncodeMissingNullableFieldIsNull(t *testing.T) {
	schema := parseVolumeTracking(t)
	enc := NewEncoder()

	doc := volumeTrackingDocument().Map()
	delete(doc["volume_tracking"].(map[string]any), "volume")

	data, err := enc.Encode(context.Background(), schema, doc)
	require.NoError(t, err)

	decoded, err := enc.Decode(schema, data)
	require.NoError(t, err)
	assert.Nil(t, decoded["volume_tracking"].(map[string]any)["volume"])
}

func TestEncodeErrors(t *testing.T) {
	schema := parseVolumeTracking(t)

	tests := []struct {
		name     string
		mutate   func(inner map[string]any)
		contains string
	}{
		{
			name:     "missing required field",
			mutate:   func(inner map[string]any) { delete(inner, "source_barcode") },
			contains: "volume_tracking.source_barcode",
		},
		{
			name:     "wrong primitive type",
			mutate:   func(inner map[string]any) { inner["source_barcode"] = 12 },
			contains: "volume_tracking.source_barcode",
		},
		{
			name:     "unknown enum symbol",
			mutate:   func(inner map[string]any) { inner["source_type"] = "tube" },
			contains: "tube",
		},
		{
			name:     "int overflow in union",
			mutate:   func(inner map[string]any) { inner["insert_size"] = int64(1) << 40 },
			contains: "volume_tracking.insert_size",
		},
		{
			name:     "array element type",
			mutate:   func(inner map[string]any) { inner["tags"] = []any{"a", 3} },
			contains: "volume_tracking.tags[1]",
		},
		{
			name:     "scalar where array expected",
			mutate:   func(inner map[string]any) { inner["tags"] = "a" },
			contains: "volume_tracking.tags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := volumeTrackingDocument().Map()
			tt.mutate(doc["volume_tracking"].(map[string]any))

			_, err := NewEncoder().Encode(context.Background(), schema, doc)
			require.Error(t, err)
			assert.True(t, IsEncodingError(err))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestEncodeLongFromFloatBoundaries(t *testing.T) {
	schema, err := ParseSchema("counter", 1, `{"type":"record","name":"Counter","fields":[{"name":"n","type":"long"}]}`)
	require.NoError(t, err)
	encoder := NewEncoder()

	t.Run("largest exact float is accepted", func(t *testing.T) {
		// 2^63 - 1024 is the largest float64 below 2^63.
		n := math.Nextafter(float64(math.MaxInt64), 0)
		payload, err := encoder.Encode(context.Background(), schema, map[string]any{"n": n})
		require.NoError(t, err)

		decoded, err := encoder.Decode(schema, payload)
		require.NoError(t, err)
		assert.Equal(t, int64(n), decoded["n"])
	})

	t.Run("smallest int64 is accepted", func(t *testing.T) {
		payload, err := encoder.Encode(context.Background(), schema, map[string]any{"n": float64(math.MinInt64)})
		require.NoError(t, err)

		decoded, err := encoder.Decode(schema, payload)
		require.NoError(t, err)
		assert.Equal(t, int64(math.MinInt64), decoded["n"])
	})

	for name, n := range map[string]float64{
		"two to the 63":     float64(math.MaxInt64),
		"beyond int64":      1e19,
		"below int64":       -1e19,
		"fractional":        1.5,
		"positive infinity": math.Inf(1),
	} {
		t.Run(name+" is rejected", func(t *testing.T) {
			_, err := encoder.Encode(context.Background(), schema, map[string]any{"n": n})
			require.Error(t, err)
			assert.True(t, IsEncodingError(err))
			assert.Contains(t, err.Error(), "n: expected long")
		})
	}
}

func TestEncodeObservesOperation(t *testing.T) {
	schema := parseVolumeTracking(t)
	obs := &TestObserver{}
	log := &recordingLogger{}
	enc := NewEncoder().WithObserver(obs).WithLogger(log)

	_, err := enc.Encode(context.Background(), schema, map[string]any{"lims": "Traction"})
	require.Error(t, err)

	ops := obs.GetOperations()
	require.Len(t, ops, 1)
	assert.Equal(t, "encode", ops[0].Operation)
	assert.Equal(t, "create-aliquot-in-mlwh", ops[0].Resource)
	assert.Error(t, ops[0].Error)
	assert.Equal(t, []string{"failed to encode document"}, log.Messages())
}

func TestDecodeHeaderErrors(t *testing.T) {
	_, _, err := DecodeHeader([]byte{0xC3, 0x01, 0x00})
	assert.ErrorIs(t, err, ErrInvalidHeader)

	_, _, err = DecodeHeader([]byte{0x00, 0x00, 0, 0, 0, 1, 0, 0, 0, 0, 0})
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestDecodeFingerprintMismatch(t *testing.T) {
	schema := parseVolumeTracking(t)
	other, err := ParseSchema("user", 1, userSchema)
	require.NoError(t, err)

	data, err := NewEncoder().Encode(context.Background(), schema, volumeTrackingDocument())
	require.NoError(t, err)

	_, err = NewEncoder().Decode(other, data)
	assert.ErrorIs(t, err, ErrFingerprintMismatch)
}

func TestEncodeHeaderLayout(t *testing.T) {
	header := EncodeHeader(0x0102030405060708)
	assert.Equal(t, []byte{0xC3, 0x01, 0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, header)
}
