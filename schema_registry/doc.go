// Package schema_registry resolves versioned Avro schemas and encodes documents
// against them.
//
// # Architecture
//
// Three types cooperate:
//   - Client talks to the registry over HTTP and implements Registry.
//   - Resolver turns (subject, version) into a *ResolvedSchema, caching on
//     the way. It depends on the Registry interface, not on Client.
//   - Encoder produces and reads Avro single-object encoded payloads.
//
// Resolver looks in an in-process cache, then in a local cache directory, then
// in an optional SharedCache, and only then asks the registry:
//
//	GET {RegistryURL}{subject}/versions/{version}   ->   {"schema": "<avro json>"}
//
// Fetched schema text is written verbatim to {CacheDir}/{subject}_v{version}.avsc
// and is never refreshed automatically: delete the file to pick up a changed
// schema. A SharedCache set with WithSharedCache, such as minio.SchemaStore,
// lets replicas fetch each schema once between them. Cache write failures are
// logged and do not fail Resolve.
//
// # Wire Format
//
// Encoder produces Avro single-object encoding:
//
//	0xC3 0x01 | 8-byte little-endian CRC-64-AVRO fingerprint | Avro binary body
//
// The fingerprint is taken over the schema's parsing canonical form.
// EncodeHeader and DecodeHeader expose the two-byte marker and fingerprint on
// their own; Decode checks the fingerprint against the schema and fails with
// ErrFingerprintMismatch when they differ.
//
// # Documents
//
// Documents are plain maps or values exposing Field(name). Union members are
// chosen from the value's type, so callers never wrap values by hand. Integers
// arriving as float64 are accepted when they are whole and in range. time.Time
// values fill the date and timestamp logical types, and time.Duration fills
// time-millis and time-micros. A document that does not conform to the schema
// is rejected with ErrEncoding before anything is sent; the error names the
// offending field path.
//
// # Basic Usage
//
//	resolver, err := schema_registry.NewResolver(schema_registry.Config{
//	    URL:      "http://registry:8081/subjects/",
//	    CacheDir: "data/avro_schema_cache",
//	})
//	if err != nil {
//	    return err
//	}
//
//	schema, err := resolver.Resolve(ctx, "create-aliquot-in-mlwh", 1)
//	if err != nil {
//	    return err
//	}
//
//	payload, err := schema_registry.NewEncoder().Encode(ctx, schema, doc)
//
// # Errors
//
//   - ErrSchemaFetch: the registry could not be reached or answered badly
//     (IsFetchError)
//   - ErrTooManyRedirects: more than Config.MaxRedirects hops
//     (IsTransportError)
//   - ErrSchemaParse: the schema text is not valid Avro (IsParseError)
//   - ErrEncoding: the document does not fit the schema (IsEncodingError)
//   - ErrInvalidHeader, ErrFingerprintMismatch: from Decode and DecodeHeader
//   - ErrCacheMiss: returned by SharedCache implementations
//
// # FX Module Integration
//
//	app := fx.New(
//	    schema_registry.FXModule,
//	    fx.Provide(func() schema_registry.Config {
//	        return schema_registry.Config{URL: "http://registry:8081/subjects/"}
//	    }),
//	)
//
// FXModule provides *Client as Registry, *Resolver and *Encoder. A SharedCache,
// a Logger and an observability.Observer are picked up when the graph has them.
//
// # Thread Safety
//
// Resolver, Client and Encoder are safe for concurrent use. Concurrent misses
// for the same schema may each fetch it; the cache file is replaced atomically.
package schema_registry
