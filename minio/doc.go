// Package minio keeps registry schemas in an S3-compatible bucket so that every
// publisher replica shares one schema cache.
//
// # Architecture
//
// SchemaStore implements schema_registry.SharedCache. The resolver consults it
// after its local directory and before the registry, and stores every schema it
// fetches. Without a shared store each replica fetches each schema from the
// registry once; with one, the fleet does.
//
// SchemaStore talks to the bucket through a small internal interface over
// *minio.Client, so its logic is tested without a server and the integration
// test runs it against a MinIO container.
//
// # Basic Usage
//
//	store, err := minio.NewSchemaStore(minio.Config{
//	    Endpoint:        "minio:9000",
//	    AccessKeyID:     "...",
//	    SecretAccessKey: "...",
//	    Bucket:          "lims-events",
//	})
//	if err != nil {
//	    return err
//	}
//	if err := store.Ensure(ctx); err != nil {
//	    return err
//	}
//	resolver.WithSharedCache(store)
//
// Ensure fails with ErrBucketNotFound unless the bucket exists or
// Config.CreateBucket is set.
//
// # Objects
//
// Objects are named "{prefix}{subject}_v{version}.avsc", matching the local
// cache file names, with "avro_schema_cache/" as the default prefix. The body
// is the schema text exactly as the registry returned it. Like the local
// cache, objects are never invalidated; delete one to pick up a changed
// schema.
//
// Load reports a missing object as schema_registry.ErrCacheMiss, which the
// resolver treats as a normal miss. Other failures are translated into this
// package's sentinels, such as ErrAccessDenied or ErrConnectionFailed, and the
// resolver logs them and falls through to the registry.
//
// # FX Module Integration
//
// FXModule provides *SchemaStore and binds it as schema_registry.SharedCache,
// which schema_registry.FXModule picks up. The bucket is checked on start.
// In the publisher, SchemaStoreModule adds it with the schema_store section of
// the configuration file.
package minio
