package minio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aalemi-dev/lims-events/observability"
	"github.com/aalemi-dev/lims-events/schema_registry"
)

// SchemaStore is a schema_registry.SharedCache backed by a bucket.
type SchemaStore struct {
	cfg Config
	api objectAPI

	observer observability.Observer
	logger   Logger
}

var _ schema_registry.SharedCache = (*SchemaStore)(nil)

// NewSchemaStore creates a store for cfg. It does not contact the endpoint;
// call Ensure to check the bucket.
//
// Parameters:
//   - cfg: endpoint, credentials, bucket and an optional key prefix
//
// Returns:
//   - *SchemaStore: a schema_registry.SharedCache over the bucket
//   - error: ErrInvalidConfig when the endpoint or bucket is missing, or the
//     error from the MinIO client constructor
//
// Example:
//
//	store, err := minio.NewSchemaStore(minio.Config{
//	    Endpoint:        "minio:9000",
//	    AccessKeyID:     os.Getenv("MINIO_ACCESS_KEY_ID"),
//	    SecretAccessKey: os.Getenv("MINIO_SECRET_ACCESS_KEY"),
//	    Bucket:          "lims-events",
//	    Prefix:          "schemas/",
//	    CreateBucket:    true,
//	})
//	if err != nil {
//	    return err
//	}
//	if err := store.Ensure(ctx); err != nil {
//	    return err
//	}
func NewSchemaStore(cfg Config) (*SchemaStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: bucket is required", ErrInvalidConfig)
	}
	cfg = cfg.withDefaults()

	client, err := connectToMinio(cfg)
	if err != nil {
		return nil, err
	}
	return &SchemaStore{cfg: cfg, api: clientAPI{client: client}}, nil
}

// Ensure checks that the bucket exists, creating it when CreateBucket is set.
func (s *SchemaStore) Ensure(ctx context.Context) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	err := s.ensure(ctx)
	s.observeOperation("ensure_bucket", "", start, err, 0)
	if err != nil {
		logError(s.logger, ctx, "schema bucket unavailable", err, map[string]interface{}{"bucket": s.cfg.Bucket})
		return err
	}
	logInfo(s.logger, ctx, "schema bucket ready", map[string]interface{}{"bucket": s.cfg.Bucket})
	return nil
}

func (s *SchemaStore) ensure(ctx context.Context) error {
	exists, err := s.api.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return translateError(err)
	}
	if exists {
		return nil
	}
	if !s.cfg.CreateBucket {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, s.cfg.Bucket)
	}
	return translateError(s.api.MakeBucket(ctx, s.cfg.Bucket, s.cfg.Region))
}

// Load implements schema_registry.SharedCache. A missing object is reported
// as schema_registry.ErrCacheMiss.
func (s *SchemaStore) Load(ctx context.Context, subject string, version int) ([]byte, error) {
	start := time.Now()
	key := s.ObjectKey(subject, version)

	data, err := s.api.GetObject(ctx, s.cfg.Bucket, key)
	err = translateError(err)
	if errors.Is(err, ErrObjectNotFound) {
		err = fmt.Errorf("%w: %w", schema_registry.ErrCacheMiss, err)
	}
	s.observeOperation("get", key, start, err, int64(len(data)))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Store implements schema_registry.SharedCache.
func (s *SchemaStore) Store(ctx context.Context, subject string, version int, text []byte) error {
	start := time.Now()
	key := s.ObjectKey(subject, version)

	err := translateError(s.api.PutObject(ctx, s.cfg.Bucket, key, text, SchemaContentType))
	s.observeOperation("put", key, start, err, int64(len(text)))
	return err
}

// ObjectKey is the object name for subject at version.
func (s *SchemaStore) ObjectKey(subject string, version int) string {
	name := strings.ReplaceAll(subject, "/", "_")
	return fmt.Sprintf("%s%s_v%d%s", s.cfg.Prefix, name, version, schema_registry.CacheFileExtension)
}

// WithObserver sets the observer and returns the store for chaining.
func (s *SchemaStore) WithObserver(observer observability.Observer) *SchemaStore {
	s.observer = observer
	return s
}

// WithLogger sets the logger and returns the store for chaining.
func (s *SchemaStore) WithLogger(logger Logger) *SchemaStore {
	s.logger = logger
	return s
}
