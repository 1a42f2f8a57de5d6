package schema_registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aalemi-dev/lims-events/observability"
)

// Resolver returns parsed schemas for (subject, version) pairs, looking in
// memory, then in the cache directory, then asking the registry. Fetched
// schemas are written to the cache directory and never refreshed: a schema
// version is treated as immutable once published.
type Resolver struct {
	registry Registry
	cacheDir string
	shared   SharedCache

	mu      sync.RWMutex
	schemas map[string]*ResolvedSchema

	observer observability.Observer
	logger   Logger
}

// SharedCache is a schema cache shared between processes, consulted after the
// local directory and before the registry. Load returns ErrCacheMiss when the
// schema is absent.
type SharedCache interface {
	Load(ctx context.Context, subject string, version int) ([]byte, error)
	Store(ctx context.Context, subject string, version int, text []byte) error
}

// NewResolver creates a Resolver backed by an HTTP Client built from cfg.
//
// Parameters:
//   - cfg: registry URL and credentials, HTTP timeout and redirect limit, and
//     the local cache directory
//
// Returns:
//   - *Resolver: a resolver with an empty in-process cache
//   - error: whatever NewClient returns for cfg
//
// Example:
//
//	resolver, err := schema_registry.NewResolver(schema_registry.Config{
//	    URL:      "http://registry:8081/subjects/",
//	    CacheDir: "data/avro_schema_cache",
//	})
//	if err != nil {
//	    return err
//	}
//	schema, err := resolver.Resolve(ctx, "create-aliquot-in-mlwh", 1)
func NewResolver(cfg Config) (*Resolver, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewResolverWithRegistry(client, cfg.CacheDir), nil
}

// NewResolverWithRegistry creates a Resolver over any Registry.
// An empty cacheDir means DefaultCacheDir.
func NewResolverWithRegistry(registry Registry, cacheDir string) *Resolver {
	if cacheDir == "" {
		cacheDir = DefaultCacheDir
	}
	return &Resolver{
		registry: registry,
		cacheDir: cacheDir,
		schemas:  make(map[string]*ResolvedSchema),
	}
}

// Resolve returns the schema for subject at version.
func (r *Resolver) Resolve(ctx context.Context, subject string, version int) (*ResolvedSchema, error) {
	start := time.Now()
	key := cacheKey(subject, version)

	r.mu.RLock()
	schema, ok := r.schemas[key]
	r.mu.RUnlock()
	if ok {
		observeOperation(r.observer, "resolve_schema", subject, strconv.Itoa(version), time.Since(start), nil, int64(len(schema.Text)), map[string]interface{}{"source": "memory"})
		return schema, nil
	}

	schema, source, err := r.load(ctx, subject, version)
	observeOperation(r.observer, "resolve_schema", subject, strconv.Itoa(version), time.Since(start), err, schemaSize(schema), map[string]interface{}{"source": source})
	if err != nil {
		logWarn(r.logger, ctx, "failed to resolve schema", err, map[string]interface{}{
			"subject": subject,
			"version": version,
		})
		return nil, err
	}

	r.mu.Lock()
	// Another goroutine may have resolved it meanwhile; both are equivalent.
	if existing, ok := r.schemas[key]; ok {
		schema = existing
	} else {
		r.schemas[key] = schema
	}
	r.mu.Unlock()

	return schema, nil
}

func (r *Resolver) load(ctx context.Context, subject string, version int) (*ResolvedSchema, string, error) {
	path := r.CachePath(subject, version)
	fields := map[string]interface{}{
		"subject": subject,
		"version": version,
		"path":    path,
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		logInfo(r.logger, ctx, "using cached schema", fields)
		schema, err := ParseSchema(subject, version, string(data))
		return schema, "disk", err
	case !errors.Is(err, os.ErrNotExist):
		logWarn(r.logger, ctx, "schema cache unreadable, fetching from registry", err, fields)
	}

	if r.shared != nil {
		data, err := r.shared.Load(ctx, subject, version)
		switch {
		case err == nil:
			schema, err := ParseSchema(subject, version, string(data))
			if err == nil {
				logInfo(r.logger, ctx, "using shared cached schema", fields)
				r.writeCache(ctx, path, data, fields)
				return schema, "shared", nil
			}
			logWarn(r.logger, ctx, "shared cached schema unparsable, fetching from registry", err, fields)
		case !errors.Is(err, ErrCacheMiss):
			logWarn(r.logger, ctx, "shared schema cache unavailable, fetching from registry", err, fields)
		}
	}

	text, err := r.registry.GetSchemaByVersion(ctx, subject, version)
	if err != nil {
		return nil, "registry", err
	}
	schema, err := ParseSchema(subject, version, text)
	if err != nil {
		return nil, "registry", err
	}

	logInfo(r.logger, ctx, "fetching and caching schema", fields)
	r.writeCache(ctx, path, []byte(text), fields)
	if r.shared != nil {
		if err := r.shared.Store(ctx, subject, version, []byte(text)); err != nil {
			logWarn(r.logger, ctx, "failed to write shared schema cache", err, fields)
		}
	}
	return schema, "registry", nil
}

// writeCache stores the schema locally. A failed write leaves the schema
// usable; the next process fetches it again.
func (r *Resolver) writeCache(ctx context.Context, path string, data []byte, fields map[string]interface{}) {
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		logWarn(r.logger, ctx, "failed to write schema cache", err, fields)
	}
}

// CachePath is the file holding subject at version.
func (r *Resolver) CachePath(subject string, version int) string {
	name := strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(subject)
	return filepath.Join(r.cacheDir, fmt.Sprintf("%s_v%d%s", name, version, CacheFileExtension))
}

// writeFileAtomic writes through a temporary file in the target directory so
// readers never observe a partial schema.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	_ = tmp.Sync()
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func cacheKey(subject string, version int) string {
	return subject + "\x00" + strconv.Itoa(version)
}

func schemaSize(s *ResolvedSchema) int64 {
	if s == nil {
		return 0
	}
	return int64(len(s.Text))
}

// WithSharedCache adds a cache shared between processes, such as an object
// storage bucket, behind the local directory.
func (r *Resolver) WithSharedCache(shared SharedCache) *Resolver {
	r.shared = shared
	return r
}

// WithObserver sets the observer and returns the resolver for chaining.
// The observer is shared with the underlying Client when it is one.
func (r *Resolver) WithObserver(observer observability.Observer) *Resolver {
	r.observer = observer
	if c, ok := r.registry.(*Client); ok {
		c.WithObserver(observer)
	}
	return r
}

// WithLogger sets the logger and returns the resolver for chaining.
// The logger is shared with the underlying Client when it is one.
func (r *Resolver) WithLogger(logger Logger) *Resolver {
	r.logger = logger
	if c, ok := r.registry.(*Client); ok {
		c.WithLogger(logger)
	}
	return r
}
