package schema_registry

import (
	"context"
	"time"
)

// Defaults applied by NewClient and NewResolver.
const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxRedirects = 10
	DefaultCacheDir     = "data/avro_schema_cache"

	// CacheFileExtension is appended to cached schema files.
	CacheFileExtension = ".avsc"
)

// Config holds the registry endpoint and the local cache location.
type Config struct {
	// URL is the registry prefix; the subject is appended directly, so it
	// normally ends with "/subjects/".
	URL string `yaml:"registry_url"`

	// CacheDir holds one file per subject and version. Created on first write.
	CacheDir string `yaml:"cache_dir" split_words:"true"`

	// Username and Password enable basic auth when Username is set.
	Username string `yaml:"username"`
	Password string `yaml:"-" json:"-"` //nolint:gosec

	// Timeout bounds each HTTP request, redirects included.
	Timeout time.Duration `yaml:"timeout"`

	// MaxRedirects caps the number of 3xx hops followed. Zero means 10.
	MaxRedirects int `yaml:"max_redirects" split_words:"true"`
}

func (c Config) withDefaults() Config {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRedirects == 0 {
		c.MaxRedirects = DefaultMaxRedirects
	}
	if c.CacheDir == "" {
		c.CacheDir = DefaultCacheDir
	}
	return c
}

// Logger is the subset of logger.Logger used by this package.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}
