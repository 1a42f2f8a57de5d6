package minio

import (
	"context"
	"time"
)

const (
	// DefaultPrefix is prepended to every object name.
	DefaultPrefix = "avro_schema_cache/"

	// DefaultRegion is used when creating the bucket.
	DefaultRegion = "us-east-1"

	// SchemaContentType is set on stored schema objects.
	SchemaContentType = "application/json"

	// connectTimeout bounds the bucket check performed on start.
	connectTimeout = 10 * time.Second
)

// Config holds the object storage endpoint, credentials and bucket.
type Config struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id" split_words:"true"`
	SecretAccessKey string `yaml:"secret_access_key" json:"-" split_words:"true"` //nolint:gosec
	UseSSL          bool   `yaml:"use_ssl" split_words:"true"`
	Region          string `yaml:"region"`

	// Bucket holds the schema objects.
	Bucket string `yaml:"bucket"`

	// Prefix is prepended to object names. Defaults to DefaultPrefix.
	Prefix string `yaml:"prefix"`

	// CreateBucket creates a missing bucket on start instead of failing.
	CreateBucket bool `yaml:"create_bucket" split_words:"true"`
}

func (c Config) withDefaults() Config {
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	return c
}

// Logger is the subset of logger.Logger used by this package.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}
