package kafka

import (
	"context"
	"time"
)

// Config defines the Kafka producer settings used by Sender.
type Config struct {
	// Brokers is a list of Kafka broker addresses
	Brokers []string `yaml:"brokers"`

	// Topic receives every message
	Topic string `yaml:"topic"`

	// RequiredAcks determines how many replica acknowledgments to wait for
	// Options:
	//   RequireNone (0): Don't wait for acknowledgment
	//   RequireOne (1): Wait for leader only
	//   RequireAll (-1): Wait for all in-sync replicas
	// Default: RequireAll (-1)
	RequiredAcks int `yaml:"required_acks" split_words:"true"`

	// WriteTimeout bounds each write
	// Default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout" split_words:"true"`

	// MaxAttempts is the number of delivery attempts made by the client
	// library inside one Send. Send itself never retries.
	// Default: 1
	MaxAttempts int `yaml:"max_attempts" split_words:"true"`

	// CompressionCodec specifies the compression algorithm to use
	// Options: "" (none), gzip, snappy, lz4, zstd
	CompressionCodec string `yaml:"compression" split_words:"true"`

	// AllowAutoTopicCreation lets the first write create the topic
	// Default: false
	AllowAutoTopicCreation bool `yaml:"allow_auto_topic_creation" split_words:"true"`

	// TLS contains TLS/SSL configuration
	TLS TLSConfig `yaml:"tls"`

	// SASL contains SASL authentication configuration
	SASL SASLConfig `yaml:"sasl"`
}

// Logger is an interface that matches the logger.Logger interface.
type Logger interface {
	// InfoWithContext logs an informational message with trace context.
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})

	// WarnWithContext logs a warning message with trace context.
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// TLSConfig contains TLS/SSL configuration parameters.
type TLSConfig struct {
	// Enabled determines whether to use TLS/SSL for the connection
	Enabled bool `yaml:"enabled"`

	// CACertPath is the file path to the CA certificate for verifying the broker
	CACertPath string `yaml:"ca_certificate" split_words:"true"`

	// ClientCertPath is the file path to the client certificate
	ClientCertPath string `yaml:"client_certificate" split_words:"true"`

	// ClientKeyPath is the file path to the client certificate's private key
	ClientKeyPath string `yaml:"client_key" split_words:"true"`

	// InsecureSkipVerify controls whether to skip verification of the server's certificate
	// WARNING: Setting this to true is insecure and should only be used in testing
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" split_words:"true"`
}

// SASLConfig contains SASL authentication configuration parameters.
type SASLConfig struct {
	// Enabled determines whether to use SASL authentication
	Enabled bool `yaml:"enabled"`

	// Mechanism specifies the SASL mechanism to use
	// Options: "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"
	Mechanism string `yaml:"mechanism"`

	// Username is the SASL username
	Username string `yaml:"username"`

	// Password is the SASL password
	Password string `yaml:"password" json:"-"` //nolint:gosec
}

// Default values for configuration
const (
	DefaultRequiredAcks = -1 // WaitForAll
	DefaultMaxAttempts  = 1
	DefaultWriteTimeout = 10 * time.Second

	// Producer acknowledgment modes
	RequireNone = 0  // Fire-and-forget (no acknowledgment)
	RequireOne  = 1  // Wait for leader only
	RequireAll  = -1 // Wait for all in-sync replicas (most durable)
)

// Header names carried on every record.
const (
	HeaderSubject     = "subject"
	HeaderVersion     = "version"
	HeaderEncoderType = "encoder_type"
	HeaderContentType = "content-type"

	EncoderTypeBinary = "binary"
	ContentTypeAvro   = "avro/binary"
)

func (c Config) withDefaults() Config {
	if c.RequiredAcks == 0 {
		c.RequiredAcks = DefaultRequiredAcks
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	return c
}
