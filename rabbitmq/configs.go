package rabbitmq

import (
	"context"
	"time"
)

// Defaults used when a config field is left empty.
const (
	DefaultPort      = 5672
	DefaultTLSPort   = 5671
	DefaultVHost     = "/"
	DefaultHeartbeat = 10 * time.Second

	// ContentTypeAvro marks Sender payloads.
	ContentTypeAvro = "avro/binary"

	// ContentTypeJSON marks Broker payloads.
	ContentTypeJSON = "application/json"

	// EncoderTypeBinary is the value of the encoder_type header.
	EncoderTypeBinary = "binary"
)

// Header names attached by Sender.
const (
	HeaderSubject     = "subject"
	HeaderVersion     = "version"
	HeaderEncoderType = "encoder_type"
)

// TLSConfig contains TLS settings shared by Sender and Broker.
type TLSConfig struct {
	// Enabled switches the connection to amqps.
	Enabled bool `yaml:"enabled"`

	// CACertPath is a PEM bundle used to verify the broker. When empty and
	// Enabled is true, the broker certificate is not verified.
	CACertPath string `yaml:"ca_certificate" split_words:"true"`

	// ClientCertPath and ClientKeyPath enable mutual TLS when both are set.
	ClientCertPath string `yaml:"client_certificate" split_words:"true"`
	ClientKeyPath  string `yaml:"client_key" split_words:"true"`
}

// ConnectionConfig holds the broker address and credentials.
type ConnectionConfig struct {
	Host     string    `yaml:"host"`
	Port     int       `yaml:"port"`
	Username string    `yaml:"username"`
	Password string    `yaml:"password" json:"-"` //nolint:gosec
	VHost    string    `yaml:"vhost"`
	TLS      TLSConfig `yaml:"tls"`
}

// SenderConfig configures a Sender. Exchange must be a headers exchange
// that already exists.
type SenderConfig struct {
	ConnectionConfig `yaml:",inline"`

	Exchange string `yaml:"exchange"`
}

// BrokerConfig configures a Broker. The exchange and queue are declared on
// Connect if missing.
type BrokerConfig struct {
	ConnectionConfig `yaml:",inline"`

	Exchange   string `yaml:"exchange"`
	Queue      string `yaml:"queue"`
	RoutingKey string `yaml:"routing_key" split_words:"true"`
}

// Logger is the subset of logger.Logger used by this package.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}
