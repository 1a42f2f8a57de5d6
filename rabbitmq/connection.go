package rabbitmq

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Connection is the part of *amqp.Connection used here.
type Connection interface {
	Channel() (Channel, error)
	IsClosed() bool
	Close() error
}

// Channel is the part of *amqp.Channel used here.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Dialer opens a connection. url is an amqp:// or amqps:// URI; tlsConfig is
// nil for plain connections.
type Dialer func(url string, tlsConfig *tls.Config) (Connection, error)

// DialAMQP is the Dialer backed by amqp091-go.
func DialAMQP(url string, tlsConfig *tls.Config) (Connection, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat:       DefaultHeartbeat,
		Locale:          "en_US",
		TLSClientConfig: tlsConfig,
	})
	if err != nil {
		return nil, err
	}
	return amqpConnection{conn}, nil
}

type amqpConnection struct {
	*amqp.Connection
}

func (c amqpConnection) Channel() (Channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// URL builds the connection URI. Credentials are escaped by amqp.URI.
func (c ConnectionConfig) URL() string {
	uri := amqp.URI{
		Scheme:   "amqp",
		Host:     c.Host,
		Port:     c.Port,
		Username: c.Username,
		Password: c.Password,
		Vhost:    c.VHost,
	}
	if c.TLS.Enabled {
		uri.Scheme = "amqps"
	}
	if uri.Port == 0 {
		uri.Port = DefaultPort
		if c.TLS.Enabled {
			uri.Port = DefaultTLSPort
		}
	}
	if uri.Vhost == "" {
		uri.Vhost = DefaultVHost
	}
	if uri.Username == "" {
		uri.Username = "guest"
		uri.Password = "guest"
	}
	return uri.String()
}

// redactedURL is URL without the password, for logs.
func (c ConnectionConfig) redactedURL() string {
	c.Password = "xxxxx"
	return c.URL()
}

func (c ConnectionConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidConfig)
	}
	return nil
}

// createTLSConfig builds the client TLS config. Without a CA certificate the
// broker is not verified.
func createTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read CA cert: %w", ErrInvalidConfig, err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("%w: failed to parse CA cert", ErrInvalidConfig)
		}
		tlsConfig.RootCAs = caCertPool
	} else {
		tlsConfig.InsecureSkipVerify = true //nolint:gosec
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to load client cert: %w", ErrInvalidConfig, err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}
