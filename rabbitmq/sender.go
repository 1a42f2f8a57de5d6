package rabbitmq

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/aalemi-dev/lims-events/observability"
)

// Sender publishes framed payloads to a headers exchange over a connection
// opened for that one message.
type Sender struct {
	cfg       SenderConfig
	url       string
	tlsConfig *tls.Config
	dial      Dialer

	observer observability.Observer
	logger   Logger
}

// NewSender validates cfg and prepares the TLS settings. It does not connect.
//
// Parameters:
//   - cfg: connection settings and the name of an existing headers exchange
//
// Returns:
//   - *Sender: a sender that dials once per Send call
//   - error: ErrInvalidConfig when the host or exchange is missing, or when
//     the TLS certificates cannot be read
//
// Example:
//
//	sender, err := rabbitmq.NewSender(rabbitmq.SenderConfig{
//	    ConnectionConfig: rabbitmq.ConnectionConfig{
//	        Host:     "rabbit.internal",
//	        Port:     5671,
//	        Username: "lims",
//	        Password: os.Getenv("RABBITMQ_PASSWORD"),
//	        VHost:    "tol",
//	    },
//	    Exchange: "lims.events",
//	})
func NewSender(cfg SenderConfig) (*Sender, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Exchange == "" {
		return nil, fmt.Errorf("%w: exchange is required", ErrInvalidConfig)
	}
	tlsConfig, err := createTLSConfig(cfg.TLS)
	if err != nil {
		return nil, err
	}

	return &Sender{
		cfg:       cfg,
		url:       cfg.URL(),
		tlsConfig: tlsConfig,
		dial:      DialAMQP,
	}, nil
}

// Send publishes payload with the subject, version and encoder_type headers.
// The connection and channel are closed before Send returns, on every path.
func (s *Sender) Send(ctx context.Context, subject string, version int, payload []byte) (err error) {
	start := time.Now()
	defer func() {
		observeOperation(s.observer, "publish", s.cfg.Exchange, subject, time.Since(start), err, int64(len(payload)), map[string]interface{}{
			"version": version,
		})
		if err != nil {
			logWarn(s.logger, ctx, "failed to send message", err, map[string]interface{}{
				"exchange": s.cfg.Exchange,
				"subject":  subject,
				"version":  version,
				"url":      s.cfg.redactedURL(),
			})
		}
	}()

	conn, err := s.dial(s.url, s.tlsConfig)
	if err != nil {
		return fmt.Errorf("%w: %w: %w", ErrTransport, ErrConnectionFailed, err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("%w: %w: %w", ErrTransport, ErrChannelFailed, err)
	}
	defer func() { _ = ch.Close() }()

	msg := amqp.Publishing{
		Headers: amqp.Table{
			HeaderSubject:     subject,
			HeaderVersion:     int32(version), //nolint:gosec
			HeaderEncoderType: EncoderTypeBinary,
		},
		ContentType:  ContentTypeAvro,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         payload,
	}

	// Headers exchanges ignore the routing key.
	if err := ch.PublishWithContext(ctx, s.cfg.Exchange, "", false, false, msg); err != nil {
		return fmt.Errorf("%w: %w: %w", ErrTransport, ErrPublishFailed, err)
	}

	logInfo(s.logger, ctx, "message sent", map[string]interface{}{
		"exchange": s.cfg.Exchange,
		"subject":  subject,
		"version":  version,
		"bytes":    len(payload),
	})
	return nil
}

// WithDialer replaces the connection factory and returns the sender for chaining.
func (s *Sender) WithDialer(dial Dialer) *Sender {
	s.dial = dial
	return s
}

// WithObserver sets the observer and returns the sender for chaining.
func (s *Sender) WithObserver(observer observability.Observer) *Sender {
	s.observer = observer
	return s
}

// WithLogger sets the logger and returns the sender for chaining.
func (s *Sender) WithLogger(logger Logger) *Sender {
	s.logger = logger
	return s
}
