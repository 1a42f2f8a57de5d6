package kafka

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/aalemi-dev/lims-events/observability"
)

// MessageWriter is the part of *kafka.Writer used by Sender.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// WriterFactory creates the writer for one Send.
type WriterFactory func() MessageWriter

// Sender writes framed payloads to one topic.
type Sender struct {
	cfg       Config
	transport *kafka.Transport
	newWriter WriterFactory

	observer observability.Observer
	logger   Logger
}

// NewSender validates cfg and builds the transport. It does not connect.
//
// Parameters:
//   - cfg: brokers and topic, plus optional acknowledgement, retry,
//     compression, TLS and SASL settings
//
// Returns:
//   - *Sender: a sender that opens a writer per Send call
//   - error: ErrInvalidConfig when brokers or topic are missing, or when the
//     TLS files or SASL mechanism cannot be loaded
//
// Example:
//
//	sender, err := kafka.NewSender(kafka.Config{
//	    Brokers:      []string{"kafka-1:9092", "kafka-2:9092"},
//	    Topic:        "lims.events",
//	    RequiredAcks: -1,
//	    SASL: kafka.SASLConfig{
//	        Enabled:   true,
//	        Mechanism: "SCRAM-SHA-512",
//	        Username:  "lims",
//	        Password:  os.Getenv("KAFKA_PASSWORD"),
//	    },
//	})
func NewSender(cfg Config) (*Sender, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("%w: at least one broker is required", ErrInvalidConfig)
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("%w: topic is required", ErrInvalidConfig)
	}
	cfg = cfg.withDefaults()

	transport, err := createTransport(cfg)
	if err != nil {
		return nil, err
	}

	s := &Sender{cfg: cfg, transport: transport}
	s.newWriter = func() MessageWriter { return createWriter(s.cfg, s.transport, s.logger) }
	return s, nil
}

// Send writes payload keyed by subject, with the subject, version and
// encoder_type headers. The writer is closed before Send returns.
func (s *Sender) Send(ctx context.Context, subject string, version int, payload []byte) (err error) {
	start := time.Now()
	defer func() {
		s.observeOperation("publish", subject, time.Since(start), err, int64(len(payload)))
		if err != nil && s.logger != nil {
			s.logger.WarnWithContext(ctx, "failed to send message", err, map[string]interface{}{
				"topic":   s.cfg.Topic,
				"subject": subject,
				"version": version,
			})
		}
	}()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return translateError(ctxErr)
	}

	writer := s.newWriter()
	defer func() {
		if closeErr := writer.Close(); closeErr != nil && err == nil {
			err = translateError(closeErr)
		}
	}()

	msg := kafka.Message{
		Key:   []byte(subject),
		Value: payload,
		Headers: []kafka.Header{
			{Key: HeaderSubject, Value: []byte(subject)},
			{Key: HeaderVersion, Value: []byte(strconv.Itoa(version))},
			{Key: HeaderEncoderType, Value: []byte(EncoderTypeBinary)},
			{Key: HeaderContentType, Value: []byte(ContentTypeAvro)},
		},
		Time: time.Now(),
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		return translateError(err)
	}
	return nil
}

// WithWriterFactory replaces the writer constructor and returns the sender for chaining.
func (s *Sender) WithWriterFactory(factory WriterFactory) *Sender {
	s.newWriter = factory
	return s
}

// WithObserver attaches an observer and returns the sender for chaining.
func (s *Sender) WithObserver(observer observability.Observer) *Sender {
	s.observer = observer
	return s
}

// WithLogger attaches a logger and returns the sender for chaining.
func (s *Sender) WithLogger(logger Logger) *Sender {
	s.logger = logger
	return s
}
