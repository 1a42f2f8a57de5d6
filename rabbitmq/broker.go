package rabbitmq

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/aalemi-dev/lims-events/observability"
)

// Broker publishes JSON text to a topic exchange over one long-lived
// connection. It never reconnects by itself; after a dropped connection the
// caller must Connect again.
type Broker struct {
	cfg       BrokerConfig
	url       string
	tlsConfig *tls.Config
	dial      Dialer

	mu      sync.Mutex
	conn    Connection
	channel Channel

	observer observability.Observer
	logger   Logger
}

// NewBroker validates cfg. It does not connect.
//
// Parameters:
//   - cfg: connection settings, the topic exchange and queue to declare, and
//     the routing key binding them
//
// Returns:
//   - *Broker: a disconnected broker; call Connect before Publish
//   - error: ErrInvalidConfig when the host, exchange or queue is missing, or
//     when the TLS certificates cannot be read
func NewBroker(cfg BrokerConfig) (*Broker, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Exchange == "" || cfg.Queue == "" {
		return nil, fmt.Errorf("%w: exchange and queue are required", ErrInvalidConfig)
	}
	tlsConfig, err := createTLSConfig(cfg.TLS)
	if err != nil {
		return nil, err
	}

	return &Broker{
		cfg:       cfg,
		url:       cfg.URL(),
		tlsConfig: tlsConfig,
		dial:      DialAMQP,
	}, nil
}

// Connect dials the broker, opens a channel, declares the durable topic
// exchange and queue and binds them with the routing key. An existing
// connection is closed first.
func (b *Broker) Connect(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connectLocked(ctx)
}

// CreateConnection connects only when the broker is not already connected.
func (b *Broker) CreateConnection(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.connectedLocked() {
		return nil
	}
	return b.connectLocked(ctx)
}

func (b *Broker) connectLocked(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		observeOperation(b.observer, "connect", b.cfg.Exchange, b.cfg.Queue, time.Since(start), err, 0, nil)
	}()

	_ = b.closeLocked()

	conn, err := b.dial(b.url, b.tlsConfig)
	if err != nil {
		err = fmt.Errorf("%w: %w: %w", ErrTransport, ErrConnectionFailed, err)
		logError(b.logger, ctx, "failed to connect to broker", err, map[string]interface{}{"url": b.cfg.redactedURL()})
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("%w: %w: %w", ErrTransport, ErrChannelFailed, err)
	}

	if err := b.declare(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("%w: %w: %w", ErrTransport, ErrTopologyFailed, err)
	}

	b.conn = conn
	b.channel = ch
	logInfo(b.logger, ctx, "connected to broker", map[string]interface{}{
		"exchange":    b.cfg.Exchange,
		"queue":       b.cfg.Queue,
		"routing_key": b.cfg.RoutingKey,
	})
	return nil
}

func (b *Broker) declare(ch Channel) error {
	if err := ch.ExchangeDeclare(b.cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("exchange %s: %w", b.cfg.Exchange, err)
	}
	if _, err := ch.QueueDeclare(b.cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue %s: %w", b.cfg.Queue, err)
	}
	if err := ch.QueueBind(b.cfg.Queue, b.cfg.RoutingKey, b.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind %s to %s: %w", b.cfg.Queue, b.cfg.Exchange, err)
	}
	return nil
}

// IsConnected reports whether the connection is open.
func (b *Broker) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connectedLocked()
}

func (b *Broker) connectedLocked() bool {
	return b.conn != nil && !b.conn.IsClosed()
}

// Publish sends payload to the exchange with the configured routing key.
func (b *Broker) Publish(ctx context.Context, payload string) (err error) {
	start := time.Now()
	defer func() {
		observeOperation(b.observer, "publish", b.cfg.Exchange, b.cfg.RoutingKey, time.Since(start), err, int64(len(payload)), nil)
	}()

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.connectedLocked() {
		return fmt.Errorf("%w: %w", ErrTransport, ErrNotConnected)
	}

	msg := amqp.Publishing{
		ContentType:  ContentTypeJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         []byte(payload),
	}
	if err := b.channel.PublishWithContext(ctx, b.cfg.Exchange, b.cfg.RoutingKey, false, false, msg); err != nil {
		err = fmt.Errorf("%w: %w: %w", ErrTransport, ErrPublishFailed, err)
		logError(b.logger, ctx, "failed to publish to broker", err, map[string]interface{}{
			"exchange":    b.cfg.Exchange,
			"routing_key": b.cfg.RoutingKey,
		})
		return err
	}
	return nil
}

// Close closes the channel and connection. It is safe to call more than once.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closeLocked()
}

func (b *Broker) closeLocked() error {
	var err error
	if b.channel != nil {
		_ = b.channel.Close()
		b.channel = nil
	}
	if b.conn != nil {
		if !b.conn.IsClosed() {
			err = b.conn.Close()
		}
		b.conn = nil
	}
	return err
}

// WithDialer replaces the connection factory and returns the broker for chaining.
func (b *Broker) WithDialer(dial Dialer) *Broker {
	b.dial = dial
	return b
}

// WithObserver sets the observer and returns the broker for chaining.
func (b *Broker) WithObserver(observer observability.Observer) *Broker {
	b.observer = observer
	return b
}

// WithLogger sets the logger and returns the broker for chaining.
func (b *Broker) WithLogger(logger Logger) *Broker {
	b.logger = logger
	return b
}
