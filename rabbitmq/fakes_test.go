package rabbitmq

import (
	"context"
	"crypto/tls"
	"errors"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/aalemi-dev/lims-events/observability"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	mu         sync.Mutex
	publishErr error
	declareErr error
	published  []published
	declared   []string
	closed     bool
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.declareErr != nil {
		return c.declareErr
	}
	c.declared = append(c.declared, "exchange:"+name+":"+kind+":"+boolString(durable))
	return nil
}

func (c *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.declared = append(c.declared, "queue:"+name+":"+boolString(durable))
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) QueueBind(name, key, exchange string, _ bool, _ amqp.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.declared = append(c.declared, "bind:"+name+":"+key+":"+exchange)
	return nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.publishErr != nil {
		return c.publishErr
	}
	c.published = append(c.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

type fakeConnection struct {
	mu         sync.Mutex
	channel    *fakeChannel
	channelErr error
	closed     bool
}

func (c *fakeConnection) Channel() (Channel, error) {
	if c.channelErr != nil {
		return nil, c.channelErr
	}
	return c.channel, nil
}

func (c *fakeConnection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// fakeDialer hands out a new connection per dial and remembers them all.
type fakeDialer struct {
	mu          sync.Mutex
	dialErr     error
	channelErr  error
	publishErr  error
	declareErr  error
	urls        []string
	tlsConfigs  []*tls.Config
	connections []*fakeConnection
}

func (d *fakeDialer) Dial(url string, tlsConfig *tls.Config) (Connection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.urls = append(d.urls, url)
	d.tlsConfigs = append(d.tlsConfigs, tlsConfig)
	if d.dialErr != nil {
		return nil, d.dialErr
	}
	conn := &fakeConnection{
		channel:    &fakeChannel{publishErr: d.publishErr, declareErr: d.declareErr},
		channelErr: d.channelErr,
	}
	d.connections = append(d.connections, conn)
	return conn, nil
}

func (d *fakeDialer) Connections() []*fakeConnection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*fakeConnection(nil), d.connections...)
}

var errBoom = errors.New("boom")

func boolString(b bool) string {
	if b {
		return "durable"
	}
	return "transient"
}

type recordingObserver struct {
	mu         sync.Mutex
	operations []observability.OperationContext
}

func (o *recordingObserver) ObserveOperation(ctx observability.OperationContext) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.operations = append(o.operations, ctx)
}

func (o *recordingObserver) Operations() []observability.OperationContext {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]observability.OperationContext(nil), o.operations...)
}
