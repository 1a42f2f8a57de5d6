package rabbitmq

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSenderConfig() SenderConfig {
	return SenderConfig{
		ConnectionConfig: ConnectionConfig{
			Host:     "rabbit.internal",
			Port:     5672,
			Username: "lims",
			Password: "p@ss/word",
			VHost:    "tol",
		},
		Exchange: "lims.events",
	}
}

func newTestSender(t *testing.T, dialer *fakeDialer) *Sender {
	t.Helper()
	sender, err := NewSender(testSenderConfig())
	require.NoError(t, err)
	return sender.WithDialer(dialer.Dial)
}

func TestSenderPublishesWithHeaders(t *testing.T) {
	dialer := &fakeDialer{}
	obs := &recordingObserver{}
	sender := newTestSender(t, dialer).WithObserver(obs)

	payload := []byte{0xC3, 0x01, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	require.NoError(t, sender.Send(context.Background(), "create-aliquot-in-mlwh", 2, payload))

	conns := dialer.Connections()
	require.Len(t, conns, 1)
	ch := conns[0].channel
	require.Len(t, ch.published, 1)

	got := ch.published[0]
	assert.Equal(t, "lims.events", got.exchange)
	assert.Equal(t, "", got.key)
	assert.Equal(t, payload, got.msg.Body)
	assert.Equal(t, ContentTypeAvro, got.msg.ContentType)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, "create-aliquot-in-mlwh", got.msg.Headers["subject"])
	assert.Equal(t, int32(2), got.msg.Headers["version"])
	assert.Equal(t, "binary", got.msg.Headers["encoder_type"])

	assert.True(t, ch.closed, "channel closed")
	assert.True(t, conns[0].closed, "connection closed")

	ops := obs.Operations()
	require.Len(t, ops, 1)
	assert.Equal(t, "rabbitmq", ops[0].Component)
	assert.Equal(t, "publish", ops[0].Operation)
	assert.Equal(t, int64(len(payload)), ops[0].Size)
	assert.NoError(t, ops[0].Error)
}

func TestSenderOpensConnectionPerSend(t *testing.T) {
	dialer := &fakeDialer{}
	sender := newTestSender(t, dialer)

	for i := 0; i < 3; i++ {
		require.NoError(t, sender.Send(context.Background(), "s", 1, []byte("x")))
	}

	conns := dialer.Connections()
	require.Len(t, conns, 3)
	for _, c := range conns {
		assert.True(t, c.closed)
	}
}

func TestSenderFailuresReleaseResources(t *testing.T) {
	tests := []struct {
		name     string
		dialer   *fakeDialer
		sentinel error
	}{
		{name: "dial", dialer: &fakeDialer{dialErr: errBoom}, sentinel: ErrConnectionFailed},
		{name: "channel", dialer: &fakeDialer{channelErr: errBoom}, sentinel: ErrChannelFailed},
		{name: "publish", dialer: &fakeDialer{publishErr: errBoom}, sentinel: ErrPublishFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := newTestSender(t, tt.dialer)

			err := sender.Send(context.Background(), "s", 1, []byte("x"))
			require.Error(t, err)
			assert.True(t, IsTransportError(err))
			assert.True(t, errors.Is(err, tt.sentinel))
			assert.True(t, errors.Is(err, errBoom))

			for _, c := range tt.dialer.Connections() {
				assert.True(t, c.closed, "connection closed after failure")
				if tt.dialer.channelErr == nil {
					assert.True(t, c.channel.closed, "channel closed after failure")
				}
			}
		})
	}
}

func TestNewSenderValidation(t *testing.T) {
	_, err := NewSender(SenderConfig{Exchange: "x"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg := testSenderConfig()
	cfg.Exchange = ""
	_, err = NewSender(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = testSenderConfig()
	cfg.TLS = TLSConfig{Enabled: true, CACertPath: filepath.Join(t.TempDir(), "missing.pem")}
	_, err = NewSender(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSenderTLS(t *testing.T) {
	t.Run("without CA skips verification", func(t *testing.T) {
		dialer := &fakeDialer{}
		cfg := testSenderConfig()
		cfg.Port = 0
		cfg.TLS = TLSConfig{Enabled: true}

		sender, err := NewSender(cfg)
		require.NoError(t, err)
		require.NoError(t, sender.WithDialer(dialer.Dial).Send(context.Background(), "s", 1, nil))

		require.Len(t, dialer.tlsConfigs, 1)
		require.NotNil(t, dialer.tlsConfigs[0])
		assert.True(t, dialer.tlsConfigs[0].InsecureSkipVerify)
		assert.True(t, strings.HasPrefix(dialer.urls[0], "amqps://"))
		assert.Contains(t, dialer.urls[0], ":5671")
	})

	t.Run("unparseable CA is rejected", func(t *testing.T) {
		ca := filepath.Join(t.TempDir(), "ca.pem")
		require.NoError(t, os.WriteFile(ca, []byte("not a certificate"), 0o600))

		cfg := testSenderConfig()
		cfg.TLS = TLSConfig{Enabled: true, CACertPath: ca}
		_, err := NewSender(cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("plain connection has no TLS config", func(t *testing.T) {
		dialer := &fakeDialer{}
		require.NoError(t, newTestSender(t, dialer).Send(context.Background(), "s", 1, nil))
		assert.Nil(t, dialer.tlsConfigs[0])
		assert.True(t, strings.HasPrefix(dialer.urls[0], "amqp://"))
	})
}

func TestConnectionConfigURL(t *testing.T) {
	cfg := testSenderConfig().ConnectionConfig

	uri, err := amqp.ParseURI(cfg.URL())
	require.NoError(t, err)
	assert.Equal(t, "rabbit.internal", uri.Host)
	assert.Equal(t, 5672, uri.Port)
	assert.Equal(t, "lims", uri.Username)
	assert.Equal(t, "p@ss/word", uri.Password)
	assert.Equal(t, "tol", uri.Vhost)

	assert.NotContains(t, cfg.redactedURL(), "p@ss")
}
