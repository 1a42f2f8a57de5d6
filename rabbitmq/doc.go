// Package rabbitmq publishes messages over AMQP 0-9-1.
//
// # Architecture
//
// Two publishers live here, sharing ConnectionConfig and the Dialer seam:
//   - Sender opens a fresh connection for every call and publishes a framed
//     Avro payload to a headers exchange, tagging it with the schema subject
//     and version. This is the event message queue transport.
//   - Broker keeps one long-lived connection and publishes JSON text to a
//     topic exchange with a fixed routing key. It is the older, simpler flow
//     and does not reconnect on its own.
//
// Connections are made through a Dialer. DialAMQP wraps amqp091-go; tests
// substitute their own with WithDialer, so the publishing logic runs without
// a broker.
//
// # Basic Usage
//
//	sender, err := rabbitmq.NewSender(rabbitmq.SenderConfig{
//	    ConnectionConfig: rabbitmq.ConnectionConfig{
//	        Host:     "rabbit.internal",
//	        Port:     5671,
//	        Username: "lims",
//	        Password: os.Getenv("RABBITMQ_PASSWORD"),
//	        VHost:    "tol",
//	        TLS:      rabbitmq.TLSConfig{Enabled: true, CACertPath: "/etc/ssl/rabbit-ca.pem"},
//	    },
//	    Exchange: "lims.events",
//	})
//	if err != nil {
//	    return err
//	}
//	err = sender.Send(ctx, "create-aliquot-in-mlwh", 1, payload)
//
// Each message is persistent, has content type avro/binary and carries the
// headers
//
//	subject       the schema subject
//	version       the schema version, as a 32-bit integer
//	encoder_type  "binary"
//
// The exchange must already exist; Sender never declares topology.
//
// # Broker
//
//	broker, err := rabbitmq.NewBroker(rabbitmq.BrokerConfig{
//	    ConnectionConfig: rabbitmq.ConnectionConfig{Host: "rabbit.internal"},
//	    Exchange:         "lims.legacy",
//	    Queue:            "lims.legacy.events",
//	    RoutingKey:       "lims.#",
//	})
//	if err != nil {
//	    return err
//	}
//	if err := broker.Connect(ctx); err != nil {
//	    return err
//	}
//	defer broker.Close()
//
//	err = broker.Publish(ctx, `{"event":"aliquot.updated"}`)
//
// Connect declares a durable topic exchange and a durable queue and binds
// them. Publish on a closed or never-opened connection fails with
// ErrNotConnected; callers reconnect with CreateConnection.
//
// # Errors
//
// Every failure from Send and Publish wraps ErrTransport together with a
// narrower sentinel: ErrConnectionFailed, ErrChannelFailed, ErrPublishFailed
// or ErrNotConnected. Use IsTransportError to classify it. Neither publisher
// retries.
//
// # TLS
//
// When TLS is enabled without a CA certificate the peer certificate is not
// verified. This keeps parity with existing deployments and is a known
// weakness; configure CACertPath in production. A client certificate and key
// may be added for mutual TLS.
//
// # FX Module Integration
//
//	app := fx.New(
//	    rabbitmq.SenderModule,
//	    fx.Provide(func() rabbitmq.SenderConfig { return cfg.EMQ.RabbitMQ }),
//	)
//
// BrokerModule provides *Broker the same way from a BrokerConfig, connecting
// on start and closing on stop. Logger and observability.Observer are
// optional in both modules.
package rabbitmq
