// Package kafka is the Kafka transport for framed event payloads.
//
// Sender has the same contract as the AMQP sender in package rabbitmq, so the
// publisher can switch transports by configuration alone. Messages are never
// consumed here; consumers are downstream services.
//
// # Architecture
//
// The package follows the "accept interfaces, return structs" idiom:
//   - Sender: concrete type returned by NewSender
//   - MessageWriter: the part of *kafka.Writer that Sender uses
//   - WriterFactory: creates a MessageWriter per Send call; tests replace it
//     with WithWriterFactory
//   - Logger: the subset of the module logger this package needs
//
// Every Send builds a writer, writes one record and closes the writer before
// returning. The shared *kafka.Transport keeps the broker connections, so the
// per-message writer is cheap. A failed Send is never retried here beyond the
// writer's own MaxAttempts.
//
// # Records
//
// Each record carries:
//
//	key      the schema subject, so one schema's messages stay ordered on one partition
//	value    the single-object encoded payload
//	headers  subject, version, encoder_type=binary, content-type=avro/binary
//
// # Basic Usage
//
//	sender, err := kafka.NewSender(kafka.Config{
//	    Brokers: []string{"kafka-1:9092"},
//	    Topic:   "lims.events",
//	})
//	if err != nil {
//	    return err
//	}
//	if err := sender.Send(ctx, "create-aliquot-in-mlwh", 1, payload); err != nil {
//	    if kafka.IsAuthenticationError(err) {
//	        // credentials are wrong, retrying will not help
//	    }
//	    return err
//	}
//
// # Security
//
// TLS is enabled with Config.TLS. A CA certificate, a client certificate and
// key pair, or both may be given. SASL is enabled with Config.SASL and
// supports the PLAIN, SCRAM-SHA-256 and SCRAM-SHA-512 mechanisms:
//
//	cfg := kafka.Config{
//	    Brokers: []string{"kafka-1:9093"},
//	    Topic:   "lims.events",
//	    TLS: kafka.TLSConfig{
//	        Enabled:    true,
//	        CACertPath: "/etc/ssl/kafka-ca.pem",
//	    },
//	    SASL: kafka.SASLConfig{
//	        Enabled:   true,
//	        Mechanism: "SCRAM-SHA-512",
//	        Username:  "lims",
//	        Password:  os.Getenv("KAFKA_PASSWORD"),
//	    },
//	}
//
// # Errors
//
// Every error returned by Send wraps ErrTransport together with a more
// specific sentinel such as ErrBrokerNotAvailable or ErrTopicNotFound.
// IsTransportError reports any of them. IsAuthenticationError narrows to
// authentication and authorization failures.
//
// # Observability
//
// With an observer set, every Send reports a "publish" operation with the
// topic as Resource, the subject as SubResource and the payload size. Failed
// sends are logged at warn level; the caller decides whether the failure is
// an error worth reporting.
//
// # FX Module Integration
//
//	app := fx.New(
//	    kafka.FXModule,
//	    fx.Provide(func() kafka.Config { return cfg.EMQ.Kafka }),
//	)
//
// FXModule provides *Sender. Logger and observability.Observer are optional
// and are attached when present in the graph.
//
// # Thread Safety
//
// A Sender may be shared between goroutines. Concurrent Sends use separate
// writers over the same transport.
package kafka
