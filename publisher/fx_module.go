package publisher

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/aalemi-dev/lims-events/kafka"
	"github.com/aalemi-dev/lims-events/logger"
	"github.com/aalemi-dev/lims-events/metrics"
	"github.com/aalemi-dev/lims-events/minio"
	"github.com/aalemi-dev/lims-events/observability"
	"github.com/aalemi-dev/lims-events/rabbitmq"
	"github.com/aalemi-dev/lims-events/schema_registry"
	"github.com/aalemi-dev/lims-events/tracer"
)

// BuilderGroup is the fx value group message builders are contributed to.
//
//	fx.Provide(fx.Annotate(
//	    func() publisher.NamedBuilder { return publisher.NamedBuilder{Name: "X", Factory: NewX} },
//	    fx.ResultTags(`group:"message_builders"`),
//	))
const BuilderGroup = "message_builders"

// FXModule provides a *Job from a *Config in the container, together with the
// schema resolver, the encoder and the configured transport.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    publisher.LoggerBindings,
//	    publisher.FXModule,
//	    volumetracking.FXModule,
//	    fx.Provide(func() (*publisher.Config, error) { return publisher.LoadConfig("config/emq.yml") }),
//	)
var FXModule = fx.Module("publisher",
	schema_registry.FXModule,
	fx.Provide(
		RegistryConfig,
		NewBuildersWithDI,
		NewSenderWithDI,
		NewJobWithDI,
	),
	fx.Invoke(RegisterPublisherLifecycle),
)

// LoggerBindings exposes a *logger.LoggerClient under each package's Logger
// interface so the optional Logger parameters are filled.
var LoggerBindings = fx.Provide(
	func(l *logger.LoggerClient) schema_registry.Logger { return l },
	func(l *logger.LoggerClient) rabbitmq.Logger { return l },
	func(l *logger.LoggerClient) minio.Logger { return l },
	func(l *logger.LoggerClient) kafka.Logger { return l },
	func(l *logger.LoggerClient) metrics.Logger { return l },
	func(l *logger.LoggerClient) Logger { return l },
)

// SchemaStoreModule adds the bucket-backed shared schema cache, configured
// from the schema_store section.
var SchemaStoreModule = fx.Options(
	fx.Provide(SchemaStoreConfig),
	minio.FXModule,
)

// SchemaStoreConfig extracts the shared schema cache settings for minio.FXModule.
func SchemaStoreConfig(cfg *Config) minio.Config {
	return cfg.EMQ.SchemaStore
}

// RegistryConfig extracts the schema registry settings for schema_registry.FXModule.
func RegistryConfig(cfg *Config) schema_registry.Config {
	return cfg.EMQ.Registry
}

// BuildersParams groups the builders contributed to BuilderGroup.
type BuildersParams struct {
	fx.In

	Builders []NamedBuilder `group:"message_builders"`
}

// NewBuildersWithDI creates the registry with every contributed builder.
func NewBuildersWithDI(params BuildersParams) *Builders {
	return NewBuilders(params.Builders...)
}

// SenderParams groups the dependencies needed to create the transport Sender.
type SenderParams struct {
	fx.In

	Config         *Config
	RabbitMQLogger rabbitmq.Logger        `optional:"true"`
	KafkaLogger    kafka.Logger           `optional:"true"`
	Observer       observability.Observer `optional:"true"`
}

// NewSenderWithDI creates the Sender selected by EMQConfig.Transport.
func NewSenderWithDI(params SenderParams) (Sender, error) {
	emq := params.Config.EMQ
	switch emq.Transport {
	case "", TransportRabbitMQ:
		s, err := rabbitmq.NewSender(emq.RabbitMQ)
		if err != nil {
			return nil, err
		}
		if params.RabbitMQLogger != nil {
			s.WithLogger(params.RabbitMQLogger)
		}
		if params.Observer != nil {
			s.WithObserver(params.Observer)
		}
		return s, nil
	case TransportKafka:
		s, err := kafka.NewSender(emq.Kafka)
		if err != nil {
			return nil, err
		}
		if params.KafkaLogger != nil {
			s.WithLogger(params.KafkaLogger)
		}
		if params.Observer != nil {
			s.WithObserver(params.Observer)
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: unknown transport %q", ErrInvalidConfig, emq.Transport)
}

// JobParams groups the dependencies needed to create a Job.
type JobParams struct {
	fx.In

	Config   *Config
	Builders *Builders
	Resolver *schema_registry.Resolver
	Encoder  *schema_registry.Encoder
	Sender   Sender
	Deps     *BuilderDeps           `optional:"true"`
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
	Tracer   tracer.Tracer          `optional:"true"`
}

// NewJobWithDI creates a Job from injected dependencies.
func NewJobWithDI(params JobParams) (*Job, error) {
	var deps BuilderDeps
	if params.Deps != nil {
		deps = *params.Deps
	}

	job, err := NewJob(params.Config, params.Builders, deps, params.Resolver, params.Encoder, params.Sender)
	if err != nil {
		return nil, err
	}
	job.logger = params.Logger
	job.observer = params.Observer
	job.tracer = params.Tracer
	return job, nil
}

// PublisherLifecycleParams groups the dependencies for publisher lifecycle logging.
type PublisherLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Job       *Job
	Builders  *Builders
	Logger    Logger `optional:"true"`
}

// RegisterPublisherLifecycle logs the wiring once the application starts.
func RegisterPublisherLifecycle(params PublisherLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logInfo(params.Logger, ctx, "publisher initialized", map[string]interface{}{
				"transport": params.Job.transport(),
				"builders":  params.Builders.Names(),
				"pipelines": len(params.Job.cfg.Pipelines),
			})
			return nil
		},
	})
}
