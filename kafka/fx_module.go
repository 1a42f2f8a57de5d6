package kafka

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/lims-events/observability"
)

// FXModule provides a *Sender built from an injected Config.
//
// Usage:
//
//	app := fx.New(
//	    kafka.FXModule,
//	    fx.Provide(func() kafka.Config { return cfg.Kafka }),
//	)
var FXModule = fx.Module("kafka",
	fx.Provide(NewSenderWithDI),
	fx.Invoke(RegisterKafkaLifecycle),
)

// KafkaParams groups the dependencies needed to create a Sender
type KafkaParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewSenderWithDI creates a Sender using dependency injection.
func NewSenderWithDI(params KafkaParams) (*Sender, error) {
	sender, err := NewSender(params.Config)
	if err != nil {
		return nil, err
	}
	sender.logger = params.Logger
	sender.observer = params.Observer
	return sender, nil
}

// KafkaLifecycleParams groups the dependencies for lifecycle management
type KafkaLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Sender    *Sender
}

// RegisterKafkaLifecycle logs start and stop. Writers live only for one Send,
// so there is nothing to flush on shutdown; idle transport connections are
// released on stop.
func RegisterKafkaLifecycle(params KafkaLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if params.Sender.logger != nil {
				params.Sender.logger.InfoWithContext(ctx, "Kafka sender started", nil, map[string]interface{}{
					"topic": params.Sender.cfg.Topic,
				})
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Sender.transport.CloseIdleConnections()
			return nil
		},
	})
}
