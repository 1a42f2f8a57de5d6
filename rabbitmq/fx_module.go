package rabbitmq

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/lims-events/observability"
)

// SenderModule provides a *Sender built from an injected SenderConfig.
//
// Usage:
//
//	app := fx.New(
//	    rabbitmq.SenderModule,
//	    fx.Provide(func() rabbitmq.SenderConfig { return cfg.EMQ.Sender }),
//	)
var SenderModule = fx.Module("rabbitmq_sender",
	fx.Provide(NewSenderWithDI),
)

// BrokerModule provides a *Broker built from an injected BrokerConfig. The
// broker connects on application start and closes on stop.
var BrokerModule = fx.Module("rabbitmq_broker",
	fx.Provide(NewBrokerWithDI),
	fx.Invoke(RegisterBrokerLifecycle),
)

// SenderParams groups the dependencies needed to create a Sender.
type SenderParams struct {
	fx.In

	Config   SenderConfig
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewSenderWithDI creates a Sender from injected dependencies.
func NewSenderWithDI(params SenderParams) (*Sender, error) {
	sender, err := NewSender(params.Config)
	if err != nil {
		return nil, err
	}
	sender.logger = params.Logger
	sender.observer = params.Observer
	return sender, nil
}

// BrokerParams groups the dependencies needed to create a Broker.
type BrokerParams struct {
	fx.In

	Config   BrokerConfig
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewBrokerWithDI creates a Broker from injected dependencies.
func NewBrokerWithDI(params BrokerParams) (*Broker, error) {
	broker, err := NewBroker(params.Config)
	if err != nil {
		return nil, err
	}
	broker.logger = params.Logger
	broker.observer = params.Observer
	return broker, nil
}

// BrokerLifecycleParams groups the dependencies for broker lifecycle management.
type BrokerLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Broker    *Broker
}

// RegisterBrokerLifecycle connects the broker on start and closes it on stop.
// A failed connection fails application start.
func RegisterBrokerLifecycle(params BrokerLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return params.Broker.CreateConnection(ctx)
		},
		OnStop: func(ctx context.Context) error {
			logInfo(params.Broker.logger, ctx, "closing broker connection", nil)
			return params.Broker.Close()
		},
	})
}
