package tracer

import (
	"go.uber.org/fx"
)

// FXModule provides *TracerClient and the Tracer interface. Config is
// optional; without one spans are recorded locally under DefaultServiceName
// and never exported.
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClientWithDI,
		func(t *TracerClient) Tracer { return t },
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// ClientParams groups the dependencies needed to create a TracerClient.
type ClientParams struct {
	fx.In

	Config Config `optional:"true"`
}

// NewClientWithDI creates a TracerClient from the injected Config.
func NewClientWithDI(params ClientParams) (*TracerClient, error) {
	return NewClient(params.Config)
}

// RegisterTracerLifecycle flushes pending spans when the application stops.
func RegisterTracerLifecycle(lc fx.Lifecycle, client *TracerClient) {
	lc.Append(fx.Hook{
		OnStop: client.Shutdown,
	})
}
