package logger

import (
	"context"

	"go.uber.org/fx"
)

// DefaultServiceName fills Config.ServiceName when the container supplies no
// Config or leaves it empty.
const DefaultServiceName = "lims-events"

// FXModule provides *LoggerClient and the Logger interface, and flushes
// buffered entries when the application stops.
//
//	app := fx.New(
//	    fx.Supply(logger.Config{Level: logger.Info}),
//	    logger.FXModule,
//	)
var FXModule = fx.Module("logger",
	fx.Provide(
		NewLoggerClientWithDI,
		func(l *LoggerClient) Logger { return l },
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// LoggerParams groups the dependencies needed to create a LoggerClient.
type LoggerParams struct {
	fx.In

	Config Config `optional:"true"`
}

// NewLoggerClientWithDI creates a LoggerClient from the injected Config.
func NewLoggerClientWithDI(params LoggerParams) *LoggerClient {
	cfg := params.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}
	return NewLoggerClient(cfg)
}

// RegisterLoggerLifecycle syncs the zap logger on application stop.
func RegisterLoggerLifecycle(lc fx.Lifecycle, client *LoggerClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// stderr returns EINVAL on sync on some platforms; nothing to flush then.
			_ = client.Zap.Sync()
			return nil
		},
	})
}
