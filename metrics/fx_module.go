package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/aalemi-dev/lims-events/observability"
)

// Logger is the logging contract the metrics lifecycle uses.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// FXModule provides *Metrics, MetricsCollector, *Observer and the Observer as
// an observability.Observer, which every infrastructure package picks up as
// its optional observer.
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		fx.Annotate(
			func(m *Metrics) MetricsCollector { return m },
			fx.As(new(MetricsCollector)),
		),
		NewObserver,
		fx.Annotate(
			func(o *Observer) observability.Observer { return o },
			fx.As(new(observability.Observer)),
		),
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// LifecycleParams groups the dependencies for metrics server lifecycle management.
type LifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Metrics   *Metrics
	Logger    Logger `optional:"true"`
}

// RegisterMetricsLifecycle starts the configured servers in the background on
// start and shuts them down gracefully on stop.
func RegisterMetricsLifecycle(params LifecycleParams) {
	m, log := params.Metrics, params.Logger

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			serve(ctx, log, "system", m.SystemServer)
			serve(ctx, log, "application", m.ApplicationServer)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return errors.Join(
				shutdown(ctx, log, "system", m.SystemServer),
				shutdown(ctx, log, "application", m.ApplicationServer),
			)
		},
	})
}

func serve(ctx context.Context, log Logger, name string, srv *http.Server) {
	if srv == nil {
		return
	}
	fields := map[string]interface{}{"endpoint": name, "address": srv.Addr}

	go func() {
		if log != nil {
			log.InfoWithContext(ctx, "starting metrics server", nil, fields)
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && log != nil {
			log.ErrorWithContext(context.Background(), "metrics server failed", err, fields)
		}
	}()
}

func shutdown(ctx context.Context, log Logger, name string, srv *http.Server) error {
	if srv == nil {
		return nil
	}
	if log != nil {
		log.InfoWithContext(ctx, "shutting down metrics server", nil, map[string]interface{}{"endpoint": name})
	}
	return srv.Shutdown(ctx)
}
