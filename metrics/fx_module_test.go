package metrics_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/aalemi-dev/lims-events/metrics"
	"github.com/aalemi-dev/lims-events/observability"
)

type recordingLogger struct {
	mu    sync.Mutex
	infos []string
}

func (l *recordingLogger) InfoWithContext(_ context.Context, msg string, _ error, _ ...map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.infos...)
}

func (l *recordingLogger) ErrorWithContext(_ context.Context, msg string, _ error, _ ...map[string]interface{}) {
}

func testConfig() metrics.Config {
	return metrics.Config{
		ServiceName:               "fx-test",
		SystemMetricsAddress:      metrics.Ptr(""),
		ApplicationMetricsAddress: metrics.Ptr("127.0.0.1:0"),
	}
}

func TestFXModule_ProvidesMetricsAndObserver(t *testing.T) {
	var (
		m         *metrics.Metrics
		collector metrics.MetricsCollector
		observer  observability.Observer
	)

	app := fxtest.New(t,
		metrics.FXModule,
		fx.Provide(testConfig),
		fx.Populate(&m, &collector, &observer),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, m)
	assert.Same(t, m, collector)
	require.IsType(t, &metrics.Observer{}, observer)
}

func TestRegisterMetricsLifecycle_StartsAndStops(t *testing.T) {
	m := metrics.NewMetrics(testConfig())
	log := &recordingLogger{}
	lc := fxtest.NewLifecycle(t)

	metrics.RegisterMetricsLifecycle(metrics.LifecycleParams{Lifecycle: lc, Metrics: m, Logger: log})

	lc.RequireStart()
	lc.RequireStop()

	assert.Contains(t, log.messages(), "shutting down metrics server")
}

func TestRegisterMetricsLifecycle_NoServers(t *testing.T) {
	m := metrics.NewMetrics(metrics.Config{
		SystemMetricsAddress:      metrics.Ptr(""),
		ApplicationMetricsAddress: metrics.Ptr(""),
	})
	lc := fxtest.NewLifecycle(t)

	metrics.RegisterMetricsLifecycle(metrics.LifecycleParams{Lifecycle: lc, Metrics: m})

	lc.RequireStart()
	lc.RequireStop()
}
