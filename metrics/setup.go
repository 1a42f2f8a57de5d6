package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector creates application metrics without exposing Prometheus types.
type MetricsCollector interface {
	// CreateCounter registers a counter vector on the application registry.
	CreateCounter(name, help string, labels []string) Counter

	// CreateHistogram registers a histogram vector on the application registry.
	CreateHistogram(name, help string, labels []string, buckets []float64) Histogram

	// CreateGauge registers a gauge vector on the application registry.
	CreateGauge(name, help string, labels []string) Gauge
}

// Metrics holds the two Prometheus registries and the servers that expose them.
// Either server is nil when its address is configured empty.
type Metrics struct {
	SystemServer   *http.Server
	SystemRegistry *prometheus.Registry

	ApplicationServer   *http.Server
	ApplicationRegistry *prometheus.Registry

	namespace                    string
	wrappedApplicationRegisterer prometheus.Registerer
}

// NewMetrics builds the registries and servers described by cfg. Servers are not
// started here; RegisterMetricsLifecycle or the caller does that.
//
// Parameters:
//   - cfg: listen addresses for the two endpoints, the service label and the
//     metric namespace
//
// Returns:
//   - *Metrics: the system and application registries with their HTTP servers
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{
//	    ServiceName:               "lims-events",
//	    ApplicationMetricsAddress: metrics.Ptr(":9191"),
//	})
//	go m.ApplicationServer.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	m := &Metrics{namespace: cfg.namespace()}
	labels := prometheus.Labels{"service": cfg.ServiceName}

	systemAddr := DefaultSystemMetricsAddress
	if cfg.SystemMetricsAddress != nil {
		systemAddr = *cfg.SystemMetricsAddress
	}

	if systemAddr != "" {
		systemRegistry := prometheus.NewRegistry()
		prometheus.WrapRegistererWith(labels, systemRegistry).MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)

		m.SystemRegistry = systemRegistry
		m.SystemServer = &http.Server{
			Addr:    systemAddr,
			Handler: promhttp.HandlerFor(systemRegistry, promhttp.HandlerOpts{}),
		}
	}

	appAddr := DefaultApplicationMetricsAddress
	if cfg.ApplicationMetricsAddress != nil {
		appAddr = *cfg.ApplicationMetricsAddress
	}

	// The application registry always exists so the Observer can record even
	// when nothing scrapes it.
	applicationRegistry := prometheus.NewRegistry()
	m.ApplicationRegistry = applicationRegistry
	m.wrappedApplicationRegisterer = prometheus.WrapRegistererWith(labels, applicationRegistry)

	if appAddr != "" {
		m.ApplicationServer = &http.Server{
			Addr:    appAddr,
			Handler: promhttp.HandlerFor(applicationRegistry, promhttp.HandlerOpts{}),
		}
	}

	return m
}
