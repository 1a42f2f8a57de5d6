// Package metrics exposes the event pipeline's operations to Prometheus.
//
// # Architecture
//
// NewMetrics builds two registries, each with its own HTTP server that serves
// the registry in the Prometheus text format:
//
//   - the system endpoint (default :9090) carries Go runtime, process and
//     build info collectors;
//   - the application endpoint (default :9091) carries metrics created with
//     CreateCounter, CreateHistogram and CreateGauge.
//
// Setting an address to the empty string disables that endpoint.
//
// Every series carries a constant "service" label taken from
// Config.ServiceName. Counter, Histogram and Gauge are the vector interfaces
// returned by the Create methods, so callers can be tested against fakes.
//
// # Observer
//
// Observer adapts observability.Observer onto the application registry, so
// every schema resolution, broker publish and publishing batch is counted:
//
//	m := metrics.NewMetrics(metrics.Config{ServiceName: "lims-events"})
//	obs := metrics.NewObserver(m)
//
//	resolver, err := schema_registry.NewResolver(cfg)
//	if err != nil {
//	    return err
//	}
//	resolver.WithObserver(obs)
//
// The registered series are
//
//	lims_events_operations_total{component, operation, status}
//	lims_events_operation_duration_seconds{component, operation}
//	lims_events_operation_size_total{component, operation}
//	lims_events_last_success_timestamp_seconds{component, operation}
//
// The prefix is Config.Namespace, lims_events by default. Size and last
// success are only updated for successful operations.
//
// # Custom Metrics
//
//	queued := m.CreateGauge("lims_events_pending_objects", "Objects awaiting publish.", []string{"pipeline"})
//	queued.WithLabelValues("pacbio").Set(12)
//
// # FX Module Integration
//
// FXModule provides *Metrics, MetricsCollector and the Observer as an
// observability.Observer, and starts and stops both servers with the app.
// The application supplies a metrics.Config.
package metrics
