package metrics

import (
	"github.com/aalemi-dev/lims-events/observability"
)

// Observer records every observed operation as Prometheus series on the
// application registry. It implements observability.Observer.
type Observer struct {
	operations  Counter
	duration    Histogram
	bytes       Counter
	lastSuccess Gauge
}

var _ observability.Observer = (*Observer)(nil)

// NewObserver registers the operation series on m. Calling it twice on the same
// *Metrics panics on duplicate registration.
func NewObserver(m *Metrics) *Observer {
	ns := m.namespace
	return &Observer{
		operations: m.CreateCounter(
			ns+"_operations_total",
			"Completed pipeline operations by component, operation and status.",
			[]string{"component", "operation", "status"},
		),
		duration: m.CreateHistogram(
			ns+"_operation_duration_seconds",
			"Wall time of pipeline operations.",
			[]string{"component", "operation"},
			DefaultDurationBuckets,
		),
		bytes: m.CreateCounter(
			ns+"_operation_size_total",
			"Size of successful operations: payload bytes, or objects for batches.",
			[]string{"component", "operation"},
		),
		lastSuccess: m.CreateGauge(
			ns+"_last_success_timestamp_seconds",
			"Unix time of the last successful operation.",
			[]string{"component", "operation"},
		),
	}
}

// ObserveOperation implements observability.Observer.
func (o *Observer) ObserveOperation(ctx observability.OperationContext) {
	o.operations.WithLabelValues(ctx.Component, ctx.Operation, ctx.Status()).Inc()
	o.duration.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())

	if ctx.Error != nil {
		return
	}
	if ctx.Size > 0 {
		o.bytes.WithLabelValues(ctx.Component, ctx.Operation).Add(float64(ctx.Size))
	}
	o.lastSuccess.WithLabelValues(ctx.Component, ctx.Operation).SetToCurrentTime()
}
