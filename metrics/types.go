package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Counter is a cumulative metric that only increases.
type Counter interface {
	// WithLabelValues returns the Counter for the given label values.
	WithLabelValues(lvs ...string) Counter

	// Inc increments the counter by 1.
	Inc()

	// Add adds val, which must be >= 0.
	Add(val float64)
}

// Gauge is a metric that can go up and down.
type Gauge interface {
	// WithLabelValues returns the Gauge for the given label values.
	WithLabelValues(lvs ...string) Gauge

	Set(val float64)
	Inc()
	Dec()
	Add(val float64)
	Sub(val float64)

	// SetToCurrentTime sets the gauge to the current Unix time in seconds.
	SetToCurrentTime()
}

// Histogram tracks the distribution of observations such as durations.
type Histogram interface {
	// WithLabelValues returns the ValueObserver for the given label values.
	WithLabelValues(lvs ...string) ValueObserver

	// Observe adds a single observation.
	Observe(val float64)
}

// ValueObserver records a single observation.
type ValueObserver interface {
	Observe(val float64)
}

type counterVec struct {
	vec *prometheus.CounterVec
}

func (c *counterVec) WithLabelValues(lvs ...string) Counter {
	return &counter{c: c.vec.WithLabelValues(lvs...)}
}

// Inc and Add on an unlabelled vector address the series with no label values.
func (c *counterVec) Inc()            { c.vec.WithLabelValues().Inc() }
func (c *counterVec) Add(val float64) { c.vec.WithLabelValues().Add(val) }

type counter struct {
	c prometheus.Counter
}

// WithLabelValues on an already labelled counter returns itself.
func (c *counter) WithLabelValues(_ ...string) Counter { return c }
func (c *counter) Inc()                                { c.c.Inc() }
func (c *counter) Add(val float64)                     { c.c.Add(val) }

type gaugeVec struct {
	vec *prometheus.GaugeVec
}

func (g *gaugeVec) WithLabelValues(lvs ...string) Gauge {
	return &gauge{g: g.vec.WithLabelValues(lvs...)}
}

func (g *gaugeVec) Set(val float64)   { g.vec.WithLabelValues().Set(val) }
func (g *gaugeVec) Inc()              { g.vec.WithLabelValues().Inc() }
func (g *gaugeVec) Dec()              { g.vec.WithLabelValues().Dec() }
func (g *gaugeVec) Add(val float64)   { g.vec.WithLabelValues().Add(val) }
func (g *gaugeVec) Sub(val float64)   { g.vec.WithLabelValues().Sub(val) }
func (g *gaugeVec) SetToCurrentTime() { g.vec.WithLabelValues().SetToCurrentTime() }

type gauge struct {
	g prometheus.Gauge
}

func (g *gauge) WithLabelValues(_ ...string) Gauge { return g }
func (g *gauge) Set(val float64)                   { g.g.Set(val) }
func (g *gauge) Inc()                              { g.g.Inc() }
func (g *gauge) Dec()                              { g.g.Dec() }
func (g *gauge) Add(val float64)                   { g.g.Add(val) }
func (g *gauge) Sub(val float64)                   { g.g.Sub(val) }
func (g *gauge) SetToCurrentTime()                 { g.g.SetToCurrentTime() }

type histogramVec struct {
	vec *prometheus.HistogramVec
}

func (h *histogramVec) WithLabelValues(lvs ...string) ValueObserver {
	return h.vec.WithLabelValues(lvs...)
}

func (h *histogramVec) Observe(val float64) { h.vec.WithLabelValues().Observe(val) }
