package metrics

const (
	// DefaultSystemMetricsAddress serves Go runtime and process metrics.
	DefaultSystemMetricsAddress = ":9090"

	// DefaultApplicationMetricsAddress serves the pipeline's own metrics.
	DefaultApplicationMetricsAddress = ":9091"

	// DefaultNamespace prefixes every metric the Observer registers.
	DefaultNamespace = "lims_events"
)

// DefaultDurationBuckets covers fast cache hits up to slow broker round trips.
var DefaultDurationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Config defines the metrics endpoints and naming.
//
// A nil address selects the default; an empty string disables that endpoint.
type Config struct {
	SystemMetricsAddress *string `yaml:"system_metrics_address" envconfig:"METRICS_SYSTEM_ADDRESS"`

	ApplicationMetricsAddress *string `yaml:"application_metrics_address" envconfig:"METRICS_APPLICATION_ADDRESS"`

	// ServiceName is attached as a constant "service" label.
	ServiceName string `yaml:"service_name" envconfig:"METRICS_SERVICE_NAME"`

	// Namespace prefixes metric names registered by the Observer.
	// Defaults to DefaultNamespace.
	Namespace string `yaml:"namespace" envconfig:"METRICS_NAMESPACE"`
}

// Ptr returns a pointer to s, for filling the optional address fields.
func Ptr(s string) *string {
	return &s
}

func (c Config) namespace() string {
	if c.Namespace == "" {
		return DefaultNamespace
	}
	return c.Namespace
}
