package observability

import "time"

// Observer receives a notification each time an infrastructure operation of the
// event pipeline completes: a schema resolution, a broker publish, a batch run.
//
// Packages treat the observer as optional and skip the call when none is set.
type Observer interface {
	// ObserveOperation is called once per completed operation.
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes one completed operation.
type OperationContext struct {
	// Component is the package that performed the operation.
	// Values used in this module: "schema_registry", "rabbitmq", "kafka", "publisher".
	Component string

	// Operation names what was done, e.g. "resolve_schema", "publish", "publish_batch".
	Operation string

	// Resource is the primary resource: a schema subject, an exchange, a topic.
	Resource string

	// SubResource narrows Resource: a schema version, a routing key, a schema key.
	SubResource string

	// Duration is the wall time of the operation.
	Duration time.Duration

	// Error is the returned error, nil on success.
	Error error

	// Size is the payload size in bytes, or the number of objects for batches.
	Size int64

	// Metadata carries operation-specific extras such as {"cache": "disk"}.
	Metadata map[string]interface{}
}

// Status returns "success" or "error" depending on ctx.Error.
func (ctx OperationContext) Status() string {
	if ctx.Error != nil {
		return "error"
	}
	return "success"
}
