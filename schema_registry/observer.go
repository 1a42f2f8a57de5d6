package schema_registry

import (
	"context"
	"time"

	"github.com/aalemi-dev/lims-events/observability"
)

// observeOperation notifies the observer, if any.
// resource is the subject and subResource the version.
func observeOperation(observer observability.Observer, operation, resource, subResource string, duration time.Duration, err error, size int64, metadata map[string]interface{}) {
	if observer == nil {
		return
	}

	observer.ObserveOperation(observability.OperationContext{
		Component:   "schema_registry",
		Operation:   operation,
		Resource:    resource,
		SubResource: subResource,
		Duration:    duration,
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}

func logInfo(logger Logger, ctx context.Context, msg string, fields map[string]interface{}) {
	if logger != nil {
		logger.InfoWithContext(ctx, msg, nil, fields)
	}
}

func logWarn(logger Logger, ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if logger != nil {
		logger.WarnWithContext(ctx, msg, err, fields)
	}
}
