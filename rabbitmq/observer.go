package rabbitmq

import (
	"context"
	"time"

	"github.com/aalemi-dev/lims-events/observability"
)

// observeOperation notifies the observer, if any. resource is the exchange.
func observeOperation(observer observability.Observer, operation, resource, subResource string, duration time.Duration, err error, size int64, metadata map[string]interface{}) {
	if observer == nil {
		return
	}

	observer.ObserveOperation(observability.OperationContext{
		Component:   "rabbitmq",
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

// logWarn is used for failures that the caller reports itself.
func logWarn(logger Logger, ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if logger != nil {
		logger.WarnWithContext(ctx, msg, err, fields)
	}
}

func logError(logger Logger, ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if logger != nil {
		logger.ErrorWithContext(ctx, msg, err, fields)
	}
}
