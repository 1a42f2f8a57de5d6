package publisher

import (
	"context"
	"time"

	"github.com/aalemi-dev/lims-events/observability"
)

// Logger is the subset of logger.Logger used by the publishing job.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

func (j *Job) observeOperation(operation, resource, subResource string, start time.Time, err error, size int64, metadata map[string]interface{}) {
	if j.observer == nil {
		return
	}
	j.observer.ObserveOperation(observability.OperationContext{
		Component:   "publisher",
		Operation:   operation,
		Resource:    resource,
		SubResource: subResource,
		Duration:    time.Since(start),
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

func logError(logger Logger, ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if logger != nil {
		logger.ErrorWithContext(ctx, msg, err, fields)
	}
}
