package minio

import (
	"context"
	"time"

	"github.com/aalemi-dev/lims-events/observability"
)

// observeOperation reports one bucket operation; the bucket is the resource
// and the object key the sub-resource.
func (s *SchemaStore) observeOperation(operation, key string, start time.Time, err error, size int64) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(observability.OperationContext{
		Component:   "minio",
		Operation:   operation,
		Resource:    s.cfg.Bucket,
		SubResource: key,
		Duration:    time.Since(start),
		Error:       err,
		Size:        size,
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
