package kafka

import (
	"time"

	"github.com/aalemi-dev/lims-events/observability"
)

// observeOperation safely calls the observer if it's not nil.
// The topic is the resource and the subject the sub-resource.
func (s *Sender) observeOperation(operation, subject string, duration time.Duration, err error, size int64) {
	if s.observer != nil {
		s.observer.ObserveOperation(observability.OperationContext{
			Component:   "kafka",
			Operation:   operation,
			Resource:    s.cfg.Topic,
			SubResource: subject,
			Duration:    duration,
			Error:       err,
			Size:        size,
		})
	}
}
