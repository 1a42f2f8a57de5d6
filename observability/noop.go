package observability

// NoOpObserver discards every operation.
type NoOpObserver struct{}

// ObserveOperation does nothing.
func (n *NoOpObserver) ObserveOperation(ctx OperationContext) {}

// NewNoOpObserver returns an Observer that discards every operation.
func NewNoOpObserver() Observer {
	return &NoOpObserver{}
}

// Multi fans a single operation out to several observers, skipping nil entries.
type Multi []Observer

// ObserveOperation forwards ctx to every non-nil observer in order.
func (m Multi) ObserveOperation(ctx OperationContext) {
	for _, o := range m {
		if o != nil {
			o.ObserveOperation(ctx)
		}
	}
}
