// Package observability defines the hook through which infrastructure
// packages report completed operations.
//
// Packages such as schema_registry, rabbitmq, kafka, minio and publisher accept
// an optional Observer and call it once per operation with an
// OperationContext. They do not know what the observer does with it; package
// metrics turns it into Prometheus series, and tests use a recording
// observer to assert on what happened.
//
//	resolver.WithObserver(metrics.NewObserver(m))
//
// Multi fans one notification out to several observers, and NewNoOpObserver
// discards them all.
package observability
