// Package logger provides the structured JSON logger shared by the event
// pipeline, built on zap.
//
// # Architecture
//
// Logger is the interface the rest of the module depends on; LoggerClient is
// the concrete type returned by NewLoggerClient. Infrastructure packages do
// not import this package. Each declares its own narrow Logger interface with
// only the *WithContext methods it calls, and *LoggerClient satisfies all of
// them.
//
// Every method takes a message, an optional error and any number of field
// maps:
//
//	log.InfoWithContext(ctx, "Published volume tracking message to EMQ", nil, map[string]interface{}{
//	    "subject": "create-aliquot-in-mlwh",
//	    "sent":    3,
//	})
//	log.ErrorWithContext(ctx, "Failed to publish message to EMQ", err)
//
// A non-nil error is written as the "error" field. Later maps override keys
// from earlier ones.
//
// # Entries
//
// Entries are JSON lines on stderr:
//
//	{"level":"INFO","timestamp":"2026-01-05T10:12:03.411Z","caller":"/app/publisher/job.go:184",
//	 "msg":"Published volume tracking message to EMQ","pid":7,"service":"lims-events",
//	 "trace_id":"4bf92f3577b34da6a3ce929d0e0e4736","span_id":"00f067aa0ba902b7","sent":3}
//
// trace_id and span_id are added by the *WithContext methods when
// Config.EnableTracing is set and the context carries a recording span.
//
// # Testing
//
// NewFromZap wraps any *zap.Logger, which lets tests capture entries with
// zaptest/observer:
//
//	core, logs := observer.New(zap.DebugLevel)
//	log := logger.NewFromZap(zap.New(core), false)
//
// # FX Module Integration
//
// FXModule provides *LoggerClient and Logger and syncs the logger on stop.
// Config is optional; the service name defaults to DefaultServiceName.
package logger
