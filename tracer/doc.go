// Package tracer wraps OpenTelemetry tracing for the event pipeline.
//
// # Architecture
//
// The package follows the "accept interfaces, return structs" idiom:
//   - Tracer: the interface publishing code depends on
//   - Span: the unit of traced work returned by StartSpan
//   - TracerClient: the concrete type returned by NewClient, owning an SDK
//     TracerProvider
//
// Publishing code therefore never imports OpenTelemetry. NewClient installs
// its provider globally together with the W3C trace-context and baggage
// propagators, so spans started here and spans started by instrumented
// libraries share one trace.
//
// Spans are exported over OTLP/HTTP when Config.EnableExport is set.
// Otherwise they are recorded in-process only, which still lets the logger
// stamp trace_id and span_id on every line written with a span's context.
//
// # Basic Usage
//
//	tr, err := tracer.NewClient(tracer.Config{ServiceName: "lims-events", EnableExport: true})
//	if err != nil {
//	    return err
//	}
//	defer tr.Shutdown(context.Background())
//
//	ctx, span := tr.StartSpan(ctx, "publisher.publish")
//	defer span.End()
//	span.SetAttributes(map[string]interface{}{"schema_key": "volume_tracking"})
//	if err != nil {
//	    span.RecordError(err)
//	}
//
// SetAttributes maps Go values onto attribute types. Durations are recorded
// in milliseconds, and types without a mapping fall back to fmt.Sprint. A nil
// *TracerClient returns a no-op span, so optional tracing needs no nil checks
// at call sites.
//
// The OTLP exporter reads the standard OTEL_EXPORTER_OTLP_* environment
// variables; Config.Endpoint overrides the endpoint when set.
//
// # FX Module Integration
//
//	app := fx.New(
//	    tracer.FXModule,
//	    fx.Provide(func() tracer.Config {
//	        return tracer.Config{ServiceName: "lims-events", AppEnv: "production", EnableExport: true}
//	    }),
//	)
//
// FXModule provides *TracerClient and Tracer and flushes pending spans on
// stop. Config is optional; without one spans are recorded locally under
// DefaultServiceName and never exported.
package tracer
