package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

const instrumentationName = "github.com/aalemi-dev/lims-events"

// TracerClient implements Tracer on an SDK TracerProvider.
type TracerClient struct {
	tracer *trace.TracerProvider
}

// NewClient creates the provider, installs it as the global provider and
// sets the W3C trace-context propagator.
//
// Parameters:
//   - cfg: service name and environment recorded on the resource, and the
//     OTLP export settings
//
// Returns:
//   - *TracerClient: a client implementing Tracer; call Shutdown to flush
//   - error: when the OTLP exporter cannot be created
//
// With EnableExport unset no exporter is built and spans stay in-process. An
// empty ServiceName becomes DefaultServiceName.
//
// Example:
//
//	tr, err := tracer.NewClient(tracer.Config{
//	    ServiceName:  "lims-events",
//	    AppEnv:       "production",
//	    EnableExport: true,
//	    Endpoint:     "otel-collector:4318",
//	})
//	if err != nil {
//	    return err
//	}
//	defer tr.Shutdown(context.Background())
func NewClient(cfg Config) (*TracerClient, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}

	var options []trace.TracerProviderOption

	if cfg.EnableExport {
		var clientOpts []otlptracehttp.Option
		if cfg.Endpoint != "" {
			clientOpts = append(clientOpts, otlptracehttp.WithEndpoint(cfg.Endpoint))
		}
		if cfg.Insecure {
			clientOpts = append(clientOpts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient(clientOpts...))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OTLP exporter: %w", err)
		}
		options = append(options, trace.WithBatcher(exporter))
	}

	options = append(options, trace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))

	tp := trace.NewTracerProvider(options...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return &TracerClient{tracer: tp}, nil
}

// NewClientWithProvider wraps an existing provider without touching global
// state. Tests use it with an in-memory span recorder.
func NewClientWithProvider(tp *trace.TracerProvider) *TracerClient {
	return &TracerClient{tracer: tp}
}

// Shutdown flushes and stops the provider.
func (t *TracerClient) Shutdown(ctx context.Context) error {
	if t == nil || t.tracer == nil {
		return nil
	}
	return t.tracer.Shutdown(ctx)
}
