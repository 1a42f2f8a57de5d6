package tracer

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	traceSpan "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type spanImpl struct {
	span traceSpan.Span
}

func (s *spanImpl) End() {
	s.span.End()
}

func (s *spanImpl) SetAttributes(attrs map[string]interface{}) {
	if len(attrs) == 0 {
		return
	}

	attributes := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		attributes = append(attributes, toAttribute(k, v))
	}
	s.span.SetAttributes(attributes...)
}

func toAttribute(k string, v interface{}) attribute.KeyValue {
	switch val := v.(type) {
	case string:
		return attribute.String(k, val)
	case int:
		return attribute.Int(k, val)
	case int32:
		return attribute.Int64(k, int64(val))
	case int64:
		return attribute.Int64(k, val)
	case float64:
		return attribute.Float64(k, val)
	case bool:
		return attribute.Bool(k, val)
	case []string:
		return attribute.StringSlice(k, val)
	case time.Duration:
		return attribute.Int64(k, val.Milliseconds())
	default:
		return attribute.String(k, fmt.Sprint(val))
	}
}

func (s *spanImpl) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// StartSpan implements Tracer.
func (t *TracerClient) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	if t == nil || t.tracer == nil {
		ctx, otSpan := noop.NewTracerProvider().Tracer(instrumentationName).Start(ctx, name)
		return ctx, &spanImpl{span: otSpan}
	}
	ctx, otSpan := t.tracer.Tracer(instrumentationName).Start(ctx, name)
	return ctx, &spanImpl{span: otSpan}
}
