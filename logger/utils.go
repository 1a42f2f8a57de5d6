package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// extractTracingFields returns trace_id and span_id for the recording span in
// ctx, or nil when tracing is disabled or there is no such span.
func (l *LoggerClient) extractTracingFields(ctx context.Context) []zap.Field {
	if !l.tracingEnabled || ctx == nil {
		return nil
	}

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return nil
	}

	spanContext := span.SpanContext()
	if !spanContext.IsValid() {
		return nil
	}

	return []zap.Field{
		zap.String("trace_id", spanContext.TraceID().String()),
		zap.String("span_id", spanContext.SpanID().String()),
	}
}

// convertToZapFields turns the error and field maps into zap fields.
func (l *LoggerClient) convertToZapFields(err error, fields ...map[string]interface{}) []zap.Field {
	var zapFields []zap.Field
	if err != nil {
		zapFields = append(zapFields, zap.Error(err))
	}

	for _, fieldMap := range fields {
		for key, value := range fieldMap {
			zapFields = append(zapFields, zap.Any(key, value))
		}
	}
	return zapFields
}

// write emits one entry at level, adding trace fields when ctx is non-nil.
func (l *LoggerClient) write(ctx context.Context, level zapcore.Level, msg string, err error, fields []map[string]interface{}) {
	zapFields := l.convertToZapFields(err, fields...)
	if ctx != nil {
		zapFields = append(zapFields, l.extractTracingFields(ctx)...)
	}

	switch level {
	case zapcore.DebugLevel:
		l.Zap.Debug(msg, zapFields...)
	case zapcore.WarnLevel:
		l.Zap.Warn(msg, zapFields...)
	case zapcore.ErrorLevel:
		l.Zap.Error(msg, zapFields...)
	case zapcore.FatalLevel:
		l.Zap.Fatal(msg, zapFields...)
	default:
		l.Zap.Info(msg, zapFields...)
	}
}

// Debug logs a debug-level message.
func (l *LoggerClient) Debug(msg string, err error, fields ...map[string]interface{}) {
	l.write(nil, zapcore.DebugLevel, msg, err, fields)
}

// Info logs general progress, e.g. a published batch.
//
// Example:
//
//	log.Info("Published volume tracking message to EMQ", nil, map[string]interface{}{
//	    "schema_key": "volume_tracking",
//	    "count":      3,
//	})
func (l *LoggerClient) Info(msg string, err error, fields ...map[string]interface{}) {
	l.write(nil, zapcore.InfoLevel, msg, err, fields)
}

// Warn logs a condition worth attention that did not fail the operation.
func (l *LoggerClient) Warn(msg string, err error, fields ...map[string]interface{}) {
	l.write(nil, zapcore.WarnLevel, msg, err, fields)
}

// Error logs a failed operation.
func (l *LoggerClient) Error(msg string, err error, fields ...map[string]interface{}) {
	l.write(nil, zapcore.ErrorLevel, msg, err, fields)
}

// Fatal logs and exits the process with status 1.
func (l *LoggerClient) Fatal(msg string, err error, fields ...map[string]interface{}) {
	l.write(nil, zapcore.FatalLevel, msg, err, fields)
}

// DebugWithContext is Debug with trace correlation.
func (l *LoggerClient) DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.write(ctx, zapcore.DebugLevel, msg, err, fields)
}

// InfoWithContext is Info with trace correlation.
func (l *LoggerClient) InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.write(ctx, zapcore.InfoLevel, msg, err, fields)
}

// WarnWithContext is Warn with trace correlation.
func (l *LoggerClient) WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.write(ctx, zapcore.WarnLevel, msg, err, fields)
}

// ErrorWithContext is Error with trace correlation.
func (l *LoggerClient) ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.write(ctx, zapcore.ErrorLevel, msg, err, fields)
}

// FatalWithContext is Fatal with trace correlation.
func (l *LoggerClient) FatalWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.write(ctx, zapcore.FatalLevel, msg, err, fields)
}
