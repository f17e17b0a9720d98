// Package telemetry provides logging and OTEL instrumentation for wsreport.
package telemetry

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTELHook adds trace and span IDs to every log entry.
type OTELHook struct{}

func (h OTELHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return
	}

	e.Str("trace_id", span.SpanContext().TraceID().String())
	e.Str("span_id", span.SpanContext().SpanID().String())

	if level == zerolog.ErrorLevel {
		span.SetStatus(codes.Error, msg)
	}
}

// Logger wraps zerolog with OTEL integration.
type Logger struct {
	zerolog.Logger
}

// NewLogger creates a new logger with the OTEL hook attached.
func NewLogger(component string) *Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	logger := zerolog.New(os.Stderr).
		With().
		Timestamp().
		Str("component", component).
		Logger().
		Hook(OTELHook{})

	return &Logger{Logger: logger}
}

// WithContext returns a logger with context attached for trace propagation.
func (l *Logger) WithContext(ctx context.Context) *zerolog.Logger {
	logger := l.Logger.With().Ctx(ctx).Logger()
	return &logger
}

// LogProgress emits the per-workspace progress signal: who was just
// processed and how many workspaces remain. Observability only.
func (l *Logger) LogProgress(ctx context.Context, workspaceID, userName string, remaining int) {
	l.WithContext(ctx).Info().
		Str("workspace_id", workspaceID).
		Str("user_name", userName).
		Int("remaining", remaining).
		Msg("workspace enriched")
}

// LogLookupFailure records a failed sub-lookup with the item it concerned.
func (l *Logger) LogLookupFailure(ctx context.Context, workspaceID, lookup string, err error) {
	l.WithContext(ctx).Error().
		Err(err).
		Str("workspace_id", workspaceID).
		Str("lookup", lookup).
		Msg("enrichment lookup failed")
}

// LogRunComplete summarises a finished report run.
func (l *Logger) LogRunComplete(ctx context.Context, total, failed, unused int, durationMS float64) {
	l.WithContext(ctx).Info().
		Int("workspaces", total).
		Int("failed_rows", failed).
		Int("unused", unused).
		Float64("duration_ms", durationMS).
		Msg("report run complete")
}
