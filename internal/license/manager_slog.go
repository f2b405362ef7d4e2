package license

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/infrastructure"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts/domain"
)

// recordStatus annotates the span and records evaluation metrics.
func (m *Manager) recordStatus(ctx context.Context, span trace.Span, operation string, status domain.LicenseStatus, duration time.Duration) {
	m.metrics.recordEvaluation(ctx, status.Status, duration)

	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.String("license.operation", operation),
		attribute.String("license.status", string(status.Status)),
		attribute.Float64("license.duration_ms", float64(duration.Microseconds())/1000),
	)
	if status.Status == domain.LicenseStateCorrupt {
		span.SetStatus(codes.Error, string(status.Status))
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

// logAction logs a specific action with structured data and span correlation
func (m *Manager) logAction(ctx context.Context, level slog.Level, action, result string, attrs ...slog.Attr) {
	if !m.logger.Enabled(ctx, level) {
		return
	}

	if trace.SpanFromContext(ctx).IsRecording() {
		infrastructure.AddSpanEvent(ctx, "license."+action, map[string]interface{}{
			"action": action,
			"result": result,
		})
	}

	allAttrs := []slog.Attr{
		slog.String("action", action),
		slog.String("result", result),
	}
	if traceID := infrastructure.GetTraceID(ctx); traceID != "" {
		allAttrs = append(allAttrs, slog.String("trace_id", traceID))
	}
	allAttrs = append(allAttrs, attrs...)

	m.logger.LogAttrs(ctx, level, result, allAttrs...)
}

func (m *Manager) logDebug(ctx context.Context, action, result string, attrs ...slog.Attr) {
	m.logAction(ctx, slog.LevelDebug, action, result, attrs...)
}

func (m *Manager) logInfo(ctx context.Context, action, result string, attrs ...slog.Attr) {
	m.logAction(ctx, slog.LevelInfo, action, result, attrs...)
}

func (m *Manager) logWarn(ctx context.Context, action, result string, attrs ...slog.Attr) {
	m.logAction(ctx, slog.LevelWarn, action, result, attrs...)
}

func (m *Manager) logError(ctx context.Context, action, result string, attrs ...slog.Attr) {
	m.logAction(ctx, slog.LevelError, action, result, attrs...)
}
