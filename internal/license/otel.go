package license

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts/domain"
)

const (
	TracerName = "license-manager"
	MeterName  = "license-manager"
)

// LicenseMetrics holds all license-specific OpenTelemetry metrics
type LicenseMetrics struct {
	Evaluations        metric.Int64Counter
	EvaluationDuration metric.Float64Histogram
	Activations        metric.Int64Counter
}

// InitializeLicenseMetrics creates all license-specific metrics
func InitializeLicenseMetrics(meter metric.Meter) (*LicenseMetrics, error) {
	metrics := &LicenseMetrics{}

	var err error

	metrics.Evaluations, err = meter.Int64Counter(
		"license_evaluations_total",
		metric.WithDescription("Total number of license evaluations by resulting status"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluations counter: %w", err)
	}

	metrics.EvaluationDuration, err = meter.Float64Histogram(
		"license_evaluation_duration_seconds",
		metric.WithDescription("License evaluation duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluation duration histogram: %w", err)
	}

	metrics.Activations, err = meter.Int64Counter(
		"license_activations_total",
		metric.WithDescription("Total number of license activation attempts by resulting status"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create activations counter: %w", err)
	}

	return metrics, nil
}

func (lm *LicenseMetrics) recordEvaluation(ctx context.Context, state domain.LicenseState, duration time.Duration) {
	if lm == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", string(state)))
	lm.Evaluations.Add(ctx, 1, attrs)
	if duration > 0 {
		lm.EvaluationDuration.Record(ctx, duration.Seconds(), attrs)
	}
}

func (lm *LicenseMetrics) recordActivation(ctx context.Context, state domain.LicenseState, dryRun bool) {
	if lm == nil {
		return
	}
	lm.Activations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", string(state)),
		attribute.String("dry_run", strconv.FormatBool(dryRun)),
	))
}
