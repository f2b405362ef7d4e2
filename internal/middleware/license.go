package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	apierrors "github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/errors"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/infrastructure"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts/domain"
)

type licenseStatusKey struct{}

// LicenseStatusFromContext returns the status the gate admitted the request
// with, if the request passed through a LicenseGate.
func LicenseStatusFromContext(ctx context.Context) (domain.LicenseStatus, bool) {
	status, ok := ctx.Value(licenseStatusKey{}).(domain.LicenseStatus)
	return status, ok
}

// GateMetrics counts gate decisions by license status.
type GateMetrics struct {
	Decisions metric.Int64Counter
}

// NewGateMetrics creates the gate counter on meter.
func NewGateMetrics(meter metric.Meter) (*GateMetrics, error) {
	decisions, err := meter.Int64Counter(
		"license_gate_decisions_total",
		metric.WithDescription("Requests admitted or rejected by the license gate"),
	)
	if err != nil {
		return nil, err
	}
	return &GateMetrics{Decisions: decisions}, nil
}

// LicenseGate serves wrapped routes only while the license is ACTIVE.
// Every request re-evaluates the license; there is no cached verdict, so a
// removed or expired license takes effect on the next request.
type LicenseGate struct {
	provider LicenseStatusProvider
	logger   *slog.Logger
	metrics  *GateMetrics
	tracer   trace.Tracer
}

// NewLicenseGate creates the gate. metrics may be nil.
func NewLicenseGate(provider LicenseStatusProvider, logger *slog.Logger, metrics *GateMetrics) *LicenseGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &LicenseGate{
		provider: provider,
		logger:   logger.With(slog.String("component", "license_gate")),
		metrics:  metrics,
		tracer:   otel.Tracer("license-gate"),
	}
}

// Handler returns the middleware handler function
func (g *LicenseGate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := g.tracer.Start(r.Context(), "license_gate.check",
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.url", r.URL.Path),
			),
		)

		start := time.Now()
		status := g.provider.GetStatus(ctx)
		admitted := status.IsActive()
		span.SetAttributes(attribute.String("license.status", string(status.Status)))
		if !admitted {
			span.SetStatus(codes.Error, string(status.Status))
		}
		span.End()

		if g.metrics != nil {
			g.metrics.Decisions.Add(r.Context(), 1, metric.WithAttributes(
				attribute.String("status", string(status.Status)),
				attribute.Bool("admitted", admitted),
			))
		}

		if !admitted {
			g.logger.WarnContext(r.Context(), "request blocked by license gate",
				slog.String("path", r.URL.Path),
				slog.String("status", string(status.Status)),
				slog.Duration("duration", time.Since(start)),
			)
			apierrors.RenderProblem(w, r, apierrors.NewLicenseRequiredProblem(
				status, r.URL.Path, infrastructure.GetTraceID(r.Context()),
			))
			return
		}

		g.logger.DebugContext(r.Context(), "license gate passed",
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)),
		)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), licenseStatusKey{}, status)))
	})
}
