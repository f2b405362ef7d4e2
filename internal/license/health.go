package license

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/infrastructure"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts/domain"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents health of a specific component
type ComponentHealth struct {
	Status    HealthStatus           `json:"status"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Duration  string                 `json:"duration,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// HealthCheckResult contains the health of every license component
type HealthCheckResult struct {
	OverallStatus HealthStatus                `json:"status"`
	Timestamp     time.Time                   `json:"timestamp"`
	Duration      string                      `json:"duration"`
	TraceID       string                      `json:"trace_id,omitempty"`
	Components    map[string]*ComponentHealth `json:"components"`
}

// LicenseHealthCheck reports on the license file, its directory and the
// device fingerprint.
type LicenseHealthCheck struct {
	manager *Manager
	timeout time.Duration
}

// NewLicenseHealthCheck creates a new health check system
func NewLicenseHealthCheck(manager *Manager, timeout time.Duration) *LicenseHealthCheck {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &LicenseHealthCheck{manager: manager, timeout: timeout}
}

// PerformHealthCheck runs all component checks concurrently.
func (hc *LicenseHealthCheck) PerformHealthCheck(ctx context.Context) *HealthCheckResult {
	ctx, span := otel.Tracer(TracerName).Start(ctx, "license.health_check")
	defer span.End()

	start := time.Now()
	result := &HealthCheckResult{
		Timestamp:  start,
		TraceID:    infrastructure.GetTraceID(ctx),
		Components: make(map[string]*ComponentHealth),
	}

	checks := map[string]func(context.Context) *ComponentHealth{
		"license_status": hc.checkLicenseStatus,
		"license_store":  hc.checkLicenseStore,
		"fingerprint":    hc.checkFingerprint,
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for name, check := range checks {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(gctx, hc.timeout)
			defer cancel()

			health := timed(check)(checkCtx)
			mu.Lock()
			result.Components[name] = health
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	result.OverallStatus = overallStatus(result.Components)
	result.Duration = time.Since(start).String()

	span.SetAttributes(
		attribute.String("health.overall_status", string(result.OverallStatus)),
		attribute.Int("health.total_components", len(result.Components)),
	)
	if result.OverallStatus == HealthStatusUnhealthy {
		span.AddEvent("license.unhealthy", trace.WithAttributes(
			attribute.String("license.path", hc.manager.LicensePath()),
		))
	}
	return result
}

func timed(check func(context.Context) *ComponentHealth) func(context.Context) *ComponentHealth {
	return func(ctx context.Context) *ComponentHealth {
		start := time.Now()
		health := check(ctx)
		health.Timestamp = start
		health.Duration = time.Since(start).String()
		return health
	}
}

func (hc *LicenseHealthCheck) checkLicenseStatus(ctx context.Context) *ComponentHealth {
	status := hc.manager.GetStatus(ctx)
	health := &ComponentHealth{
		Message:  status.Message,
		Metadata: map[string]interface{}{"license_status": status.Status},
	}
	switch status.Status {
	case domain.LicenseStateActive:
		health.Status = HealthStatusHealthy
	case domain.LicenseStateCorrupt:
		health.Status = HealthStatusUnhealthy
	default:
		health.Status = HealthStatusDegraded
	}
	return health
}

func (hc *LicenseHealthCheck) checkLicenseStore(ctx context.Context) *ComponentHealth {
	dir := filepath.Dir(hc.manager.LicensePath())
	health := &ComponentHealth{Metadata: map[string]interface{}{"directory": dir}}

	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		health.Status = HealthStatusDegraded
		health.Message = "License directory does not exist yet; it is created on activation"
	case err != nil:
		health.Status = HealthStatusUnhealthy
		health.Message = "License directory is not accessible"
		health.Metadata["error"] = err.Error()
	case !info.IsDir():
		health.Status = HealthStatusUnhealthy
		health.Message = "License directory path is not a directory"
	default:
		health.Status = HealthStatusHealthy
		health.Message = "License directory is accessible"
	}
	return health
}

func (hc *LicenseHealthCheck) checkFingerprint(ctx context.Context) *ComponentHealth {
	fp := hc.manager.DeviceFingerprint(ctx)
	if len(fp) != 64 {
		return &ComponentHealth{
			Status:  HealthStatusUnhealthy,
			Message: "Device fingerprint could not be generated",
		}
	}
	return &ComponentHealth{
		Status:   HealthStatusHealthy,
		Message:  "Device fingerprint available",
		Metadata: map[string]interface{}{"fingerprint_prefix": fp[:8]},
	}
}

func overallStatus(components map[string]*ComponentHealth) HealthStatus {
	overall := HealthStatusHealthy
	for _, c := range components {
		switch c.Status {
		case HealthStatusUnhealthy:
			return HealthStatusUnhealthy
		case HealthStatusDegraded:
			overall = HealthStatusDegraded
		}
	}
	return overall
}

// HTTPHandler creates an HTTP handler for health checks
func (hc *LicenseHealthCheck) HTTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := hc.PerformHealthCheck(r.Context())

		statusCode := http.StatusOK
		if result.OverallStatus == HealthStatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)

		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		_ = encoder.Encode(result)
	}
}
