package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/config"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/license"
	customMiddleware "github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/middleware"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts"
)

// HealthChecker is satisfied by license.LicenseHealthCheck.
type HealthChecker interface {
	HTTPHandler() http.HandlerFunc
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	checker   HealthChecker
	logger    *slog.Logger
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker HealthChecker, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		checker:   checker,
		logger:    logger.With(slog.String("handler", "health")),
		startedAt: time.Now(),
	}
}

// LivenessResponse is the body of GET /api/health/live
type LivenessResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// ReadinessResponse is the body of GET /api/health/ready
type ReadinessResponse struct {
	Status        string `json:"status"`
	LicenseStatus string `json:"license_status"`
}

// VersionResponse is the body of GET /api/version
type VersionResponse struct {
	Name string `json:"name"`
	contracts.VersionInfo
}

// HealthCheck handles GET /api/health with per-component detail
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.checker.HTTPHandler().ServeHTTP(w, r)
}

// LivenessCheck handles GET /api/health/live
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, LivenessResponse{
		Status: "alive",
		Uptime: time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// ReadinessCheck handles GET /api/health/ready. It is mounted behind the
// license gate, so reaching it means the license is ACTIVE.
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	resp := ReadinessResponse{Status: "ready"}
	if status, ok := customMiddleware.LicenseStatusFromContext(r.Context()); ok {
		resp.LicenseStatus = string(status.Status)
	}
	render.JSON(w, r, resp)
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, VersionResponse{Name: config.AppName, VersionInfo: contracts.GetVersionInfo()})
}

var _ HealthChecker = (*license.LicenseHealthCheck)(nil)
