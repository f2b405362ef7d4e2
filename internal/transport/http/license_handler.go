package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apierrors "github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/errors"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/license"
	customMiddleware "github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/middleware"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts/domain"
)

// activationContentTypes are the media types accepted by POST /activate:
// the JSON envelope or the raw license text.
var activationContentTypes = []string{"application/json", "text/plain", "application/octet-stream"}

// MaxRequestBody caps activation bodies. The envelope wraps the license
// text in a JSON string, so escaping can roughly double its size.
const MaxRequestBody = 2 * license.MaxLicenseSize

// LicenseActivationRequest is an alias to the canonical contract type
type LicenseActivationRequest = domain.LicenseActivationRequest

// LicenseHandler handles license-related HTTP requests
type LicenseHandler struct {
	manager      license.ManagerInterface
	errorHandler *apierrors.ErrorHandler
	validator    *customMiddleware.RequestValidator
	logger       *slog.Logger
	tracer       trace.Tracer
}

// NewLicenseHandler creates a new license handler
func NewLicenseHandler(manager license.ManagerInterface, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *LicenseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return &LicenseHandler{
		manager:      manager,
		errorHandler: errorHandler,
		validator:    customMiddleware.NewRequestValidator(logger),
		logger:       logger.With(slog.String("handler", "license")),
		tracer:       otel.Tracer("license-handler"),
	}
}

// Routes returns a chi router for license endpoints
func (h *LicenseHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(customMiddleware.AuditLog(h.logger))
	r.Use(customMiddleware.MaxBodySize(MaxRequestBody, h.errorHandler))

	r.Get("/status", h.GetStatus)
	r.With(customMiddleware.ContentTypeValidator(h.errorHandler, activationContentTypes...)).
		Post("/activate", h.Activate)
	r.Delete("/", h.Remove)
	r.Get("/fingerprint", h.GetFingerprint)

	return r
}

// GetStatus handles GET /api/license/status
func (h *LicenseHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status := h.manager.GetStatus(r.Context())
	render.JSON(w, r, status)
}

// Activate handles POST /api/license/activate
func (h *LicenseHandler) Activate(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "license_handler.activate",
		trace.WithAttributes(attribute.String("http.route", "/api/license/activate")),
	)
	defer span.End()
	r = r.WithContext(ctx)

	req, err := h.decodeActivation(r)
	if err != nil {
		span.RecordError(err)
		h.errorHandler.HandleError(w, r, err)
		return
	}
	span.SetAttributes(attribute.Bool("license.dry_run", req.DryRun))

	start := time.Now()
	status := h.manager.ActivateFromText(ctx, req.Text, license.ActivateOptions{DryRun: req.DryRun})
	span.SetAttributes(attribute.String("license.status", string(status.Status)))

	h.logger.InfoContext(ctx, "license activation request handled",
		slog.String("status", string(status.Status)),
		slog.Bool("dry_run", req.DryRun),
		slog.Duration("duration", time.Since(start)),
	)

	render.JSON(w, r, status)
}

// Remove handles DELETE /api/license
func (h *LicenseHandler) Remove(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.manager.Remove(r.Context()))
}

// GetFingerprint handles GET /api/license/fingerprint
func (h *LicenseHandler) GetFingerprint(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, domain.DeviceFingerprintResponse{
		Fingerprint: h.manager.DeviceFingerprint(r.Context()),
	})
}

// decodeActivation reads either the activation envelope or a raw license
// body. A JSON object with a "text" member is the envelope; anything else
// is handed to the workflow verbatim, where an unparseable body evaluates
// to CORRUPT rather than failing the request.
func (h *LicenseHandler) decodeActivation(r *http.Request) (*LicenseActivationRequest, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, err
		}
		return nil, apierrors.InvalidRequestWithError(err)
	}

	queryDryRun := false
	if raw := r.URL.Query().Get("dryRun"); raw != "" {
		queryDryRun, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, apierrors.ErrValidation("dryRun", "dryRun must be a boolean")
		}
	}

	req := &LicenseActivationRequest{}
	switch {
	case len(bytes.TrimSpace(body)) == 0:
		// validation reports the missing text
	case isEnvelope(body):
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil {
			return nil, apierrors.InvalidRequestWithError(err)
		}
	default:
		req.Text = string(body)
	}
	req.DryRun = req.DryRun || queryDryRun

	if err := h.validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	return req, nil
}

// isEnvelope reports whether body is a JSON object with a "text" member.
func isEnvelope(body []byte) bool {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil {
		return false
	}
	_, ok := members["text"]
	return ok
}
