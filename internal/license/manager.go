package license

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/infrastructure"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts/domain"
)

// ActivateOptions controls ActivateFromText.
type ActivateOptions struct {
	// DryRun evaluates the text without persisting it.
	DryRun bool
}

// ManagerInterface defines the license workflow consumed by the HTTP and
// CLI adapters.
type ManagerInterface interface {
	GetStatus(ctx context.Context) domain.LicenseStatus
	ActivateFromText(ctx context.Context, text string, opts ActivateOptions) domain.LicenseStatus
	Remove(ctx context.Context) domain.LicenseStatus
	DeviceFingerprint(ctx context.Context) string
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLocale sets the language of status messages.
func WithLocale(locale Locale) Option {
	return func(m *Manager) {
		m.locale = locale
	}
}

// WithClock replaces the wall clock used for the validity window.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithMetrics sets the OpenTelemetry instruments. Without it the global
// meter provider is used.
func WithMetrics(metrics *LicenseMetrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// withPublicKey overrides the trusted key. Production code always uses
// EmbeddedPublicKey.
func withPublicKey(publicKeyBase64 string) Option {
	return func(m *Manager) {
		m.publicKey = publicKeyBase64
	}
}

// Manager implements the activation workflow on top of the Evaluator and
// the Store. It keeps no state between calls: every status comes from the
// file on disk.
type Manager struct {
	store        *Store
	evaluator    *Evaluator
	fingerprints FingerprintSource
	logger       *slog.Logger
	metrics      *LicenseMetrics
	tracer       trace.Tracer

	locale    Locale
	now       func() time.Time
	publicKey string
}

var _ ManagerInterface = (*Manager)(nil)

// NewManager creates a manager for the license file at licensePath.
func NewManager(licensePath string, fingerprints FingerprintSource, opts ...Option) *Manager {
	m := &Manager{
		fingerprints: fingerprints,
		logger:       slog.Default(),
		tracer:       otel.Tracer(TracerName),
		locale:       DefaultLocale,
		now:          time.Now,
		publicKey:    EmbeddedPublicKey,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.logger = m.logger.With(slog.String("component", "license_manager"))
	m.store = NewStore(licensePath, m.logger)
	m.evaluator = newEvaluator(m.publicKey, fingerprints, m.now, m.locale)

	if m.metrics == nil {
		metrics, err := InitializeLicenseMetrics(otel.Meter(MeterName))
		if err != nil {
			m.logger.Warn("License metrics disabled", slog.String("error", err.Error()))
		}
		m.metrics = metrics
	}

	return m
}

// LicensePath returns the location of the license file.
func (m *Manager) LicensePath() string {
	return m.store.Path()
}

// GetStatus evaluates the installed license file.
func (m *Manager) GetStatus(ctx context.Context) domain.LicenseStatus {
	ctx, span := m.tracer.Start(ctx, "license.get_status")
	defer span.End()

	raw, err := m.store.Read(ctx)
	if errors.Is(err, ErrNotFound) {
		status := newStatus(m.locale, domain.LicenseStateNoLicense, nil)
		m.logDebug(ctx, "get_status", "No license installed", slog.String("path", m.store.Path()))
		m.recordStatus(ctx, span, "get_status", status, 0)
		return status
	}
	if err != nil {
		status := newStatus(m.locale, domain.LicenseStateCorrupt, nil)
		m.logError(ctx, "get_status", "License file could not be read", slog.String("error", err.Error()))
		m.recordStatus(ctx, span, "get_status", status, 0)
		return status
	}

	status, _ := m.evaluate(ctx, span, "get_status", raw)
	return status
}

// ActivateFromText evaluates license text supplied by the operator. An
// ACTIVE result is persisted unless opts.DryRun is set, and the returned
// status is then re-derived from the stored file.
func (m *Manager) ActivateFromText(ctx context.Context, text string, opts ActivateOptions) domain.LicenseStatus {
	ctx, span := m.tracer.Start(ctx, "license.activate",
		trace.WithAttributes(attribute.Bool("license.dry_run", opts.DryRun)))
	defer span.End()

	status, file := m.evaluate(ctx, span, "activate", []byte(text))
	m.metrics.recordActivation(ctx, status.Status, opts.DryRun)

	if file == nil || opts.DryRun {
		m.logInfo(ctx, "activate", "License text evaluated",
			slog.String("status", string(status.Status)),
			slog.Bool("dry_run", opts.DryRun),
		)
		return status
	}

	if err := m.store.Write(ctx, file); err != nil {
		m.logError(ctx, "activate", "Failed to persist license file",
			slog.String("license_id", file.Payload.LicenseID),
			slog.String("error", err.Error()),
		)
		infrastructure.RecordError(ctx, err)
		return newStatus(m.locale, domain.LicenseStateCorrupt, nil)
	}

	m.logInfo(ctx, "activate", "License activated",
		slog.String("license_id", file.Payload.LicenseID),
		slog.String("path", m.store.Path()),
	)
	return m.GetStatus(ctx)
}

// Remove deletes the installed license.
func (m *Manager) Remove(ctx context.Context) domain.LicenseStatus {
	ctx, span := m.tracer.Start(ctx, "license.remove")
	defer span.End()

	if err := m.store.Remove(ctx); err != nil {
		m.logError(ctx, "remove", "Failed to remove license file", slog.String("error", err.Error()))
		infrastructure.RecordError(ctx, err)
		return newStatus(m.locale, domain.LicenseStateCorrupt, nil)
	}

	m.logInfo(ctx, "remove", "License removed", slog.String("path", m.store.Path()))
	return newStatus(m.locale, domain.LicenseStateNoLicense, nil)
}

// DeviceFingerprint returns the fingerprint of this machine, to be sent to
// the license issuer.
func (m *Manager) DeviceFingerprint(ctx context.Context) string {
	if m.fingerprints == nil {
		return ""
	}
	return m.fingerprints.Current(ctx)
}

func (m *Manager) evaluate(ctx context.Context, span trace.Span, operation string, raw []byte) (domain.LicenseStatus, *File) {
	start := time.Now()
	status, file := m.evaluator.Evaluate(ctx, raw)
	m.recordStatus(ctx, span, operation, status, time.Since(start))

	attrs := []slog.Attr{
		slog.String("status", string(status.Status)),
		slog.Int("size_bytes", len(raw)),
	}
	if status.Details != nil {
		attrs = append(attrs, slog.String("license_id", status.Details.LicenseID))
	}
	if status.IsActive() {
		m.logDebug(ctx, operation, "License evaluated", attrs...)
	} else {
		m.logWarn(ctx, operation, "License not active", attrs...)
	}
	return status, file
}
