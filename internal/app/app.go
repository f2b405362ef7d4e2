package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/config"
	apierrors "github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/errors"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/infrastructure"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/license"
	customMiddleware "github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/middleware"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/security"
	handlers "github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/transport/http"
)

// Application represents the main application container
type Application struct {
	Config         *config.Config
	Paths          *config.Paths
	Logger         *slog.Logger
	OTelProviders  *infrastructure.OTelProviders
	Fingerprints   *security.FingerprintManager
	LicenseManager *license.Manager
	HealthCheck    *license.LicenseHealthCheck
	Router         *chi.Mux
	Server         *http.Server
}

// NewApplication loads configuration and builds the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return New(cfg, nil)
}

// New wires the application from cfg. A nil logger initializes the global
// infrastructure logger from cfg.Logging.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if logger == nil {
		logCfg := cfg.Logging
		logCfg.FilePath = paths.LogFilePath(logCfg.FilePath)
		logger, err = infrastructure.InitializeLogger(logCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
	}

	if err := app.initializeServices(); err != nil {
		_ = otelProviders.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.setupRouter(); err != nil {
		_ = otelProviders.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}
	app.createServer()

	return app, nil
}

// meter returns the Prometheus-backed meter when metrics are enabled and the
// global (no-op unless configured) meter otherwise.
func (a *Application) meter() metric.Meter {
	if a.OTelProviders != nil && a.OTelProviders.Meter != nil {
		return a.OTelProviders.Meter
	}
	return otel.Meter(infrastructure.MeterName)
}

// initializeServices creates the fingerprint source and the license workflow
func (a *Application) initializeServices() error {
	a.Fingerprints = security.NewFingerprintManager(a.Logger)

	metrics, err := license.InitializeLicenseMetrics(a.meter())
	if err != nil {
		return fmt.Errorf("failed to create license metrics: %w", err)
	}

	a.LicenseManager = license.NewManager(a.Paths.LicenseFile, a.Fingerprints,
		license.WithLogger(a.Logger),
		license.WithLocale(license.ParseLocale(a.Config.License.Locale)),
		license.WithMetrics(metrics),
	)
	a.HealthCheck = license.NewLicenseHealthCheck(a.LicenseManager, 0)
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.meter(), a.Logger)
	if err != nil {
		return err
	}
	gateMetrics, err := customMiddleware.NewGateMetrics(a.meter())
	if err != nil {
		return err
	}

	// RequestID → RealIP → OTel → Logger → Recoverer → headers → CORS → rate limit
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(otelMiddleware.Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)
	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}
	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	healthHandler := handlers.NewHealthHandler(a.HealthCheck, a.Logger)
	licenseHandler := handlers.NewLicenseHandler(a.LicenseManager, errorHandler, a.Logger)
	gate := customMiddleware.NewLicenseGate(a.LicenseManager, a.Logger, gateMetrics)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)
		r.Mount("/license", licenseHandler.Routes())

		// Business routes: served only while the license is ACTIVE.
		r.Group(func(r chi.Router) {
			r.Use(gate.Handler)
			r.Get("/health/ready", healthHandler.ReadinessCheck)
		})
	})

	if a.OTelProviders != nil && a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
	return nil
}

// getCORSConfig returns the CORS settings for the configured origins
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		Logger:         a.Logger,
	}
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Server.Addr(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Serve listens on the configured address until ctx is cancelled or the
// server fails, then shuts down gracefully.
func (a *Application) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.serve(ctx, ln)
}

func (a *Application) serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Server.Serve(ln)
	}()

	status := a.LicenseManager.GetStatus(ctx)
	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", "http://"+ln.Addr().String()),
		slog.String("license_file", a.Paths.LicenseFile),
		slog.String("license_status", string(status.Status)))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		_ = a.Close(context.Background())
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}

// Stop gracefully stops the HTTP server and releases telemetry and log
// resources.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	if err := a.Close(shutdownCtx); err != nil {
		return err
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Close releases telemetry providers and the log file. Commands that never
// start the server call it directly.
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, fmt.Errorf("close log file: %w", err))
	}
	return errors.Join(errs...)
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Serve(ctx)
}
