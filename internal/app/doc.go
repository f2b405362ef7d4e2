// Package app wires the license engine into a runnable HTTP service.
//
// New resolves paths from configuration, initializes the slog logger and
// OpenTelemetry providers, builds one license.Manager around the device
// fingerprint source and mounts the HTTP adapter on a chi router. The CLI
// reuses the same container, so both adapters drive the same workflow.
//
// Route layout:
//
//	/api/health         component health (license status, store, fingerprint)
//	/api/health/live    liveness, never gated
//	/api/health/ready   readiness, behind the license gate
//	/api/version        build information
//	/api/license/...    license operations
//	/metrics            Prometheus exposition when metrics are enabled
package app
