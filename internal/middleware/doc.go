// Package middleware provides the chi middleware stack of the license
// HTTP adapter: request IDs, structured logging, panic recovery, rate
// limiting, CORS, security headers, OpenTelemetry instrumentation, body
// limits, audit logging and the license gate.
package middleware
