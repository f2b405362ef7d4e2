// Package errors renders HTTP failures as RFC 7807 problem documents.
//
// License outcomes are never errors: the workflow reports them as
// domain.LicenseStatus values with HTTP 200. This package covers the
// remaining failures of the HTTP adapter, such as malformed envelopes,
// oversized bodies, unknown routes, panics, and the license gate's 403.
package errors
