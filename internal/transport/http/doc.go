// Package http is the HTTP adapter of the license engine.
//
// Handlers are thin: they decode the request, call one operation of
// license.ManagerInterface and render the resulting domain.LicenseStatus.
// License outcomes, including failed activations, are HTTP 200 responses
// carrying the status. Only malformed requests become RFC 7807 problems.
//
// Routes mounted under /api/license:
//
//	GET    /status       current status
//	POST   /activate     activate (or dry-run) a license
//	DELETE /             remove the stored license
//	GET    /fingerprint  fingerprint of this device
//
// POST /activate accepts either the envelope {"text": "...", "dryRun": bool}
// or the raw license file as the request body, with ?dryRun=true selecting a
// dry run. The raw form serves drag-and-drop uploads. The body must be sent
// as application/json, text/plain or application/octet-stream.
package http
