// Package domain contains the contract types shared by the license engine
// and every adapter that exposes it (HTTP, CLI).
// These types serve as the Single Source of Truth (SSOT) for all layers of the application.
package domain

// LicenseState is the closed set of outcomes a license evaluation can produce.
type LicenseState string

const (
	LicenseStateNoLicense        LicenseState = "NO_LICENSE"
	LicenseStateActive           LicenseState = "ACTIVE"
	LicenseStateTrialActive      LicenseState = "TRIAL_ACTIVE" // reserved, never produced by the engine
	LicenseStateExpired          LicenseState = "EXPIRED"
	LicenseStateInvalidSignature LicenseState = "INVALID_SIGNATURE"
	LicenseStateNotYetValid      LicenseState = "NOT_YET_VALID"
	LicenseStateDeviceMismatch   LicenseState = "DEVICE_MISMATCH"
	LicenseStateCorrupt          LicenseState = "CORRUPT"
)

// AllLicenseStates lists every state in a stable order.
var AllLicenseStates = []LicenseState{
	LicenseStateNoLicense,
	LicenseStateActive,
	LicenseStateTrialActive,
	LicenseStateExpired,
	LicenseStateInvalidSignature,
	LicenseStateNotYetValid,
	LicenseStateDeviceMismatch,
	LicenseStateCorrupt,
}

// IsValid reports whether s is one of the known states.
func (s LicenseState) IsValid() bool {
	for _, known := range AllLicenseStates {
		if s == known {
			return true
		}
	}
	return false
}

// LicenseDetails is the subset of a validated payload shown to operators.
type LicenseDetails struct {
	CustomerName string   `json:"customerName"`
	ExpiresAt    string   `json:"expiresAt"`
	LicenseID    string   `json:"licenseId"`
	Features     []string `json:"features"`
}

// LicenseStatus is the single value the rest of the application consumes.
// Details is nil for NO_LICENSE and CORRUPT.
type LicenseStatus struct {
	Status  LicenseState    `json:"status"`
	Message string          `json:"message"`
	Details *LicenseDetails `json:"details,omitempty"`
}

// IsActive reports whether business screens may be rendered.
func (s LicenseStatus) IsActive() bool {
	return s.Status == LicenseStateActive
}

// LicenseActivationRequest is the JSON envelope accepted by the HTTP adapter.
type LicenseActivationRequest struct {
	Text   string `json:"text" validate:"required"`
	DryRun bool   `json:"dryRun"`
}

// DeviceFingerprintResponse carries the current machine fingerprint for support requests.
type DeviceFingerprintResponse struct {
	Fingerprint string `json:"fingerprint"`
}
