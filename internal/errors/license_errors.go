package errors

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts/domain"
)

// ContentTypeProblem is the RFC 7807 media type.
const ContentTypeProblem = "application/problem+json"

// ProblemDetails implements RFC 7807 Problem Details for HTTP APIs
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// Additional fields for extensibility
	Extensions map[string]interface{} `json:"-"`
}

// Render implements the render.Renderer interface
func (pd *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, pd.Status)
	return nil
}

// MarshalJSON flattens extensions next to the standard members.
func (pd *ProblemDetails) MarshalJSON() ([]byte, error) {
	data := make(map[string]interface{}, 5+len(pd.Extensions))

	// Extensions go first so they can never shadow a standard member.
	for k, v := range pd.Extensions {
		data[k] = v
	}

	data["type"] = pd.Type
	data["title"] = pd.Title
	data["status"] = pd.Status
	if pd.Detail != "" {
		data["detail"] = pd.Detail
	}
	if pd.Instance != "" {
		data["instance"] = pd.Instance
	}

	return json.Marshal(data)
}

// NewProblemDetails creates a new RFC 7807 compliant error
func NewProblemDetails(status int, problemType, title, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:       problemType,
		Title:      title,
		Status:     status,
		Detail:     detail,
		Instance:   instance,
		Extensions: make(map[string]interface{}),
	}
}

// WithExtension adds an extension field to the problem details
func (pd *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	if pd.Extensions == nil {
		pd.Extensions = make(map[string]interface{})
	}
	pd.Extensions[key] = value
	return pd
}

// RenderProblem writes pd as application/problem+json.
func RenderProblem(w http.ResponseWriter, r *http.Request, pd *ProblemDetails) {
	body, err := json.Marshal(pd)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", ContentTypeProblem)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(pd.Status)
	_, _ = w.Write(body)
}

// licenseProblemTypes maps each non-active state to its problem type.
var licenseProblemTypes = map[domain.LicenseState]string{
	domain.LicenseStateNoLicense:        TypeLicenseNotFound,
	domain.LicenseStateCorrupt:          TypeLicenseCorrupt,
	domain.LicenseStateInvalidSignature: TypeLicenseInvalid,
	domain.LicenseStateNotYetValid:      TypeLicenseNotYetValid,
	domain.LicenseStateExpired:          TypeLicenseExpired,
	domain.LicenseStateDeviceMismatch:   TypeLicenseMismatch,
}

// NewLicenseRequiredProblem is the 403 returned by gated routes while the
// license is not ACTIVE. The current status travels as the "license"
// extension so clients can render the localized message.
func NewLicenseRequiredProblem(status domain.LicenseStatus, instance, traceID string) *ProblemDetails {
	problemType, ok := licenseProblemTypes[status.Status]
	if !ok {
		problemType = TypeForbidden
	}

	pd := NewProblemDetails(
		http.StatusForbidden,
		problemType,
		"License Required",
		status.Message,
		instance,
	).WithExtension("license", status)

	if traceID != "" {
		pd.WithExtension("trace_id", traceID)
	}
	return pd
}
