package license

import (
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts/domain"
)

// Payload is the signed business content of a license. Values are only
// produced by ParsePayload, so a Payload always satisfies every structural
// rule. Callers must treat it as read-only.
type Payload struct {
	LicenseID         string   `json:"licenseId"`
	CustomerName      string   `json:"customerName"`
	IssuedAt          string   `json:"issuedAt" validate:"instant"`
	ValidFrom         string   `json:"validFrom" validate:"instant"`
	ExpiresAt         string   `json:"expiresAt" validate:"instant"`
	DeviceBinding     bool     `json:"deviceBinding"`
	DeviceFingerprint string   `json:"deviceFingerprint"`
	MaxDevices        int64    `json:"maxDevices" validate:"gte=1"`
	Features          []string `json:"features" validate:"min=1,dive,nonblank"`
	Version           int64    `json:"version"`

	// raw is the decoded object exactly as it was signed. Signature checks
	// and persistence always use it, never the typed fields.
	raw map[string]any
}

// Details returns the operator-facing subset of the payload.
func (p *Payload) Details() *domain.LicenseDetails {
	features := make([]string, len(p.Features))
	copy(features, p.Features)
	return &domain.LicenseDetails{
		CustomerName: p.CustomerName,
		ExpiresAt:    p.ExpiresAt,
		LicenseID:    p.LicenseID,
		Features:     features,
	}
}

var payloadValidate = newPayloadValidator()

func newPayloadValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("instant", func(fl validator.FieldLevel) bool {
		_, ok := parseInstant(fl.Field().String())
		return ok
	})
	v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// A bound license must name the device it is bound to.
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		p := sl.Current().Interface().(Payload)
		if p.DeviceBinding && strings.TrimSpace(p.DeviceFingerprint) == "" {
			sl.ReportError(p.DeviceFingerprint, "deviceFingerprint", "DeviceFingerprint", "bound_fingerprint", "")
		}
	}, Payload{})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// ParsePayload converts an untrusted decoded JSON value into a Payload.
// It never panics: any type or value violation rejects the whole object.
func ParsePayload(v any) (*Payload, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}

	p := &Payload{raw: obj}

	if p.LicenseID, ok = obj["licenseId"].(string); !ok {
		return nil, false
	}
	if p.CustomerName, ok = obj["customerName"].(string); !ok {
		return nil, false
	}
	if p.DeviceFingerprint, ok = obj["deviceFingerprint"].(string); !ok {
		return nil, false
	}
	if p.IssuedAt, ok = obj["issuedAt"].(string); !ok {
		return nil, false
	}
	if p.ValidFrom, ok = obj["validFrom"].(string); !ok {
		return nil, false
	}
	if p.ExpiresAt, ok = obj["expiresAt"].(string); !ok {
		return nil, false
	}
	if p.DeviceBinding, ok = obj["deviceBinding"].(bool); !ok {
		return nil, false
	}
	if p.MaxDevices, ok = integerField(obj["maxDevices"]); !ok {
		return nil, false
	}
	if p.Version, ok = integerField(obj["version"]); !ok {
		return nil, false
	}

	rawFeatures, ok := obj["features"].([]any)
	if !ok {
		return nil, false
	}
	p.Features = make([]string, 0, len(rawFeatures))
	for _, f := range rawFeatures {
		s, ok := f.(string)
		if !ok {
			return nil, false
		}
		p.Features = append(p.Features, s)
	}

	if err := payloadValidate.Struct(p); err != nil {
		return nil, false
	}
	return p, true
}

func integerField(v any) (int64, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// instantLayouts are the ISO-8601 forms accepted for timestamps. Forms
// without an offset are local time, except the date-only form which is UTC.
var instantLayouts = []struct {
	layout string
	loc    *time.Location
}{
	{time.RFC3339Nano, time.UTC},
	{"2006-01-02T15:04:05.999999999", time.Local},
	{"2006-01-02T15:04", time.Local},
	{"2006-01-02", time.UTC},
}

// parseInstant parses an ISO-8601 timestamp to an absolute instant.
func parseInstant(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range instantLayouts {
		if t, err := time.ParseInLocation(l.layout, s, l.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
