package license

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts/domain"
)

// MaxLicenseSize is the largest license file, in bytes, that is parsed.
const MaxLicenseSize = 256 * 1024

// FingerprintSource yields the fingerprint of the current device.
type FingerprintSource interface {
	Current(ctx context.Context) string
}

// File is a license file whose signature has been checked. Only the
// evaluator constructs one, and only for an ACTIVE result.
type File struct {
	Payload   *Payload
	Signature string
}

// MarshalJSON writes the signed payload object as it was received so that
// unknown fields survive a round trip and the signature stays valid.
func (f File) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	doc := struct {
		Payload   map[string]any `json:"payload"`
		Signature string         `json:"signature"`
	}{
		Signature: f.Signature,
	}
	if f.Payload != nil {
		doc.Payload = f.Payload.raw
	}
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Evaluator turns license text into a status. It holds no mutable state
// and is safe for concurrent use.
type Evaluator struct {
	verifier     *Verifier
	fingerprints FingerprintSource
	now          func() time.Time
	locale       Locale
}

func newEvaluator(publicKey string, fingerprints FingerprintSource, now func() time.Time, locale Locale) *Evaluator {
	return &Evaluator{
		verifier:     NewVerifier(publicKey),
		fingerprints: fingerprints,
		now:          now,
		locale:       locale,
	}
}

// Evaluate decides the status of raw license text. The returned File is
// non-nil only when the status is ACTIVE.
func (e *Evaluator) Evaluate(ctx context.Context, raw []byte) (domain.LicenseStatus, *File) {
	corrupt := newStatus(e.locale, domain.LicenseStateCorrupt, nil)

	if len(raw) > MaxLicenseSize {
		return corrupt, nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return corrupt, nil
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return corrupt, nil
	}
	signature, ok := obj["signature"].(string)
	if !ok || strings.TrimSpace(signature) == "" {
		return corrupt, nil
	}
	payload, ok := ParsePayload(obj["payload"])
	if !ok {
		return corrupt, nil
	}

	details := payload.Details()

	if !e.verifier.Verify(payload, signature) {
		return newStatus(e.locale, domain.LicenseStateInvalidSignature, details), nil
	}

	validFrom, okFrom := parseInstant(payload.ValidFrom)
	expiresAt, okExp := parseInstant(payload.ExpiresAt)
	if !okFrom || !okExp {
		return corrupt, nil
	}

	now := e.now()
	if now.Before(validFrom) {
		return newStatus(e.locale, domain.LicenseStateNotYetValid, details), nil
	}
	if now.After(expiresAt) {
		return newStatus(e.locale, domain.LicenseStateExpired, details), nil
	}

	if payload.DeviceBinding {
		if e.fingerprints == nil || e.fingerprints.Current(ctx) != payload.DeviceFingerprint {
			return newStatus(e.locale, domain.LicenseStateDeviceMismatch, details), nil
		}
	}

	return newStatus(e.locale, domain.LicenseStateActive, details), &File{
		Payload:   payload,
		Signature: signature,
	}
}
