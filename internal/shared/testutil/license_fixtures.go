package testutil

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/canonical"
)

// LicenseSigner issues license files signed with a throwaway Ed25519 key.
type LicenseSigner struct {
	t       testing.TB
	public  ed25519.PublicKey
	private ed25519.PrivateKey
}

// NewLicenseSigner generates a fresh key pair for the test.
func NewLicenseSigner(t testing.TB) *LicenseSigner {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return &LicenseSigner{t: t, public: pub, private: priv}
}

// PublicKeyBase64 returns the verifying key in the embedded-key format.
func (s *LicenseSigner) PublicKeyBase64() string {
	return base64.StdEncoding.EncodeToString(s.public)
}

// Signature signs the canonical form of payload.
func (s *LicenseSigner) Signature(payload map[string]any) string {
	s.t.Helper()
	msg, err := canonical.Marshal(payload)
	require.NoError(s.t, err)
	return base64.StdEncoding.EncodeToString(ed25519.Sign(s.private, []byte(msg)))
}

// Sign returns license file text for payload.
func (s *LicenseSigner) Sign(payload map[string]any) string {
	s.t.Helper()
	return LicenseText(payload, s.Signature(payload))
}

// LicenseText wraps a payload and signature into license file text.
func LicenseText(payload any, signature string) string {
	data, err := json.MarshalIndent(map[string]any{
		"payload":   payload,
		"signature": signature,
	}, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(data)
}

// ValidPayload returns a payload that is inside its validity window for
// the given instant. overrides replace or add fields; a nil override value
// deletes the field.
func ValidPayload(now time.Time, overrides map[string]any) map[string]any {
	payload := map[string]any{
		"licenseId":         "LIC-2025-0001",
		"customerName":      "Al Yousr Pharmacy",
		"issuedAt":          now.Add(-48 * time.Hour).UTC().Format(time.RFC3339),
		"validFrom":         now.Add(-24 * time.Hour).UTC().Format(time.RFC3339),
		"expiresAt":         now.Add(365 * 24 * time.Hour).UTC().Format(time.RFC3339),
		"deviceBinding":     false,
		"deviceFingerprint": "",
		"maxDevices":        float64(1),
		"features":          []any{"sales", "inventory"},
		"version":           float64(1),
	}
	for k, v := range overrides {
		if v == nil {
			delete(payload, k)
			continue
		}
		payload[k] = v
	}
	return payload
}

// WriteLicenseFile writes text to dir/name and returns the path.
func WriteLicenseFile(t testing.TB, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}
