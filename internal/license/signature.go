package license

import (
	"crypto/ed25519"
	"encoding/base64"
	"strings"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/canonical"
)

// EmbeddedPublicKey is the base64-encoded Ed25519 key every license must be
// signed with. It is a build-time constant on purpose: there is no runtime
// way to replace it.
const EmbeddedPublicKey = "9mn6hzNaq9dm8USuXtX3tfnSBen1K1F/i8YJ7wlr1co="

// Verifier checks detached license signatures.
type Verifier struct {
	publicKey string
}

// NewVerifier returns a verifier bound to a base64-encoded Ed25519 public
// key. Production code always passes EmbeddedPublicKey.
func NewVerifier(publicKeyBase64 string) *Verifier {
	return &Verifier{publicKey: publicKeyBase64}
}

// Verify reports whether signatureBase64 is a valid Ed25519 signature over
// the canonical encoding of the payload. Malformed input yields false.
func (v *Verifier) Verify(p *Payload, signatureBase64 string) bool {
	if p == nil {
		return false
	}
	return verifyDetached(v.publicKey, p.raw, signatureBase64)
}

func verifyDetached(publicKeyBase64 string, payload map[string]any, signatureBase64 string) bool {
	sig, err := base64.StdEncoding.DecodeString(strings.TrimSpace(signatureBase64))
	if err != nil {
		return false
	}
	pub, err := base64.StdEncoding.DecodeString(publicKeyBase64)
	if err != nil {
		return false
	}
	if len(sig) != ed25519.SignatureSize || len(pub) != ed25519.PublicKeySize {
		return false
	}

	message, err := canonical.Marshal(payload)
	if err != nil {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), []byte(message), sig)
}
