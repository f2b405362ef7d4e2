package license

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/canonical"
	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/shared/testutil"
)

func TestEmbeddedPublicKeyIsEd25519(t *testing.T) {
	key, err := base64.StdEncoding.DecodeString(EmbeddedPublicKey)
	require.NoError(t, err)
	assert.Len(t, key, ed25519.PublicKeySize)
	assert.Equal(t, EmbeddedPublicKey, NewVerifier(EmbeddedPublicKey).publicKey)
}

func TestVerifierVerify(t *testing.T) {
	signer := testutil.NewLicenseSigner(t)
	other := testutil.NewLicenseSigner(t)

	payload := validPayload(map[string]any{"tier": "gold"})
	p, ok := ParsePayload(payload)
	require.True(t, ok)
	good := signer.Signature(payload)

	tests := []struct {
		name      string
		publicKey string
		signature string
		want      bool
	}{
		{name: "valid signature", publicKey: signer.PublicKeyBase64(), signature: good, want: true},
		{name: "surrounding whitespace tolerated", publicKey: signer.PublicKeyBase64(), signature: "  " + good + "\n", want: true},
		{name: "signed by another key", publicKey: signer.PublicKeyBase64(), signature: other.Signature(payload)},
		{name: "verified against another key", publicKey: other.PublicKeyBase64(), signature: good},
		{name: "not base64", publicKey: signer.PublicKeyBase64(), signature: "%%%not-base64%%%"},
		{name: "truncated signature", publicKey: signer.PublicKeyBase64(), signature: base64.StdEncoding.EncodeToString(make([]byte, 32))},
		{name: "empty signature", publicKey: signer.PublicKeyBase64(), signature: ""},
		{name: "malformed public key", publicKey: "AAAA", signature: good},
		{name: "public key not base64", publicKey: "!!", signature: good},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVerifier(tt.publicKey)
			assert.Equal(t, tt.want, v.Verify(p, tt.signature))
		})
	}
}

func TestVerifierCoversEveryPayloadField(t *testing.T) {
	signer := testutil.NewLicenseSigner(t)
	v := NewVerifier(signer.PublicKeyBase64())

	payload := validPayload(map[string]any{"tier": "gold"})
	sig := signer.Signature(payload)

	for _, field := range []string{"customerName", "tier", "expiresAt"} {
		t.Run(field, func(t *testing.T) {
			tampered := validPayload(map[string]any{"tier": "gold"})
			tampered[field] = "2099-01-01T00:00:00Z"
			p, ok := ParsePayload(tampered)
			require.True(t, ok)
			assert.False(t, v.Verify(p, sig))
		})
	}
}

func TestVerifierRejectsFlippedSignatureBits(t *testing.T) {
	signer := testutil.NewLicenseSigner(t)
	v := NewVerifier(signer.PublicKeyBase64())

	payload := validPayload(nil)
	p, ok := ParsePayload(payload)
	require.True(t, ok)
	sig, err := base64.StdEncoding.DecodeString(signer.Signature(payload))
	require.NoError(t, err)
	require.True(t, v.Verify(p, base64.StdEncoding.EncodeToString(sig)))

	for i := range sig {
		for bit := 0; bit < 8; bit++ {
			flipped := append([]byte(nil), sig...)
			flipped[i] ^= 1 << bit
			assert.False(t, v.Verify(p, base64.StdEncoding.EncodeToString(flipped)), "byte %d bit %d", i, bit)
		}
	}
}

// Every single-bit change to the signed bytes that still decodes to a
// structurally valid payload must fail verification.
func TestVerifierRejectsFlippedPayloadBits(t *testing.T) {
	signer := testutil.NewLicenseSigner(t)
	v := NewVerifier(signer.PublicKeyBase64())

	payload := validPayload(nil)
	sig := signer.Signature(payload)
	message := []byte(canonical.MustMarshal(payload))

	checked := 0
	for i := range message {
		for bit := 0; bit < 8; bit++ {
			flipped := append([]byte(nil), message...)
			flipped[i] ^= 1 << bit

			var decoded any
			if json.Unmarshal(flipped, &decoded) != nil {
				continue
			}
			p, ok := ParsePayload(decoded)
			if !ok {
				continue
			}
			checked++
			assert.False(t, v.Verify(p, sig), "byte %d bit %d: %s", i, bit, flipped)
		}
	}
	assert.Positive(t, checked)
}

func TestVerifierIgnoresKeyOrder(t *testing.T) {
	signer := testutil.NewLicenseSigner(t)
	v := NewVerifier(signer.PublicKeyBase64())

	payload := validPayload(map[string]any{"notes": map[string]any{"seller": "hq", "branch": "north"}})
	sig := signer.Signature(payload)

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ascending := objectText(t, payload, keys)
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	descending := objectText(t, payload, keys)
	require.NotEqual(t, ascending, descending)

	var first, second any
	require.NoError(t, json.Unmarshal([]byte(ascending), &first))
	require.NoError(t, json.Unmarshal([]byte(descending), &second))
	assert.Equal(t, canonical.MustMarshal(first), canonical.MustMarshal(second))

	for _, decoded := range []any{first, second} {
		p, ok := ParsePayload(decoded)
		require.True(t, ok)
		assert.True(t, v.Verify(p, sig))
	}
}

// objectText writes obj as JSON with its members in the given key order.
func objectText(t *testing.T, obj map[string]any, keys []string) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		name, err := json.Marshal(k)
		require.NoError(t, err)
		value, err := json.Marshal(obj[k])
		require.NoError(t, err)
		sb.Write(name)
		sb.WriteByte(':')
		sb.Write(value)
	}
	sb.WriteByte('}')
	return sb.String()
}

func TestVerifierNilPayload(t *testing.T) {
	assert.False(t, NewVerifier(EmbeddedPublicKey).Verify(nil, "AAAA"))
}
