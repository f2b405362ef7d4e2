package license

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/shared/testutil"
)

const testFingerprint = "3f9a1c0e5b7d2a4c6e8f0a1b3c5d7e9f1a2b3c4d5e6f708192a3b4c5d6e7f809"

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type staticFingerprint string

func (s staticFingerprint) Current(context.Context) string { return string(s) }

type countingFingerprint struct {
	value string
	calls int
}

func (c *countingFingerprint) Current(context.Context) string {
	c.calls++
	return c.value
}

func fixedClock() time.Time { return testNow }

func newTestEvaluator(signer *testutil.LicenseSigner, fingerprints FingerprintSource) *Evaluator {
	return newEvaluator(signer.PublicKeyBase64(), fingerprints, fixedClock, LocaleEnglish)
}

func newTestManager(t *testing.T, signer *testutil.LicenseSigner, opts ...Option) (*Manager, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, handler := testutil.NewTestLogger(t)
	base := []Option{
		withPublicKey(signer.PublicKeyBase64()),
		WithClock(fixedClock),
		WithLogger(logger),
	}
	path := filepath.Join(t.TempDir(), "ElYousrERP", "license.json")
	return NewManager(path, staticFingerprint(testFingerprint), append(base, opts...)...), handler
}

func validPayload(overrides map[string]any) map[string]any {
	return testutil.ValidPayload(testNow, overrides)
}
