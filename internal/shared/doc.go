// Package shared holds code that is reused across the license engine's
// packages but belongs to none of them. Today that is only test support,
// in the testutil subpackage.
//
// # testutil
//
// Log capture:
//
//   - NewTestLogger returns a *slog.Logger backed by a BufferedSlogHandler
//     that keeps every record in memory.
//   - AssertLogContains, AssertLogAttr and AssertNoErrors check what a
//     component logged.
//
// License fixtures:
//
//   - LicenseSigner holds a throwaway Ed25519 key pair. It signs the
//     canonical encoding of a payload exactly as an issuer would, and
//     PublicKeyBase64 gives the matching verifying key.
//   - ValidPayload builds a payload that is inside its validity window for
//     a given instant. Overrides replace fields and nil deletes them.
//   - LicenseText and WriteLicenseFile produce license file text and put
//     it on disk.
//
// Typical use in a test:
//
//	signer := testutil.NewLicenseSigner(t)
//	text := signer.Sign(testutil.ValidPayload(now, map[string]any{"maxDevices": 2.0}))
//	logger, logs := testutil.NewTestLogger(t)
//	// ... exercise the code under test with signer.PublicKeyBase64() and logger
//	testutil.AssertNoErrors(t, logs)
package shared
