// Package license implements offline license verification and activation.
// It decides, without any network access, whether a signed license file
// authorizes the current machine, and it manages that file on disk.
//
// # Architecture Overview
//
// The license system consists of several components:
//
//	- Payload validation: untrusted JSON into a well-typed Payload
//	- Verifier: Ed25519 detached signature over the canonical payload
//	- Evaluator: precedence-ordered decision producing a LicenseStatus
//	- Store: read, atomic write and removal of the single license file
//	- Manager: the activation workflow used by the HTTP and CLI adapters
//
// # Evaluation Order
//
// Each step short-circuits:
//
//	1. Size and shape gate (256 KiB, {payload, signature}, payload schema) -> CORRUPT
//	2. Signature check -> INVALID_SIGNATURE
//	3. Validity window -> NOT_YET_VALID / EXPIRED
//	4. Device binding, only when deviceBinding is true -> DEVICE_MISMATCH
//	5. Otherwise ACTIVE
//
// CORRUPT never carries details. Every other non-NO_LICENSE state carries the
// details of the schema-valid payload so operators can see what was evaluated.
//
// # Trust Model
//
// The Ed25519 public key is compiled in (EmbeddedPublicKey). There is no
// runtime configuration for it; rotating the key invalidates every license
// issued under the old one.
//
// # Seat Counting
//
// maxDevices is validated and carried but never enforced. Device binding
// compares exactly one fingerprint.
package license
