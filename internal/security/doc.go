// Package security derives the device fingerprint used for license device
// binding. Facts come from OS-specific sources (machine-id files, ioreg,
// the Windows registry, kenv); each lookup degrades to a fixed placeholder
// instead of failing.
package security
