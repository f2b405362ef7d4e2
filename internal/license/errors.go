package license

import "errors"

// Store errors
var (
	// ErrNotFound reports that no license file is installed. It is an
	// expected outcome, not a failure.
	ErrNotFound = errors.New("license file not found")

	// ErrNoFile is returned when a write is attempted without an evaluated file.
	ErrNoFile = errors.New("no license file to persist")
)
