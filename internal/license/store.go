package license

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Store persists the single license file.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a store for the license file at path.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		logger: logger.With(slog.String("component", "license_store")),
	}
}

// Path returns the license file location.
func (s *Store) Path() string {
	return s.path
}

// Read returns the raw file bytes, or ErrNotFound when no license is
// installed. At most MaxLicenseSize+1 bytes are read so that oversized
// files are still detected by the evaluator.
func (s *Store) Read(ctx context.Context) ([]byte, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open license file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxLicenseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read license file: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelDebug, "License file read",
		slog.String("path", s.path),
		slog.Int("size_bytes", len(data)),
	)
	return data, nil
}

// Write stores f as two-space indented JSON with a trailing newline. The
// parent directory is created when missing, and the file is replaced
// atomically so a crash never leaves a half-written license behind.
func (s *Store) Write(ctx context.Context, f *File) error {
	if f == nil || f.Payload == nil {
		return ErrNoFile
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to encode license file: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create license directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".license-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary license file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write license file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync license file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close license file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		cleanup()
		return fmt.Errorf("failed to set license file permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace license file: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "License file saved",
		slog.String("path", s.path),
		slog.String("license_id", f.Payload.LicenseID),
		slog.Int("size_bytes", buf.Len()),
	)
	return nil
}

// Remove deletes the license file. Removing a missing file succeeds.
func (s *Store) Remove(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove license file: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "License file removed", slog.String("path", s.path))
	return nil
}
