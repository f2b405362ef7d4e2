package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the application paths. The license file and logs live in
// an application-private per-user directory.
type Paths struct {
	AppDir      string
	LicenseFile string
	LogsDir     string
}

// GetPaths returns the default paths for appName under the user's
// configuration directory.
func GetPaths(appName string) (*Paths, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user config directory: %w", err)
	}

	appDir := filepath.Join(base, appName)
	return &Paths{
		AppDir:      appDir,
		LicenseFile: filepath.Join(appDir, DefaultLicenseFileName),
		LogsDir:     filepath.Join(appDir, "logs"),
	}, nil
}

// ResolvePaths applies the license settings to the default paths. An
// explicit license directory replaces the per-user one.
func (c *Config) ResolvePaths() (*Paths, error) {
	var paths *Paths
	if c.License.Dir != "" {
		dir, err := filepath.Abs(c.License.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve license directory: %w", err)
		}
		paths = &Paths{AppDir: dir, LogsDir: filepath.Join(dir, "logs")}
	} else {
		var err error
		if paths, err = GetPaths(c.License.AppName); err != nil {
			return nil, err
		}
	}

	paths.LicenseFile = filepath.Join(paths.AppDir, c.License.FileName)
	return paths, nil
}

// LogFilePath resolves the configured log file against the logs directory.
func (p *Paths) LogFilePath(configured string) string {
	if configured == "" {
		return filepath.Join(p.LogsDir, DefaultLogFileName)
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(p.AppDir, configured)
}

// LogPathResolution logs the resolved paths for debugging.
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Resolved application paths",
		slog.String("app_dir", p.AppDir),
		slog.String("license_file", p.LicenseFile),
		slog.String("logs_dir", p.LogsDir),
	)
}
