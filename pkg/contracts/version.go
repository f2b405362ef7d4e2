package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the license engine
	Version = "1.0.0"

	// LicenseFormatVersion identifies the license envelope layout
	// ({"payload": ..., "signature": ...}) this build accepts.
	LicenseFormatVersion = "v1"

	// APIVersion is the version of the HTTP surface under /api
	APIVersion = "v1"
)

var (
	// BuildTime is set during build using ldflags
	BuildTime = "unknown"

	// GitCommit is set during build using ldflags
	GitCommit = "unknown"
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	Version       string `json:"version"`
	BuildTime     string `json:"build_time"`
	GitCommit     string `json:"git_commit"`
	GoVersion     string `json:"go_version"`
	OS            string `json:"os"`
	Architecture  string `json:"architecture"`
	LicenseFormat string `json:"license_format"`
	APIVersion    string `json:"api_version"`
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:       Version,
		BuildTime:     BuildTime,
		GitCommit:     GitCommit,
		GoVersion:     runtime.Version(),
		OS:            runtime.GOOS,
		Architecture:  runtime.GOARCH,
		LicenseFormat: LicenseFormatVersion,
		APIVersion:    APIVersion,
	}
}

// GetFullVersionString returns a one-line version string for CLI output
func GetFullVersionString(name string) string {
	info := GetVersionInfo()
	return fmt.Sprintf(
		"%s v%s (built: %s, commit: %s, go: %s, os: %s/%s)",
		name,
		info.Version,
		info.BuildTime,
		info.GitCommit,
		info.GoVersion,
		info.OS,
		info.Architecture,
	)
}
