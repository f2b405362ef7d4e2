package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/internal/canonical"
)

// Placeholders substituted when a fact cannot be looked up. They keep the
// fingerprint stable on machines where the lookup keeps failing.
const (
	UnknownMachine = "unknown-machine"
	UnknownCPU     = "unknown-cpu"
	UnknownHost    = "unknown-host"
)

// DeviceFacts are the host identifiers a device fingerprint is derived from.
type DeviceFacts struct {
	MachineID string `json:"machineId"`
	Platform  string `json:"platform"`
	CPUModel  string `json:"cpuModel"`
	TotalMem  uint64 `json:"totalmem"`
	Hostname  string `json:"hostname"`
}

// Fingerprint returns the lowercase hex SHA-256 of the canonical encoding
// of the facts.
func (f DeviceFacts) Fingerprint() string {
	encoded := canonical.MustMarshal(map[string]any{
		"machineId": f.MachineID,
		"platform":  f.Platform,
		"cpuModel":  f.CPUModel,
		"totalmem":  f.TotalMem,
		"hostname":  f.Hostname,
	})
	sum := sha256.Sum256([]byte(encoded))
	return hex.EncodeToString(sum[:])
}

// FingerprintManager derives the device fingerprint of the running host.
// Facts are looked up on every call; concurrent callers share one lookup.
type FingerprintManager struct {
	lookup func(ctx context.Context, logger *slog.Logger) DeviceFacts
	group  singleflight.Group
	logger *slog.Logger
}

// NewFingerprintManager creates a fingerprint manager backed by the OS.
func NewFingerprintManager(logger *slog.Logger) *FingerprintManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &FingerprintManager{
		lookup: ReadDeviceFacts,
		logger: logger.With(slog.String("component", "fingerprint")),
	}
}

// Facts returns the current device facts. The lookup is shared by
// concurrent callers, so it runs to completion even if the caller that
// started it goes away.
func (fm *FingerprintManager) Facts(ctx context.Context) DeviceFacts {
	v, _, _ := fm.group.Do("facts", func() (interface{}, error) {
		ctx := context.WithoutCancel(ctx)
		start := time.Now()
		facts := fm.lookup(ctx, fm.logger)
		fm.logger.LogAttrs(ctx, slog.LevelDebug, "Device facts collected",
			slog.String("platform", facts.Platform),
			slog.Bool("machine_id_known", facts.MachineID != UnknownMachine),
			slog.Bool("cpu_known", facts.CPUModel != UnknownCPU),
			slog.Duration("duration", time.Since(start)),
		)
		return facts, nil
	})
	return v.(DeviceFacts)
}

// Current returns the device fingerprint.
func (fm *FingerprintManager) Current(ctx context.Context) string {
	return fm.Facts(ctx).Fingerprint()
}

// ReadDeviceFacts looks up every fact, substituting placeholders for the
// ones that cannot be determined.
func ReadDeviceFacts(ctx context.Context, logger *slog.Logger) DeviceFacts {
	if logger == nil {
		logger = slog.Default()
	}

	facts := DeviceFacts{
		MachineID: UnknownMachine,
		Platform:  platformName(runtime.GOOS),
		CPUModel:  UnknownCPU,
		Hostname:  UnknownHost,
	}

	if id, err := machineID(ctx); err == nil && strings.TrimSpace(id) != "" {
		facts.MachineID = strings.TrimSpace(id)
	} else if err != nil {
		logger.LogAttrs(ctx, slog.LevelDebug, "Machine ID lookup failed, using placeholder",
			slog.String("error", err.Error()))
	}

	if model, err := cpuModel(ctx); err == nil && strings.TrimSpace(model) != "" {
		facts.CPUModel = strings.TrimSpace(model)
	}

	if mem, err := totalMemory(); err == nil {
		facts.TotalMem = mem
	}

	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		facts.Hostname = hostname
	}

	return facts
}

// platformName maps GOOS to the platform names license issuers record.
func platformName(goos string) string {
	switch goos {
	case "windows":
		return "win32"
	case "solaris", "illumos":
		return "sunos"
	default:
		return goos
	}
}
