//go:build !linux && !darwin && !windows

package security

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

func machineID(ctx context.Context) (string, error) {
	switch runtime.GOOS {
	case "freebsd", "openbsd", "netbsd", "dragonfly":
		out, err := exec.CommandContext(ctx, "kenv", "-q", "smbios.system.uuid").Output()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(out)), nil
	default:
		return "", errors.New("machine id lookup not supported on " + runtime.GOOS)
	}
}

func cpuModel(_ context.Context) (string, error) {
	return "", errors.New("cpu model lookup not supported on " + runtime.GOOS)
}

func totalMemory() (uint64, error) {
	return 0, errors.New("memory lookup not supported on " + runtime.GOOS)
}
