//go:build darwin

package security

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"
)

func machineID(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "ioreg", "-rd1", "-c", "IOPlatformExpertDevice").Output()
	if err != nil {
		return "", err
	}
	return parseIORegUUID(string(out))
}

// parseIORegUUID extracts IOPlatformUUID from ioreg output.
func parseIORegUUID(out string) (string, error) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "IOPlatformUUID") {
			continue
		}
		_, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if id := strings.Trim(strings.TrimSpace(value), `"`); id != "" {
			return id, nil
		}
	}
	return "", errors.New("IOPlatformUUID not found")
}

func cpuModel(_ context.Context) (string, error) {
	return unix.Sysctl("machdep.cpu.brand_string")
}

func totalMemory() (uint64, error) {
	return unix.SysctlUint64("hw.memsize")
}
