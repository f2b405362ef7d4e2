//go:build linux

package security

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

var machineIDPaths = []string{
	"/var/lib/dbus/machine-id",
	"/etc/machine-id",
}

func machineID(_ context.Context) (string, error) {
	var lastErr error
	for _, path := range machineIDPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			lastErr = err
			continue
		}
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}
	if lastErr == nil {
		lastErr = errors.New("machine id is empty")
	}
	return "", lastErr
}

func cpuModel(_ context.Context) (string, error) {
	data, err := os.ReadFile("/proc/cpuinfo")
	if err != nil {
		return "", err
	}
	return parseCPUInfo(data)
}

// parseCPUInfo returns the first model name in /proc/cpuinfo content.
func parseCPUInfo(data []byte) (string, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "model name", "Model", "cpu model":
			if v := strings.TrimSpace(value); v != "" {
				return v, nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", errors.New("cpu model not found")
}

func totalMemory() (uint64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, err
	}
	return uint64(info.Totalram) * uint64(info.Unit), nil
}
