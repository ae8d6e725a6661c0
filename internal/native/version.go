package native

import (
	"context"
	"errors"
	"strings"
	"time"

	"prebuild/internal/logging"
	"prebuild/internal/tactile"
)

const (
	// LegacyMacRelease is the host OS release whose SDK lacks the
	// input-monitoring authorization API.
	LegacyMacRelease = "10.14"
	// LegacyMacFlag disables the input-monitoring authorization check.
	LegacyMacFlag = "-DNO_InputMonitoringAuthStatus=1"
)

// ErrVersionUnavailable is returned when the host OS version cannot be read.
var ErrVersionUnavailable = errors.New("host OS version unavailable")

// VersionDetector reports the host operating system version string.
type VersionDetector interface {
	HostVersion(ctx context.Context) (string, error)
}

// VersionFunc adapts a function to VersionDetector.
type VersionFunc func(ctx context.Context) (string, error)

// HostVersion calls f.
func (f VersionFunc) HostVersion(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticVersion always reports v.
func StaticVersion(v string) VersionDetector {
	return VersionFunc(func(context.Context) (string, error) { return v, nil })
}

// NeedsLegacyMacFlag reports whether the host is a 10.14 release. A failed
// detection counts as "not legacy".
func NeedsLegacyMacFlag(ctx context.Context, d VersionDetector) bool {
	if d == nil {
		return false
	}
	v, err := d.HostVersion(ctx)
	if err != nil {
		logging.NativeDebug("Host version detection failed, assuming modern SDK: %v", err)
		return false
	}
	logging.NativeDebug("Host OS version: %s", v)
	return strings.Contains(v, LegacyMacRelease)
}

// HostVersionDetector reads the version of the machine running the build.
// On darwin it asks the kernel first and falls back to sw_vers.
type HostVersionDetector struct {
	Exec tactile.Executor
}

// HostVersion implements VersionDetector.
func (h *HostVersionDetector) HostVersion(ctx context.Context) (string, error) {
	if v, err := kernelProductVersion(); err == nil && v != "" {
		return v, nil
	}
	if h.Exec == nil || !hasSwVers {
		return "", ErrVersionUnavailable
	}
	result, err := tactile.Run(ctx, h.Exec, "detect host version", tactile.Command{
		Binary:    "sw_vers",
		Arguments: []string{"-productVersion"},
		Timeout:   10 * time.Second,
	})
	if err != nil {
		return "", err
	}
	v := strings.TrimSpace(result.Stdout)
	if v == "" {
		return "", ErrVersionUnavailable
	}
	return v, nil
}
