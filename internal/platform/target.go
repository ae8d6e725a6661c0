// Package platform resolves the build target and supplies the per-platform
// native sources and link requirements.
package platform

import (
	"strings"

	"prebuild/internal/buildenv"
	"prebuild/internal/logging"
)

// Platform is the target platform family of a run.
type Platform string

const (
	Windows Platform = "windows"
	MacOS   Platform = "macos"
	Android Platform = "android"
	Other   Platform = "other"
)

// Target is the resolved platform plus the raw and normalized tokens it
// came from.
type Target struct {
	Platform Platform `json:"platform"`
	OS       string   `json:"os"`
	// Arch is the normalized architecture, empty when the arch variable
	// was absent.
	Arch string `json:"arch,omitempty"`
}

// Resolve derives exactly one Target from s.
func Resolve(s buildenv.Settings) (Target, error) {
	osToken := strings.TrimSpace(s.TargetOS)
	if osToken == "" {
		return Target{}, &buildenv.ConfigurationError{
			Variable: s.Names.TargetOS,
			Reason:   "target OS is empty",
		}
	}

	t := Target{
		Platform: ParseOS(osToken),
		OS:       osToken,
	}
	if arch, ok := s.TargetArch.Get(); ok {
		t.Arch = NormalizeArch(arch)
	}

	logging.Build("Resolved target: platform=%s os=%s arch=%s", t.Platform, t.OS, t.Arch)
	return t, nil
}

// ParseOS maps an OS token to a Platform.
func ParseOS(token string) Platform {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "windows":
		return Windows
	case "darwin", "macos", "osx":
		return MacOS
	case "android":
		return Android
	default:
		return Other
	}
}

// NormalizeArch maps the GOARCH and Rust spellings of an architecture to
// one token. Unknown tokens are lower-cased and passed through.
func NormalizeArch(token string) string {
	a := strings.ToLower(strings.TrimSpace(token))
	switch a {
	case "amd64", "x86_64", "x64":
		return "x86_64"
	case "386", "i386", "i686", "x86":
		return "x86"
	case "arm64", "aarch64":
		return "aarch64"
	default:
		return a
	}
}

// GoArch maps a normalized architecture back to its GOARCH spelling.
func GoArch(arch string) string {
	switch arch {
	case "x86_64":
		return "amd64"
	case "x86":
		return "386"
	case "aarch64":
		return "arm64"
	default:
		return arch
	}
}
