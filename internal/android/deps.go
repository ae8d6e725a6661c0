// Package android locates prebuilt native dependencies for Android builds.
//
// Dependencies are expected in a vcpkg-style tree:
//
//	<package-root>/installed/<abi>-android/lib
//
// where an installed-root override replaces "<package-root>/installed".
package android

import (
	"path/filepath"

	"prebuild/internal/buildenv"
	"prebuild/internal/logging"
)

// ABI maps a normalized architecture token to the ABI identifier used in
// dependency directory names. Every architecture not listed, notably
// 32-bit ARM, maps to "arm".
func ABI(arch string) string {
	switch arch {
	case "x86_64":
		return "x64"
	case "x86":
		return "x86"
	case "aarch64":
		return "arm64"
	default:
		return "arm"
	}
}

// Triple returns the dependency triple for arch, e.g. "arm64-android".
func Triple(arch string) string {
	return ABI(arch) + "-android"
}

// LibDir resolves the prebuilt library directory for arch.
// The package root is required; its absence is a ConfigurationError.
// When the installed-root override is present it replaces
// "<package-root>/installed" outright.
func LibDir(s buildenv.Settings, arch string) (string, error) {
	root, ok := s.PackageRoot.Get()
	if !ok {
		return "", &buildenv.ConfigurationError{Variable: s.Names.PackageRoot}
	}

	base := filepath.Join(root, "installed")
	if override, ok := s.InstalledRoot.Get(); ok {
		logging.AndroidDebug("Using %s override: %s", s.Names.InstalledRoot, override)
		base = override
	}

	dir := filepath.Join(base, Triple(arch), "lib")
	logging.Android("Resolved Android dependency path for %s: %s", arch, dir)
	return dir, nil
}
