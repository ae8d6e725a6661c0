package platform

import (
	"context"

	"prebuild/internal/android"
	"prebuild/internal/buildenv"
	"prebuild/internal/directive"
	"prebuild/internal/logging"
	"prebuild/internal/native"
)

// Default shim sources.
var (
	DefaultWindowsSources = []string{
		"src/platform/windows.cc",
		"src/platform/windows_delete_test_cert.cc",
	}
	DefaultMacOSSources = []string{"src/platform/macos.mm"}
)

// Handler supplies the native libraries and link requirements of one
// platform.
type Handler interface {
	Platform() Platform
	// Libraries lists the shim libraries to compile.
	Libraries(ctx context.Context) ([]native.Library, error)
	// Links lists the link directives for the target.
	Links(s buildenv.Settings, t Target) ([]directive.Directive, error)
}

// HandlerConfig carries per-platform inputs.
type HandlerConfig struct {
	WindowsSources []string
	MacOSSources   []string
	// Versions reports the host OS version for the macOS legacy SDK check.
	Versions native.VersionDetector
}

// HandlerFor selects the handler for t.
func HandlerFor(t Target, cfg HandlerConfig) Handler {
	switch t.Platform {
	case Windows:
		srcs := cfg.WindowsSources
		if len(srcs) == 0 {
			srcs = DefaultWindowsSources
		}
		return &windowsHandler{sources: srcs}
	case MacOS:
		srcs := cfg.MacOSSources
		if len(srcs) == 0 {
			srcs = DefaultMacOSSources
		}
		return &macHandler{sources: srcs, versions: cfg.Versions}
	case Android:
		return &androidHandler{}
	default:
		return &otherHandler{}
	}
}

type windowsHandler struct {
	sources []string
}

func (h *windowsHandler) Platform() Platform { return Windows }

func (h *windowsHandler) Libraries(ctx context.Context) ([]native.Library, error) {
	return []native.Library{native.NewLibrary("windows", h.sources)}, nil
}

func (h *windowsHandler) Links(buildenv.Settings, Target) ([]directive.Directive, error) {
	logging.LinkDebug("Windows: linking WtsApi32")
	return []directive.Directive{directive.LinkLib("WtsApi32")}, nil
}

type macHandler struct {
	sources  []string
	versions native.VersionDetector
}

func (h *macHandler) Platform() Platform { return MacOS }

func (h *macHandler) Libraries(ctx context.Context) ([]native.Library, error) {
	var flags []string
	if native.NeedsLegacyMacFlag(ctx, h.versions) {
		logging.Native("Legacy macOS %s host detected, adding %s", native.LegacyMacRelease, native.LegacyMacFlag)
		flags = append(flags, native.LegacyMacFlag)
	}
	flags = append(flags, "-std=c++17")
	return []native.Library{native.NewLibrary("macos", h.sources, flags...)}, nil
}

func (h *macHandler) Links(buildenv.Settings, Target) ([]directive.Directive, error) {
	logging.LinkDebug("macOS: linking ApplicationServices framework")
	return []directive.Directive{directive.Framework("ApplicationServices")}, nil
}

type androidHandler struct{}

// AndroidLibs are the system and prebuilt libraries every Android build links.
var AndroidLibs = []string{"ndk_compat", "oboe", "c++", "OpenSLES"}

func (h *androidHandler) Platform() Platform { return Android }

func (h *androidHandler) Libraries(context.Context) ([]native.Library, error) {
	return nil, nil
}

func (h *androidHandler) Links(s buildenv.Settings, t Target) ([]directive.Directive, error) {
	if t.Arch == "" {
		return nil, &buildenv.ConfigurationError{Variable: s.Names.TargetArch}
	}

	dir, err := android.LibDir(s, t.Arch)
	if err != nil {
		return nil, err
	}

	ds := make([]directive.Directive, 0, len(AndroidLibs)+1)
	for _, lib := range AndroidLibs {
		ds = append(ds, directive.LinkLib(lib))
	}
	ds = append(ds, directive.LinkSearch(dir))
	logging.LinkDebug("Android: linking %v from %s", AndroidLibs, dir)
	return ds, nil
}

type otherHandler struct{}

func (h *otherHandler) Platform() Platform { return Other }

func (h *otherHandler) Libraries(context.Context) ([]native.Library, error) {
	return nil, nil
}

func (h *otherHandler) Links(buildenv.Settings, Target) ([]directive.Directive, error) {
	return nil, nil
}
