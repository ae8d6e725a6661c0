package buildenv

import (
	"strings"

	"prebuild/internal/logging"
)

// Names are the environment variable names the orchestrator consults.
type Names struct {
	TargetOS      string
	TargetArch    string
	Profile       string
	Features      string
	PackageRoot   string
	InstalledRoot string
}

// DefaultNames returns the variable names used when the config is silent.
func DefaultNames() Names {
	return Names{
		TargetOS:      "GOOS",
		TargetArch:    "GOARCH",
		Profile:       "PREBUILD_PROFILE",
		Features:      "PREBUILD_FEATURES",
		PackageRoot:   "VCPKG_ROOT",
		InstalledRoot: "VCPKG_INSTALLED_ROOT",
	}
}

// Optional is a variable value that may be absent.
type Optional struct {
	Value string
	Set   bool
}

// Get returns the value and whether it was present.
func (o Optional) Get() (string, bool) {
	return o.Value, o.Set
}

// Profile is the build profile.
type Profile string

const (
	ProfileDebug   Profile = "debug"
	ProfileRelease Profile = "release"
)

// ParseProfile maps a profile string to a Profile. Anything other than
// "release" (case-insensitive) is a debug build.
func ParseProfile(s string) Profile {
	if strings.EqualFold(strings.TrimSpace(s), string(ProfileRelease)) {
		return ProfileRelease
	}
	return ProfileDebug
}

// Settings is everything a run needs from the environment, read once.
// It is passed by value to every component.
type Settings struct {
	Names Names

	TargetOS      string
	TargetArch    Optional
	Profile       Optional
	Features      []string
	PackageRoot   Optional
	InstalledRoot Optional

	extra    map[string]Optional
	readVars []string
}

// Load reads the variables named in names plus any extra names from env.
// The target OS is required; every other variable is optional at this
// stage and its absence policy is decided by the component that uses it.
func Load(env Env, names Names, extra ...string) (Settings, error) {
	s := Settings{
		Names: names,
		extra: make(map[string]Optional, len(extra)),
	}

	lookup := func(name string) Optional {
		s.readVars = append(s.readVars, name)
		v, ok := env.Lookup(name)
		return Optional{Value: v, Set: ok}
	}

	targetOS := lookup(names.TargetOS)
	if !targetOS.Set {
		return Settings{}, &ConfigurationError{Variable: names.TargetOS}
	}
	s.TargetOS = targetOS.Value

	s.TargetArch = lookup(names.TargetArch)
	s.Profile = lookup(names.Profile)
	if f := lookup(names.Features); f.Set {
		s.Features = parseFeatures(f.Value)
	}
	s.PackageRoot = lookup(names.PackageRoot)
	s.InstalledRoot = lookup(names.InstalledRoot)

	for _, name := range extra {
		if _, seen := s.extra[name]; seen {
			continue
		}
		s.extra[name] = lookup(name)
	}

	logging.BuildDebug("Loaded settings: target_os=%s arch_set=%v profile_set=%v features=%v",
		s.TargetOS, s.TargetArch.Set, s.Profile.Set, s.Features)
	return s, nil
}

// Var returns an extra variable requested at Load time.
func (s Settings) Var(name string) Optional {
	return s.extra[name]
}

// BuildProfile returns the parsed profile. ok is false when the profile
// variable was absent.
func (s Settings) BuildProfile() (p Profile, ok bool) {
	if !s.Profile.Set {
		return ProfileDebug, false
	}
	return ParseProfile(s.Profile.Value), true
}

// HasFeature reports whether the named feature is enabled.
func (s Settings) HasFeature(name string) bool {
	for _, f := range s.Features {
		if f == strings.ToLower(name) {
			return true
		}
	}
	return false
}

// ReadVars lists every variable consulted by Load, in order.
func (s Settings) ReadVars() []string {
	out := make([]string, len(s.readVars))
	copy(out, s.readVars)
	return out
}

func parseFeatures(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	features := make([]string, 0, len(fields))
	for _, f := range fields {
		features = append(features, strings.ToLower(f))
	}
	return features
}
