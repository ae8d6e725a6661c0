package buildenv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresTargetOS(t *testing.T) {
	_, err := Load(FromMap(map[string]string{"GOARCH": "amd64"}), DefaultNames())

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "GOOS", cfgErr.Variable)
	assert.Contains(t, err.Error(), "GOOS")
}

func TestLoad_OptionalValues(t *testing.T) {
	env := FromMap(map[string]string{
		"GOOS":              "android",
		"GOARCH":            "arm64",
		"VCPKG_ROOT":        "/r",
		"PREBUILD_FEATURES": "Inline, extra",
		"RS_PUB_KEY":        "",
	})

	s, err := Load(env, DefaultNames(), "RS_PUB_KEY", "API_SERVER", "RS_PUB_KEY")
	require.NoError(t, err)

	assert.Equal(t, "android", s.TargetOS)
	assert.Equal(t, Optional{Value: "arm64", Set: true}, s.TargetArch)
	assert.Equal(t, Optional{Value: "/r", Set: true}, s.PackageRoot)
	assert.False(t, s.InstalledRoot.Set)
	assert.False(t, s.Profile.Set)
	assert.Equal(t, []string{"inline", "extra"}, s.Features)
	assert.True(t, s.HasFeature("INLINE"))
	assert.False(t, s.HasFeature("other"))

	key := s.Var("RS_PUB_KEY")
	assert.True(t, key.Set, "empty value counts as present")
	assert.False(t, s.Var("API_SERVER").Set)
	assert.False(t, s.Var("NEVER_REQUESTED").Set)
}

func TestLoad_ReadVars(t *testing.T) {
	env := FromMap(map[string]string{"GOOS": "windows"})
	s, err := Load(env, DefaultNames(), "RENDEZVOUS_SERVER", "RENDEZVOUS_SERVER")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"GOOS", "GOARCH", "PREBUILD_PROFILE", "PREBUILD_FEATURES",
		"VCPKG_ROOT", "VCPKG_INSTALLED_ROOT", "RENDEZVOUS_SERVER",
	}, s.ReadVars())

	// the returned slice is a copy
	vars := s.ReadVars()
	vars[0] = "changed"
	assert.Equal(t, "GOOS", s.ReadVars()[0])
}

func TestBuildProfile(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    Profile
		wantSet bool
	}{
		{"absent", map[string]string{}, ProfileDebug, false},
		{"release", map[string]string{"PREBUILD_PROFILE": "release"}, ProfileRelease, true},
		{"release mixed case", map[string]string{"PREBUILD_PROFILE": " Release "}, ProfileRelease, true},
		{"debug", map[string]string{"PREBUILD_PROFILE": "debug"}, ProfileDebug, true},
		{"unknown", map[string]string{"PREBUILD_PROFILE": "bench"}, ProfileDebug, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := map[string]string{"GOOS": "windows"}
			for k, v := range tt.env {
				vars[k] = v
			}
			s, err := Load(FromMap(vars), DefaultNames())
			require.NoError(t, err)

			got, ok := s.BuildProfile()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSet, ok)
		})
	}
}

func TestLoad_CustomNames(t *testing.T) {
	names := DefaultNames()
	names.TargetOS = "CARGO_CFG_TARGET_OS"
	names.TargetArch = "CARGO_CFG_TARGET_ARCH"

	s, err := Load(FromMap(map[string]string{
		"CARGO_CFG_TARGET_OS":   "macos",
		"CARGO_CFG_TARGET_ARCH": "aarch64",
	}), names)
	require.NoError(t, err)
	assert.Equal(t, "macos", s.TargetOS)
	assert.Equal(t, "aarch64", s.TargetArch.Value)
}
