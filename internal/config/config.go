// Package config loads prebuild.yaml, the project-level configuration for
// the pre-compilation orchestrator.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file consulted when --config is not given.
const DefaultPath = "prebuild.yaml"

// Config holds all prebuild configuration.
type Config struct {
	Env       EnvConfig       `yaml:"env"`
	Native    NativeConfig    `yaml:"native"`
	Resource  ResourceConfig  `yaml:"resource"`
	Output    OutputConfig    `yaml:"output"`
	Version   VersionConfig   `yaml:"version"`
	Toolchain ToolchainConfig `yaml:"toolchain"`
	Logging   LoggingConfig   `yaml:"logging"`
	Watch     WatchConfig     `yaml:"watch"`

	// path is where the config was loaded from (empty when defaults are used).
	path string
}

// EnvConfig names the environment variables the orchestrator reads.
type EnvConfig struct {
	TargetOS      string `yaml:"target_os"`
	TargetArch    string `yaml:"target_arch"`
	Profile       string `yaml:"profile"`
	Features      string `yaml:"features"`
	PackageRoot   string `yaml:"package_root"`
	InstalledRoot string `yaml:"installed_root"`
}

// NativeConfig configures shim compilation.
type NativeConfig struct {
	WindowsSources []string `yaml:"windows_sources"`
	MacOSSources   []string `yaml:"macos_sources"`
	OutDir         string   `yaml:"out_dir"`
	Compiler       string   `yaml:"compiler"` // overridden by $CXX
	Archiver       string   `yaml:"archiver"` // overridden by $AR
	ExtraFlags     []string `yaml:"extra_flags"`
	// CrossCompile compiles shims even when the host OS differs from the
	// target; Compiler must then name a cross toolchain.
	CrossCompile bool `yaml:"cross_compile"`
}

// ResourceConfig configures Windows resource embedding.
type ResourceConfig struct {
	Icon     string `yaml:"icon"`
	Manifest string `yaml:"manifest"`
	// PackageDir is the Go package directory receiving the .syso object.
	PackageDir string `yaml:"package_dir"`
}

// OutputConfig configures directive rendering.
type OutputConfig struct {
	Format string `yaml:"format"` // lines, cargo, ldflags, json
	Prefix string `yaml:"prefix"` // line prefix for the lines format
	// ConstantsPackage is the import path receiving -X bindings.
	ConstantsPackage string `yaml:"constants_package"`
}

// VersionConfig configures the version stamp constants.
type VersionConfig struct {
	Value string `yaml:"value"`
	File  string `yaml:"file"`
}

// ToolchainConfig configures external command execution.
type ToolchainConfig struct {
	Timeout string `yaml:"timeout"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Env: EnvConfig{
			TargetOS:      "GOOS",
			TargetArch:    "GOARCH",
			Profile:       "PREBUILD_PROFILE",
			Features:      "PREBUILD_FEATURES",
			PackageRoot:   "VCPKG_ROOT",
			InstalledRoot: "VCPKG_INSTALLED_ROOT",
		},

		Native: NativeConfig{
			WindowsSources: []string{
				"src/platform/windows.cc",
				"src/platform/windows_delete_test_cert.cc",
			},
			MacOSSources: []string{"src/platform/macos.mm"},
			OutDir:       filepath.Join(".prebuild", "out"),
			Compiler:     "c++",
			Archiver:     "ar",
		},

		Resource: ResourceConfig{
			Icon:       filepath.Join("res", "icon.ico"),
			Manifest:   filepath.Join("res", "manifest.xml"),
			PackageDir: ".",
		},

		Output: OutputConfig{
			Format:           "lines",
			Prefix:           "prebuild:",
			ConstantsPackage: "main",
		},

		Toolchain: ToolchainConfig{
			Timeout: "10m",
		},

		Logging: LoggingConfig{
			Level: "info",
		},

		Watch: WatchConfig{
			Debounce: "250ms",
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.path = path

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Path returns the file this config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if cxx := os.Getenv("CXX"); cxx != "" {
		c.Native.Compiler = cxx
	}
	if ar := os.Getenv("AR"); ar != "" {
		c.Native.Archiver = ar
	}
}

// GetToolchainTimeout returns the external command timeout as a duration.
func (c *Config) GetToolchainTimeout() time.Duration {
	d, err := time.ParseDuration(c.Toolchain.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}

// GetWatchDebounce returns the watch debounce interval as a duration.
func (c *Config) GetWatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d < 0 {
		return 250 * time.Millisecond
	}
	return d
}

// Validate checks the configuration for values the orchestrator cannot use.
func (c *Config) Validate() error {
	if !IsValidFormat(c.Output.Format) {
		return fmt.Errorf("unknown output format %q (valid: %v)", c.Output.Format, ValidFormats)
	}
	if c.Env.TargetOS == "" {
		return fmt.Errorf("env.target_os must name an environment variable")
	}
	if c.Env.PackageRoot == "" {
		return fmt.Errorf("env.package_root must name an environment variable")
	}
	if c.Output.Format == "ldflags" && c.Output.ConstantsPackage == "" {
		return fmt.Errorf("output.constants_package is required for the ldflags format")
	}
	return nil
}

// ValidFormats lists the supported output formats.
var ValidFormats = []string{"lines", "cargo", "ldflags", "json"}

// IsValidFormat checks if a format name is supported.
func IsValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
