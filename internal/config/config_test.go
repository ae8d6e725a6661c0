package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Env.TargetOS != "GOOS" {
		t.Errorf("expected TargetOS=GOOS, got %s", cfg.Env.TargetOS)
	}
	if cfg.Env.PackageRoot != "VCPKG_ROOT" {
		t.Errorf("expected PackageRoot=VCPKG_ROOT, got %s", cfg.Env.PackageRoot)
	}
	if len(cfg.Native.WindowsSources) != 2 {
		t.Errorf("expected 2 windows sources, got %d", len(cfg.Native.WindowsSources))
	}
	if cfg.Output.Format != "lines" {
		t.Errorf("expected Format=lines, got %s", cfg.Output.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("CXX", "")
	t.Setenv("AR", "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "prebuild.yaml")

	cfg := DefaultConfig()
	cfg.Output.Format = "cargo"
	cfg.Native.MacOSSources = []string{"shim/mac.mm"}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Output.Format != "cargo" {
		t.Errorf("expected Format=cargo, got %s", loaded.Output.Format)
	}
	if len(loaded.Native.MacOSSources) != 1 || loaded.Native.MacOSSources[0] != "shim/mac.mm" {
		t.Errorf("unexpected MacOSSources: %v", loaded.Native.MacOSSources)
	}
	if loaded.Path() != path {
		t.Errorf("expected Path=%s, got %s", path, loaded.Path())
	}
}

func TestConfig_LoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("expected empty Path for defaults, got %s", cfg.Path())
	}
	if cfg.Env.TargetArch != "GOARCH" {
		t.Errorf("expected TargetArch=GOARCH, got %s", cfg.Env.TargetArch)
	}
}

func TestConfig_LoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prebuild.yaml")
	content := "env:\n  package_root: MY_VCPKG\nwatch:\n  debounce: 1s\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Env.PackageRoot != "MY_VCPKG" {
		t.Errorf("expected PackageRoot=MY_VCPKG, got %s", cfg.Env.PackageRoot)
	}
	if cfg.Env.InstalledRoot != "VCPKG_INSTALLED_ROOT" {
		t.Errorf("expected default InstalledRoot, got %s", cfg.Env.InstalledRoot)
	}
	if got := cfg.GetWatchDebounce(); got != time.Second {
		t.Errorf("expected debounce 1s, got %v", got)
	}
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prebuild.yaml")
	if err := os.WriteFile(path, []byte("env: [unterminated"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown format")
	}

	cfg = DefaultConfig()
	cfg.Output.Format = "ldflags"
	cfg.Output.ConstantsPackage = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for ldflags without constants package")
	}

	cfg = DefaultConfig()
	cfg.Env.TargetOS = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty target_os variable")
	}
}

func TestConfig_Durations(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.GetToolchainTimeout(); got != 10*time.Minute {
		t.Errorf("expected 10m, got %v", got)
	}

	cfg.Toolchain.Timeout = "bogus"
	if got := cfg.GetToolchainTimeout(); got != 10*time.Minute {
		t.Errorf("expected fallback 10m, got %v", got)
	}

	cfg.Watch.Debounce = "nope"
	if got := cfg.GetWatchDebounce(); got != 250*time.Millisecond {
		t.Errorf("expected fallback 250ms, got %v", got)
	}
}

func TestLoggingConfig(t *testing.T) {
	lc := LoggingConfig{}
	if lc.LogsDir() != filepath.Join(".prebuild", "logs") {
		t.Errorf("unexpected default logs dir: %s", lc.LogsDir())
	}
	lc.Dir = "logs"
	if lc.LogsDir() != "logs" {
		t.Errorf("expected configured logs dir, got %s", lc.LogsDir())
	}
}
