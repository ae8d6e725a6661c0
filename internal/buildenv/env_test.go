package buildenv

import (
	"errors"
	"strings"
	"testing"
)

func TestSnapshot_ParsesEntries(t *testing.T) {
	env := Snapshot([]string{"FOO=1", "EMPTY=", "EQ=a=b", "=bad", "noequals", "FOO=2"})

	if got, ok := env.Lookup("FOO"); !ok || got != "2" {
		t.Fatalf("Lookup(FOO) = %q, %v, want \"2\", true", got, ok)
	}
	if got, ok := env.Lookup("EMPTY"); !ok || got != "" {
		t.Fatalf("Lookup(EMPTY) = %q, %v, want \"\", true", got, ok)
	}
	if got, _ := env.Lookup("EQ"); got != "a=b" {
		t.Fatalf("Lookup(EQ) = %q, want %q", got, "a=b")
	}
	if _, ok := env.Lookup("noequals"); ok {
		t.Fatalf("entry without '=' should be ignored")
	}
	if got := env.Environ(); len(got) != 3 {
		t.Fatalf("Environ() = %v, want 3 entries", got)
	}
}

func TestRequire(t *testing.T) {
	env := FromMap(map[string]string{"VCPKG_ROOT": "/r"})

	got, err := env.Require("VCPKG_ROOT")
	if err != nil || got != "/r" {
		t.Fatalf("Require(VCPKG_ROOT) = %q, %v", got, err)
	}

	_, err = env.Require("MISSING")
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Require(MISSING) error = %v, want *ConfigurationError", err)
	}
	if cfgErr.Variable != "MISSING" {
		t.Fatalf("ConfigurationError.Variable = %q, want MISSING", cfgErr.Variable)
	}
}

func TestWithDoesNotMutate(t *testing.T) {
	base := FromMap(map[string]string{"GOOS": "linux"})
	over := base.With(map[string]string{"GOOS": "android", "GOARCH": "arm64"})

	if got, _ := base.Lookup("GOOS"); got != "linux" {
		t.Fatalf("base GOOS = %q, want linux", got)
	}
	if _, ok := base.Lookup("GOARCH"); ok {
		t.Fatalf("base should not gain GOARCH")
	}
	if got, _ := over.Lookup("GOOS"); got != "android" {
		t.Fatalf("override GOOS = %q, want android", got)
	}
}

func TestFromMapCopies(t *testing.T) {
	m := map[string]string{"A": "1"}
	env := FromMap(m)
	m["A"] = "2"
	if got, _ := env.Lookup("A"); got != "1" {
		t.Fatalf("snapshot changed with source map: %q", got)
	}
}

func TestEnvironSorted(t *testing.T) {
	env := FromMap(map[string]string{"B": "2", "A": "1"})
	got := env.Environ()
	if len(got) != 2 || got[0] != "A=1" || got[1] != "B=2" {
		t.Fatalf("Environ() = %v", got)
	}
}

func TestMergeEnv(t *testing.T) {
	env := []string{"FOO=1", "BAR=2"}

	updated := setEnvKey(append([]string{}, env...), "FOO", "3")
	if updated[0] != "FOO=3" {
		t.Fatalf("setEnvKey updated[0] = %q, want %q", updated[0], "FOO=3")
	}

	added := setEnvKey(append([]string{}, env...), "BAZ", "9")
	if len(added) != 3 || added[2] != "BAZ=9" {
		t.Fatalf("setEnvKey did not append BAZ: %v", added)
	}

	merged := MergeEnv(env, "BAR=7", "BAZ=9", "bogus")
	want := []string{"FOO=1", "BAR=7", "BAZ=9"}
	if strings.Join(merged, ",") != strings.Join(want, ",") {
		t.Fatalf("MergeEnv = %v, want %v", merged, want)
	}
	if env[1] != "BAR=2" {
		t.Fatalf("MergeEnv mutated base: %v", env)
	}
}
