// Package buildenv provides the build-time environment as an explicit value.
// The process environment is captured once at startup into an Env snapshot;
// every component then reads from the snapshot (or from the Settings loaded
// from it) rather than from os.Getenv.
//
// Absence of a variable is a valid state. Only Require turns absence into a
// ConfigurationError.
package buildenv

import (
	"os"
	"sort"
	"strings"

	"prebuild/internal/logging"
)

// Env is an immutable snapshot of environment variables.
type Env struct {
	vars map[string]string
}

// Snapshot captures the given KEY=VALUE entries (usually os.Environ()).
// Later duplicates win, matching exec.Cmd semantics.
func Snapshot(environ []string) Env {
	vars := make(map[string]string, len(environ))
	for _, entry := range environ {
		idx := strings.IndexRune(entry, '=')
		if idx <= 0 {
			continue
		}
		vars[entry[:idx]] = entry[idx+1:]
	}
	logging.BuildDebug("Captured environment snapshot with %d vars", len(vars))
	return Env{vars: vars}
}

// FromOS captures the current process environment.
func FromOS() Env {
	return Snapshot(os.Environ())
}

// FromMap builds a snapshot from a map. The map is copied.
func FromMap(m map[string]string) Env {
	vars := make(map[string]string, len(m))
	for k, v := range m {
		vars[k] = v
	}
	return Env{vars: vars}
}

// Lookup returns the value of name and whether it is present.
// An empty value still counts as present.
func (e Env) Lookup(name string) (string, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Require returns the value of name, or a ConfigurationError if it is absent.
func (e Env) Require(name string) (string, error) {
	v, ok := e.vars[name]
	if !ok {
		return "", &ConfigurationError{Variable: name}
	}
	return v, nil
}

// With returns a new snapshot with the given overrides applied.
// The receiver is left untouched.
func (e Env) With(overrides map[string]string) Env {
	vars := make(map[string]string, len(e.vars)+len(overrides))
	for k, v := range e.vars {
		vars[k] = v
	}
	for k, v := range overrides {
		vars[k] = v
	}
	return Env{vars: vars}
}

// Environ renders the snapshot as sorted KEY=VALUE entries.
func (e Env) Environ() []string {
	env := make([]string, 0, len(e.vars))
	for k, v := range e.vars {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)
	return env
}

// setEnvKey sets or updates an environment variable.
func setEnvKey(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = key + "=" + value
			return env
		}
	}
	return append(env, key+"="+value)
}

// MergeEnv merges additional environment variables into base env.
// Later values override earlier ones.
func MergeEnv(base []string, additional ...string) []string {
	result := make([]string, len(base))
	copy(result, base)

	for _, add := range additional {
		parts := strings.SplitN(add, "=", 2)
		if len(parts) == 2 {
			result = setEnvKey(result, parts[0], parts[1])
		}
	}

	return result
}
