// Package secrets forwards allow-listed deployment values from the build
// environment into the compiled artifact as compile-time constants.
package secrets

import (
	"prebuild/internal/buildenv"
	"prebuild/internal/directive"
	"prebuild/internal/logging"
)

// AllowList is the fixed set of variables propagated into the artifact.
var AllowList = []string{
	"RENDEZVOUS_SERVER",
	"RS_PUB_KEY",
	"API_SERVER",
	"RS_PASSWORD",
	"RS_FORCE_RELAY",
}

// forceRelay is not sensitive; its value is logged verbatim.
const forceRelay = "RS_FORCE_RELAY"

// Binding is a present allow-listed variable and its raw value.
type Binding struct {
	Name  string
	Value string
}

// Names returns a copy of the allow-list, for loading settings.
func Names() []string {
	out := make([]string, len(AllowList))
	copy(out, AllowList)
	return out
}

// Collect returns a binding for every allow-listed variable present in s,
// in allow-list order. Absent variables are skipped. Values are passed
// through unmodified.
func Collect(s buildenv.Settings) []Binding {
	var bindings []Binding
	for _, name := range AllowList {
		v, ok := s.Var(name).Get()
		if !ok {
			logging.SecretsDebug("%s: NOT SET", name)
			continue
		}
		if name == forceRelay {
			logging.SecretsDebug("%s found: %s", name, v)
		} else {
			logging.SecretsDebug("%s found: %d chars", name, len(v))
		}
		bindings = append(bindings, Binding{Name: name, Value: v})
	}
	return bindings
}

// Directives converts bindings to constant directives.
func Directives(bindings []Binding) []directive.Directive {
	ds := make([]directive.Directive, 0, len(bindings))
	for _, b := range bindings {
		ds = append(ds, directive.Constant(b.Name, b.Value))
	}
	return ds
}

// Mask hides all but the length of a secret value for display.
func Mask(name, value string) string {
	if name == forceRelay || value == "" {
		return value
	}
	n := len(value)
	if n > 8 {
		n = 8
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = '*'
	}
	return string(out)
}
