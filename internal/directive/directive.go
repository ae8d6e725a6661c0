// Package directive models the instructions prebuild hands to the downstream
// toolchain: libraries to link, library search paths, change-tracking
// triggers and compile-time constant bindings.
package directive

import "fmt"

// Kind identifies what a directive asks the toolchain to do.
type Kind string

const (
	KindLinkLib           Kind = "link-lib"
	KindLinkSearch        Kind = "link-search"
	KindRerunIfChanged    Kind = "rerun-if-changed"
	KindRerunIfEnvChanged Kind = "rerun-if-env-changed"
	KindConstant          Kind = "const"
	KindWarning           Kind = "warning"
)

// LinkKind qualifies a link-lib directive.
type LinkKind string

const (
	LinkDefault   LinkKind = ""
	LinkStatic    LinkKind = "static"
	LinkFramework LinkKind = "framework"
)

// Directive is one instruction for the downstream toolchain.
// Order carries no meaning and duplicates are tolerated downstream.
type Directive struct {
	Kind Kind `json:"kind"`
	// Name is the library, constant or environment variable name.
	Name string `json:"name,omitempty"`
	// Value is the search directory, tracked file, constant value or warning text.
	Value    string   `json:"value,omitempty"`
	LinkKind LinkKind `json:"link_kind,omitempty"`
}

// LinkLib links against a system library.
func LinkLib(name string) Directive {
	return Directive{Kind: KindLinkLib, Name: name}
}

// StaticLib links against a static archive produced by this run.
func StaticLib(name string) Directive {
	return Directive{Kind: KindLinkLib, Name: name, LinkKind: LinkStatic}
}

// Framework links against a macOS framework.
func Framework(name string) Directive {
	return Directive{Kind: KindLinkLib, Name: name, LinkKind: LinkFramework}
}

// LinkSearch adds dir to the library search path.
func LinkSearch(dir string) Directive {
	return Directive{Kind: KindLinkSearch, Value: dir}
}

// RerunIfChanged registers path as a change-tracking trigger.
func RerunIfChanged(path string) Directive {
	return Directive{Kind: KindRerunIfChanged, Value: path}
}

// RerunIfEnvChanged registers an environment variable as a trigger.
func RerunIfEnvChanged(name string) Directive {
	return Directive{Kind: KindRerunIfEnvChanged, Name: name}
}

// Constant binds name to value as a compile-time constant.
func Constant(name, value string) Directive {
	return Directive{Kind: KindConstant, Name: name, Value: value}
}

// Warning surfaces a message in the downstream build log.
func Warning(msg string) Directive {
	return Directive{Kind: KindWarning, Value: msg}
}

// Body renders the directive without any prefix, e.g.
// "link-lib=framework=ApplicationServices" or "const=API_SERVER=https://x".
func (d Directive) Body() string {
	switch d.Kind {
	case KindLinkLib:
		if d.LinkKind != LinkDefault {
			return fmt.Sprintf("%s=%s=%s", d.Kind, d.LinkKind, d.Name)
		}
		return fmt.Sprintf("%s=%s", d.Kind, d.Name)
	case KindRerunIfEnvChanged:
		return fmt.Sprintf("%s=%s", d.Kind, d.Name)
	case KindConstant:
		return fmt.Sprintf("%s=%s=%s", d.Kind, d.Name, d.Value)
	default:
		return fmt.Sprintf("%s=%s", d.Kind, d.Value)
	}
}

func (d Directive) String() string {
	return d.Body()
}

// Filter returns the directives of the given kind, preserving order.
func Filter(ds []Directive, kind Kind) []Directive {
	var out []Directive
	for _, d := range ds {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Paths returns the tracked file paths of all rerun-if-changed directives.
func Paths(ds []Directive) []string {
	var out []string
	for _, d := range Filter(ds, KindRerunIfChanged) {
		out = append(out, d.Value)
	}
	return out
}
