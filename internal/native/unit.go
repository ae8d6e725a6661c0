// Package native compiles platform shim sources into static libraries
// through the external C/C++ toolchain.
package native

import (
	"context"
	"path/filepath"
)

// Unit is one shim source file plus the compiler flags selected for it.
type Unit struct {
	Source string   `json:"source"`
	Flags  []string `json:"flags,omitempty"`
}

// Library groups units compiled into one static archive.
type Library struct {
	Name  string `json:"name"`
	Units []Unit `json:"units"`
}

// NewLibrary builds a library whose units all share flags.
func NewLibrary(name string, sources []string, flags ...string) Library {
	lib := Library{Name: name}
	for _, src := range sources {
		unitFlags := make([]string, len(flags))
		copy(unitFlags, flags)
		lib.Units = append(lib.Units, Unit{Source: src, Flags: unitFlags})
	}
	return lib
}

// Sources lists the source paths of every unit.
func (l Library) Sources() []string {
	out := make([]string, 0, len(l.Units))
	for _, u := range l.Units {
		out = append(out, u.Source)
	}
	return out
}

// Artifact is a compiled static library.
type Artifact struct {
	Library string `json:"library"`
	Archive string `json:"archive"`
	Dir     string `json:"dir"`
}

// ArtifactFor predicts where lib's archive lands under outDir.
func ArtifactFor(lib Library, outDir string) Artifact {
	return Artifact{
		Library: lib.Name,
		Archive: filepath.Join(outDir, "lib"+lib.Name+".a"),
		Dir:     outDir,
	}
}

// Compiler turns a Library into a static archive.
type Compiler interface {
	Compile(ctx context.Context, lib Library) (Artifact, error)
}
