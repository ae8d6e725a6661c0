package native

import (
	"context"

	"prebuild/internal/directive"
	"prebuild/internal/logging"
)

// Dispatcher forwards selected libraries to a Compiler and collects the
// directives the downstream link step needs.
type Dispatcher struct {
	Compiler Compiler
	OutDir   string
	// DryRun skips the compiler; directives are still produced.
	DryRun bool
}

// Compile builds every library in order. Each source file is registered as
// a change-tracking trigger, and each archive is announced as a static link
// library with its directory on the search path. The first compiler failure
// aborts.
func (d *Dispatcher) Compile(ctx context.Context, libs []Library) ([]directive.Directive, []Artifact, error) {
	var (
		directives []directive.Directive
		artifacts  []Artifact
	)

	for _, lib := range libs {
		for _, src := range lib.Sources() {
			directives = append(directives, directive.RerunIfChanged(src))
		}

		var artifact Artifact
		if d.DryRun || d.Compiler == nil {
			artifact = ArtifactFor(lib, d.OutDir)
			logging.NativeDebug("Dry run: skipping compilation of %s (%d units)", lib.Name, len(lib.Units))
		} else {
			var err error
			artifact, err = d.Compiler.Compile(ctx, lib)
			if err != nil {
				return nil, nil, err
			}
		}

		artifacts = append(artifacts, artifact)
		directives = append(directives,
			directive.StaticLib(artifact.Library),
			directive.LinkSearch(artifact.Dir),
		)
	}

	return directives, artifacts, nil
}
