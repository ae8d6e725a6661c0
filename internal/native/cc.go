package native

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"prebuild/internal/logging"
	"prebuild/internal/tactile"
)

// CCompiler compiles units with a C/C++ compiler driver and bundles the
// objects with an archiver, the way the cc crate and cgo builds do.
type CCompiler struct {
	Exec tactile.Executor
	// CXX is the compiler driver (c++, clang++, g++ ...).
	CXX string
	// AR is the archiver.
	AR string
	// OutDir receives objects and archives.
	OutDir string
	// ExtraFlags are prepended to every compile command.
	ExtraFlags []string
}

// Compile builds lib into <OutDir>/lib<name>.a.
func (c *CCompiler) Compile(ctx context.Context, lib Library) (Artifact, error) {
	timer := logging.StartTimer(logging.CategoryNative, "compile "+lib.Name)
	defer timer.Stop()

	artifact := ArtifactFor(lib, c.OutDir)
	objDir := filepath.Join(c.OutDir, lib.Name)
	if err := os.MkdirAll(objDir, 0755); err != nil {
		return Artifact{}, fmt.Errorf("failed to create object directory: %w", err)
	}

	objects := make([]string, 0, len(lib.Units))
	for _, unit := range lib.Units {
		obj := filepath.Join(objDir, objectName(unit.Source))

		args := make([]string, 0, len(c.ExtraFlags)+len(unit.Flags)+4)
		args = append(args, c.ExtraFlags...)
		args = append(args, unit.Flags...)
		args = append(args, "-c", unit.Source, "-o", obj)

		logging.Native("Compiling %s -> %s", unit.Source, obj)
		_, err := tactile.Run(ctx, c.Exec, "compile "+lib.Name, tactile.Command{
			Binary:    c.CXX,
			Arguments: args,
			Tags:      map[string]string{"library": lib.Name, "unit": unit.Source},
		})
		if err != nil {
			return Artifact{}, err
		}
		objects = append(objects, obj)
	}

	// ar appends to an existing archive; start from scratch so removed
	// units do not linger.
	if err := os.Remove(artifact.Archive); err != nil && !os.IsNotExist(err) {
		return Artifact{}, fmt.Errorf("failed to remove stale archive: %w", err)
	}

	_, err := tactile.Run(ctx, c.Exec, "archive "+lib.Name, tactile.Command{
		Binary:    c.AR,
		Arguments: append([]string{"crs", artifact.Archive}, objects...),
		Tags:      map[string]string{"library": lib.Name},
	})
	if err != nil {
		return Artifact{}, err
	}

	logging.Native("Built %s (%d units)", artifact.Archive, len(objects))
	return artifact, nil
}

// objectName derives a unique object file name from a source path.
func objectName(src string) string {
	clean := filepath.ToSlash(filepath.Clean(src))
	clean = strings.TrimPrefix(clean, "../")
	clean = strings.NewReplacer("/", "_", ":", "_", "..", "_").Replace(clean)
	return strings.TrimSuffix(clean, filepath.Ext(clean)) + ".o"
}
