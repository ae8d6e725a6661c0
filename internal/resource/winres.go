package resource

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tc-hib/winres"
)

// WinresEmbedder writes a COFF .syso object that the Go linker picks up
// from the package directory.
type WinresEmbedder struct{}

// ObjectName is the file name the Go toolchain links for goarch.
func ObjectName(goarch string) string {
	return fmt.Sprintf("rsrc_windows_%s.syso", goarch)
}

func winresArch(goarch string) (winres.Arch, error) {
	switch goarch {
	case "amd64":
		return winres.ArchAMD64, nil
	case "386":
		return winres.ArchI386, nil
	case "arm64":
		return winres.ArchARM64, nil
	case "arm":
		return winres.ArchARM, nil
	default:
		return "", fmt.Errorf("unsupported architecture for resources: %q", goarch)
	}
}

// Embed implements Embedder.
func (WinresEmbedder) Embed(ctx context.Context, b *Bundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	arch, err := winresArch(b.Arch)
	if err != nil {
		return err
	}

	rs := &winres.ResourceSet{}

	if b.Icon != "" {
		f, err := os.Open(b.Icon)
		if err != nil {
			return fmt.Errorf("failed to open icon: %w", err)
		}
		icon, err := winres.LoadICO(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to load icon %s: %w", b.Icon, err)
		}
		if err := rs.SetIconTranslation(winres.Name("APP"), b.Language, icon); err != nil {
			return fmt.Errorf("failed to set icon: %w", err)
		}
	}

	if b.Manifest != "" {
		data, err := os.ReadFile(b.Manifest)
		if err != nil {
			return fmt.Errorf("failed to read manifest: %w", err)
		}
		if err := rs.Set(winres.RT_MANIFEST, winres.ID(1), b.Language, data); err != nil {
			return fmt.Errorf("failed to set manifest: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := rs.WriteObject(&buf, arch); err != nil {
		return fmt.Errorf("failed to write resource object: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(b.Output), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(b.Output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", b.Output, err)
	}
	return nil
}
