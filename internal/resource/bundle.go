// Package resource embeds Windows application resources (icon, version
// language, manifest) into a linkable object.
package resource

import (
	"context"
	"errors"
	"fmt"

	"prebuild/internal/buildenv"
	"prebuild/internal/directive"
	"prebuild/internal/logging"
	"prebuild/internal/platform"
	"prebuild/internal/tactile"
)

// LangEnglishUS is the Windows language identifier for English (US).
const LangEnglishUS uint16 = 0x0409

// InlineFeature gates resource embedding.
const InlineFeature = "inline"

// Step names the resource embedding build step in errors.
const Step = "resource-embed"

// Bundle describes the resources to embed.
type Bundle struct {
	Icon     string `json:"icon"`
	Language uint16 `json:"language"`
	Manifest string `json:"manifest"`
	// Output is the object file to write.
	Output string `json:"output"`
	// Arch is the GOARCH of the object.
	Arch string `json:"arch"`
}

// NewBundle starts an empty bundle for arch.
func NewBundle(arch string) *Bundle {
	return &Bundle{Arch: arch}
}

// SetIcon sets the application icon path.
func (b *Bundle) SetIcon(path string) *Bundle {
	b.Icon = path
	return b
}

// SetLanguage sets the resource language identifier.
func (b *Bundle) SetLanguage(lang uint16) *Bundle {
	b.Language = lang
	return b
}

// SetManifestFile sets the application manifest path.
func (b *Bundle) SetManifestFile(path string) *Bundle {
	b.Manifest = path
	return b
}

// SetOutput sets the object file path.
func (b *Bundle) SetOutput(path string) *Bundle {
	b.Output = path
	return b
}

// Triggers returns change-tracking directives for the bundle inputs.
func (b *Bundle) Triggers() []directive.Directive {
	var ds []directive.Directive
	if b.Icon != "" {
		ds = append(ds, directive.RerunIfChanged(b.Icon))
	}
	if b.Manifest != "" {
		ds = append(ds, directive.RerunIfChanged(b.Manifest))
	}
	return ds
}

// Embedder writes a bundle into a linkable object.
type Embedder interface {
	Embed(ctx context.Context, b *Bundle) error
}

// ResourceEmbedError reports a failed embedding. It unwraps to a
// *tactile.ToolchainError for the resource-embed step.
type ResourceEmbedError struct {
	Bundle *Bundle
	Err    error
}

func (e *ResourceEmbedError) Error() string {
	return fmt.Sprintf("resource embedding failed for %s: %v", e.Bundle.Output, e.Err)
}

func (e *ResourceEmbedError) Unwrap() error {
	return e.Err
}

func embedError(b *Bundle, err error) *ResourceEmbedError {
	var tcErr *tactile.ToolchainError
	if !errors.As(err, &tcErr) {
		err = &tactile.ToolchainError{Step: Step, Err: err}
	}
	return &ResourceEmbedError{Bundle: b, Err: err}
}

// ShouldEmbed reports whether resources are embedded for this run: the
// target is Windows, the inline feature is on and the profile is release.
// The profile is only required once the first two conditions hold.
func ShouldEmbed(t platform.Target, s buildenv.Settings) (bool, error) {
	if t.Platform != platform.Windows || !s.HasFeature(InlineFeature) {
		return false, nil
	}
	profile, ok := s.BuildProfile()
	if !ok {
		return false, &buildenv.ConfigurationError{
			Variable: s.Names.Profile,
			Reason:   "build profile is required for resource embedding",
		}
	}
	return profile == buildenv.ProfileRelease, nil
}

// Embed builds the bundle and runs the embedder. The returned directives
// track the icon and manifest.
func Embed(ctx context.Context, e Embedder, b *Bundle, dryRun bool) ([]directive.Directive, error) {
	timer := logging.StartTimer(logging.CategoryResource, "embed resources")
	defer timer.Stop()

	logging.Resource("Embedding resources: icon=%s manifest=%s lang=0x%04x -> %s", b.Icon, b.Manifest, b.Language, b.Output)
	if dryRun {
		logging.ResourceDebug("Dry run: skipping resource object generation")
		return b.Triggers(), nil
	}
	if err := e.Embed(ctx, b); err != nil {
		logging.ResourceError("Resource embedding failed: %v", err)
		return nil, embedError(b, err)
	}
	return b.Triggers(), nil
}
