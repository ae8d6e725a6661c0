package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"prebuild/internal/buildenv"
	"prebuild/internal/config"
	"prebuild/internal/directive"
	"prebuild/internal/prebuild"
)

// pipelineFlags are shared by the commands that run the pipeline.
type pipelineFlags struct {
	format     string
	output     string
	dryRun     bool
	targetOS   string
	targetArch string
	profile    string
	features   []string
}

func (f *pipelineFlags) register(cmd *cobra.Command, withOutput bool) {
	if withOutput {
		cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: lines, cargo, ldflags, json (default from config)")
		cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write directives to a file instead of stdout")
		cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Plan without compiling or embedding")
	}
	cmd.Flags().StringVar(&f.targetOS, "target-os", "", "Override the target OS variable")
	cmd.Flags().StringVar(&f.targetArch, "target-arch", "", "Override the target architecture variable")
	cmd.Flags().StringVar(&f.profile, "profile", "", "Override the build profile variable")
	cmd.Flags().StringSliceVar(&f.features, "feature", nil, "Enable a feature (repeatable)")
}

// environment snapshots the process environment with flag overrides
// applied.
func (f *pipelineFlags) environment(c *config.Config) buildenv.Env {
	names := prebuild.Names(c)
	overrides := make(map[string]string)
	if f.targetOS != "" {
		overrides[names.TargetOS] = f.targetOS
	}
	if f.targetArch != "" {
		overrides[names.TargetArch] = f.targetArch
	}
	if f.profile != "" {
		overrides[names.Profile] = f.profile
	}
	if len(f.features) > 0 {
		overrides[names.Features] = strings.Join(f.features, ",")
	}
	return buildenv.FromOS().With(overrides)
}

func (f *pipelineFlags) resolvedFormat(c *config.Config) (directive.Format, error) {
	format := f.format
	if format == "" {
		format = c.Output.Format
	}
	switch directive.Format(format) {
	case directive.FormatLines, directive.FormatCargo, directive.FormatLDFlags, directive.FormatJSON:
		return directive.Format(format), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

func renderOptions(c *config.Config) directive.RenderOptions {
	return directive.RenderOptions{
		Prefix:           c.Output.Prefix,
		ConstantsPackage: c.Output.ConstantsPackage,
	}
}

// runOnce snapshots the environment and runs the pipeline under c.
func runOnce(ctx context.Context, c *config.Config, f *pipelineFlags, dryRun bool) (*prebuild.Plan, error) {
	env := f.environment(c)
	s, err := prebuild.LoadSettings(c, env)
	if err != nil {
		return nil, err
	}
	runner := prebuild.NewRunner(c, env, prebuild.Options{DryRun: dryRun})
	return runner.Run(ctx, s)
}

// writePlan renders plan to the --output file or w.
func writePlan(w io.Writer, c *config.Config, f *pipelineFlags, plan *prebuild.Plan) error {
	format, err := f.resolvedFormat(c)
	if err != nil {
		return err
	}
	if f.output == "" {
		return plan.Render(w, format, renderOptions(c))
	}

	if err := os.MkdirAll(filepath.Dir(f.output), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(f.output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := plan.Render(file, format, renderOptions(c)); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
