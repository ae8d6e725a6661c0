package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"prebuild/internal/directive"
	"prebuild/internal/watch"
)

var watchFlags pipelineFlags

// watchCmd re-runs the pipeline when tracked files change
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the pipeline whenever a tracked source changes",
	Long: `Runs the pipeline, then watches every change-tracking trigger it produced
(shim sources, resource files, the config file). A settled change re-runs the
pipeline with a fresh environment snapshot and prints the new directives.
Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchFlags.register(watchCmd, true)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if _, err := watchFlags.resolvedFormat(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(watchBuild(cmd.OutOrStdout(), configPath, &watchFlags), cfg.GetWatchDebounce())
	if err != nil {
		return err
	}
	w.OnError = func(err error) {
		fmt.Fprintln(cmd.ErrOrStderr(), formatError(err))
	}
	return w.Run(ctx)
}

// watchBuild returns a build that reloads the config at path before every
// run, so edits to the tracked config file take effect.
func watchBuild(out io.Writer, path string, f *pipelineFlags) watch.BuildFunc {
	return func(ctx context.Context) ([]directive.Directive, error) {
		c, err := loadConfig(path)
		if err != nil {
			return nil, err
		}
		plan, err := runOnce(ctx, c, f, f.dryRun)
		if err != nil {
			return nil, err
		}
		if err := writePlan(out, c, f, plan); err != nil {
			return nil, err
		}
		logger.Info("Rebuilt", zap.String("run_id", plan.RunID), zap.Int("directives", len(plan.Directives)))
		return plan.Directives, nil
	}
}
