package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runFlags pipelineFlags

// runCmd executes the pipeline once
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pre-compilation pipeline once and print directives",
	Long: `Snapshots the environment, resolves the target platform and runs every
step in order:

  1. Version stamp (when configured)
  2. Platform shim compilation
  3. Link planning (Android dependency resolution)
  4. Windows resource embedding (release builds with the inline feature)
  5. Compile-time constant propagation

Any failure aborts the run with exit status 1 and no directives.

Example:
  prebuild run --target-os windows --profile release --feature inline
  go build -ldflags "$(prebuild run -f ldflags)" ./cmd/app`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func init() {
	runFlags.register(runCmd, true)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	plan, err := runOnce(ctx, cfg, &runFlags, runFlags.dryRun)
	if err != nil {
		return err
	}
	logger.Debug("Pipeline finished",
		zap.String("run_id", plan.RunID),
		zap.String("platform", string(plan.Target.Platform)),
		zap.Int("directives", len(plan.Directives)))

	return writePlan(cmd.OutOrStdout(), cfg, &runFlags, plan)
}
