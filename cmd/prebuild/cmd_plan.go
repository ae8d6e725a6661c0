package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"prebuild/cmd/prebuild/ui"
	"prebuild/internal/directive"
	"prebuild/internal/prebuild"
)

var planFlags pipelineFlags

// planCmd shows what a run would do
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the directives a run would produce, without compiling",
	Args:  cobra.NoArgs,
	RunE:  showPlan,
}

func init() {
	planFlags.register(planCmd, false)
}

func showPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	plan, err := runOnce(ctx, cfg, &planFlags, true)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderPlanTable(plan, ui.DefaultStyles()))
	return nil
}

func renderPlanTable(plan *prebuild.Plan, styles ui.Styles) string {
	title := fmt.Sprintf("Plan %s: %s", plan.RunID, plan.Target.Platform)
	if plan.Target.Arch != "" {
		title += "/" + plan.Target.Arch
	}

	table := ui.NewSimpleTable(title, []string{"Kind", "Name", "Value"})
	for _, d := range plan.Directives {
		name := d.Name
		if d.LinkKind != directive.LinkDefault {
			name = string(d.LinkKind) + "=" + name
		}
		value := d.Value
		if d.Kind == directive.KindConstant {
			value = fmt.Sprintf("(%d chars)", len(d.Value))
		}
		table.AddRow(string(d.Kind), name, value)
	}

	out := table.View(styles)
	if out == "" {
		out = styles.Muted.Render("No directives for "+string(plan.Target.Platform)) + "\n"
	}
	for _, lib := range plan.Libraries {
		out += styles.Body.Render("library: "+lib.Archive) + "\n"
	}
	for _, res := range plan.Resources {
		out += styles.Body.Render("resource: "+res) + "\n"
	}
	return out
}
