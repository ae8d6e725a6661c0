package main

import (
	"github.com/spf13/cobra"

	"prebuild/cmd/prebuild/ui"
	"prebuild/internal/buildenv"
	"prebuild/internal/prebuild"
)

// envCmd lists the variables prebuild reads
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables prebuild reads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		styles := ui.DefaultStyles()
		table := ui.NewSimpleTable("Environment", []string{"Variable", "Set", "Required", "Purpose", "Value"})
		for _, v := range prebuild.Variables(cfg, buildenv.FromOS()) {
			set := styles.Muted.Render("no")
			if v.Set {
				set = styles.Success.Render("yes")
			}
			table.AddRow(v.Name, set, v.Required, v.Purpose, v.Value)
		}
		_, err := cmd.OutOrStdout().Write([]byte(table.View(styles)))
		return err
	},
}
