package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prebuild/internal/config"
)

var initForce bool

// initCmd writes a starter config file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a prebuild.yaml with the default settings",
	Long: `Writes the default configuration to the --config path so it can be
edited. An existing file is left alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}
	if err := config.DefaultConfig().Save(configPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
	return nil
}
