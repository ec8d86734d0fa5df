package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tturner/ditgparse/internal/config"
)

type initConfigFlags struct {
	path  string
	force bool
}

func newInitConfigCmd() *cobra.Command {
	flags := &initConfigFlags{}

	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a default configuration file",
		Long: `Write a configuration file populated with the built-in defaults: the log
root, the ITGDec executable, the IP versions to process and the CSV
destinations of both pipelines.`,
		Example: `  # Write ditgparse.yaml in the current directory
  ditgparse init-config

  # Overwrite an existing file
  ditgparse init-config --path lab.yaml --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if flags.path == "" {
				return missingFlagError(cmd, "--path")
			}
			return runInitConfig(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.path, "path", "ditgparse.yaml", "Config file to create")
	cmd.Flags().BoolVar(&flags.force, "force", false, "Overwrite an existing file")

	return cmd
}

func runInitConfig(cmd *cobra.Command, flags *initConfigFlags) error {
	if !flags.force {
		if _, err := os.Stat(flags.path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", flags.path)
		}
	}
	if err := config.WriteDefaultConfig(flags.path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", flags.path)
	return nil
}
