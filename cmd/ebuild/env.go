package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env <recipe>",
	Short: "Print the build environment as shell exports",
	Long: `Env prints the environment a build of the recipe starts with, one
export KEY="VALUE" line per variable. The output can be sourced by a shell.`,
	Args: cobra.ExactArgs(1),
	PreRun: func(cmd *cobra.Command, _ []string) {
		bindFlags(cmd, keyUse, keyMakeOpts, keyRoot)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		builder, err := newBuilder(cmd)
		if err != nil {
			return err
		}
		attempt, err := builder.Prepare(cmd.Context(), request(args[0]))
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), attempt.Env.ExportString())
		return err
	},
}

func init() {
	addBuildFlags(envCmd)
	rootCmd.AddCommand(envCmd)
}
