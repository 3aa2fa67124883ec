package main

import (
	"github.com/spf13/cobra"
)

var phasesCmd = &cobra.Command{
	Use:   "phases <recipe>",
	Short: "Show which implementation runs for each phase",
	Args:  cobra.ExactArgs(1),
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
		newReporter(cmd.OutOrStdout()).Plan(attempt)
		return nil
	},
}

func init() {
	addBuildFlags(phasesCmd)
	rootCmd.AddCommand(phasesCmd)
}
