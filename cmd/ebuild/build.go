package main

import (
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build <recipe>",
	Short: "Build a package from its recipe",
	Long: `Build runs every lifecycle phase of the recipe in order. When a phase
fails the remaining phases are not run; the clean phase always runs.`,
	Example: `  ebuild build hello.yaml
  ebuild build hello.yaml --use test --jobs 8
  EBUILD_MAKEOPTS=-j4 ebuild build hello.toml`,
	Args: cobra.ExactArgs(1),
	PreRun: func(cmd *cobra.Command, _ []string) {
		bindFlags(cmd, keyUse, keyMakeOpts, keyRoot, keyJobs)
	},
	RunE: runBuild,
}

func init() {
	addBuildFlags(buildCmd)
	buildCmd.Flags().Int(keyJobs, 0, "job count for compile phases (default: from MAKEOPTS)")
	rootCmd.AddCommand(buildCmd)
}

// addBuildFlags registers the flags shared by commands that prepare a build.
func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice(keyUse, nil, "USE flags, highest priority (e.g. test,-nls)")
	cmd.Flags().String(keyMakeOpts, "", "MAKEOPTS override")
	cmd.Flags().String(keyRoot, "", "build root (default: <PORTAGE_TMPDIR>/portage/<package>)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	builder, err := newBuilder(cmd)
	if err != nil {
		return err
	}

	_, result, err := builder.Build(cmd.Context(), request(args[0]))
	if result != nil {
		newReporter(cmd.OutOrStdout()).Result(result)
	}
	return err
}
