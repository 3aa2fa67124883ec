package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/felixgeelhaar/ebuild/internal/domain/jobs"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs [MAKEOPTS...]",
	Short: "Print the job count a MAKEOPTS value resolves to",
	Long: `Jobs resolves a MAKEOPTS value to a job count. Without arguments the
MAKEOPTS of the loaded make.conf is used. When no job flag is present the
host's logical CPU count is printed.`,
	Example: `  ebuild jobs -- -j4
  ebuild jobs -- "--jobs=8 --load-average=4"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		makeopts := strings.Join(args, " ")
		if len(args) == 0 {
			builder, err := newBuilder(cmd)
			if err != nil {
				return err
			}
			settings, _, err := builder.LoadSettings(viper.GetString(keyMakeConf))
			if err != nil {
				return err
			}
			makeopts = settings.MakeOpts
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), jobs.FromMakeOpts(makeopts))
		return err
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}
