package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/ebuild/internal/domain/phase"
)

var checkROCmd = &cobra.Command{
	Use:   "check-ro <dir>...",
	Short: "Report read-only mounts backing directories",
	Long: `Check-ro runs the pre-install storage check against the given
directories and lists every read-only mount point they live on. It exits
non-zero when any is found.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		builder, err := newBuilder(cmd)
		if err != nil {
			return err
		}

		dirs := make([]string, 0, len(args))
		for _, a := range args {
			abs, err := filepath.Abs(a)
			if err != nil {
				return err
			}
			dirs = append(dirs, abs)
		}

		mounts, err := builder.CheckReadOnly(cmd.Context(), dirs)
		if err != nil {
			return err
		}
		if len(mounts) == 0 {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "no read-only mounts")
			return err
		}
		return phase.NewReadOnlyFilesystemError(phase.Install, mounts)
	},
}

func init() {
	rootCmd.AddCommand(checkROCmd)
}
