package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itms-toolkit/itms-publisher/pkg/report"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported report formats",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, f := range report.Formats() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s *%s\n", f, f.Extension())
			}
		},
	}
}
