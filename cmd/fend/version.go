package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benji-york/fend/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the fend version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		full, err := cmd.Flags().GetBool("full")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "fend %s\n", version.Version)
		if full {
			if version.GitCommit != "" {
				fmt.Fprintf(out, "commit: %s\n", version.GitCommit)
			}
			if version.BuildDate != "" {
				fmt.Fprintf(out, "built:  %s\n", version.BuildDate)
			}
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("full", false, "include build metadata")
}
