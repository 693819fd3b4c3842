package main

import (
	"github.com/spf13/cobra"

	"geotrace/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show geotrace build fingerprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("geotrace %s\n", version.Version)
		if version.GitCommit != "" {
			cmd.Printf("commit: %s\n", version.GitCommit)
		}
		if version.BuildDate != "" {
			cmd.Printf("built:  %s\n", version.BuildDate)
		}
		return nil
	},
}
