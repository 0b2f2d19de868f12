package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kbind/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, version.Describe())
		if version.GitMessage != "" {
			fmt.Fprintln(w, version.GitMessage)
		}
		return nil
	},
}
