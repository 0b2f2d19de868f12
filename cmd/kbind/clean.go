package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"kbind/internal/driver"
	"kbind/internal/project"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached binding plans",
	Long:  "Remove every plan stored in the kbind plan cache.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	m, err := project.Load(".")
	if err != nil && !errors.Is(err, project.ErrNoManifest) {
		return err
	}
	dir, err := cacheDir(cmd, m)
	if err != nil {
		return err
	}
	cache, err := driver.OpenPlanCache(dir)
	if err != nil {
		return err
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clear %q: %w", cache.Dir(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed cached plans in %s\n", formatPathForOutput(cache.Dir()))
	return nil
}
