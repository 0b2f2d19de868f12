package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"kbind/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new kbind project",
	Long: `Create a project manifest (kbind.toml) and a templates/ directory with a
sample template. If [path|name] is omitted, the current directory is used. A
missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

const sampleTemplate = `<main k-show="ready">
  <h1>{{ title }}</h1>
  <ul>
    <li k-for="item in items">{{ item.name }}</li>
  </ul>
  <p k-if="items.length == 0">Nothing here yet.</p>
</main>
`

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 && args[0] != "" {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "kbind-project"
	}

	manifestPath, err := project.WriteNew(target, name)
	if err != nil {
		return fmt.Errorf("project already initialized: %w", err)
	}

	templates := filepath.Join(target, "templates")
	if err := os.MkdirAll(templates, 0o755); err != nil {
		return fmt.Errorf("failed to create %q: %w", templates, err)
	}
	index := filepath.Join(templates, "index.html")
	createdIndex := false
	if _, err := os.Stat(index); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(index, []byte(sampleTemplate), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", index, err)
		}
		createdIndex = true
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Initialized kbind project %q in %s\n", name, formatPathForOutput(target))
	fmt.Fprintf(w, "  - %s\n", filepath.Base(manifestPath))
	if createdIndex {
		fmt.Fprintf(w, "  - templates/index.html\n")
	} else {
		fmt.Fprintf(w, "  - templates/index.html (existing)\n")
	}
	return nil
}

// formatPathForOutput shortens path relative to the working directory.
func formatPathForOutput(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
