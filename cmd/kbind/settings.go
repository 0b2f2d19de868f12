package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"kbind/internal/driver"
	"kbind/internal/project"
	"kbind/internal/trace"
)

// settings is everything a compile-like command needs after flags and the
// manifest have been merged.
type settings struct {
	manifest *project.Manifest // nil without kbind.toml
	opts     driver.Options
	quiet    bool
	ui       uiMode
}

// loadSettings reads kbind.toml above start and lets explicitly set flags
// override it.
func loadSettings(cmd *cobra.Command, start string) (*settings, error) {
	cfg := project.Default()
	m, err := project.Load(start)
	switch {
	case err == nil:
		cfg = m.Config
	case errors.Is(err, project.ErrNoManifest):
		m = nil
	default:
		return nil, err
	}

	s := &settings{manifest: m, opts: driver.OptionsFromConfig(cfg)}
	pf := cmd.Root().PersistentFlags()

	if pf.Changed("max-diagnostics") {
		if s.opts.MaxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if pf.Changed("jobs") {
		if s.opts.Jobs, err = pf.GetInt("jobs"); err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if s.opts.Timings, err = pf.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.quiet, err = pf.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	uiValue, err := pf.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return nil, err
	}

	noCache, err := pf.GetBool("no-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if cfg.Cache.Enabled && !noCache {
		dir, err := cacheDir(cmd, m)
		if err != nil {
			return nil, err
		}
		cache, err := driver.OpenPlanCache(dir)
		if err != nil {
			// без кеша работаем медленнее, но работаем
			if !s.quiet {
				fmt.Fprintf(os.Stderr, "warning: plan cache disabled: %v\n", err)
			}
		} else {
			s.opts.Cache = cache
		}
	}

	s.opts.Tracer = trace.FromContext(cmd.Context())
	return s, nil
}

// cacheDir resolves --cache-dir, then [cache].dir relative to the manifest,
// then the user cache directory.
func cacheDir(cmd *cobra.Command, m *project.Manifest) (string, error) {
	dir, err := cmd.Root().PersistentFlags().GetString("cache-dir")
	if err != nil {
		return "", fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	if dir != "" {
		return dir, nil
	}
	if m != nil && m.Config.Cache.Dir != "" {
		if filepath.IsAbs(m.Config.Cache.Dir) {
			return m.Config.Cache.Dir, nil
		}
		return filepath.Join(m.Root, filepath.FromSlash(m.Config.Cache.Dir)), nil
	}
	return driver.DefaultCacheDir()
}

// resolveTarget picks the path argument, or the manifest's template root,
// or the working directory.
func resolveTarget(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	m, err := project.Load(".")
	switch {
	case err == nil:
		return m.TemplateRoot(), nil
	case errors.Is(err, project.ErrNoManifest):
		return ".", nil
	default:
		return "", err
	}
}

// manifestStart returns the directory the manifest search begins in.
func manifestStart(target string) string {
	info, err := os.Stat(target)
	if err == nil && info.IsDir() {
		return target
	}
	return filepath.Dir(target)
}

// uiMode is the --ui setting for directory compiles.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch m := uiMode(strings.TrimSpace(strings.ToLower(value))); m {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI draws the progress model only when both streams are terminals
// in auto mode: plans go to stdout and must stay parseable when piped.
func shouldUseTUI(mode uiMode, quiet bool) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return !quiet && isTerminal(os.Stdout) && isTerminal(os.Stderr)
}
