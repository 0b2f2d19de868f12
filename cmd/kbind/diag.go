package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kbind/internal/diag"
	"kbind/internal/diagfmt"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] [file.html|directory]",
	Short: "Check templates for directive and interpolation problems",
	Long: `Run the directive checker and the compiler over templates and report
diagnostics without printing plans. Exits with status 1 when any error is found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	diagCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	diagCmd.Flags().String("min-severity", "info", "hide diagnostics below this severity (info|warning|error)")
	diagCmd.Flags().StringSlice("directive", nil, "register an extra directive name (repeatable)")
}

// runDiagnose prints diagnostics for the target in the chosen format and
// exits non-zero when any of them is an error.
func runDiagnose(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	minSevStr, err := cmd.Flags().GetString("min-severity")
	if err != nil {
		return fmt.Errorf("failed to get min-severity flag: %w", err)
	}
	minSev, err := diag.ParseSeverity(minSevStr)
	if err != nil {
		return err
	}
	extra, err := cmd.Flags().GetStringSlice("directive")
	if err != nil {
		return fmt.Errorf("failed to get directive flag: %w", err)
	}

	target, err := resolveTarget(args)
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd, manifestStart(target))
	if err != nil {
		return err
	}
	s.opts.Lint = true
	s.opts.Custom = append(s.opts.Custom, extra...)
	if format != "pretty" {
		s.ui = uiModeOff
	}

	out, err := runPipeline(cmd, target, s)
	if err != nil {
		return err
	}
	bag := filterSeverity(filterWarnings(out.bag, noWarnings, warningsAsErrors), minSev)

	pathMode := diagfmt.PathModeRelative
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, bag, out.fs, diagfmt.PrettyOpts{
			Color:     colorEnabled(),
			Context:   1,
			PathMode:  pathMode,
			ShowNotes: withNotes,
		})
		if !s.quiet {
			fmt.Fprintf(os.Stdout, "%d file(s), %d diagnostic(s)\n", out.files, bag.Len())
		}
	case "json":
		if err := diagfmt.JSON(os.Stdout, bag, out.fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
		}); err != nil {
			return fmt.Errorf("failed to encode diagnostics: %w", err)
		}
	case "short":
		fmt.Fprint(os.Stdout, diag.FormatShort(bag.Items(), out.fs, withNotes))
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if bag.HasErrors() {
		exitWith(1)
	}
	return nil
}
