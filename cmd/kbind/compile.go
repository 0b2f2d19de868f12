package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kbind/internal/diagfmt"
	"kbind/internal/plan"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] [file.html|directory]",
	Short: "Compile templates into binding plans",
	Long: `Compile a template, or every template below a directory, and print the
resulting binding plans. Without an argument the template root from kbind.toml
is used. Diagnostics go to stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().String("format", "pretty", "plan output format (pretty|json|yaml)")
	compileCmd.Flags().Bool("no-lint", false, "skip the directive checker")
	compileCmd.Flags().Bool("keep-whitespace", false, "keep whitespace-only text nodes")
	compileCmd.Flags().StringSlice("directive", nil, "register an extra directive name (repeatable)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := plan.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	noLint, err := cmd.Flags().GetBool("no-lint")
	if err != nil {
		return fmt.Errorf("failed to get no-lint flag: %w", err)
	}
	keepWS, err := cmd.Flags().GetBool("keep-whitespace")
	if err != nil {
		return fmt.Errorf("failed to get keep-whitespace flag: %w", err)
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
	s.opts.Lint = !noLint
	if cmd.Flags().Changed("keep-whitespace") {
		s.opts.KeepWhitespace = keepWS
	}
	s.opts.Custom = append(s.opts.Custom, extra...)

	out, err := runPipeline(cmd, target, s)
	if err != nil {
		return err
	}

	if err := plan.Write(os.Stdout, format, out.plans...); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	if out.bag.Len() > 0 && !(s.quiet && !out.bag.HasErrors()) {
		diagfmt.Pretty(os.Stderr, out.bag, out.fs, diagfmt.PrettyOpts{
			Color:     colorEnabled(),
			Context:   1,
			PathMode:  diagfmt.PathModeRelative,
			ShowNotes: true,
		})
	}
	if !s.quiet && format == plan.FormatPretty {
		fmt.Fprintf(os.Stderr, "compiled %d file(s), %d from cache\n", out.files, out.cached)
	}
	if out.bag.HasErrors() {
		exitWith(1)
	}
	return nil
}
