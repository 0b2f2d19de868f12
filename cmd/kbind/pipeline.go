package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kbind/internal/diag"
	"kbind/internal/driver"
	"kbind/internal/plan"
	"kbind/internal/source"
)

// outcome is a compile run flattened for printing.
type outcome struct {
	fs     *source.FileSet
	plans  []*plan.Plan
	bag    *diag.Bag
	files  int
	cached int
}

// runPipeline compiles target, a file or a directory.
func runPipeline(cmd *cobra.Command, target string, s *settings) (*outcome, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", target, err)
	}
	ctx := cmd.Context()

	if !info.IsDir() {
		fs, res, err := driver.CompileFile(ctx, target, s.opts)
		if err != nil {
			return nil, err
		}
		out := &outcome{fs: fs, plans: []*plan.Plan{res.Plan}, bag: res.Bag, files: 1}
		if res.Cached {
			out.cached++
		}
		return out, nil
	}

	var (
		fs  *source.FileSet
		res *driver.DirResult
	)
	if shouldUseTUI(s.ui, s.quiet) {
		fs, res, err = compileDirWithUI(ctx, "compiling "+target, target, s.opts)
	} else {
		fs, res, err = driver.CompileDir(ctx, target, s.opts)
	}
	if err != nil {
		return nil, err
	}

	// общий мешок: ошибки загрузки плюс диагностика всех файлов
	out := &outcome{fs: fs, bag: diag.NewBag(0), files: len(res.Files)}
	out.bag.Merge(res.Bag)
	for i := range res.Files {
		f := &res.Files[i]
		out.plans = append(out.plans, f.Plan)
		out.bag.Merge(f.Bag)
		if f.Cached {
			out.cached++
		}
	}
	out.bag.Sort()
	return out, nil
}

// filterWarnings drops or promotes warnings. Returns a new bag.
func filterWarnings(bag *diag.Bag, drop, promote bool) *diag.Bag {
	if !drop && !promote {
		return bag
	}
	out := diag.NewBag(0)
	for _, d := range bag.Items() {
		if d.Severity == diag.SevWarning {
			if drop {
				continue
			}
			cp := *d
			cp.Severity = diag.SevError
			d = &cp
		}
		out.Add(d)
	}
	return out
}

// filterSeverity keeps diagnostics at or above min.
func filterSeverity(bag *diag.Bag, min diag.Severity) *diag.Bag {
	if min == diag.SevInfo {
		return bag
	}
	out := diag.NewBag(0)
	for _, d := range bag.Items() {
		if d.Severity >= min {
			out.Add(d)
		}
	}
	return out
}
