// Package driver runs the template pipeline (load, parse, check, compile)
// for single files and directories, with caching and progress reporting.
package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"kbind/internal/binding"
	"kbind/internal/check"
	"kbind/internal/compiler"
	"kbind/internal/diag"
	"kbind/internal/markup"
	"kbind/internal/observ"
	"kbind/internal/plan"
	"kbind/internal/project"
	"kbind/internal/source"
	"kbind/internal/trace"
)

// FileResult is the outcome of compiling one template.
type FileResult struct {
	Path   string
	FileID source.FileID
	Plan   *plan.Plan
	Stats  compiler.Stats
	Lint   check.Summary
	Bag    *diag.Bag
	Cached bool
	Timing *observ.Report
}

// Failed reports whether the file produced errors.
func (r *FileResult) Failed() bool {
	return r != nil && r.Bag.HasErrors()
}

// CompileFile loads and compiles a single template. The returned FileSet
// resolves the spans in the result's diagnostics.
func CompileFile(ctx context.Context, path string, opts Options) (*source.FileSet, *FileResult, error) {
	fileSet := source.NewFileSetWithBase(filepath.Dir(path))
	fileID, err := fileSet.Load(path)
	if err != nil {
		return fileSet, nil, fmt.Errorf("load %s: %w", path, err)
	}
	res, err := compileLoaded(ctx, fileSet, fileID, path, opts)
	return fileSet, res, err
}

// CompileSource compiles in-memory content registered under name.
func CompileSource(ctx context.Context, name string, content []byte, opts Options) (*source.FileSet, *FileResult, error) {
	fileSet := source.NewFileSet()
	fileID := fileSet.AddVirtual(name, content)
	res, err := compileLoaded(ctx, fileSet, fileID, name, opts)
	return fileSet, res, err
}

func compileLoaded(ctx context.Context, fileSet *source.FileSet, fileID source.FileID, path string, opts Options) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := time.Now()
	tracer := opts.tracer()
	span := trace.Begin(tracer, trace.ScopeFile, "file", trace.CurrentSpan(ctx)).WithExtra("path", path)
	timer := observ.NewTimer()

	res := &FileResult{
		Path:   path,
		FileID: fileID,
		Bag:    diag.NewBag(opts.MaxDiagnostics),
	}
	file := fileSet.Get(fileID)

	var key project.Digest
	if opts.Cache != nil {
		idx := timer.Begin(observ.PhaseCache)
		key = cacheKey(file, opts)
		var cached CachedPlan
		hit, err := opts.Cache.Get(key, &cached)
		timer.End(idx, "lookup")
		if err != nil {
			diag.ReportWarning(diag.BagReporter{Bag: res.Bag}, diag.IOCacheError, source.Span{File: fileID},
				"plan cache unreadable, recompiling: "+err.Error()).Emit()
		}
		if hit && cached.Plan != nil {
			rebind(cached.Plan, fileID)
			cached.Plan.File = path
			res.Plan, res.Stats, res.Lint, res.Cached = cached.Plan, cached.Stats, cached.Lint, true
			fromCached(fileID, cached.Diagnostics, res.Bag)
			emit(opts.Progress, Event{File: path, Stage: StageCompile, Status: StatusCached, Elapsed: time.Since(started)})
			finish(res, timer, span, opts)
			return res, nil
		}
	}

	reporter := diag.BagReporter{Bag: res.Bag}

	emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})
	idx := timer.Begin(observ.PhaseParse)
	tree, root := markup.Parse(fileSet, fileID, markup.Options{KeepWhitespace: opts.KeepWhitespace}, reporter)
	timer.End(idx, strconv.Itoa(tree.Len())+" nodes")

	if opts.Lint {
		emit(opts.Progress, Event{File: path, Stage: StageCheck, Status: StatusWorking})
		idx = timer.Begin(observ.PhaseCheck)
		reg, err := binding.NewRegistry(opts.Custom...)
		if err != nil {
			return nil, err
		}
		res.Lint = check.Diagnose(tree, root, reg.Names(), reporter)
		timer.End(idx, "")
	}

	emit(opts.Progress, Event{File: path, Stage: StageCompile, Status: StatusWorking})
	idx = timer.Begin(observ.PhaseCompile)
	view, err := binding.NewView(fileSet, tree, path, binding.Options{
		Custom:   opts.Custom,
		Reporter: reporter,
		Tracer:   tracer,
	})
	if err != nil {
		return nil, err
	}
	res.Plan, res.Stats = view.Compile(root)
	timer.End(idx, strconv.Itoa(res.Stats.Tasks)+" tasks")

	if opts.Cache != nil {
		payload := &CachedPlan{
			Path:        path,
			Plan:        res.Plan,
			Stats:       res.Stats,
			Lint:        res.Lint,
			Diagnostics: toCached(res.Bag.Items()),
		}
		if err := opts.Cache.Put(key, payload); err != nil {
			diag.ReportWarning(reporter, diag.IOCacheError, source.Span{File: fileID},
				"failed to store plan: "+err.Error()).Emit()
		}
	}

	status := StatusDone
	if res.Bag.HasErrors() {
		status = StatusError
	}
	emit(opts.Progress, Event{File: path, Stage: StageCompile, Status: status, Elapsed: time.Since(started)})
	finish(res, timer, span, opts)
	return res, nil
}

func finish(res *FileResult, timer *observ.Timer, span *trace.Span, opts Options) {
	report := timer.Report()
	res.Timing = &report
	if opts.Timings {
		appendTimingDiagnostic(res.Bag, res.FileID, timingPayload{Kind: "file", Path: res.Path, TotalMS: report.TotalMS, Phases: report.Phases})
	}
	res.Bag.Sort()
	span.WithExtra("bindings", strconv.Itoa(len(res.Plan.Bindings))).
		WithExtra("cached", strconv.FormatBool(res.Cached)).
		End("")
}
