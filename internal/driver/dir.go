package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"kbind/internal/diag"
	"kbind/internal/source"
	"kbind/internal/trace"
)

// DirResult bundles per-file results with the pipeline-wide diagnostics
// (load failures, timings) that belong to no single template.
type DirResult struct {
	Files []FileResult
	Bag   *diag.Bag
}

// HasErrors reports whether any file or the pipeline itself failed.
func (r *DirResult) HasErrors() bool {
	if r == nil {
		return false
	}
	if r.Bag.HasErrors() {
		return true
	}
	for i := range r.Files {
		if r.Files[i].Failed() {
			return true
		}
	}
	return false
}

// CompileDir compiles every template below dir whose extension matches
// Options.Extensions. Files are loaded serially, then compiled in parallel
// with at most Options.Jobs workers. Results keep the sorted path order.
func CompileDir(ctx context.Context, dir string, opts Options) (*source.FileSet, *DirResult, error) {
	started := time.Now()
	tracer := opts.tracer()
	span := trace.Begin(tracer, trace.ScopeDriver, "compile_dir", trace.CurrentSpan(ctx)).WithExtra("dir", dir)
	ctx = trace.WithSpan(ctx, span)

	paths, err := listTemplates(dir, opts.extensions())
	if err != nil {
		span.End("error")
		return nil, nil, err
	}

	fileSet := source.NewFileSetWithBase(dir)
	out := &DirResult{Bag: diag.NewBag(opts.MaxDiagnostics)}
	reporter := diag.BagReporter{Bag: out.Bag}

	type loaded struct {
		id   source.FileID
		path string
	}
	files := make([]loaded, 0, len(paths))
	for _, p := range paths {
		emit(opts.Progress, Event{File: p, Stage: StageLoad, Status: StatusQueued})
		id, err := fileSet.Load(p)
		if err != nil {
			// пустая виртуальная копия, чтобы ошибка имела путь
			stub := fileSet.AddVirtual(p, nil)
			diag.ReportError(reporter, diag.IOLoadFileError, source.Span{File: stub}, "cannot read template: "+err.Error()).Emit()
			emit(opts.Progress, Event{File: p, Stage: StageLoad, Status: StatusError, Err: err})
			continue
		}
		files = append(files, loaded{id: id, path: p})
	}

	var pipelineID source.FileID
	if opts.Timings {
		pipelineID = fileSet.AddVirtual(dir, nil)
	}

	out.Files = make([]FileResult, len(files))
	if len(files) > 0 {
		jobs := opts.Jobs
		if jobs <= 0 {
			jobs = runtime.GOMAXPROCS(0)
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(jobs, len(files)))
		for i, f := range files {
			i, f := i, f
			g.Go(func() error {
				res, err := compileLoaded(gctx, fileSet, f.id, f.path, opts)
				if err != nil {
					return err
				}
				out.Files[i] = *res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			span.End("error")
			return fileSet, out, err
		}
	}

	if opts.Timings {
		appendTimingDiagnostic(out.Bag, pipelineID, timingPayload{
			Kind:    "pipeline",
			Path:    dir,
			TotalMS: float64(time.Since(started)) / float64(time.Millisecond),
		})
	}
	span.WithExtra("files", strconv.Itoa(len(files))).End("")
	return fileSet, out, nil
}

// ListTemplates returns the files CompileDir would compile, in order.
func ListTemplates(dir string, opts Options) ([]string, error) {
	return listTemplates(dir, opts.extensions())
}

// listTemplates walks dir and returns matching files sorted by path.
// Hidden directories are skipped.
func listTemplates(dir string, exts []string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(exts, strings.ToLower(filepath.Ext(p))) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	slices.Sort(paths)
	return paths, nil
}
