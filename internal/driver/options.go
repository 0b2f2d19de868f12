package driver

import (
	"slices"
	"strconv"

	"kbind/internal/project"
	"kbind/internal/trace"
)

// Options configures CompileFile and CompileDir.
type Options struct {
	MaxDiagnostics int
	Jobs           int // 0 = GOMAXPROCS
	KeepWhitespace bool
	Custom         []string // extra directive names
	Extensions     []string // directory scan filter, default ".html"
	Lint           bool     // run the checker
	Timings        bool     // attach an ObsTimings diagnostic per file
	Cache          *PlanCache
	Progress       ProgressSink
	Tracer         trace.Tracer
}

// OptionsFromConfig maps a manifest onto Options.
func OptionsFromConfig(cfg project.Config) Options {
	return Options{
		MaxDiagnostics: cfg.Compile.MaxDiagnostics,
		Jobs:           cfg.Compile.Jobs,
		KeepWhitespace: cfg.Compile.KeepWhitespace,
		Custom:         slices.Clone(cfg.Directives.Custom),
		Extensions:     slices.Clone(cfg.Compile.Extensions),
		Lint:           true,
	}
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return []string{".html"}
	}
	return o.Extensions
}

// fingerprint identifies every option that changes a plan or its diagnostics.
func (o Options) fingerprint() project.Digest {
	custom := slices.Clone(o.Custom)
	slices.Sort(custom)
	parts := []string{
		"schema=" + strconv.Itoa(int(planCacheSchemaVersion)),
		"ws=" + strconv.FormatBool(o.KeepWhitespace),
		"lint=" + strconv.FormatBool(o.Lint),
		"max=" + strconv.Itoa(o.MaxDiagnostics),
	}
	parts = append(parts, custom...)
	return project.HashStrings(parts...)
}

func (o Options) tracer() trace.Tracer {
	if o.Tracer == nil {
		return trace.Nop
	}
	return o.Tracer
}
