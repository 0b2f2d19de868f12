package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"kbind/internal/diag"
)

const listView = `<ul k-show="ready">
  <li k-for="item in items">{{ item }}</li>
</ul>`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func codes(bag *diag.Bag) []string {
	var out []string
	for _, d := range bag.Items() {
		out = append(out, d.Code.ID())
	}
	return out
}

func TestCompileSource(t *testing.T) {
	_, res, err := CompileSource(context.Background(), "list.html", []byte(listView), Options{Lint: true})
	if err != nil {
		t.Fatalf("CompileSource: %v", err)
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(res.Bag))
	}
	var got []string
	for _, b := range res.Plan.Bindings {
		got = append(got, b.Directive)
	}
	want := []string{"show", "for", "text"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bindings mismatch (-want +got):\n%s", diff)
	}
	if res.Lint.Directives != 2 || res.Lint.TextNodes != 1 {
		t.Errorf("unexpected lint summary: %+v", res.Lint)
	}
	if res.Timing == nil || len(res.Timing.Phases) != 3 {
		t.Errorf("expected parse, check and compile phases, got %+v", res.Timing)
	}
}

func TestCompileSourceLintOff(t *testing.T) {
	_, res, err := CompileSource(context.Background(), "x.html", []byte(`<p k-shwo="a"></p>`), Options{})
	if err != nil {
		t.Fatalf("CompileSource: %v", err)
	}
	if res.Bag.Len() != 0 {
		t.Errorf("checker should not run, got %v", codes(res.Bag))
	}
	if len(res.Plan.Bindings) != 0 {
		t.Errorf("unknown directive must not bind, got %+v", res.Plan.Bindings)
	}
}

func TestCompileDirOrderAndFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.html"), listView)
	writeFile(t, filepath.Join(dir, "a.html"), `<p k-text="msg"></p>`)
	writeFile(t, filepath.Join(dir, "nested", "c.HTML"), `<i>{{ x }}</i>`)
	writeFile(t, filepath.Join(dir, "notes.txt"), `<p k-text="msg"></p>`)
	writeFile(t, filepath.Join(dir, ".hidden", "d.html"), `<p k-text="msg"></p>`)

	_, res, err := CompileDir(context.Background(), dir, Options{Jobs: 2, Lint: true})
	if err != nil {
		t.Fatalf("CompileDir: %v", err)
	}
	var got []string
	for _, f := range res.Files {
		rel, _ := filepath.Rel(dir, f.Path)
		got = append(got, filepath.ToSlash(rel))
	}
	want := []string{"a.html", "b.html", "nested/c.HTML"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	if res.HasErrors() {
		t.Errorf("unexpected errors")
	}
}

func TestCompileDirReportsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ok.html"), listView)
	if err := os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "broken.html")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	fs, res, err := CompileDir(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("CompileDir: %v", err)
	}
	if len(res.Files) != 1 {
		t.Fatalf("expected one compiled file, got %d", len(res.Files))
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.IOLoadFileError {
		t.Fatalf("expected a load error, got %v", codes(res.Bag))
	}
	if got := fs.Get(items[0].Primary.File).Path; filepath.Base(got) != "broken.html" {
		t.Errorf("load error points at %q", got)
	}
	if !res.HasErrors() {
		t.Errorf("HasErrors must include pipeline diagnostics")
	}
}

func TestCompileDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.html"), listView)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := CompileDir(ctx, dir, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPlanCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "view.html")
	writeFile(t, path, `<p k-shwo="ready">{{ title }}</p>`)

	cache, err := OpenPlanCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("OpenPlanCache: %v", err)
	}
	opts := Options{Lint: true, Cache: cache}

	fs1, first, err := CompileFile(context.Background(), path, opts)
	if err != nil {
		t.Fatalf("first compile: %v", err)
	}
	if first.Cached {
		t.Fatalf("first compile must miss the cache")
	}
	fs2, second, err := CompileFile(context.Background(), path, opts)
	if err != nil {
		t.Fatalf("second compile: %v", err)
	}
	if !second.Cached {
		t.Fatalf("second compile must hit the cache")
	}
	if diff := cmp.Diff(first.Plan, second.Plan, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("cached plan mismatch (-first +second):\n%s", diff)
	}
	want := diag.FormatShort(first.Bag.Items(), fs1, true)
	got := diag.FormatShort(second.Bag.Items(), fs2, true)
	if want != got {
		t.Errorf("cached diagnostics differ:\nfirst:\n%s\nsecond:\n%s", want, got)
	}

	// другие опции дают другой ключ
	_, third, err := CompileFile(context.Background(), path, Options{Lint: false, Cache: cache})
	if err != nil {
		t.Fatalf("third compile: %v", err)
	}
	if third.Cached {
		t.Errorf("changed options must miss the cache")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	_, fourth, err := CompileFile(context.Background(), path, opts)
	if err != nil {
		t.Fatalf("fourth compile: %v", err)
	}
	if fourth.Cached {
		t.Errorf("DropAll must empty the cache")
	}
}

func TestTimingsDiagnostic(t *testing.T) {
	_, res, err := CompileSource(context.Background(), "t.html", []byte(listView), Options{Timings: true, MaxDiagnostics: 1})
	if err != nil {
		t.Fatalf("CompileSource: %v", err)
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.ObsTimings {
		t.Fatalf("expected a timings diagnostic, got %v", codes(res.Bag))
	}
	if len(items[0].Notes) != 1 || items[0].Notes[0].Msg[0] != '{' {
		t.Errorf("timings note must carry JSON, got %+v", items[0].Notes)
	}
}

func TestProgressEvents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.html"), listView)
	writeFile(t, filepath.Join(dir, "b.html"), `<p k-if="x"><b k-text="y"></b></p>`)

	var (
		mu   sync.Mutex
		last = map[string]Status{}
	)
	sink := SinkFunc(func(evt Event) {
		mu.Lock()
		defer mu.Unlock()
		last[filepath.Base(evt.File)] = evt.Status
	})
	_, _, err := CompileDir(context.Background(), dir, Options{Progress: sink, Lint: true})
	if err != nil {
		t.Fatalf("CompileDir: %v", err)
	}
	want := map[string]Status{"a.html": StatusDone, "b.html": StatusDone}
	if diff := cmp.Diff(want, last); diff != "" {
		t.Errorf("final statuses mismatch (-want +got):\n%s", diff)
	}
}

func TestListTemplatesMissingDir(t *testing.T) {
	_, err := listTemplates(filepath.Join(t.TempDir(), "nope"), []string{".html"})
	if err == nil {
		t.Fatalf("expected an error for a missing directory")
	}
}

