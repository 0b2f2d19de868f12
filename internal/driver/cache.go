package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"kbind/internal/check"
	"kbind/internal/compiler"
	"kbind/internal/diag"
	"kbind/internal/plan"
	"kbind/internal/project"
	"kbind/internal/source"
)

// Current schema version - increment when CachedPlan format changes
const planCacheSchemaVersion uint16 = 1

// PlanCache stores compiled plans on disk keyed by template content and
// compile options. Thread-safe for concurrent access.
type PlanCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedPlan is the on-disk record for one template.
type CachedPlan struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path        string
	Plan        *plan.Plan
	Stats       compiler.Stats
	Lint        check.Summary
	Diagnostics []CachedDiagnostic
}

// CachedDiagnostic is a diagnostic with file-relative spans. FileIDs are not
// stable between runs, so only offsets are stored.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Notes    []CachedNote
}

type CachedNote struct {
	Start uint32
	End   uint32
	Msg   string
}

// DefaultCacheDir returns $XDG_CACHE_HOME/kbind or ~/.cache/kbind.
func DefaultCacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "kbind"), nil
}

// OpenPlanCache opens the cache rooted at dir, creating it if needed. An
// empty dir selects DefaultCacheDir.
func OpenPlanCache(dir string) (*PlanCache, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultCacheDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &PlanCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *PlanCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *PlanCache) pathFor(key project.Digest) string {
	hexKey := key.Hex()
	// подкаталог по первым двум символам, чтобы не держать тысячи файлов в одном месте
	return filepath.Join(c.dir, "plans", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the cache.
func (c *PlanCache) Put(key project.Digest, payload *CachedPlan) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = planCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry or one written by another schema
// version is a miss, not an error.
func (c *PlanCache) Get(key project.Digest, out *CachedPlan) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close() //nolint:errcheck

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cached plan: %w", err)
	}
	if out.Schema != planCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll removes every cached plan.
func (c *PlanCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог, чтобы параллельный Get не увидел полуудалённое дерево
	plans := filepath.Join(c.dir, "plans")
	old := plans + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(plans, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

func cacheKey(file *source.File, opts Options) project.Digest {
	return project.Combine(project.Digest(file.Hash), opts.fingerprint())
}

func toCached(items []*diag.Diagnostic) []CachedDiagnostic {
	out := make([]CachedDiagnostic, 0, len(items))
	for _, d := range items {
		if d.Code == diag.ObsTimings || d.Code == diag.IOCacheError {
			continue
		}
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		out = append(out, cd)
	}
	return out
}

func fromCached(file source.FileID, items []CachedDiagnostic, bag *diag.Bag) {
	for _, cd := range items {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code),
			source.Span{File: file, Start: cd.Start, End: cd.End}, cd.Message)
		for _, n := range cd.Notes {
			d.WithNote(source.Span{File: file, Start: n.Start, End: n.End}, n.Msg)
		}
		bag.Add(d)
	}
}

// rebind points cached binding spans at the current FileID.
func rebind(p *plan.Plan, file source.FileID) {
	for i := range p.Bindings {
		p.Bindings[i].Span.File = file
	}
}
