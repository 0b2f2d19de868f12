package project

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded kbind.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the kbind.toml layout.
type Config struct {
	Project    ProjectConfig    `toml:"project"`
	Compile    CompileConfig    `toml:"compile"`
	Directives DirectivesConfig `toml:"directives"`
	Cache      CacheConfig      `toml:"cache"`
}

type ProjectConfig struct {
	Name string `toml:"name"`
}

type CompileConfig struct {
	Root           string   `toml:"root"`
	Extensions     []string `toml:"extensions"`
	Jobs           int      `toml:"jobs"` // 0 = GOMAXPROCS
	MaxDiagnostics int      `toml:"max_diagnostics"`
	KeepWhitespace bool     `toml:"keep_whitespace"`
}

type DirectivesConfig struct {
	Custom []string `toml:"custom"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"` // empty = $XDG_CACHE_HOME/kbind
}

// Default returns the configuration used without a manifest.
func Default() Config {
	return Config{
		Compile: CompileConfig{
			Root:           ".",
			Extensions:     []string{".html"},
			MaxDiagnostics: 100,
		},
		Cache: CacheConfig{Enabled: true},
	}
}

// Load finds kbind.toml above startDir and decodes it. Returns ErrNoManifest
// when there is none.
func Load(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoManifest
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}

// LoadConfig decodes path on top of Default and validates it.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if !meta.IsDefined("project", "name") || strings.TrimSpace(cfg.Project.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [project].name", path)
	}
	if cfg.Compile.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [compile].jobs must not be negative", path)
	}
	for i, ext := range cfg.Compile.Extensions {
		if !strings.HasPrefix(ext, ".") {
			cfg.Compile.Extensions[i] = "." + ext
		}
	}
	return cfg, nil
}

// TemplateRoot returns the absolute directory holding templates.
func (m *Manifest) TemplateRoot() string {
	root := m.Config.Compile.Root
	if root == "" {
		root = "."
	}
	if filepath.IsAbs(root) {
		return root
	}
	return filepath.Join(m.Root, filepath.FromSlash(root))
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteNew creates dir/kbind.toml for a project called name. It refuses to
// overwrite an existing manifest.
func WriteNew(dir, name string) (string, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	cfg := Default()
	cfg.Project.Name = name
	cfg.Compile.Root = "templates"
	data, err := Encode(cfg)
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
		return "", err
	}
	return path, nil
}
