// Package config loads the fend.toml project manifest. The manifest is
// discovered by walking up from the start directory; a project without
// one runs with defaults (all patterns, no ignores).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/benji-york/fend/internal/pattern"
	"github.com/benji-york/fend/internal/suppress"
)

// ManifestName is the file fend looks for.
const ManifestName = "fend.toml"

// ErrInvalid marks configuration errors. They are fatal: a run never
// proceeds with a manifest it could not fully understand.
var ErrInvalid = errors.New("invalid configuration")

// Config is the loaded project configuration.
type Config struct {
	// Path is the manifest location, empty when none was found.
	Path string
	// Root is the project root: the manifest's directory, or the start
	// directory when no manifest exists. Ignore paths and reported
	// violation paths are relative to it.
	Root string

	Project  ProjectConfig
	Patterns PatternsConfig
	Ignore   []IgnoreEntry
}

// ProjectConfig is the [project] table.
type ProjectConfig struct {
	Name string `toml:"name"`
}

// PatternsConfig is the [patterns] table: which patterns run and how.
type PatternsConfig struct {
	// Enable lists individual pattern names. Empty together with Sets
	// means all registered patterns.
	Enable []string `toml:"enable"`
	// Sets lists pattern set names; each resolves to its latest
	// version unless pinned.
	Sets []string `toml:"sets"`
	// Pin maps set name to the version a project stays on.
	Pin map[string]int `toml:"pin"`
	// Jobs caps scan parallelism; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs"`
}

// IgnoreEntry is one [[ignore]] table: a suppression directive in
// manifest form.
type IgnoreEntry struct {
	// Scope is "project", "file" or "location".
	Scope string `toml:"scope"`
	// Pattern is a pattern name; empty or "*" suppresses everything in
	// scope.
	Pattern string `toml:"pattern"`
	// Path is required for file and location scopes; doublestar globs
	// are allowed, relative to the project root.
	Path string `toml:"path"`
	// Line is required for location scope, 1-based.
	Line int `toml:"line"`
}

type fileConfig struct {
	Project  ProjectConfig  `toml:"project"`
	Patterns PatternsConfig `toml:"patterns"`
	Ignore   []IgnoreEntry  `toml:"ignore"`
}

// Find walks up from startDir looking for the manifest.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load discovers and parses the manifest for startDir. When no manifest
// exists the returned Config carries defaults with Root set to the
// absolute start directory.
func Load(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		root, err := filepath.Abs(startDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve start directory: %w", err)
		}
		return &Config{Root: root}, nil
	}
	return LoadFile(path)
}

// LoadFile parses and validates one manifest file.
func LoadFile(path string) (*Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %v: %w", path, err, ErrInvalid)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s: %w", path, undecoded[0].String(), ErrInvalid)
	}
	if meta.IsDefined("project") {
		if strings.TrimSpace(raw.Project.Name) == "" {
			return nil, fmt.Errorf("%s: missing [project].name: %w", path, ErrInvalid)
		}
	}

	cfg := &Config{
		Path:     path,
		Root:     filepath.Dir(path),
		Project:  raw.Project,
		Patterns: raw.Patterns,
		Ignore:   raw.Ignore,
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Patterns.Jobs < 0 {
		return fmt.Errorf("%s: [patterns].jobs must not be negative: %w", c.Path, ErrInvalid)
	}
	for set, version := range c.Patterns.Pin {
		if version < 1 {
			return fmt.Errorf("%s: [patterns.pin] %s = %d: versions start at 1: %w",
				c.Path, set, version, ErrInvalid)
		}
	}
	for i, entry := range c.Ignore {
		switch entry.Scope {
		case "project":
			// Path and Line are meaningless project-wide.
			if entry.Path != "" || entry.Line != 0 {
				return fmt.Errorf("%s: [[ignore]] #%d: project scope takes no path or line: %w",
					c.Path, i+1, ErrInvalid)
			}
		case "file":
			if entry.Path == "" {
				return fmt.Errorf("%s: [[ignore]] #%d: file scope requires a path: %w",
					c.Path, i+1, ErrInvalid)
			}
			if entry.Line != 0 {
				return fmt.Errorf("%s: [[ignore]] #%d: file scope takes no line: %w",
					c.Path, i+1, ErrInvalid)
			}
		case "location":
			if entry.Path == "" || entry.Line < 1 {
				return fmt.Errorf("%s: [[ignore]] #%d: location scope requires a path and a 1-based line: %w",
					c.Path, i+1, ErrInvalid)
			}
		default:
			return fmt.Errorf("%s: [[ignore]] #%d: unknown scope %q: %w",
				c.Path, i+1, entry.Scope, ErrInvalid)
		}
	}
	return nil
}

// Directives converts the [[ignore]] entries into suppression
// directives. Config has already validated them.
func (c *Config) Directives() []suppress.Directive {
	out := make([]suppress.Directive, 0, len(c.Ignore))
	for _, entry := range c.Ignore {
		d := suppress.Directive{
			Pattern: entry.Pattern,
			Path:    entry.Path,
			Line:    entry.Line,
		}
		if d.Pattern == "" {
			d.Pattern = suppress.Wildcard
		}
		switch entry.Scope {
		case "project":
			d.Scope = suppress.ScopeProject
		case "file":
			d.Scope = suppress.ScopeFile
		case "location":
			d.Scope = suppress.ScopeLocation
		}
		out = append(out, d)
	}
	return out
}

// Request builds the pattern selection request from the manifest. An
// empty selection means everything registered.
func (c *Config) Request() pattern.Request {
	return pattern.Request{
		Names: c.Patterns.Enable,
		Sets:  c.Patterns.Sets,
		Pins:  c.Patterns.Pin,
		All:   len(c.Patterns.Enable) == 0 && len(c.Patterns.Sets) == 0,
	}
}
