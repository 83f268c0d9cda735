package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/benji-york/fend/internal/suppress"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[project]\nname = \"demo\"\n")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok, err := Find(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("manifest not found from nested directory")
	}
	if filepath.Dir(path) != root {
		t.Errorf("found %s, want manifest in %s", path, root)
	}
}

func TestLoadWithoutManifestUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty", cfg.Path)
	}
	if cfg.Root != dir {
		t.Errorf("Root = %q, want %q", cfg.Root, dir)
	}
	if !cfg.Request().All {
		t.Error("default request must select all patterns")
	}
}

func TestLoadFullManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "demo"

[patterns]
enable = ["trailing-whitespace"]
sets = ["python-library"]
jobs = 4

[patterns.pin]
python-library = 1

[[ignore]]
scope = "project"
pattern = "unicode-nfc"

[[ignore]]
scope = "file"
pattern = "*"
path = "legacy/**"

[[ignore]]
scope = "location"
pattern = "trailing-whitespace"
path = "src/main.py"
line = 10
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Project.Name != "demo" || cfg.Patterns.Jobs != 4 {
		t.Errorf("cfg = %+v", cfg)
	}
	req := cfg.Request()
	if req.All {
		t.Error("explicit selection must not request all patterns")
	}
	if req.Pins["python-library"] != 1 {
		t.Errorf("pins = %v", req.Pins)
	}

	directives := cfg.Directives()
	if len(directives) != 3 {
		t.Fatalf("directives = %v", directives)
	}
	want := []suppress.Directive{
		{Scope: suppress.ScopeProject, Pattern: "unicode-nfc"},
		{Scope: suppress.ScopeFile, Pattern: suppress.Wildcard, Path: "legacy/**"},
		{Scope: suppress.ScopeLocation, Pattern: "trailing-whitespace", Path: "src/main.py", Line: 10},
	}
	for i, d := range directives {
		if d != want[i] {
			t.Errorf("directive %d = %+v, want %+v", i, d, want[i])
		}
	}
}

func TestLoadRejectsBadManifests(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"syntax error", "[project\n"},
		{"unknown key", "[project]\nname = \"x\"\nnope = 1\n"},
		{"project without name", "[project]\n"},
		{"negative jobs", "[patterns]\njobs = -1\n"},
		{"pin below one", "[patterns.pin]\ngeneral = 0\n"},
		{"unknown scope", "[[ignore]]\nscope = \"galaxy\"\n"},
		{"file scope without path", "[[ignore]]\nscope = \"file\"\n"},
		{"location without line", "[[ignore]]\nscope = \"location\"\npath = \"a.py\"\n"},
		{"project scope with path", "[[ignore]]\nscope = \"project\"\npath = \"a.py\"\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeManifest(t, dir, tc.content)
			_, err := Load(dir)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestBareIgnorePatternMeansWildcard(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[[ignore]]\nscope = \"file\"\npath = \"vendored/**\"\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Directives()[0].Pattern; got != suppress.Wildcard {
		t.Errorf("pattern = %q, want wildcard", got)
	}
}
