package builtin

import (
	"testing"

	"github.com/benji-york/fend/internal/pattern"
)

func TestRegisterInstallsPatternsAndSets(t *testing.T) {
	r := pattern.NewRegistry()
	if err := Register(r); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{
		"trailing-whitespace",
		"missing-final-newline",
		"unicode-nfc",
		"make/missing-required-target",
		"make/space-in-call",
		"python/docstring-required",
	} {
		if _, ok := r.Lookup(name); !ok {
			t.Errorf("pattern %s not registered", name)
		}
	}

	versions := r.SetVersions("python-library")
	if len(versions) != 2 {
		t.Fatalf("python-library versions = %v", versions)
	}
}

func TestRegisterTwiceFails(t *testing.T) {
	r := pattern.NewRegistry()
	if err := Register(r); err != nil {
		t.Fatal(err)
	}
	if err := Register(r); err == nil {
		t.Fatal("second Register must fail on duplicate names")
	}
}

func TestFixablePatternsImplementFixer(t *testing.T) {
	fixable := map[string]bool{
		"trailing-whitespace":          true,
		"missing-final-newline":        true,
		"unicode-nfc":                  true,
		"make/space-in-call":           true,
		"make/missing-required-target": false,
		"python/docstring-required":    false,
	}

	r := pattern.NewRegistry()
	if err := Register(r); err != nil {
		t.Fatal(err)
	}
	for name, want := range fixable {
		p, ok := r.Lookup(name)
		if !ok {
			t.Fatalf("pattern %s missing", name)
		}
		if _, got := p.(pattern.Fixer); got != want {
			t.Errorf("pattern %s: Fixer = %v, want %v", name, got, want)
		}
	}
}
