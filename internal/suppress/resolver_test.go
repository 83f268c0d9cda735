package suppress

import "testing"

func known(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(n string) bool { return set[n] }
}

func TestDefaultEnabled(t *testing.T) {
	r := NewResolver(nil, known("trailing-whitespace"))
	if r.IsSuppressed("trailing-whitespace", "src/a.py", 1) {
		t.Error("no directives: nothing may be suppressed")
	}
}

func TestProjectScope(t *testing.T) {
	r := NewResolver([]Directive{
		{Scope: ScopeProject, Pattern: "trailing-whitespace"},
	}, known("trailing-whitespace", "other"))

	if !r.IsSuppressed("trailing-whitespace", "any/file.py", 42) {
		t.Error("project directive must suppress everywhere")
	}
	if r.IsSuppressed("other", "any/file.py", 42) {
		t.Error("project directive must not affect other patterns")
	}
}

func TestProjectWildcard(t *testing.T) {
	r := NewResolver([]Directive{
		{Scope: ScopeProject, Pattern: Wildcard},
	}, known("a", "b"))

	if !r.IsSuppressed("a", "f", 1) || !r.IsSuppressed("b", "g", 9) {
		t.Error("wildcard project directive must suppress every pattern")
	}
}

func TestFileScopeGlob(t *testing.T) {
	r := NewResolver([]Directive{
		{Scope: ScopeFile, Pattern: "tabs", Path: "legacy/**"},
	}, known("tabs"))

	cases := []struct {
		path string
		want bool
	}{
		{"legacy/old.py", true},
		{"legacy/deep/nested.py", true},
		{"src/new.py", false},
	}
	for _, tc := range cases {
		if got := r.IsSuppressed("tabs", tc.path, 1); got != tc.want {
			t.Errorf("IsSuppressed(tabs, %s) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestFileScopeExactPath(t *testing.T) {
	r := NewResolver([]Directive{
		{Scope: ScopeFile, Pattern: Wildcard, Path: "docs/readme.md"},
	}, nil)

	if !r.IsSuppressed("anything", "docs/readme.md", 3) {
		t.Error("exact path must match")
	}
	if r.IsSuppressed("anything", "docs/other.md", 3) {
		t.Error("different path must not match")
	}
}

func TestLocationScope(t *testing.T) {
	r := NewResolver([]Directive{
		{Scope: ScopeLocation, Pattern: "tabs", Path: "a.py", Line: 7},
	}, known("tabs"))

	if !r.IsSuppressed("tabs", "a.py", 7) {
		t.Error("location directive must suppress its line")
	}
	if r.IsSuppressed("tabs", "a.py", 8) {
		t.Error("location directive must not suppress other lines")
	}
	// Line 0 means "file granularity": location directives never apply.
	if r.FileSuppressed("tabs", "a.py") {
		t.Error("location directive must not suppress the whole file")
	}
}

func TestUnknownPatternWarnsNotFails(t *testing.T) {
	r := NewResolver([]Directive{
		{Scope: ScopeProject, Pattern: "removed-upstream"},
		{Scope: ScopeProject, Pattern: "real"},
	}, known("real"))

	warnings := r.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].Directive.Pattern != "removed-upstream" {
		t.Errorf("unexpected warning %+v", warnings[0])
	}
	// The stale directive still suppresses its (nonexistent) pattern
	// and the valid one keeps working.
	if !r.IsSuppressed("real", "f", 1) {
		t.Error("valid directive must still suppress")
	}
}

func TestSuppressionOnlyNarrows(t *testing.T) {
	// A location directive cannot re-enable what project scope turned
	// off: every tier answers "suppressed" independently.
	r := NewResolver([]Directive{
		{Scope: ScopeProject, Pattern: "tabs"},
		{Scope: ScopeLocation, Pattern: "tabs", Path: "a.py", Line: 1},
	}, known("tabs"))

	for line := 1; line <= 3; line++ {
		if !r.IsSuppressed("tabs", "a.py", line) {
			t.Errorf("line %d: project suppression must hold", line)
		}
	}
}
