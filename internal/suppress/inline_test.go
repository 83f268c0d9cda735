package suppress

import (
	"reflect"
	"testing"
)

func TestExtractInlineLocation(t *testing.T) {
	content := []byte("clean line\nmessy line  # fend:ignore\n")

	got := ExtractInline("src/a.py", content)
	want := []Directive{
		{Scope: ScopeLocation, Pattern: Wildcard, Path: "src/a.py", Line: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractInline = %+v, want %+v", got, want)
	}
}

func TestExtractInlineNamedPatterns(t *testing.T) {
	content := []byte("x = 1  # fend:ignore=trailing-whitespace,long-line\n")

	got := ExtractInline("a.py", content)
	want := []Directive{
		{Scope: ScopeLocation, Pattern: "trailing-whitespace", Path: "a.py", Line: 1},
		{Scope: ScopeLocation, Pattern: "long-line", Path: "a.py", Line: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractInline = %+v, want %+v", got, want)
	}
}

func TestExtractInlineFileScope(t *testing.T) {
	content := []byte("# fend:ignore-file=make/missing-required-target\nall:\n")

	got := ExtractInline("Makefile", content)
	want := []Directive{
		{Scope: ScopeFile, Pattern: "make/missing-required-target", Path: "Makefile"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractInline = %+v, want %+v", got, want)
	}
}

func TestExtractInlineBareFileMarker(t *testing.T) {
	got := ExtractInline("gen.py", []byte("# generated; fend:ignore-file\n"))
	want := []Directive{
		{Scope: ScopeFile, Pattern: Wildcard, Path: "gen.py"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractInline = %+v, want %+v", got, want)
	}
}

func TestExtractInlineListEndsAtWhitespace(t *testing.T) {
	got := ExtractInline("a.py", []byte("x  # fend:ignore=tabs trailing text\n"))
	want := []Directive{
		{Scope: ScopeLocation, Pattern: "tabs", Path: "a.py", Line: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractInline = %+v, want %+v", got, want)
	}
}

func TestExtractInlineNoMarkers(t *testing.T) {
	if got := ExtractInline("a.py", []byte("nothing here\n")); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}
