package builtin

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractTargets(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty file", "", nil},
		{"no targets", `x := "value"` + "\n", nil},
		{"target with deps", "x := \"foo\"\ncheck: test lint\n", []string{"check"}},
		{"several targets", "build:\n\tgo build\n\ntest:\n\tgo test\n", []string{"build", "test"}},
		{"comment is not a target", "# build: docs\nclean:\n", []string{"clean"}},
		{"indented lines skipped", "all:\n\techo done: yes\n", []string{"all"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := extractTargets([]byte(tc.content))
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("extractTargets(%q) = %v, want %v", tc.content, got, tc.want)
			}
		})
	}
}

func TestMakeRequiredTargets(t *testing.T) {
	p := MakeRequiredTargets{}

	complete := "build:\nlint:\ntest:\ncheck:\nclean:\n"
	if v := p.Detect(virtualFile(t, "Makefile", complete)); len(v) != 0 {
		t.Errorf("complete Makefile must pass, got %v", v)
	}

	v := p.Detect(virtualFile(t, "Makefile", "build:\ntest:\n"))
	if len(v) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(v), v)
	}
	// Reported in deterministic order.
	var missing []string
	for _, viol := range v {
		missing = append(missing, viol.Message)
	}
	joined := strings.Join(missing, "; ")
	for _, want := range []string{"check", "clean", "lint"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing report for target %s in %q", want, joined)
		}
	}
}

func TestMakeRequiredTargetsIgnoresNonMakefiles(t *testing.T) {
	if v := (MakeRequiredTargets{}).Detect(virtualFile(t, "main.go", "package main\n")); v != nil {
		t.Errorf("non-Makefile must be skipped, got %v", v)
	}
}

func TestMakeSpaceInCallDetect(t *testing.T) {
	p := MakeSpaceInCall{}

	content := "a := $(call fn,one,two)\n" +
		"b := $(call fn, one,  two)\n" +
		"c := plain, text\n"
	v := p.Detect(virtualFile(t, "rules.mk", content))
	if len(v) != 1 || v[0].Line != 2 {
		t.Fatalf("expected one violation at line 2, got %v", v)
	}
}

func TestMakeSpaceInCallFix(t *testing.T) {
	p := MakeSpaceInCall{}

	fixed, changed := p.Fix([]byte("x := $(call fn, a,  b)\ny := foo, bar\n"))
	if !changed {
		t.Fatal("expected change")
	}
	want := "x := $(call fn,a,b)\ny := foo, bar\n"
	if string(fixed) != want {
		t.Errorf("fix = %q, want %q", fixed, want)
	}

	if _, changed := p.Fix(fixed); changed {
		t.Error("second fix must be a no-op")
	}
}
