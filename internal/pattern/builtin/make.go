package builtin

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/benji-york/fend/internal/pattern"
	"github.com/benji-york/fend/internal/source"
)

// requiredTargets are the targets every Makefile should expose, in
// reporting order.
var requiredTargets = []string{"build", "check", "clean", "lint", "test"}

// targetRe matches a rule line: an unindented target name followed by
// a colon that is not part of a ":=" assignment.
var targetRe = regexp.MustCompile(`^([^\s:=#]+):($|[^=].*$)`)

// isMakefile reports whether the path looks like a make input.
func isMakefile(path string) bool {
	base := filepath.Base(path)
	switch base {
	case "Makefile", "makefile", "GNUmakefile":
		return true
	}
	return filepath.Ext(base) == ".mk"
}

// extractTargets returns the rule targets defined in a Makefile, in
// order of appearance.
func extractTargets(content []byte) []string {
	var targets []string
	for _, line := range source.SplitLines(content) {
		text, _ := source.SplitEOL(line)
		if m := targetRe.FindStringSubmatch(text); m != nil {
			targets = append(targets, m[1])
		}
	}
	return targets
}

// MakeRequiredTargets flags Makefiles missing the conventional
// entry-point targets.
type MakeRequiredTargets struct{}

func (MakeRequiredTargets) Name() string        { return "make/missing-required-target" }
func (MakeRequiredTargets) Description() string { return "Makefile is missing a required target" }

func (p MakeRequiredTargets) Detect(f *source.File) []pattern.Violation {
	if !isMakefile(f.Path) {
		return nil
	}
	defined := make(map[string]bool)
	for _, t := range extractTargets(f.Content) {
		defined[t] = true
	}

	var out []pattern.Violation
	for _, required := range requiredTargets {
		if !defined[required] {
			out = append(out, pattern.NewViolation(p, f, 1,
				fmt.Sprintf("missing required target in Makefile: %s", required)))
		}
	}
	return out
}

// callRe matches a non-nested $(call ...) invocation.
var callRe = regexp.MustCompile(`\$\(call\s[^()]*\)`)

// spacedCommaRe matches a comma followed by horizontal whitespace.
var spacedCommaRe = regexp.MustCompile(`,[ \t]+`)

// MakeSpaceInCall flags superfluous whitespace after commas inside
// $(call ...) invocations, where the space becomes part of the
// argument and is a classic source of subtle breakage.
type MakeSpaceInCall struct{}

func (MakeSpaceInCall) Name() string        { return "make/space-in-call" }
func (MakeSpaceInCall) Description() string { return "superfluous space after comma in $(call)" }

func (p MakeSpaceInCall) Detect(f *source.File) []pattern.Violation {
	if !isMakefile(f.Path) {
		return nil
	}
	var out []pattern.Violation
	for i, line := range f.Lines() {
		for _, call := range callRe.FindAllString(line, -1) {
			if spacedCommaRe.MatchString(call) {
				out = append(out, pattern.NewViolation(p, f, i+1,
					"superfluous space after comma in $(call)"))
				break
			}
		}
	}
	return out
}

func (MakeSpaceInCall) Fix(content []byte) ([]byte, bool) {
	lines := source.SplitLines(content)
	changed := false
	for i, line := range lines {
		fixed := callRe.ReplaceAllStringFunc(line, func(call string) string {
			return spacedCommaRe.ReplaceAllString(call, ",")
		})
		if fixed != line {
			lines[i] = fixed
			changed = true
		}
	}
	if !changed {
		return content, false
	}
	return source.JoinLines(lines), true
}
