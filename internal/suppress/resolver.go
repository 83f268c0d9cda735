package suppress

import (
	"log/slog"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Warning records a directive referencing a pattern name the registry
// does not know. Non-fatal: a project must be able to keep ignoring a
// pattern that was removed upstream.
type Warning struct {
	Directive Directive
	Message   string
}

// Resolver answers "is this pattern suppressed here?". It is built
// once per run from the loaded directive set and is read-only
// afterwards, so scan workers share it without locking.
type Resolver struct {
	project  []Directive
	file     []Directive
	location []Directive
	warnings []Warning
}

// NewResolver indexes directives by scope. known reports whether a
// pattern name exists in the registry; directives naming unknown
// patterns are kept (they still suppress nothing) and surfaced via
// Warnings. A nil known treats every name as known.
func NewResolver(directives []Directive, known func(string) bool) *Resolver {
	r := &Resolver{}
	for _, d := range directives {
		if known != nil && d.Pattern != Wildcard && !known(d.Pattern) {
			w := Warning{
				Directive: d,
				Message:   "ignore directive references unknown pattern " + d.Pattern,
			}
			r.warnings = append(r.warnings, w)
			slog.Warn("ignore directive references unknown pattern",
				"pattern", d.Pattern, "scope", d.Scope.String())
		}
		switch d.Scope {
		case ScopeProject:
			r.project = append(r.project, d)
		case ScopeFile:
			r.file = append(r.file, d)
		case ScopeLocation:
			r.location = append(r.location, d)
		}
	}
	return r
}

// Warnings returns configuration warnings gathered while indexing.
func (r *Resolver) Warnings() []Warning {
	return append([]Warning(nil), r.warnings...)
}

// IsSuppressed resolves the three-tier precedence for one (pattern,
// file, line) triple: project-wide ignores win over file-wide ones,
// which win over location ignores; the default is enabled. line 0
// asks at file granularity (before detection has line numbers) and
// therefore never matches location directives.
func (r *Resolver) IsSuppressed(patternName, path string, line int) bool {
	for _, d := range r.project {
		if d.matches(patternName) {
			return true
		}
	}
	for _, d := range r.file {
		if d.matches(patternName) && r.pathMatches(d.Path, path) {
			return true
		}
	}
	if line > 0 {
		for _, d := range r.location {
			if d.matches(patternName) && d.Line == line && r.pathMatches(d.Path, path) {
				return true
			}
		}
	}
	return false
}

// FileSuppressed reports whether the pattern is suppressed for the
// whole file (project or file scope). The scanner uses it to skip
// detection entirely; location directives still require running the
// pattern and filtering its violations.
func (r *Resolver) FileSuppressed(patternName, path string) bool {
	return r.IsSuppressed(patternName, path, 0)
}

// pathMatches compares a directive glob against a slash-normalized
// path. A directive with an exact path also matches; bad globs match
// nothing.
func (r *Resolver) pathMatches(glob, path string) bool {
	path = filepath.ToSlash(path)
	glob = filepath.ToSlash(glob)
	if glob == path {
		return true
	}
	ok, err := doublestar.Match(glob, path)
	if err != nil {
		return false
	}
	return ok
}
