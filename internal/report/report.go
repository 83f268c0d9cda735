// Package report aggregates the outcome of a check or fix run: the
// ordered violations, per-(file, pattern) diffs of proposed fixes, and
// any configuration warnings gathered along the way.
package report

import (
	"sort"

	"github.com/benji-york/fend/internal/pattern"
	"github.com/benji-york/fend/internal/suppress"
	"github.com/benji-york/fend/internal/textdiff"
)

// DiffKey identifies the diff a pattern proposes for one file.
type DiffKey struct {
	Path    string
	Pattern string
}

// Report is one run's externally visible result. Zero violations
// signals full compliance.
type Report struct {
	Violations []pattern.Violation
	Diffs      map[DiffKey]textdiff.Diff
	Warnings   []suppress.Warning

	// Unfixable counts genuine violations of patterns with no fix
	// capability observed during a fix run.
	Unfixable int
}

// New creates an empty report.
func New() *Report {
	return &Report{Diffs: make(map[DiffKey]textdiff.Diff)}
}

// Add appends violations.
func (r *Report) Add(violations ...pattern.Violation) {
	r.Violations = append(r.Violations, violations...)
}

// AddDiff records the diff a pattern proposes for a file.
func (r *Report) AddDiff(path, patternName string, d textdiff.Diff) {
	r.Diffs[DiffKey{Path: path, Pattern: patternName}] = d
}

// DiffFor returns the proposed diff for a violation, if any.
func (r *Report) DiffFor(v pattern.Violation) (textdiff.Diff, bool) {
	d, ok := r.Diffs[DiffKey{Path: v.Path, Pattern: v.Pattern}]
	return d, ok
}

// Sort orders violations by file path, then line, then pattern name.
// The order is total (message breaks remaining ties) so repeated runs
// over unchanged input render byte-identical output regardless of how
// many workers scanned.
func (r *Report) Sort() {
	sort.SliceStable(r.Violations, func(i, j int) bool {
		vi, vj := r.Violations[i], r.Violations[j]
		if vi.Path != vj.Path {
			return vi.Path < vj.Path
		}
		if vi.Line != vj.Line {
			return vi.Line < vj.Line
		}
		if vi.Pattern != vj.Pattern {
			return vi.Pattern < vj.Pattern
		}
		return vi.Message < vj.Message
	})
}

// Merge appends another report's content. Used by the scanner to fold
// per-file results together in deterministic file order.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
	for k, d := range other.Diffs {
		r.Diffs[k] = d
	}
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Unfixable += other.Unfixable
}

// HasViolations reports whether anything at all was found, degraded
// entries included.
func (r *Report) HasViolations() bool {
	return len(r.Violations) > 0
}

// Counts returns the number of genuine violations and degraded
// entries.
func (r *Report) Counts() (genuine, degraded int) {
	for _, v := range r.Violations {
		if v.Degraded() {
			degraded++
		} else {
			genuine++
		}
	}
	return genuine, degraded
}

// CheckExitCode implements check-mode exit semantics: zero violations
// means success.
func (r *Report) CheckExitCode() int {
	if r.HasViolations() {
		return 1
	}
	return 0
}

// FixExitCode implements fix-mode exit semantics: any unfixable
// violation remaining (or degraded entry) is a failure.
func (r *Report) FixExitCode() int {
	_, degraded := r.Counts()
	if r.Unfixable > 0 || degraded > 0 {
		return 1
	}
	return 0
}
