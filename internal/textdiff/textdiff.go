// Package textdiff computes line-oriented diffs between original and
// fixed file content and renders them in the classic differ format:
// two-space context lines, "- " removals, "+ " additions, and advisory
// "? " hint lines marking the changed character spans inside a
// near-identical line pair.
//
// The edit script is lossless: Original() and Fixed() rebuild both
// inputs byte for byte. Hints are presentation only and never affect
// reconstruction.
package textdiff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/benji-york/fend/internal/source"
)

// Op is the kind of a single line edit.
type Op uint8

const (
	// OpEqual is a line present in both versions.
	OpEqual Op = iota
	// OpDelete is a line present only in the original.
	OpDelete
	// OpInsert is a line present only in the fixed version.
	OpInsert
)

func (op Op) String() string {
	switch op {
	case OpEqual:
		return "equal"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	}
	return "unknown"
}

// Edit is one line-level record of the diff. Line keeps its trailing
// newline when the source had one. Hint, when non-empty, is the
// character-level annotation rendered on a "? " line under this edit.
type Edit struct {
	Op   Op
	Line string
	Hint string
}

// Diff is an ordered edit script between two versions of one file.
type Diff struct {
	Edits []Edit
}

// Empty reports whether the diff contains no changes.
func (d Diff) Empty() bool {
	for _, e := range d.Edits {
		if e.Op != OpEqual {
			return false
		}
	}
	return true
}

// Compute diffs original against fixed using a longest-common-
// subsequence line alignment. Replaced line groups of equal size are
// paired index-wise and annotated with intra-line hints when the pair
// is similar enough to make the annotation readable.
func Compute(original, fixed []byte) Diff {
	a := source.SplitLines(original)
	b := source.SplitLines(fixed)

	matcher := difflib.NewMatcher(a, b)
	var edits []Edit

	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			for _, line := range a[op.I1:op.I2] {
				edits = append(edits, Edit{Op: OpEqual, Line: line})
			}
		case 'd':
			for _, line := range a[op.I1:op.I2] {
				edits = append(edits, Edit{Op: OpDelete, Line: line})
			}
		case 'i':
			for _, line := range b[op.J1:op.J2] {
				edits = append(edits, Edit{Op: OpInsert, Line: line})
			}
		case 'r':
			edits = append(edits, replaceEdits(a[op.I1:op.I2], b[op.J1:op.J2])...)
		}
	}
	return Diff{Edits: edits}
}

// replaceEdits renders a replace group. Same-sized groups become
// interleaved -/+ pairs with hints; uneven groups fall back to all
// removals followed by all additions.
func replaceEdits(removed, added []string) []Edit {
	if len(removed) != len(added) {
		out := make([]Edit, 0, len(removed)+len(added))
		for _, line := range removed {
			out = append(out, Edit{Op: OpDelete, Line: line})
		}
		for _, line := range added {
			out = append(out, Edit{Op: OpInsert, Line: line})
		}
		return out
	}

	out := make([]Edit, 0, 2*len(removed))
	for i := range removed {
		oldHint, newHint := intralineHints(removed[i], added[i])
		out = append(out,
			Edit{Op: OpDelete, Line: removed[i], Hint: oldHint},
			Edit{Op: OpInsert, Line: added[i], Hint: newHint},
		)
	}
	return out
}

// Original rebuilds the pre-fix content from the edit script.
func (d Diff) Original() []byte {
	var lines []string
	for _, e := range d.Edits {
		if e.Op == OpEqual || e.Op == OpDelete {
			lines = append(lines, e.Line)
		}
	}
	return source.JoinLines(lines)
}

// Fixed rebuilds the post-fix content from the edit script.
func (d Diff) Fixed() []byte {
	var lines []string
	for _, e := range d.Edits {
		if e.Op == OpEqual || e.Op == OpInsert {
			lines = append(lines, e.Line)
		}
	}
	return source.JoinLines(lines)
}

// Render produces the human-readable annotated view. Every line of the
// output ends in a newline even when the underlying content's final
// line did not, so hint lines always align under their subject.
func (d Diff) Render() string {
	var b strings.Builder
	for _, e := range d.Edits {
		switch e.Op {
		case OpEqual:
			b.WriteString("  ")
		case OpDelete:
			b.WriteString("- ")
		case OpInsert:
			b.WriteString("+ ")
		}
		text := e.Line
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		b.WriteString(text)
		if e.Hint != "" {
			b.WriteString("? ")
			b.WriteString(e.Hint)
			b.WriteString("\n")
		}
	}
	return b.String()
}
