package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/benji-york/fend/internal/pattern"
)

var (
	pathColor    = color.New(color.FgCyan)
	errColor     = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	patternColor = color.New(color.Faint)
	removedColor = color.New(color.FgRed)
	addedColor   = color.New(color.FgGreen)
	hintColor    = color.New(color.FgYellow)
)

// RenderOptions controls the text rendering of a report.
type RenderOptions struct {
	// ShowDiffs prints the proposed fix for each violation as an
	// annotated diff block.
	ShowDiffs bool
	// Quiet suppresses warnings and the trailing summary line.
	Quiet bool
}

// Render writes the line-per-violation text format:
//
//	path:line message (pattern-name)
//
// followed, when requested, by the diff block. Degraded entries
// (pattern errors, unreadable files) are visually distinguished from
// genuine violations.
func (r *Report) Render(w io.Writer, opts RenderOptions) error {
	if !opts.Quiet {
		for _, warning := range r.Warnings {
			if _, err := warnColor.Fprintf(w, "warning: %s\n", warning.Message); err != nil {
				return err
			}
		}
	}

	seenDiff := make(map[DiffKey]bool)
	for _, v := range r.Violations {
		if err := renderViolation(w, v); err != nil {
			return err
		}
		if !opts.ShowDiffs {
			continue
		}
		key := DiffKey{Path: v.Path, Pattern: v.Pattern}
		if seenDiff[key] {
			continue
		}
		if d, ok := r.DiffFor(v); ok && !d.Empty() {
			seenDiff[key] = true
			if err := renderDiff(w, d.Render()); err != nil {
				return err
			}
		}
	}

	if !opts.Quiet {
		if err := renderSummary(w, r); err != nil {
			return err
		}
	}
	return nil
}

func renderViolation(w io.Writer, v pattern.Violation) error {
	location := v.Path
	if v.Line > 0 {
		location = fmt.Sprintf("%s:%d", v.Path, v.Line)
	}
	message := v.Message
	if v.Degraded() {
		message = errColor.Sprintf("%s: %s", v.Kind, v.Message)
	}
	_, err := fmt.Fprintf(w, "%s %s %s\n",
		pathColor.Sprint(location), message, patternColor.Sprintf("(%s)", v.Pattern))
	return err
}

// renderDiff colorizes a rendered diff block line by line.
func renderDiff(w io.Writer, block string) error {
	for _, line := range strings.SplitAfter(block, "\n") {
		if line == "" {
			continue
		}
		var err error
		switch line[0] {
		case '-':
			_, err = removedColor.Fprint(w, line)
		case '+':
			_, err = addedColor.Fprint(w, line)
		case '?':
			_, err = hintColor.Fprint(w, line)
		default:
			_, err = io.WriteString(w, line)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func renderSummary(w io.Writer, r *Report) error {
	genuine, degraded := r.Counts()
	if genuine == 0 && degraded == 0 {
		return nil
	}
	summary := fmt.Sprintf("%d violation(s)", genuine)
	if degraded > 0 {
		summary += errColor.Sprintf(", %d error(s)", degraded)
	}
	_, err := fmt.Fprintln(w, summary)
	return err
}
