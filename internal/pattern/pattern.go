// Package pattern defines the contract every enforcement pattern
// satisfies, the Violation value patterns produce, and the Registry
// that names patterns and bundles them into versioned sets.
package pattern

import (
	"fmt"

	"github.com/benji-york/fend/internal/source"
)

// Pattern is a named rule detecting one convention in file content.
//
// Implementations must be stateless: Detect may be called concurrently
// for different files. This is the only extension surface; built-in and
// user-supplied patterns are indistinguishable to the engine.
type Pattern interface {
	// Name returns the unique identifier, e.g. "trailing-whitespace".
	// Names must not contain spaces.
	Name() string

	// Description returns a one-line human-readable summary.
	Description() string

	// Detect reports every place in the file where the pattern's
	// condition is met. Returned violations carry 1-based line numbers.
	Detect(f *source.File) []Violation
}

// Fixer is the optional fix capability of a Pattern. Fix rewrites the
// whole content; the second result reports whether anything changed.
// Fixes must be pure: same content in, same content out.
type Fixer interface {
	Fix(content []byte) ([]byte, bool)
}

// Kind distinguishes genuine pattern violations from degraded entries
// the scanner synthesizes when a pattern or a file misbehaves.
type Kind uint8

const (
	// KindViolation is a pattern's condition being met.
	KindViolation Kind = iota
	// KindPatternError records a pattern whose Detect panicked.
	KindPatternError
	// KindIOError records a file that could not be read or written.
	KindIOError
)

func (k Kind) String() string {
	switch k {
	case KindViolation:
		return "violation"
	case KindPatternError:
		return "pattern-error"
	case KindIOError:
		return "io-error"
	}
	return "unknown"
}

// Violation is one reported instance of a pattern's condition at a
// location. Immutable value; ordering is decided by the report, not
// by producers.
type Violation struct {
	Pattern string
	Path    string
	Line    int // 1-based; 0 for whole-file conditions
	EndLine int // inclusive; 0 means same as Line
	Message string
	Kind    Kind
}

// NewViolation builds a violation for pattern p at the given line of f.
func NewViolation(p Pattern, f *source.File, line int, message string) Violation {
	return Violation{
		Pattern: p.Name(),
		Path:    f.Path,
		Line:    line,
		Message: message,
	}
}

// Range returns the inclusive line range the violation covers.
func (v Violation) Range() (start, end int) {
	start = v.Line
	end = v.EndLine
	if end < start {
		end = start
	}
	return start, end
}

// Degraded reports whether the entry is a synthesized error rather
// than a genuine pattern violation.
func (v Violation) Degraded() bool {
	return v.Kind != KindViolation
}

func (v Violation) String() string {
	return fmt.Sprintf("%s:%d %s (%s)", v.Path, v.Line, v.Message, v.Pattern)
}

// Validate checks the structural rules every pattern must obey before
// registration: non-empty space-free name and a single-line description
// of at most 80 characters.
func Validate(p Pattern) error {
	name := p.Name()
	if name == "" {
		return fmt.Errorf("pattern has empty name")
	}
	for _, r := range name {
		if r == ' ' {
			return fmt.Errorf("pattern name %q contains a space", name)
		}
	}
	desc := p.Description()
	if len(desc) > 80 {
		return fmt.Errorf("pattern %s: description exceeds 80 characters", name)
	}
	for _, r := range desc {
		if r == '\n' {
			return fmt.Errorf("pattern %s: description contains a newline", name)
		}
	}
	return nil
}
