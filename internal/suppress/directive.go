// Package suppress resolves ignore directives: configuration entries
// and inline markers that disable a pattern at project, file, or
// location scope. Suppression only ever narrows what gets reported; no
// directive can re-enable a pattern disabled at a coarser scope.
package suppress

import "fmt"

// Scope is the reach of an ignore directive.
type Scope uint8

const (
	// ScopeProject disables a pattern for the whole project.
	ScopeProject Scope = iota
	// ScopeFile disables a pattern for files matching a path glob.
	ScopeFile
	// ScopeLocation disables a pattern at one file and line.
	ScopeLocation
)

func (s Scope) String() string {
	switch s {
	case ScopeProject:
		return "project"
	case ScopeFile:
		return "file"
	case ScopeLocation:
		return "location"
	}
	return "unknown"
}

// Wildcard matches every pattern name in a directive.
const Wildcard = "*"

// Directive is one read-only ignore entry. Pattern may be Wildcard.
// Path is a slash-separated glob relative to the project root (file
// and location scopes only); Line is 1-based (location scope only).
type Directive struct {
	Scope   Scope
	Pattern string
	Path    string
	Line    int
}

func (d Directive) String() string {
	switch d.Scope {
	case ScopeProject:
		return fmt.Sprintf("ignore %s (project)", d.Pattern)
	case ScopeFile:
		return fmt.Sprintf("ignore %s in %s", d.Pattern, d.Path)
	default:
		return fmt.Sprintf("ignore %s at %s:%d", d.Pattern, d.Path, d.Line)
	}
}

// matches reports whether the directive names the given pattern.
func (d Directive) matches(patternName string) bool {
	return d.Pattern == Wildcard || d.Pattern == patternName
}
