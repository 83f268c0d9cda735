package suppress

import (
	"strings"

	"github.com/benji-york/fend/internal/source"
)

// Inline marker spellings. Markers live inside comments, or any text;
// the engine is language-agnostic. They apply to their own line:
//
//	x = compute()  # fend:ignore
//	y = legacy()   # fend:ignore=trailing-whitespace,long-line
//
// A file-scope marker anywhere in the file disables patterns for the
// whole file:
//
//	# fend:ignore-file
//	# fend:ignore-file=make/missing-required-target
const (
	markerLocation = "fend:ignore"
	markerFile     = "fend:ignore-file"
)

// ExtractInline scans a file's lines for inline markers and returns
// the equivalent directives, with Path set to the given path. Lines
// are 1-based, matching Violation line numbers.
func ExtractInline(path string, content []byte) []Directive {
	var out []Directive

	for i, line := range source.SplitLines(content) {
		idx := strings.Index(line, markerLocation)
		if idx < 0 {
			continue
		}
		rest := line[idx+len(markerLocation):]

		scope := ScopeLocation
		if strings.HasPrefix(rest, "-file") {
			scope = ScopeFile
			rest = rest[len("-file"):]
		}

		for _, name := range markerPatterns(rest) {
			d := Directive{Scope: scope, Pattern: name, Path: path}
			if scope == ScopeLocation {
				d.Line = i + 1
			}
			out = append(out, d)
		}
	}
	return out
}

// markerPatterns parses the optional "=a,b,c" tail of a marker. A bare
// marker means the wildcard.
func markerPatterns(rest string) []string {
	if !strings.HasPrefix(rest, "=") {
		return []string{Wildcard}
	}
	tail := rest[1:]
	// The pattern list ends at the first whitespace.
	if cut := strings.IndexAny(tail, " \t\r\n"); cut >= 0 {
		tail = tail[:cut]
	}

	var names []string
	for _, name := range strings.Split(tail, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return []string{Wildcard}
	}
	return names
}
