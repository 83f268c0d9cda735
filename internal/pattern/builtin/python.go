package builtin

import (
	"path/filepath"
	"strings"

	"github.com/benji-york/fend/internal/pattern"
	"github.com/benji-york/fend/internal/source"
)

// docstringOpeners are the quote forms a module docstring can start
// with, optionally behind r/b/u/f prefixes.
var docstringOpeners = []string{`"""`, `'''`, `"`, `'`}

// PythonDocstring flags Python modules that do not open with a module
// docstring. Purely textual: the first statement-looking line must be
// a string literal.
type PythonDocstring struct{}

func (PythonDocstring) Name() string        { return "python/docstring-required" }
func (PythonDocstring) Description() string { return "module is missing a docstring" }

func (p PythonDocstring) Detect(f *source.File) []pattern.Violation {
	if filepath.Ext(f.Path) != ".py" {
		return nil
	}

	for i, line := range f.Lines() {
		text, _ := source.SplitEOL(line)
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		// Shebang and encoding lines are comments, handled above;
		// "from __future__" imports may legally precede a docstring.
		if strings.HasPrefix(trimmed, "from __future__") {
			continue
		}
		if startsWithStringLiteral(trimmed) {
			return nil
		}
		return []pattern.Violation{
			pattern.NewViolation(p, f, i+1, "module is missing a docstring"),
		}
	}
	// Empty modules (e.g. __init__.py) need no docstring.
	return nil
}

func startsWithStringLiteral(s string) bool {
	s = strings.TrimLeft(s, "rbufRBUF")
	for _, opener := range docstringOpeners {
		if strings.HasPrefix(s, opener) {
			return true
		}
	}
	return false
}
