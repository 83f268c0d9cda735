package builtin

import (
	"fmt"

	"github.com/benji-york/fend/internal/pattern"
)

// Register installs the stock patterns and sets into a registry. It is
// called once at startup on an explicitly constructed registry; there
// is no ambient global state.
func Register(r *pattern.Registry) error {
	patterns := []pattern.Pattern{
		TrailingWhitespace{},
		MissingFinalNewline{},
		UnicodeNFC{},
		MakeRequiredTargets{},
		MakeSpaceInCall{},
		PythonDocstring{},
	}
	for _, p := range patterns {
		if err := r.Register(p); err != nil {
			return fmt.Errorf("builtin: %w", err)
		}
	}

	sets := []struct {
		name    string
		version int
		members []string
	}{
		{"general", 1, []string{
			"trailing-whitespace",
			"missing-final-newline",
			"unicode-nfc",
		}},
		{"make", 1, []string{
			"make/missing-required-target",
			"make/space-in-call",
		}},
		{"python-library", 1, []string{
			"trailing-whitespace",
			"missing-final-newline",
			"unicode-nfc",
		}},
		// v2 adds the docstring rule; projects pin v1 until ready.
		{"python-library", 2, []string{
			"trailing-whitespace",
			"missing-final-newline",
			"unicode-nfc",
			"python/docstring-required",
		}},
	}
	for _, s := range sets {
		if err := r.RegisterSet(s.name, s.version, s.members); err != nil {
			return fmt.Errorf("builtin: set %s v%d: %w", s.name, s.version, err)
		}
	}
	return nil
}
