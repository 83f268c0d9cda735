// Package builtin ships the stock patterns and the versioned sets that
// bundle them. Everything here goes through the same registry and
// plugin contract as user-supplied patterns.
package builtin

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/benji-york/fend/internal/pattern"
	"github.com/benji-york/fend/internal/source"
)

// TrailingWhitespace flags lines ending in spaces or tabs.
type TrailingWhitespace struct{}

func (TrailingWhitespace) Name() string        { return "trailing-whitespace" }
func (TrailingWhitespace) Description() string { return "trailing whitespace" }

func (p TrailingWhitespace) Detect(f *source.File) []pattern.Violation {
	var out []pattern.Violation
	for i, line := range f.Lines() {
		text, _ := source.SplitEOL(line)
		if strings.TrimRight(text, " \t") != text {
			out = append(out, pattern.NewViolation(p, f, i+1, "trailing whitespace"))
		}
	}
	return out
}

func (TrailingWhitespace) Fix(content []byte) ([]byte, bool) {
	lines := source.SplitLines(content)
	changed := false
	for i, line := range lines {
		text, eol := source.SplitEOL(line)
		trimmed := strings.TrimRight(text, " \t")
		if trimmed != text {
			lines[i] = trimmed + eol
			changed = true
		}
	}
	if !changed {
		return content, false
	}
	return source.JoinLines(lines), true
}

// MissingFinalNewline flags files whose last line has no line ending.
type MissingFinalNewline struct{}

func (MissingFinalNewline) Name() string        { return "missing-final-newline" }
func (MissingFinalNewline) Description() string { return "file does not end with a newline" }

func (p MissingFinalNewline) Detect(f *source.File) []pattern.Violation {
	if len(f.Content) == 0 || f.Content[len(f.Content)-1] == '\n' {
		return nil
	}
	return []pattern.Violation{
		pattern.NewViolation(p, f, f.LineCount(), "file does not end with a newline"),
	}
}

func (MissingFinalNewline) Fix(content []byte) ([]byte, bool) {
	if len(content) == 0 || content[len(content)-1] == '\n' {
		return content, false
	}
	return append(append([]byte(nil), content...), dominantEOL(content)...), true
}

// dominantEOL picks the line ending to append, following the file's
// first one so CRLF files stay consistently CRLF.
func dominantEOL(content []byte) []byte {
	for i, b := range content {
		if b == '\n' {
			if i > 0 && content[i-1] == '\r' {
				return []byte("\r\n")
			}
			return []byte("\n")
		}
	}
	return []byte("\n")
}

// UnicodeNFC flags lines containing text that is not in Unicode
// Normalization Form C, which trips up tools doing byte-wise
// comparisons of visually identical strings.
type UnicodeNFC struct{}

func (UnicodeNFC) Name() string        { return "unicode-nfc" }
func (UnicodeNFC) Description() string { return "text is not NFC-normalized" }

func (p UnicodeNFC) Detect(f *source.File) []pattern.Violation {
	var out []pattern.Violation
	for i, line := range f.Lines() {
		if !norm.NFC.IsNormalString(line) {
			out = append(out, pattern.NewViolation(p, f, i+1, "text is not NFC-normalized"))
		}
	}
	return out
}

func (UnicodeNFC) Fix(content []byte) ([]byte, bool) {
	if norm.NFC.IsNormal(content) {
		return content, false
	}
	return norm.NFC.Bytes(content), true
}
