package textdiff

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pmezard/go-difflib/difflib"
)

// hintCutoff is the minimum rune-level similarity for a replaced line
// pair to receive intra-line hints. Below it the annotation would mark
// most of both lines and add nothing.
const hintCutoff = 0.75

// intralineHints annotates a delete/insert line pair with character
// markers: '^' under replaced runes, '-' under runes removed from the
// old line, '+' under runes added in the new line. Both results are ""
// when the lines are too dissimilar.
func intralineHints(oldLine, newLine string) (oldHint, newHint string) {
	oldRunes := explode(oldLine)
	newRunes := explode(newLine)

	matcher := difflib.NewMatcher(oldRunes, newRunes)
	if matcher.Ratio() < hintCutoff {
		return "", ""
	}

	oldTags := make([]byte, len(oldRunes))
	newTags := make([]byte, len(newRunes))
	for i := range oldTags {
		oldTags[i] = ' '
	}
	for i := range newTags {
		newTags[i] = ' '
	}

	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'r':
			fillTags(oldTags, op.I1, op.I2, '^')
			fillTags(newTags, op.J1, op.J2, '^')
		case 'd':
			fillTags(oldTags, op.I1, op.I2, '-')
		case 'i':
			fillTags(newTags, op.J1, op.J2, '+')
		}
	}

	return renderTags(oldRunes, oldTags), renderTags(newRunes, newTags)
}

// explode splits a string into one-rune strings for rune-level matching.
func explode(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func fillTags(tags []byte, from, to int, tag byte) {
	for i := from; i < to; i++ {
		tags[i] = tag
	}
}

// renderTags turns per-rune tags into the hint string. Unmarked tabs
// are kept so the hint stays aligned under tab-indented lines, and
// marker characters are repeated to the display width of wide runes.
// Trailing blanks are trimmed; an all-blank result means no hint.
func renderTags(runes []string, tags []byte) string {
	var b strings.Builder
	marked := false
	for i, tag := range tags {
		r := runes[i]
		if tag == ' ' {
			if r == "\t" {
				b.WriteString("\t")
			} else {
				b.WriteString(strings.Repeat(" ", width(r)))
			}
			continue
		}
		if r == "\n" || r == "\r" {
			// Line endings never carry a visible marker column.
			continue
		}
		marked = true
		b.WriteString(strings.Repeat(string(tag), width(r)))
	}
	if !marked {
		return ""
	}
	return strings.TrimRight(b.String(), " \t")
}

func width(r string) int {
	w := runewidth.StringWidth(r)
	if w < 1 {
		w = 1
	}
	return w
}
