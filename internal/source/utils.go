package source

import (
	"path/filepath"
	"sort"
)

// SplitLines splits content into lines, each keeping its trailing '\n'
// (and '\r' for CRLF input). The final line is included even without a
// newline. An empty input yields an empty slice.
func SplitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	lines := make([]string, 0, 16)
	start := 0
	for i, b := range content {
		if b == '\n' {
			lines = append(lines, string(content[start:i+1]))
			start = i + 1
		}
	}
	if start < len(content) {
		lines = append(lines, string(content[start:]))
	}
	return lines
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string) []byte {
	total := 0
	for _, l := range lines {
		total += len(l)
	}
	out := make([]byte, 0, total)
	for _, l := range lines {
		out = append(out, l...)
	}
	return out
}

// SplitEOL separates a line into its text and line-ending parts.
// Recognizes "\n" and "\r\n"; a lone trailing "\r" stays with the text.
func SplitEOL(line string) (text, eol string) {
	if len(line) > 0 && line[len(line)-1] == '\n' {
		if len(line) > 1 && line[len(line)-2] == '\r' {
			return line[:len(line)-2], line[len(line)-2:]
		}
		return line[:len(line)-1], line[len(line)-1:]
	}
	return line, ""
}

func hasBOM(content []byte) bool {
	return len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// Number of newlines strictly before off decides the line; a '\n'
	// belongs to the line it terminates.
	n := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	if n == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	start := lineIdx[n-1] + 1
	return LineCol{Line: uint32(n + 1), Col: off - start + 1}
}

func normalizePath(p string) string {
	// Single representation for cross-platform output and map keys.
	return filepath.ToSlash(filepath.Clean(p))
}
