package source

import (
	"reflect"
	"testing"
)

func TestSplitLinesKeepsEndings(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty", "", nil},
		{"single no newline", "abc", []string{"abc"}},
		{"single with newline", "abc\n", []string{"abc\n"}},
		{"two lines", "a\nb\n", []string{"a\n", "b\n"}},
		{"last line open", "a\nb", []string{"a\n", "b"}},
		{"crlf preserved", "a\r\nb\r\n", []string{"a\r\n", "b\r\n"}},
		{"blank lines", "\n\n", []string{"\n", "\n"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitLines([]byte(tc.content))
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("SplitLines(%q) = %q, want %q", tc.content, got, tc.want)
			}
		})
	}
}

func TestJoinLinesRoundTrip(t *testing.T) {
	inputs := []string{"", "abc", "a\nb\nc\n", "a\r\nb", "\n"}
	for _, in := range inputs {
		got := string(JoinLines(SplitLines([]byte(in))))
		if got != in {
			t.Errorf("JoinLines(SplitLines(%q)) = %q", in, got)
		}
	}
}

func TestSplitEOL(t *testing.T) {
	cases := []struct {
		line string
		text string
		eol  string
	}{
		{"abc\n", "abc", "\n"},
		{"abc\r\n", "abc", "\r\n"},
		{"abc", "abc", ""},
		{"abc\r", "abc\r", ""},
		{"\n", "", "\n"},
		{"", "", ""},
	}

	for _, tc := range cases {
		text, eol := SplitEOL(tc.line)
		if text != tc.text || eol != tc.eol {
			t.Errorf("SplitEOL(%q) = (%q, %q), want (%q, %q)", tc.line, text, eol, tc.text, tc.eol)
		}
	}
}

func TestToLineCol(t *testing.T) {
	content := []byte("ab\ncd\n\nxyz")
	idx := buildLineIndex(content)

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{1, LineCol{1, 2}},
		{2, LineCol{1, 3}}, // the '\n' terminating line 1
		{3, LineCol{2, 1}},
		{5, LineCol{2, 3}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{9, LineCol{4, 3}},
	}

	for _, tc := range cases {
		got := toLineCol(idx, tc.off)
		if got != tc.want {
			t.Errorf("toLineCol(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
	}
}
