package observ

import (
	"strings"
	"testing"
)

func TestTimerSummary(t *testing.T) {
	timer := NewTimer()
	done := timer.Track("scan")
	done("3 files")
	timer.Track("render")("")

	out := timer.Summary()
	for _, fragment := range []string{"timings:", "scan", "3 files", "render", "total"} {
		if !strings.Contains(out, fragment) {
			t.Errorf("summary missing %q:\n%s", fragment, out)
		}
	}
}

func TestTimerEmptyAndNil(t *testing.T) {
	if out := NewTimer().Summary(); out != "" {
		t.Errorf("empty timer summary = %q", out)
	}
	var timer *Timer
	timer.Track("scan")("") // must not panic
	if out := timer.Summary(); out != "" {
		t.Errorf("nil timer summary = %q", out)
	}
}
