// Package observ carries lightweight run observability: a phase timer
// backing the --timings flag.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one timed stage of a run (discovery, scan, fix, render).
type Phase struct {
	Name string
	Dur  time.Duration
	Note string
}

// Timer accumulates phase durations. Not safe for concurrent use; the
// command loop times phases sequentially.
type Timer struct {
	phases []Phase
}

// NewTimer creates an empty timer.
func NewTimer() *Timer { return &Timer{} }

// Track starts timing a phase and returns the function that ends it.
// The note lands in the summary next to the duration.
//
//	done := timer.Track("scan")
//	...
//	done(fmt.Sprintf("%d files", n))
func (t *Timer) Track(name string) func(note string) {
	if t == nil {
		return func(string) {}
	}
	start := time.Now()
	return func(note string) {
		t.phases = append(t.phases, Phase{
			Name: name,
			Dur:  time.Since(start),
			Note: note,
		})
	}
}

// Summary renders the phases and their total as a text block.
func (t *Timer) Summary() string {
	if t == nil || len(t.phases) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("timings:\n")
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
		fmt.Fprintf(&b, "  %-12s %7.2f ms", p.Name, millis(p.Dur))
		if p.Note != "" {
			b.WriteString("  " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-12s %7.2f ms\n", "total", millis(total))
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
