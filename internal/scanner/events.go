package scanner

// Status describes where a file is in the scan pipeline.
type Status string

const (
	// StatusQueued indicates the file is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusScanning indicates detection is running.
	StatusScanning Status = "scanning"
	// StatusDone indicates the file finished cleanly.
	StatusDone Status = "done"
	// StatusError indicates the file produced a degraded entry.
	StatusError Status = "error"
)

// Event is one progress notification. Violations is meaningful for
// StatusDone only.
type Event struct {
	Path       string
	Status     Status
	Violations int
}

// Sink receives progress events. Implementations must be safe for
// concurrent use; scan workers emit from multiple goroutines.
type Sink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel, dropping them when the
// receiver falls behind rather than stalling the scan.
type ChannelSink struct {
	Ch chan<- Event
}

// OnEvent implements Sink.
func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	select {
	case s.Ch <- evt:
	default:
	}
}

func emit(sink Sink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
