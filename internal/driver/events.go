package driver

import "time"

// Stage describes a phase of a per-file formatting run.
type Stage string

const (
	// StageRead is the file read and decode stage.
	StageRead Stage = "read"
	// StageFormat is the tokenize + layout stage.
	StageFormat Stage = "format"
	// StageWrite is the output stage (rewrite, check, or stdout).
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is currently being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the file finished without errors.
	StatusDone Status = "done"
	// StatusError indicates the file failed.
	StatusError Status = "error"
)

// Event reports progress for one file, or for the run as a whole when File
// is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel. A full channel drops the
// event rather than blocking the formatting workers.
type ChannelSink struct {
	Ch chan<- Event
}

// OnEvent implements ProgressSink.
func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	select {
	case s.Ch <- ev:
	default:
	}
}

func emit(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
