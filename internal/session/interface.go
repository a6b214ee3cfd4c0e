// Package session drives one meeting recording: capture, transcribe, split
// and append until interrupted, then persist and summarize.
package session

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/transcript"
)

// TranscriptionErrorMarker replaces the utterances of a segment whose
// transcription failed.
const TranscriptionErrorMarker = "[文字起こしエラー]"

// Controller runs a session until ctx is cancelled.
type Controller interface {
	// Run records segments until ctx is done, then finalizes with a fresh
	// context. Only capture and persistence failures are returned.
	Run(ctx context.Context) (Report, error)
	State() State
}

// Source yields one audio clip per cycle.
type Source interface {
	Next(ctx context.Context) (Clip, error)
	Close() error
}

// Clip is an encoded audio file and the time its recording began.
type Clip struct {
	Path      string
	StartedAt time.Time
}

// Archive is the optional session index.
type Archive interface {
	StartSession(ctx context.Context, s *transcript.Session) error
	AddSegment(ctx context.Context, sessionID string, seq int, seg transcript.Segment) error
	FinishSession(ctx context.Context, s *transcript.Session, transcriptPath string) error
}

// Metrics is the optional run instrumentation.
type Metrics interface {
	ObserveTranscription(d time.Duration, failed bool)
	ObserveSegment(utterances int)
	SummaryFailed()
	Flush() error
}

// Report lists what a finished run wrote.
type Report struct {
	SessionID      string
	TranscriptPath string
	SummaryPath    string
	DocxPath       string
	Segments       int
}

type State int32

const (
	StateIdle State = iota
	StateRunning
	StateFinalizing
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinalizing:
		return "finalizing"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
