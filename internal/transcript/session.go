// Package transcript holds the meeting record built during a recording
// session and the files it is persisted to.
package transcript

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout formats a segment start as time of day.
const TimestampLayout = "15:04:05"

var (
	ErrAlreadyFinished   = errors.New("session already finished")
	ErrNotFinished       = errors.New("session not finished")
	ErrSummaryAlreadySet = errors.New("summary already set")
	ErrOutOfOrder        = errors.New("segment does not start after the previous segment")
)

// Session is the record of one run, from start to interrupt.
type Session struct {
	ID        string     `json:"-"`
	Title     string     `json:"meeting_title"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Segments  []Segment  `json:"segments"`
	Summary   *string    `json:"summary,omitempty"`

	lastStart time.Time
}

// Segment is the output of one capture-and-transcribe cycle.
type Segment struct {
	Timestamp  string   `json:"timestamp"`
	Utterances []string `json:"utterances"`
}

// NewSession starts an empty session.
func NewSession(title string, start time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Title:     title,
		StartTime: start,
		Segments:  []Segment{},
	}
}

// Append adds a segment that started at the given time. Blank utterances
// are dropped and the rest are trimmed.
func (s *Session) Append(startedAt time.Time, utterances []string) (Segment, error) {
	if s.EndTime != nil {
		return Segment{}, ErrAlreadyFinished
	}
	if len(s.Segments) > 0 && !startedAt.After(s.lastStart) {
		return Segment{}, fmt.Errorf("%w: %s <= %s", ErrOutOfOrder,
			startedAt.Format(TimestampLayout), s.lastStart.Format(TimestampLayout))
	}

	kept := make([]string, 0, len(utterances))
	for _, u := range utterances {
		if u = strings.TrimSpace(u); u != "" {
			kept = append(kept, u)
		}
	}

	seg := Segment{
		Timestamp:  startedAt.Format(TimestampLayout),
		Utterances: kept,
	}
	s.Segments = append(s.Segments, seg)
	s.lastStart = startedAt
	return seg, nil
}

// Finish records the end time.
func (s *Session) Finish(at time.Time) error {
	if s.EndTime != nil {
		return ErrAlreadyFinished
	}
	s.EndTime = &at
	return nil
}

// SetSummary stores the summary. Allowed once, after Finish.
func (s *Session) SetSummary(summary string) error {
	if s.EndTime == nil {
		return ErrNotFinished
	}
	if s.Summary != nil {
		return ErrSummaryAlreadySet
	}
	s.Summary = &summary
	return nil
}

// UtteranceCount is the total number of utterances across segments.
func (s *Session) UtteranceCount() int {
	n := 0
	for _, seg := range s.Segments {
		n += len(seg.Utterances)
	}
	return n
}
