package archive

import "time"

// Session is one archived meeting.
type Session struct {
	ID             string
	Title          string
	StartedAt      time.Time
	EndedAt        *time.Time
	TranscriptPath string
	Summary        *string
	SegmentCount   int
}

// Segment is one transcribed recording interval of a session.
type Segment struct {
	SessionID      string
	SequenceNumber int
	Timestamp      string
	Utterances     []string
}
