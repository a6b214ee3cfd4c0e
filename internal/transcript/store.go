package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileTimestampLayout is the timestamp embedded in output filenames.
const FileTimestampLayout = "20060102_150405"

// Store writes transcripts and summaries into Dir.
type Store struct {
	Dir string
	now func() time.Time
}

// NewStore creates a Store rooted at dir. The directory is created on first write.
func NewStore(dir string) *Store {
	return &Store{Dir: dir, now: time.Now}
}

// TranscriptPath is {title}_{YYYYMMDD_HHMMSS}.json, stamped with the
// session end time, or the current time for an unfinished session.
func (s *Store) TranscriptPath(session *Session) string {
	at := s.now()
	if session.EndTime != nil {
		at = *session.EndTime
	}
	return filepath.Join(s.Dir, fmt.Sprintf("%s_%s.json", session.Title, at.Format(FileTimestampLayout)))
}

// Persist writes the session as JSON and returns the path written.
func (s *Store) Persist(session *Session) (string, error) {
	path := s.TranscriptPath(session)
	if err := s.Save(path, session); err != nil {
		return "", err
	}
	return path, nil
}

// Save writes the session to an explicit path, replacing its contents.
func (s *Store) Save(path string, session *Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create transcript dir: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(session); err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// PersistSummary writes the summary as plain text to
// {title}_summary_{YYYYMMDD_HHMMSS}.txt.
func (s *Store) PersistSummary(title, summary string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("create summary dir: %w", err)
	}

	path := filepath.Join(s.Dir, fmt.Sprintf("%s_summary_%s.txt", title, s.now().Format(FileTimestampLayout)))
	if err := os.WriteFile(path, []byte(summary), 0644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	return path, nil
}

// Load reads a transcript file written by Save.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parse transcript %s: %w", path, err)
	}
	if session.Segments == nil {
		session.Segments = []Segment{}
	}
	return &session, nil
}
