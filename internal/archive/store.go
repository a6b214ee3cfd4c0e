package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/transcript"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a session id is not in the archive.
var ErrNotFound = errors.New("session not found")

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	startedAt REAL NOT NULL,
	endedAt REAL,
	transcriptPath TEXT,
	summary TEXT,
	createdAt REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS segments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sessionId TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	sequenceNumber INTEGER NOT NULL,
	timestamp TEXT NOT NULL,
	utterances TEXT NOT NULL,
	createdAt REAL NOT NULL,
	UNIQUE(sessionId, sequenceNumber)
);
`

// Store reads and writes the meeting archive.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the archive at path. ":memory:" gives a
// private in-memory archive.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one connection keeps ":memory:" a single database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// StartSession records a newly started meeting.
func (s *Store) StartSession(ctx context.Context, session *transcript.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, title, startedAt, createdAt)
		VALUES (?, ?, ?, ?)
	`, session.ID, session.Title, unixFromTime(session.StartTime), unixFromTime(s.now()))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// AddSegment records one segment under its position in the session.
func (s *Store) AddSegment(ctx context.Context, sessionID string, seq int, seg transcript.Segment) error {
	utterances, err := json.Marshal(seg.Utterances)
	if err != nil {
		return fmt.Errorf("encode utterances: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO segments (sessionId, sequenceNumber, timestamp, utterances, createdAt)
		VALUES (?, ?, ?, ?, ?)
	`, sessionID, seq, seg.Timestamp, string(utterances), unixFromTime(s.now()))
	if err != nil {
		return fmt.Errorf("insert segment: %w", err)
	}
	return nil
}

// FinishSession stores the end time, transcript location and summary (if any).
func (s *Store) FinishSession(ctx context.Context, session *transcript.Session, transcriptPath string) error {
	var endedAt sql.NullFloat64
	if session.EndTime != nil {
		endedAt = sql.NullFloat64{Float64: unixFromTime(*session.EndTime), Valid: true}
	}
	var summary sql.NullString
	if session.Summary != nil {
		summary = sql.NullString{String: *session.Summary, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET endedAt = ?, transcriptPath = ?, summary = ?
		WHERE id = ?
	`, endedAt, transcriptPath, summary, session.ID)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish session %s: %w", session.ID, ErrNotFound)
	}
	return nil
}

// Sessions returns the most recent sessions first. limit <= 0 means all.
func (s *Store) Sessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title, s.startedAt, s.endedAt, s.transcriptPath, s.summary,
			(SELECT COUNT(*) FROM segments g WHERE g.sessionId = s.id)
		FROM sessions s
		ORDER BY s.startedAt DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

// Session returns one archived session or ErrNotFound.
func (s *Store) Session(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT s.id, s.title, s.startedAt, s.endedAt, s.transcriptPath, s.summary,
			(SELECT COUNT(*) FROM segments g WHERE g.sessionId = s.id)
		FROM sessions s
		WHERE s.id = ?
	`, id)

	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return sess, err
}

// Segments returns the segments of a session in recording order.
func (s *Store) Segments(ctx context.Context, sessionID string) ([]Segment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sessionId, sequenceNumber, timestamp, utterances
		FROM segments
		WHERE sessionId = ?
		ORDER BY sequenceNumber ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	var segments []Segment
	for rows.Next() {
		var seg Segment
		var utterances string
		if err := rows.Scan(&seg.SessionID, &seg.SequenceNumber, &seg.Timestamp, &utterances); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		if err := json.Unmarshal([]byte(utterances), &seg.Utterances); err != nil {
			return nil, fmt.Errorf("decode utterances of segment %d: %w", seg.SequenceNumber, err)
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var sess Session
	var startedAt float64
	var endedAt sql.NullFloat64
	var transcriptPath, summary sql.NullString

	if err := row.Scan(&sess.ID, &sess.Title, &startedAt, &endedAt,
		&transcriptPath, &summary, &sess.SegmentCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	sess.StartedAt = timeFromUnix(startedAt)
	if endedAt.Valid {
		t := timeFromUnix(endedAt.Float64)
		sess.EndedAt = &t
	}
	sess.TranscriptPath = transcriptPath.String
	if summary.Valid {
		sm := summary.String
		sess.Summary = &sm
	}
	return &sess, nil
}

func unixFromTime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
