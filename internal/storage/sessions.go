package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Session represents a recorded session in the database.
type Session struct {
	SessionID    string
	StartedAt    time.Time
	EndedAt      *time.Time
	DurationMs   *int64
	Source       string
	Seed         *int64
	ScrambleText *string
	Notes        *string
	MoveCount    int
	Solved       bool
}

// NewSession holds the fields supplied when a session starts.
type NewSession struct {
	Source   string // keyboard, scramble, gocube
	Seed     int64  // 0 when unseeded
	Scramble string
	Notes    string
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session and returns its ID.
func (r *SessionRepository) Create(s NewSession) (string, error) {
	id := uuid.New().String()
	startedAt := time.Now().UTC()

	source := s.Source
	if source == "" {
		source = "keyboard"
	}

	var seedPtr *int64
	if s.Seed != 0 {
		seedPtr = &s.Seed
	}

	_, err := r.db.Exec(`
		INSERT INTO sessions (session_id, started_at, source, seed, scramble_text, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, startedAt.Format(timeLayout), source, seedPtr, nullString(s.Scramble), nullString(s.Notes))

	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return id, nil
}

// End marks a session as complete with its final move count and solved flag.
func (r *SessionRepository) End(sessionID string, moveCount int, solved bool) error {
	s, err := r.Get(sessionID)
	if err != nil {
		return err
	}

	endedAt := time.Now().UTC()
	durationMs := endedAt.Sub(s.StartedAt).Milliseconds()

	_, err = r.db.Exec(`
		UPDATE sessions
		SET ended_at = ?, duration_ms = ?, move_count = ?, solved = ?
		WHERE session_id = ?
	`, endedAt.Format(timeLayout), durationMs, moveCount, solved, sessionID)

	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID.
func (r *SessionRepository) Get(sessionID string) (*Session, error) {
	row := r.db.QueryRow(`
		SELECT session_id, started_at, ended_at, duration_ms, source, seed,
		       scramble_text, notes, move_count, solved
		FROM sessions
		WHERE session_id = ?
	`, sessionID)

	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// List returns the most recent sessions, newest first.
// A non-positive limit returns every session.
func (r *SessionRepository) List(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(`
		SELECT session_id, started_at, ended_at, duration_ms, source, seed,
		       scramble_text, notes, move_count, solved
		FROM sessions
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}

	return sessions, rows.Err()
}

// Latest returns the most recently started session.
func (r *SessionRepository) Latest() (*Session, error) {
	sessions, err := r.List(1)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrSessionNotFound
	}
	return &sessions[0], nil
}

// Delete removes a session and its moves.
func (r *SessionRepository) Delete(sessionID string) error {
	result, err := r.db.Exec("DELETE FROM sessions WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var (
		s         Session
		startedAt string
		endedAt   sql.NullString
		duration  sql.NullInt64
		seed      sql.NullInt64
		scramble  sql.NullString
		notes     sql.NullString
	)

	err := row.Scan(&s.SessionID, &startedAt, &endedAt, &duration, &s.Source, &seed,
		&scramble, &notes, &s.MoveCount, &s.Solved)
	if err != nil {
		return nil, err
	}

	s.StartedAt, err = time.Parse(timeLayout, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start time: %w", err)
	}
	if endedAt.Valid {
		t, err := time.Parse(timeLayout, endedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse end time: %w", err)
		}
		s.EndedAt = &t
	}
	if duration.Valid {
		s.DurationMs = &duration.Int64
	}
	if seed.Valid {
		s.Seed = &seed.Int64
	}
	if scramble.Valid {
		s.ScrambleText = &scramble.String
	}
	if notes.Valid {
		s.Notes = &notes.String
	}

	return &s, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
