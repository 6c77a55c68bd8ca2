// Package recorder persists the moves an engine applies during one session.
package recorder

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/SeamusWaldron/pocketcube"
	"github.com/SeamusWaldron/pocketcube/internal/storage"
)

// Session errors.
var (
	ErrAlreadyRecording = errors.New("recorder: session already in progress")
	ErrNotRecording     = errors.New("recorder: no session in progress")
)

// SessionState represents the current state of a recording session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateRecording
	StateEnded
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Session records the moves of one engine into storage.
type Session struct {
	log *zap.Logger

	mu        sync.RWMutex
	state     SessionState
	sessionID string
	startTime time.Time
	moveIndex int
	lastErr   error

	sessionRepo *storage.SessionRepository
	moveRepo    *storage.MoveRepository
}

// NewSession creates a new session manager.
func NewSession(db *storage.DB, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		log:         log,
		state:       StateIdle,
		sessionRepo: storage.NewSessionRepository(db),
		moveRepo:    storage.NewMoveRepository(db),
	}
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SessionID returns the current session ID.
func (s *Session) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// MoveCount returns the number of moves recorded so far.
func (s *Session) MoveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moveIndex
}

// ElapsedMs returns the elapsed time since the session started.
func (s *Session) ElapsedMs() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateRecording {
		return 0
	}
	return time.Since(s.startTime).Milliseconds()
}

// Err returns the last error hit while recording a move.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Start starts a new recording session.
func (s *Session) Start(info storage.NewSession) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return "", ErrAlreadyRecording
	}

	id, err := s.sessionRepo.Create(info)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.sessionID = id
	s.startTime = time.Now()
	s.moveIndex = 0
	s.lastErr = nil
	s.state = StateRecording

	s.log.Info("session started", zap.String("session", id), zap.String("source", info.Source))
	return id, nil
}

// Attach registers the session as e's move observer.
func (s *Session) Attach(e *pocketcube.Engine) {
	e.OnMove(s.Record)
}

// Record stores one applied move. It is safe to use as an OnMove callback:
// failures are logged and kept for Err rather than returned.
func (s *Session) Record(ev pocketcube.MoveEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return
	}

	_, err := s.moveRepo.Create(s.sessionID, s.moveIndex, time.Now(), ev.Move, ev.Source.String())
	if err != nil {
		s.lastErr = err
		s.log.Error("failed to record move",
			zap.String("session", s.sessionID),
			zap.Stringer("move", ev.Move),
			zap.Error(err))
		return
	}
	s.moveIndex++
}

// RecordScramble stores a scramble applied in one batch before play starts.
func (s *Session) RecordScramble(moves []pocketcube.MoveID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ErrNotRecording
	}
	if err := s.moveRepo.CreateBatch(s.sessionID, s.moveIndex, moves, "scramble"); err != nil {
		return fmt.Errorf("failed to record scramble: %w", err)
	}
	s.moveIndex += len(moves)
	return nil
}

// End ends the current session, storing whether the puzzle finished solved.
func (s *Session) End(solved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ErrNotRecording
	}

	if err := s.sessionRepo.End(s.sessionID, s.moveIndex, solved); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	s.state = StateEnded
	s.log.Info("session ended",
		zap.String("session", s.sessionID),
		zap.Int("moves", s.moveIndex),
		zap.Bool("solved", solved))
	return nil
}

// Load returns a recorded session and its moves in the order applied.
func Load(db *storage.DB, sessionID string) (*storage.Session, []pocketcube.MoveID, error) {
	sess, err := storage.NewSessionRepository(db).Get(sessionID)
	if err != nil {
		return nil, nil, err
	}
	records, err := storage.NewMoveRepository(db).GetBySession(sessionID)
	if err != nil {
		return nil, nil, err
	}
	return sess, storage.ToMoveIDs(records), nil
}

// ReplayEngine returns an engine primed to replay moves in their recorded
// order: the queue is filled last move first and playback applies entries
// as-is.
func ReplayEngine(moves []pocketcube.MoveID, opts ...pocketcube.Option) (*pocketcube.Engine, error) {
	opts = append(opts, pocketcube.WithPlaybackMode(pocketcube.PlaybackReplay))
	e := pocketcube.New(opts...)

	reversed := make([]pocketcube.MoveID, len(moves))
	for i, m := range moves {
		reversed[len(moves)-1-i] = m
	}
	if err := e.Enqueue(reversed...); err != nil {
		return nil, err
	}
	return e, nil
}
