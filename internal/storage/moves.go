package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SeamusWaldron/pocketcube"
)

// MoveRecord represents an applied move in the database.
type MoveRecord struct {
	MoveRowID int64
	SessionID string
	MoveIndex int
	TsMs      int64
	Move      pocketcube.MoveID
	Notation  string
	Source    string
}

// MoveRepository provides CRUD operations for moves.
type MoveRepository struct {
	db *DB
}

// NewMoveRepository creates a new move repository.
func NewMoveRepository(db *DB) *MoveRepository {
	return &MoveRepository{db: db}
}

// Create records one applied move and returns its row ID.
func (r *MoveRepository) Create(sessionID string, moveIndex int, ts time.Time, move pocketcube.MoveID, source string) (int64, error) {
	if !move.Valid() {
		return 0, pocketcube.ErrInvalidMove
	}

	result, err := r.db.Exec(`
		INSERT INTO moves (session_id, move_index, ts_ms, move, notation, source)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sessionID, moveIndex, ts.UnixMilli(), int(move), move.Notation(), source)

	if err != nil {
		return 0, fmt.Errorf("failed to create move: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get move ID: %w", err)
	}

	return id, nil
}

// CreateBatch records several moves in a single transaction.
func (r *MoveRepository) CreateBatch(sessionID string, startIndex int, moves []pocketcube.MoveID, source string) error {
	ts := time.Now().UnixMilli()
	return r.db.Transaction(func(tx *sql.Tx) error {
		for i, move := range moves {
			if !move.Valid() {
				return fmt.Errorf("move %d: %w", startIndex+i, pocketcube.ErrInvalidMove)
			}
			_, err := tx.Exec(`
				INSERT INTO moves (session_id, move_index, ts_ms, move, notation, source)
				VALUES (?, ?, ?, ?, ?, ?)
			`, sessionID, startIndex+i, ts, int(move), move.Notation(), source)
			if err != nil {
				return fmt.Errorf("failed to create move %d: %w", startIndex+i, err)
			}
		}
		return nil
	})
}

// GetBySession retrieves all moves for a session in order.
func (r *MoveRepository) GetBySession(sessionID string) ([]MoveRecord, error) {
	rows, err := r.db.Query(`
		SELECT move_id, session_id, move_index, ts_ms, move, notation, source
		FROM moves
		WHERE session_id = ?
		ORDER BY move_index
	`, sessionID)

	if err != nil {
		return nil, fmt.Errorf("failed to get moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		var move int
		err := rows.Scan(&m.MoveRowID, &m.SessionID, &m.MoveIndex, &m.TsMs, &move, &m.Notation, &m.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		m.Move = pocketcube.MoveID(move)
		moves = append(moves, m)
	}

	return moves, rows.Err()
}

// GetNextIndex returns the next move index for a session.
func (r *MoveRepository) GetNextIndex(sessionID string) (int, error) {
	var maxIndex int
	err := r.db.QueryRow(`
		SELECT COALESCE(MAX(move_index), -1) FROM moves WHERE session_id = ?
	`, sessionID).Scan(&maxIndex)
	if err != nil {
		return 0, fmt.Errorf("failed to get max move index: %w", err)
	}
	return maxIndex + 1, nil
}

// Count returns the number of moves for a session.
func (r *MoveRepository) Count(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM moves WHERE session_id = ?", sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count moves: %w", err)
	}
	return count, nil
}

// ToMoveIDs extracts the move identifiers from records.
func ToMoveIDs(records []MoveRecord) []pocketcube.MoveID {
	moves := make([]pocketcube.MoveID, len(records))
	for i, r := range records {
		moves[i] = r.Move
	}
	return moves
}
