package pocketcube

import (
	"strings"
)

// Face represents a puzzle face in standard notation.
type Face string

const (
	FaceF Face = "F" // Front
	FaceB Face = "B" // Back
	FaceL Face = "L" // Left
	FaceR Face = "R" // Right
	FaceU Face = "U" // Up
	FaceD Face = "D" // Down
)

// Faces lists the faces in move table order.
var Faces = [6]Face{FaceF, FaceL, FaceR, FaceB, FaceU, FaceD}

// Turn represents the direction and magnitude of a face turn.
type Turn int

const (
	CW     Turn = 1  // Clockwise (90 degrees) as seen from outside the face
	CCW    Turn = -1 // Counter-clockwise (90 degrees)
	Double Turn = 2  // Half turn, expanded to two quarter turns
)

// MoveID identifies one of the twelve quarter turns.
// Even identifiers are clockwise, and id^1 is the inverse turn.
type MoveID int

// NumMoves is the size of the move space.
const NumMoves = 12

// Valid reports whether id names an entry of the move table.
func (id MoveID) Valid() bool {
	return id >= 0 && id < NumMoves
}

// Inverse returns the counter-turn of id.
func (id MoveID) Inverse() MoveID {
	return id ^ 1
}

// Face returns the face turned by id.
func (id MoveID) Face() Face {
	if !id.Valid() {
		return ""
	}
	return Faces[id/2]
}

// Turn returns the direction of id.
func (id MoveID) Turn() Turn {
	if id%2 == 0 {
		return CW
	}
	return CCW
}

// Notation returns the standard notation string for this move.
// Examples: F, F', U, U'
func (id MoveID) Notation() string {
	if !id.Valid() {
		return "?"
	}
	if id.Turn() == CCW {
		return string(id.Face()) + "'"
	}
	return string(id.Face())
}

// String returns the notation string (alias for Notation).
func (id MoveID) String() string {
	return id.Notation()
}

// MoveFor returns the quarter turn of face in direction turn.
func MoveFor(face Face, turn Turn) (MoveID, error) {
	for i, f := range Faces {
		if f != face {
			continue
		}
		switch turn {
		case CW:
			return MoveID(2 * i), nil
		case CCW:
			return MoveID(2*i + 1), nil
		}
	}
	return 0, ErrInvalidNotation
}

// ParseMove parses a standard notation string into quarter turns.
// Examples: F, F', F2. A half turn yields two identical quarter turns.
// Returns an error if the notation is invalid.
func ParseMove(s string) ([]MoveID, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return nil, ErrInvalidNotation
	}

	var face Face
	switch s[0] {
	case 'F', 'f':
		face = FaceF
	case 'B', 'b':
		face = FaceB
	case 'L', 'l':
		face = FaceL
	case 'R', 'r':
		face = FaceR
	case 'U', 'u':
		face = FaceU
	case 'D', 'd':
		face = FaceD
	default:
		return nil, ErrInvalidNotation
	}

	turn := CW
	if len(s) > 1 {
		switch s[1:] {
		case "'", "`":
			turn = CCW
		case "2", "2'", "2`":
			turn = Double
		default:
			return nil, ErrInvalidNotation
		}
	}

	if turn == Double {
		id, _ := MoveFor(face, CW)
		return []MoveID{id, id}, nil
	}
	id, err := MoveFor(face, turn)
	if err != nil {
		return nil, err
	}
	return []MoveID{id}, nil
}

// ParseMoves parses a space-separated sequence of moves.
// Example: "R U R' U'"
// Unlike single move parsing, the first invalid token aborts the sequence.
func ParseMoves(s string) ([]MoveID, error) {
	parts := strings.Fields(s)
	moves := make([]MoveID, 0, len(parts))

	for _, part := range parts {
		ids, err := ParseMove(part)
		if err != nil {
			return nil, err
		}
		moves = append(moves, ids...)
	}

	return moves, nil
}

// FormatMoves formats a slice of moves as a space-separated notation string.
func FormatMoves(moves []MoveID) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}

	return strings.Join(parts, " ")
}

// InvertSequence returns the moves that undo seq.
func InvertSequence(seq []MoveID) []MoveID {
	out := make([]MoveID, len(seq))
	for i, m := range seq {
		out[len(seq)-1-i] = m.Inverse()
	}
	return out
}
