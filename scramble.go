package pocketcube

import (
	"math/rand"
	"time"
)

// Scrambler draws uniformly random moves from the twelve-move space.
type Scrambler struct {
	rng *rand.Rand
}

// NewScrambler creates a scrambler backed by rng.
// A nil rng is replaced by a source seeded from the current time.
func NewScrambler(rng *rand.Rand) *Scrambler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scrambler{rng: rng}
}

// NewSeededScrambler creates a scrambler with a deterministic seed.
func NewSeededScrambler(seed int64) *Scrambler {
	return NewScrambler(rand.New(rand.NewSource(seed)))
}

// Next returns a random move identifier in [0, NumMoves).
func (s *Scrambler) Next() MoveID {
	return MoveID(s.rng.Intn(NumMoves))
}

// Sequence returns n random moves.
func (s *Scrambler) Sequence(n int) []MoveID {
	if n <= 0 {
		return nil
	}
	moves := make([]MoveID, n)
	for i := range moves {
		moves[i] = s.Next()
	}
	return moves
}
