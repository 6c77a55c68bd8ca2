package pocketcube

import "testing"

func TestSeededScramblerIsDeterministic(t *testing.T) {
	a := NewSeededScrambler(42).Sequence(25)
	b := NewSeededScrambler(42).Sequence(25)
	if FormatMoves(a) != FormatMoves(b) {
		t.Errorf("same seed gave %v and %v", a, b)
	}
}

func TestScramblerCoversMoveSpace(t *testing.T) {
	s := NewSeededScrambler(1)
	var seen [NumMoves]int
	for i := 0; i < 1200; i++ {
		id := s.Next()
		if !id.Valid() {
			t.Fatalf("Next returned invalid move %d", id)
		}
		seen[id]++
	}
	for id, n := range seen {
		if n == 0 {
			t.Errorf("move %v never drawn", MoveID(id))
		}
	}
}

func TestScramblerSequenceLength(t *testing.T) {
	s := NewScrambler(nil)
	if got := s.Sequence(0); got != nil {
		t.Errorf("Sequence(0) = %v, want nil", got)
	}
	if got := s.Sequence(11); len(got) != 11 {
		t.Errorf("Sequence(11) has %d moves", len(got))
	}
}
