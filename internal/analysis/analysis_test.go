package analysis

import (
	"testing"
	"time"

	"github.com/SeamusWaldron/pocketcube"
	"github.com/SeamusWaldron/pocketcube/internal/storage"
)

func records(t *testing.T, notation string, gapMs int64) []storage.MoveRecord {
	t.Helper()
	ids, err := pocketcube.ParseMoves(notation)
	if err != nil {
		t.Fatalf("ParseMoves(%q) failed: %v", notation, err)
	}
	out := make([]storage.MoveRecord, len(ids))
	for i, id := range ids {
		out[i] = storage.MoveRecord{
			MoveIndex: i,
			TsMs:      int64(i) * gapMs,
			Move:      id,
			Notation:  id.Notation(),
			Source:    "input",
		}
	}
	return out
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"R U R' U'", "R U R' U'"},
		{"R R'", ""},
		{"R U U' R'", ""},
		{"F F F F", ""},
		{"F2 F2 L", "L"},
		{"R F F F F R'", ""},
		{"U R R' D", "U D"},
	}

	for _, tt := range tests {
		ids, err := pocketcube.ParseMoves(tt.in)
		if err != nil {
			t.Fatalf("ParseMoves(%q) failed: %v", tt.in, err)
		}
		if got := pocketcube.FormatMoves(Simplify(ids)); got != tt.want {
			t.Errorf("Simplify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCountCancellations(t *testing.T) {
	ids, _ := pocketcube.ParseMoves("R R' U U' U F")
	if got := CountCancellations(ids); got != 3 {
		t.Errorf("CountCancellations = %d, want 3", got)
	}
}

func TestPauses(t *testing.T) {
	moves := records(t, "R U F L", 500)
	moves[2].TsMs = 3000
	moves[3].TsMs = 3200

	if got := FindLongestPause(moves); got != 2500 {
		t.Errorf("FindLongestPause = %d, want 2500", got)
	}
	if got := CountPausesOver(moves, DefaultPauseThresholdMs); got != 1 {
		t.Errorf("CountPausesOver = %d, want 1", got)
	}
	pauses := AnalyzePauses(moves, 200)
	if len(pauses) != 3 || pauses[1].AfterMoveIndex != 1 || pauses[1].DurationMs != 2500 {
		t.Errorf("AnalyzePauses = %+v", pauses)
	}
	if got := CalculateAvgMoveDuration(moves); got != 3200.0/3 {
		t.Errorf("CalculateAvgMoveDuration = %v", got)
	}
	if got := CalculateTPS(4, 2000); got != 2 {
		t.Errorf("CalculateTPS = %v, want 2", got)
	}
	if got := CalculateTPS(4, 0); got != 0 {
		t.Errorf("CalculateTPS with no duration = %v, want 0", got)
	}
}

func TestMovementProfile(t *testing.T) {
	ids, _ := pocketcube.ParseMoves("R U R' U' R")
	p := AnalyzeMovementProfile(ids)

	if p.FaceCounts[pocketcube.FaceR] != 3 || p.FaceCounts[pocketcube.FaceU] != 2 {
		t.Errorf("FaceCounts = %v", p.FaceCounts)
	}
	if p.MostUsedFace != pocketcube.FaceR {
		t.Errorf("MostUsedFace = %s, want R", p.MostUsedFace)
	}
	if p.MostUsedTurn != pocketcube.CW {
		t.Errorf("MostUsedTurn = %d, want CW", p.MostUsedTurn)
	}
	if p.FaceSequences["RU"] != 2 || p.FaceSequences["UR"] != 2 {
		t.Errorf("FaceSequences = %v", p.FaceSequences)
	}
}

func TestSummarize(t *testing.T) {
	duration := int64(4000)
	s := &storage.Session{SessionID: "abc", DurationMs: &duration}
	moves := records(t, "R U R' U' R R'", 100)
	moves[0].Source = "scramble"

	sum := Summarize(s, moves)
	if sum.TotalMoves != 6 || sum.OptimizedMoves != 4 {
		t.Errorf("moves = %d/%d, want 6/4", sum.TotalMoves, sum.OptimizedMoves)
	}
	if sum.TPSOverall != 1.5 {
		t.Errorf("TPSOverall = %v, want 1.5", sum.TPSOverall)
	}
	if sum.SourceCounts["scramble"] != 1 || sum.SourceCounts["input"] != 5 {
		t.Errorf("SourceCounts = %v", sum.SourceCounts)
	}
	if sum.Cancellations != 1 {
		t.Errorf("Cancellations = %d, want 1", sum.Cancellations)
	}

	empty := Summarize(&storage.Session{SessionID: "empty"}, nil)
	if empty.TotalMoves != 0 || empty.Efficiency != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
}

func TestSummarizeOpenSession(t *testing.T) {
	// Stored move timestamps are absolute Unix milliseconds.
	started := time.Now()
	base := started.UnixMilli() + 250
	moves := records(t, "R U F", 500)
	for i := range moves {
		moves[i].TsMs += base
	}

	sum := Summarize(&storage.Session{SessionID: "open", StartedAt: started}, moves)
	if sum.DurationMs != 1250 {
		t.Errorf("DurationMs = %d, want 1250", sum.DurationMs)
	}
	if sum.TPSOverall != 2.4 {
		t.Errorf("TPSOverall = %v, want 2.4", sum.TPSOverall)
	}

	// Without a start time the span of the moves is used.
	noStart := Summarize(&storage.Session{SessionID: "nostart"}, moves)
	if noStart.DurationMs != 1000 {
		t.Errorf("DurationMs without start = %d, want 1000", noStart.DurationMs)
	}
}

func TestRollingHashMatchesDirectHash(t *testing.T) {
	tokens := []uint8{3, 7, 1, 0, 11, 4}
	const n = 3
	rh := NewRollingHash(n)

	for i, tok := range tokens {
		rh.Roll(tok)
		if !rh.Ready() {
			continue
		}
		var want uint64
		for _, w := range tokens[i-n+1 : i+1] {
			want = want*31 + uint64(w)
		}
		if rh.Hash() != want {
			t.Errorf("hash at %d = %d, want %d", i, rh.Hash(), want)
		}
	}
}

func TestMineNGrams(t *testing.T) {
	moves := records(t, "R U R' U' R U R' U' F R U", 100)
	report := MineNGrams(moves, 2, 4, 3)

	four := report.TopNGrams[4]
	if len(four) == 0 {
		t.Fatal("expected repeated 4-grams")
	}
	if four[0].Sequence != "R U R' U'" || four[0].Count != 2 {
		t.Errorf("top 4-gram = %q x%d, want \"R U R' U'\" x2", four[0].Sequence, four[0].Count)
	}
	if four[0].Occurrences[1].StartIndex != 4 {
		t.Errorf("second occurrence at %d, want 4", four[0].Occurrences[1].StartIndex)
	}

	two := report.TopNGrams[2]
	if len(two) == 0 || two[0].Sequence != "R U" || two[0].Count != 3 {
		t.Errorf("top 2-gram = %+v, want \"R U\" x3", two)
	}

	if r := MineNGrams(moves[:1], 2, 4, 3); len(r.TopNGrams) != 0 {
		t.Errorf("single move should have no n-grams, got %v", r.TopNGrams)
	}
}

func TestMineNGramsAcrossSessions(t *testing.T) {
	a := MineNGrams(records(t, "R U R U", 100), 2, 2, 5)
	b := MineNGrams(records(t, "R U F R U", 100), 2, 2, 5)

	merged := MineNGramsAcrossSessions(map[string]*NGramReport{"b": b, "a": a}, 5)
	two := merged.TopNGrams[2]
	if len(two) == 0 {
		t.Fatal("expected merged 2-grams")
	}
	if two[0].Sequence != "R U" || two[0].Count != 4 {
		t.Errorf("top merged 2-gram = %q x%d, want \"R U\" x4", two[0].Sequence, two[0].Count)
	}
	if two[0].Occurrences[0].SessionID != "a" {
		t.Errorf("first occurrence from %q, want a", two[0].Occurrences[0].SessionID)
	}
}
