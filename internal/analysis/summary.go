// Package analysis computes statistics over recorded move sequences.
package analysis

import (
	"github.com/SeamusWaldron/pocketcube"
	"github.com/SeamusWaldron/pocketcube/internal/storage"
)

// DefaultPauseThresholdMs is the gap that counts as a pause.
const DefaultPauseThresholdMs = 1500

// SessionSummary contains statistics for a single session.
type SessionSummary struct {
	SessionID         string           `json:"session_id"`
	DurationMs        int64            `json:"duration_ms"`
	TotalMoves        int              `json:"total_moves"`
	OptimizedMoves    int              `json:"optimized_moves"`
	Efficiency        float64          `json:"efficiency"`
	TPSOverall        float64          `json:"tps_overall"`
	SourceCounts      map[string]int   `json:"source_counts"`
	LongestPauseMs    int64            `json:"longest_pause_ms"`
	PauseCount        int              `json:"pause_count"`
	AvgMoveDurationMs float64          `json:"avg_move_duration_ms"`
	Cancellations     int              `json:"cancellations"`
	Profile           *MovementProfile `json:"profile"`
}

// Summarize builds a summary of a session's moves. The duration falls back
// to the time from the session start to the last move while the session is
// still open.
func Summarize(s *storage.Session, moves []storage.MoveRecord) *SessionSummary {
	sum := &SessionSummary{
		SessionID:    s.SessionID,
		TotalMoves:   len(moves),
		SourceCounts: make(map[string]int),
	}

	ids := storage.ToMoveIDs(moves)
	for _, m := range moves {
		sum.SourceCounts[m.Source]++
	}

	if s.DurationMs != nil {
		sum.DurationMs = *s.DurationMs
	} else if len(moves) > 0 {
		sum.DurationMs = openDurationMs(s, moves)
	}

	sum.OptimizedMoves = len(Simplify(ids))
	if sum.TotalMoves > 0 {
		sum.Efficiency = float64(sum.OptimizedMoves) / float64(sum.TotalMoves)
	}
	sum.TPSOverall = CalculateTPS(len(moves), sum.DurationMs)
	sum.LongestPauseMs = FindLongestPause(moves)
	sum.PauseCount = CountPausesOver(moves, DefaultPauseThresholdMs)
	sum.AvgMoveDurationMs = CalculateAvgMoveDuration(moves)
	sum.Cancellations = CountCancellations(ids)
	sum.Profile = AnalyzeMovementProfile(ids)

	return sum
}

// openDurationMs measures a session without an end time from its start to
// the last recorded move. Move timestamps are Unix milliseconds.
func openDurationMs(s *storage.Session, moves []storage.MoveRecord) int64 {
	start := moves[0].TsMs
	if !s.StartedAt.IsZero() {
		start = min(start, s.StartedAt.UnixMilli())
	}
	return max(moves[len(moves)-1].TsMs-start, 0)
}

// PauseInfo represents a pause between two moves.
type PauseInfo struct {
	AfterMoveIndex int   `json:"after_move_index"`
	DurationMs     int64 `json:"duration_ms"`
	TsMs           int64 `json:"ts_ms"`
}

// AnalyzePauses finds all gaps of at least thresholdMs.
func AnalyzePauses(moves []storage.MoveRecord, thresholdMs int64) []PauseInfo {
	var pauses []PauseInfo

	for i := 1; i < len(moves); i++ {
		gap := moves[i].TsMs - moves[i-1].TsMs
		if gap >= thresholdMs {
			pauses = append(pauses, PauseInfo{
				AfterMoveIndex: i - 1,
				DurationMs:     gap,
				TsMs:           moves[i-1].TsMs,
			})
		}
	}

	return pauses
}

// CalculateTPS calculates turns per second.
func CalculateTPS(moveCount int, durationMs int64) float64 {
	if durationMs <= 0 {
		return 0
	}
	return float64(moveCount) / (float64(durationMs) / 1000.0)
}

// CalculateAvgMoveDuration calculates the average time between moves.
func CalculateAvgMoveDuration(moves []storage.MoveRecord) float64 {
	if len(moves) < 2 {
		return 0
	}

	totalGap := moves[len(moves)-1].TsMs - moves[0].TsMs
	return float64(totalGap) / float64(len(moves)-1)
}

// FindLongestPause finds the longest gap between two moves.
func FindLongestPause(moves []storage.MoveRecord) int64 {
	var longest int64

	for i := 1; i < len(moves); i++ {
		gap := moves[i].TsMs - moves[i-1].TsMs
		if gap > longest {
			longest = gap
		}
	}

	return longest
}

// CountPausesOver counts gaps longer than thresholdMs.
func CountPausesOver(moves []storage.MoveRecord, thresholdMs int64) int {
	count := 0
	for i := 1; i < len(moves); i++ {
		gap := moves[i].TsMs - moves[i-1].TsMs
		if gap > thresholdMs {
			count++
		}
	}
	return count
}

// CountCancellations counts moves immediately followed by their inverse.
func CountCancellations(moves []pocketcube.MoveID) int {
	count := 0
	for i := 1; i < len(moves); i++ {
		if moves[i] == moves[i-1].Inverse() {
			count++
		}
	}
	return count
}

// Simplify removes adjacent inverse pairs and full turns (four identical
// quarter turns), repeatedly, and returns the shorter equivalent sequence.
func Simplify(moves []pocketcube.MoveID) []pocketcube.MoveID {
	out := make([]pocketcube.MoveID, 0, len(moves))
	for _, m := range moves {
		n := len(out)
		switch {
		case n > 0 && out[n-1] == m.Inverse():
			out = out[:n-1]
		case n >= 3 && out[n-1] == m && out[n-2] == m && out[n-3] == m:
			out = out[:n-3]
		default:
			out = append(out, m)
		}
	}
	return out
}

// MovementProfile analyzes which faces and directions are used.
type MovementProfile struct {
	FaceCounts    map[pocketcube.Face]int `json:"face_counts"`
	TurnCounts    map[pocketcube.Turn]int `json:"turn_counts"`
	MostUsedFace  pocketcube.Face         `json:"most_used_face"`
	MostUsedTurn  pocketcube.Turn         `json:"most_used_turn"`
	FaceSequences map[string]int          `json:"face_sequences"` // e.g., "RU" -> count
}

// AnalyzeMovementProfile counts face and direction usage. Ties pick the
// face listed first in pocketcube.Faces.
func AnalyzeMovementProfile(moves []pocketcube.MoveID) *MovementProfile {
	profile := &MovementProfile{
		FaceCounts:    make(map[pocketcube.Face]int),
		TurnCounts:    make(map[pocketcube.Turn]int),
		FaceSequences: make(map[string]int),
	}

	for i, m := range moves {
		profile.FaceCounts[m.Face()]++
		profile.TurnCounts[m.Turn()]++

		// Track 2-move face sequences
		if i > 0 {
			seq := string(moves[i-1].Face()) + string(m.Face())
			profile.FaceSequences[seq]++
		}
	}

	maxFaceCount := 0
	for _, face := range pocketcube.Faces {
		if count := profile.FaceCounts[face]; count > maxFaceCount {
			maxFaceCount = count
			profile.MostUsedFace = face
		}
	}

	if profile.TurnCounts[pocketcube.CCW] > profile.TurnCounts[pocketcube.CW] {
		profile.MostUsedTurn = pocketcube.CCW
	} else if len(moves) > 0 {
		profile.MostUsedTurn = pocketcube.CW
	}

	return profile
}
