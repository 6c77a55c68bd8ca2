package analysis

import (
	"sort"

	"github.com/SeamusWaldron/pocketcube"
	"github.com/SeamusWaldron/pocketcube/internal/storage"
)

// maxOccurrences caps the sample occurrences kept per n-gram.
const maxOccurrences = 10

// NGram represents a repeated move sequence.
type NGram struct {
	N           int                 `json:"n"`
	Sequence    string              `json:"sequence"`
	Moves       []pocketcube.MoveID `json:"-"`
	Count       int                 `json:"count"`
	Occurrences []NGramOccurrence   `json:"occurrences,omitempty"`
}

// NGramOccurrence represents where an n-gram was found.
type NGramOccurrence struct {
	SessionID  string `json:"session_id,omitempty"`
	StartIndex int    `json:"start_index"`
	TsMs       int64  `json:"ts_ms"`
}

// NGramReport contains the results of n-gram mining.
type NGramReport struct {
	TopNGrams map[int][]NGram `json:"top_ngrams"` // Keyed by n
}

// RollingHash implements Rabin-Karp rolling hash for efficient n-gram detection.
type RollingHash struct {
	base   uint64
	hash   uint64
	pow    uint64 // base^(n-1) for removal
	window []uint8
	n      int
}

// NewRollingHash creates a new rolling hash for window size n.
func NewRollingHash(n int) *RollingHash {
	rh := &RollingHash{
		base:   31, // Prime base
		n:      n,
		window: make([]uint8, 0, n),
	}

	rh.pow = 1
	for i := 0; i < n-1; i++ {
		rh.pow *= rh.base
	}

	return rh
}

// Roll adds a token, dropping the oldest once the window is full.
func (rh *RollingHash) Roll(token uint8) {
	if len(rh.window) < rh.n {
		rh.window = append(rh.window, token)
		rh.hash = rh.hash*rh.base + uint64(token)
		return
	}

	old := rh.window[0]
	rh.hash = (rh.hash-uint64(old)*rh.pow)*rh.base + uint64(token)

	copy(rh.window, rh.window[1:])
	rh.window[rh.n-1] = token
}

// Hash returns the current hash value.
func (rh *RollingHash) Hash() uint64 {
	return rh.hash
}

// Window returns a copy of the current window.
func (rh *RollingHash) Window() []uint8 {
	result := make([]uint8, len(rh.window))
	copy(result, rh.window)
	return result
}

// Ready returns true if the window is full.
func (rh *RollingHash) Ready() bool {
	return len(rh.window) == rh.n
}

type ngramEntry struct {
	tokens      []uint8
	count       int
	occurrences []NGramOccurrence
}

// MineNGrams finds the top-K most frequent repeated n-grams for each n in
// [minN, maxN]. Sequences seen only once are not reported.
func MineNGrams(moves []storage.MoveRecord, minN, maxN, topK int) *NGramReport {
	report := &NGramReport{
		TopNGrams: make(map[int][]NGram),
	}

	tokens := make([]uint8, len(moves))
	for i, m := range moves {
		tokens[i] = uint8(m.Move)
	}

	for n := minN; n <= maxN && n <= len(moves); n++ {
		if n < 1 {
			continue
		}
		if ngrams := mineNGramsForN(tokens, moves, n, topK); len(ngrams) > 0 {
			report.TopNGrams[n] = ngrams
		}
	}

	return report
}

func mineNGramsForN(tokens []uint8, moves []storage.MoveRecord, n, topK int) []NGram {
	counts := make(map[uint64][]*ngramEntry)
	var order []*ngramEntry
	rh := NewRollingHash(n)

	for i, tok := range tokens {
		rh.Roll(tok)
		if !rh.Ready() {
			continue
		}

		start := i - n + 1
		occ := NGramOccurrence{StartIndex: start, TsMs: moves[start].TsMs}
		window := rh.Window()

		var entry *ngramEntry
		// Colliding hashes keep separate entries.
		for _, e := range counts[rh.Hash()] {
			if slicesEqual(e.tokens, window) {
				entry = e
				break
			}
		}
		if entry == nil {
			entry = &ngramEntry{tokens: window}
			counts[rh.Hash()] = append(counts[rh.Hash()], entry)
			order = append(order, entry)
		}

		entry.count++
		if len(entry.occurrences) < maxOccurrences {
			entry.occurrences = append(entry.occurrences, occ)
		}
	}

	entries := make([]*ngramEntry, 0, len(order))
	for _, entry := range order {
		if entry.count >= 2 {
			entries = append(entries, entry)
		}
	}

	// Stable keeps first-seen order among equal counts.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})

	if len(entries) > topK {
		entries = entries[:topK]
	}

	result := make([]NGram, len(entries))
	for i, entry := range entries {
		seq := make([]pocketcube.MoveID, len(entry.tokens))
		for j, token := range entry.tokens {
			seq[j] = pocketcube.MoveID(token)
		}

		result[i] = NGram{
			N:           n,
			Sequence:    pocketcube.FormatMoves(seq),
			Moves:       seq,
			Count:       entry.count,
			Occurrences: entry.occurrences,
		}
	}

	return result
}

func slicesEqual(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MineNGramsAcrossSessions aggregates per-session reports into one.
func MineNGramsAcrossSessions(reports map[string]*NGramReport, topK int) *NGramReport {
	report := &NGramReport{
		TopNGrams: make(map[int][]NGram),
	}

	ns := make(map[int]bool)
	for _, r := range reports {
		for n := range r.TopNGrams {
			ns[n] = true
		}
	}

	// Sorted session ids keep the sample occurrences deterministic.
	ids := make([]string, 0, len(reports))
	for id := range reports {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for n := range ns {
		aggregated := make(map[string]*NGram)
		var order []string

		for _, id := range ids {
			for _, ng := range reports[id].TopNGrams[n] {
				existing, ok := aggregated[ng.Sequence]
				if !ok {
					existing = &NGram{
						N:        ng.N,
						Sequence: ng.Sequence,
						Moves:    ng.Moves,
					}
					aggregated[ng.Sequence] = existing
					order = append(order, ng.Sequence)
				}
				existing.Count += ng.Count
				for _, occ := range ng.Occurrences {
					if len(existing.Occurrences) < maxOccurrences {
						occ.SessionID = id
						existing.Occurrences = append(existing.Occurrences, occ)
					}
				}
			}
		}

		ngrams := make([]NGram, 0, len(order))
		for _, key := range order {
			ngrams = append(ngrams, *aggregated[key])
		}
		sort.SliceStable(ngrams, func(i, j int) bool {
			return ngrams[i].Count > ngrams[j].Count
		})
		if len(ngrams) > topK {
			ngrams = ngrams[:topK]
		}
		if len(ngrams) > 0 {
			report.TopNGrams[n] = ngrams
		}
	}

	return report
}
