package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/pocketcube"
	"github.com/SeamusWaldron/pocketcube/internal/analysis"
	"github.com/SeamusWaldron/pocketcube/internal/storage"
)

var (
	historyLimit int
	exportFormat string
	exportOutput string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded sessions",
	Long: `List, inspect, export and delete recorded sessions, or show statistics
across them.

Session IDs may be given in full, or as "last" for the most recent session.

Examples:
  pocketcube history
  pocketcube history show last
  pocketcube history export <session_id> --format json -o moves.json`,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [session_id]",
	Short: "Show one session and its moves",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistoryShow,
}

var historyExportCmd = &cobra.Command{
	Use:   "export [session_id]",
	Short: "Export the moves of a session",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistoryExport,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics across recent sessions",
	RunE:  runHistoryStats,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <session_id>",
	Short: "Delete a session and its moves",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of sessions to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyStatsCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of sessions to include")
	historyExportCmd.Flags().StringVar(&exportFormat, "format", "txt", "Export format (txt, json)")
	historyExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

// findSession resolves a session argument. An empty id or "last" selects the
// most recent session.
func findSession(db *storage.DB, args []string) (*storage.Session, error) {
	repo := storage.NewSessionRepository(db)
	if len(args) == 0 || args[0] == "last" {
		return repo.Latest()
	}
	return repo.Get(args[0])
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	db, err := requireDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := storage.NewSessionRepository(db).List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions recorded yet")
		fmt.Fprintln(out, "Start one with: pocketcube play")
		return nil
	}

	fmt.Fprintf(out, "Recent sessions (showing %d):\n", len(sessions))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%-36s  %-20s  %-10s  %-8s  %-6s  %-6s  %s\n", "ID", "Started", "Duration", "Source", "Moves", "Solved", "Notes")
	fmt.Fprintln(out, "------------------------------------  --------------------  ----------  --------  ------  ------  -----")

	for _, s := range sessions {
		duration := "-"
		if s.DurationMs != nil {
			duration = formatDuration(time.Duration(*s.DurationMs) * time.Millisecond)
		}

		solved := "-"
		status := ""
		if s.EndedAt == nil {
			status = " (active)"
		} else if s.Solved {
			solved = "yes"
		} else {
			solved = "no"
		}

		notes := ""
		if s.Notes != nil {
			notes = *s.Notes
			if len(notes) > 30 {
				notes = notes[:27] + "..."
			}
		}

		fmt.Fprintf(out, "%-36s  %-20s  %-10s  %-8s  %-6d  %-6s  %s%s\n",
			s.SessionID,
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			duration,
			s.Source,
			s.MoveCount,
			solved,
			notes,
			status,
		)
	}

	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	db, err := requireDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := findSession(db, args)
	if err != nil {
		return err
	}
	records, err := storage.NewMoveRepository(db).GetBySession(s.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load moves: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Session "+s.SessionID))
	fmt.Fprintf(out, "Started:  %s\n", s.StartedAt.Local().Format(time.RFC3339))
	if s.EndedAt != nil {
		fmt.Fprintf(out, "Ended:    %s\n", s.EndedAt.Local().Format(time.RFC3339))
	}
	if s.DurationMs != nil {
		fmt.Fprintf(out, "Duration: %s\n", formatDuration(time.Duration(*s.DurationMs)*time.Millisecond))
	}
	fmt.Fprintf(out, "Source:   %s\n", s.Source)
	if s.Seed != nil {
		fmt.Fprintf(out, "Seed:     %d\n", *s.Seed)
	}
	if s.ScrambleText != nil {
		fmt.Fprintf(out, "Scramble: %s\n", *s.ScrambleText)
	}
	if s.Notes != nil {
		fmt.Fprintf(out, "Notes:    %s\n", *s.Notes)
	}
	fmt.Fprintf(out, "Solved:   %v\n", s.Solved)
	fmt.Fprintln(out)

	// Rebuild the final position from the recorded moves.
	e := pocketcube.New()
	for _, r := range records {
		if err := e.Push(r.Move); err != nil {
			return fmt.Errorf("move %d: %w", r.MoveIndex, err)
		}
	}

	fmt.Fprintf(out, "Moves (%d): %s\n", len(records), moveStyle.Render(pocketcube.FormatMoves(storage.ToMoveIDs(records))))
	fmt.Fprintln(out)
	fmt.Fprintln(out, netString(e.TargetFacelets()))
	fmt.Fprintln(out)

	printSummary(out, analysis.Summarize(s, records))
	printNGrams(out, analysis.MineNGrams(records, ngramMin, ngramMax, ngramTop))
	return nil
}

const (
	ngramMin = 2
	ngramMax = 6
	ngramTop = 3
)

func printSummary(out io.Writer, sum *analysis.SessionSummary) {
	fmt.Fprintln(out, phaseStyle.Render("Statistics"))
	fmt.Fprintf(out, "  Moves:         %d (%d after simplifying, %.0f%%)\n", sum.TotalMoves, sum.OptimizedMoves, sum.Efficiency*100)
	fmt.Fprintf(out, "  TPS:           %.2f\n", sum.TPSOverall)
	fmt.Fprintf(out, "  Avg gap:       %.0fms\n", sum.AvgMoveDurationMs)
	fmt.Fprintf(out, "  Longest pause: %dms (%d over %dms)\n", sum.LongestPauseMs, sum.PauseCount, analysis.DefaultPauseThresholdMs)
	fmt.Fprintf(out, "  Cancellations: %d\n", sum.Cancellations)
	if sum.TotalMoves > 0 {
		fmt.Fprintf(out, "  Favorite face: %s\n", sum.Profile.MostUsedFace)
	}
	for _, src := range []string{"input", "playback", "scramble"} {
		if n := sum.SourceCounts[src]; n > 0 {
			fmt.Fprintf(out, "  From %-9s %d\n", src+":", n)
		}
	}
	fmt.Fprintln(out)
}

func printNGrams(out io.Writer, report *analysis.NGramReport) {
	if len(report.TopNGrams) == 0 {
		return
	}
	fmt.Fprintln(out, phaseStyle.Render("Repeated sequences"))
	for n := ngramMax; n >= ngramMin; n-- {
		for _, ng := range report.TopNGrams[n] {
			fmt.Fprintf(out, "  %-24s x%d\n", moveStyle.Render(ng.Sequence), ng.Count)
		}
	}
	fmt.Fprintln(out)
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	db, err := requireDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := storage.NewSessionRepository(db).List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions recorded yet")
		return nil
	}

	moveRepo := storage.NewMoveRepository(db)
	reports := make(map[string]*analysis.NGramReport, len(sessions))
	var totalMoves, optimized, solved int
	var totalMs int64
	for i := range sessions {
		s := &sessions[i]
		records, err := moveRepo.GetBySession(s.SessionID)
		if err != nil {
			return fmt.Errorf("failed to load moves: %w", err)
		}
		sum := analysis.Summarize(s, records)
		totalMoves += sum.TotalMoves
		optimized += sum.OptimizedMoves
		totalMs += sum.DurationMs
		if s.Solved {
			solved++
		}
		reports[s.SessionID] = analysis.MineNGrams(records, ngramMin, ngramMax, ngramTop)
	}

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Last %d sessions", len(sessions))))
	fmt.Fprintf(out, "  Solved:   %d/%d\n", solved, len(sessions))
	fmt.Fprintf(out, "  Moves:    %d (%d after simplifying)\n", totalMoves, optimized)
	fmt.Fprintf(out, "  Time:     %s\n", formatDuration(time.Duration(totalMs)*time.Millisecond))
	fmt.Fprintf(out, "  TPS:      %.2f\n", analysis.CalculateTPS(totalMoves, totalMs))
	fmt.Fprintln(out)

	printNGrams(out, analysis.MineNGramsAcrossSessions(reports, ngramTop))
	return nil
}

// exportedMove is the JSON form of one recorded move.
type exportedMove struct {
	Index    int    `json:"index"`
	TsMs     int64  `json:"ts_ms"`
	Move     int    `json:"move"`
	Notation string `json:"notation"`
	Source   string `json:"source"`
}

type exportedSession struct {
	SessionID string                   `json:"session_id"`
	StartedAt time.Time                `json:"started_at"`
	Source    string                   `json:"source"`
	Solved    bool                     `json:"solved"`
	Summary   *analysis.SessionSummary `json:"summary"`
	Moves     []exportedMove           `json:"moves"`
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	db, err := requireDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := findSession(db, args)
	if err != nil {
		return err
	}
	records, err := storage.NewMoveRepository(db).GetBySession(s.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load moves: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch exportFormat {
	case "txt":
		_, err = fmt.Fprintln(w, pocketcube.FormatMoves(storage.ToMoveIDs(records)))
	case "json":
		doc := exportedSession{
			SessionID: s.SessionID,
			StartedAt: s.StartedAt,
			Source:    s.Source,
			Solved:    s.Solved,
			Summary:   analysis.Summarize(s, records),
			Moves:     make([]exportedMove, 0, len(records)),
		}
		for _, r := range records {
			doc.Moves = append(doc.Moves, exportedMove{
				Index:    r.MoveIndex,
				TsMs:     r.TsMs,
				Move:     int(r.Move),
				Notation: r.Notation,
				Source:   r.Source,
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	default:
		return fmt.Errorf("unknown format %q (use txt or json)", exportFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	if exportOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d moves to %s\n", len(records), exportOutput)
	}
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	db, err := requireDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.NewSessionRepository(db).Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
	return nil
}
