package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/pocketcube/internal/logger"
	"github.com/SeamusWaldron/pocketcube/internal/recorder"
)

var (
	replaySpeed    int
	replayWait     bool
	replayHeadless bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [session_id]",
	Short: "Replay a recorded session",
	Long: `Replay a recorded session from a solved puzzle, applying every recorded
move in order with the usual animation.

If no session is given, the most recent one is replayed.

Usage:
  pocketcube replay                  # Replay the last session
  pocketcube replay <session_id>     # Replay a specific session
  pocketcube replay --speed 4        # Run four frames per tick
  pocketcube replay --wait           # Wait for space before starting
  pocketcube replay --headless       # Print the final net only`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationTUI: "true"},
	RunE:        runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().IntVarP(&replaySpeed, "speed", "s", 0, "Frames per tick (default: animation.frames_per_tick)")
	replayCmd.Flags().BoolVar(&replayWait, "wait", false, "Wait for space before starting")
	replayCmd.Flags().BoolVar(&replayHeadless, "headless", false, "Run without the TUI and print the result")
}

func runReplay(cmd *cobra.Command, args []string) error {
	db, err := requireDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := findSession(db, args)
	if err != nil {
		return err
	}
	_, moves, err := recorder.Load(db, s.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	logger.Info("replaying session", zap.String("session", s.SessionID), zap.Int("moves", len(moves)))

	e, err := recorder.ReplayEngine(moves, cfg.EngineOptions(logger.Named("engine"))...)
	if err != nil {
		return err
	}

	if replayHeadless {
		frames, err := playToRest(e)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Replayed %d moves of %s in %d frames\n", len(moves), s.SessionID, frames)
		fmt.Fprintln(out)
		fmt.Fprintln(out, netString(e.Facelets()))
		return nil
	}

	m := newEngineModel(fmt.Sprintf("pocketcube replay %s", shortID(s.SessionID)), e, cfg.Animation)
	if replaySpeed > 0 {
		m.speed = min(replaySpeed, maxSpeed)
	}
	if !replayWait {
		m.startPlayback()
	}

	return runTUI(m)
}
