package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/pocketcube"
	"github.com/SeamusWaldron/pocketcube/internal/logger"
	"github.com/SeamusWaldron/pocketcube/internal/recorder"
	"github.com/SeamusWaldron/pocketcube/internal/render"
	"github.com/SeamusWaldron/pocketcube/internal/storage"
)

// maxHeadlessFrames bounds headless playback.
const maxHeadlessFrames = 10_000_000

var errPlaybackStalled = errors.New("playback did not finish")

var (
	scrambleMoves string
	scrambleCount int
	scrambleSolve bool
	scramblePlain bool
)

var scrambleCmd = &cobra.Command{
	Use:   "scramble",
	Short: "Print a scrambled puzzle",
	Long: `Generate a random scramble (or apply the given moves), print the
sequence and the resulting net. With --solve the history is played back
headlessly and the final net is printed as well.

Examples:
  pocketcube scramble
  pocketcube scramble -n 8 --seed 7 --solve
  pocketcube scramble --moves "R U R' U'"`,
	RunE: runScramble,
}

func init() {
	rootCmd.AddCommand(scrambleCmd)
	scrambleCmd.Flags().IntVarP(&scrambleCount, "count", "n", 0, "Number of random moves (default: scramble.length)")
	scrambleCmd.Flags().StringVar(&scrambleMoves, "moves", "", "Apply this sequence instead of random moves")
	scrambleCmd.Flags().BoolVar(&scrambleSolve, "solve", false, "Play the history back and print the result")
	scrambleCmd.Flags().BoolVar(&scramblePlain, "plain", false, "Print the net as plain letters")
}

func runScramble(cmd *cobra.Command, args []string) error {
	s := scrambleSeed()

	var moves []pocketcube.MoveID
	if scrambleMoves != "" {
		parsed, err := pocketcube.ParseMoves(scrambleMoves)
		if err != nil {
			return err
		}
		moves = parsed
	} else {
		n := scrambleCount
		if n <= 0 {
			n = cfg.Scramble.Length
		}
		moves = pocketcube.NewSeededScrambler(s).Sequence(n)
	}

	e := pocketcube.New(cfg.EngineOptions(logger.Named("engine"))...)
	for _, id := range moves {
		if err := e.Push(id); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scramble (%d): %s\n", len(moves), pocketcube.FormatMoves(moves))
	if scrambleMoves == "" {
		fmt.Fprintf(out, "Seed: %d\n", s)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, netString(e.TargetFacelets()))

	db, err := openDB()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	session, err := startScrambleSession(db, s, moves)
	if err != nil {
		return err
	}
	if session != nil {
		session.Attach(e)
	}

	if scrambleSolve {
		start := time.Now()
		frames, err := playToRest(e)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Played back %d moves in %d frames (%s)\n", len(moves), frames, formatDuration(time.Since(start)))
		fmt.Fprintln(out)
		fmt.Fprintln(out, netString(e.Facelets()))
		if e.IsSolved() {
			fmt.Fprintln(out, phaseStyle.Render("SOLVED"))
		}
	}

	if session != nil {
		if err := session.End(e.IsSolved()); err != nil {
			return err
		}
		fmt.Fprintf(out, "Session: %s\n", session.SessionID())
	}
	return nil
}

// startScrambleSession records the scramble as one batch. It returns nil
// when storage is disabled.
func startScrambleSession(db *storage.DB, s int64, moves []pocketcube.MoveID) (*recorder.Session, error) {
	if db == nil {
		return nil, nil
	}
	session := recorder.NewSession(db, logger.Named("recorder"))
	if _, err := session.Start(storage.NewSession{
		Source:   "scramble",
		Seed:     s,
		Scramble: pocketcube.FormatMoves(moves),
	}); err != nil {
		return nil, err
	}
	if err := session.RecordScramble(moves); err != nil {
		return nil, err
	}
	return session, nil
}

// playToRest starts playback and runs frames until the queue is drained and
// every cublet is at rest. It returns the number of frames run.
func playToRest(e *pocketcube.Engine) (int, error) {
	e.StartPlayback()
	frames := 0
	for e.Playback() || !e.AtRest() {
		if frames >= maxHeadlessFrames {
			logger.Warn("headless playback stalled", zap.Int("queued", e.Queue().Len()))
			return frames, errPlaybackStalled
		}
		e.Frame()
		frames++
	}
	return frames, nil
}

func netString(fl pocketcube.Facelets) string {
	if scramblePlain {
		return fl.String()
	}
	return render.Net(fl)
}

// scrambleSeed returns the configured seed, or a time based one.
func scrambleSeed() int64 {
	if cfg.Scramble.Seed != 0 {
		return cfg.Scramble.Seed
	}
	return time.Now().UnixNano()
}
