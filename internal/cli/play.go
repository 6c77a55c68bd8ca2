package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/pocketcube"
	"github.com/SeamusWaldron/pocketcube/internal/logger"
	"github.com/SeamusWaldron/pocketcube/internal/recorder"
	"github.com/SeamusWaldron/pocketcube/internal/storage"
)

var (
	playScramble int
	playNotes    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Turn the puzzle from the keyboard",
	Long: `Open the interactive puzzle. Every turn is animated and pushed onto the
move queue; press s to watch the puzzle play its history back.

The session is recorded unless --no-store is given.

Examples:
  pocketcube play
  pocketcube play --scramble 10 --seed 42`,
	Annotations: map[string]string{annotationTUI: "true"},
	RunE:        runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().IntVar(&playScramble, "scramble", 0, "Apply this many random moves before play starts")
	playCmd.Flags().StringVar(&playNotes, "notes", "", "Notes stored with the session")
}

func runPlay(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	e := pocketcube.New(cfg.EngineOptions(logger.Named("engine"))...)
	m := newEngineModel("pocketcube", e, cfg.Animation)
	m.interactive = true

	var scramble []pocketcube.MoveID
	s := scrambleSeed()
	if playScramble > 0 {
		scramble = pocketcube.NewSeededScrambler(s).Sequence(playScramble)
	}

	if db != nil {
		m.session = recorder.NewSession(db, logger.Named("recorder"))
		if _, err := m.session.Start(storage.NewSession{
			Source:   "keyboard",
			Seed:     s,
			Scramble: pocketcube.FormatMoves(scramble),
			Notes:    playNotes,
		}); err != nil {
			return err
		}
	}

	// Scramble moves go through Push so they are animated, queued and
	// recorded like any other input.
	for _, id := range scramble {
		if err := e.Push(id); err != nil {
			return fmt.Errorf("failed to apply scramble: %w", err)
		}
	}

	return runTUI(m)
}
