package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/pocketcube"
	"github.com/SeamusWaldron/pocketcube/internal/ble"
	"github.com/SeamusWaldron/pocketcube/internal/logger"
	"github.com/SeamusWaldron/pocketcube/internal/protocol"
	"github.com/SeamusWaldron/pocketcube/internal/recorder"
	"github.com/SeamusWaldron/pocketcube/internal/storage"
)

// moveBuffer absorbs bursts of notifications while the UI is busy.
const moveBuffer = 64

var (
	connectScanTimeout time.Duration
	connectRetries     int
	connectNotes       string
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Mirror a GoCube over Bluetooth",
	Long: `Scan for a GoCube, connect to it and mirror every face turn made on the
physical cube. Only the cube turns the puzzle: keyboard turns, random moves
and playback are disabled so the screen stays in step with the device.

To fix connection problems:
  1. Rotate your cube to wake it up
  2. Make sure it's not connected to your phone
  3. Run this command again`,
	Annotations: map[string]string{annotationTUI: "true"},
	RunE:        runConnect,
}

func init() {
	rootCmd.AddCommand(connectCmd)
	connectCmd.Flags().DurationVar(&connectScanTimeout, "scan-timeout", 5*time.Second, "How long each scan runs")
	connectCmd.Flags().IntVar(&connectRetries, "retries", 3, "Number of scans before giving up")
	connectCmd.Flags().StringVar(&connectNotes, "notes", "", "Notes stored with the session")
}

// scanForGoCube scans up to attempts times and returns the first devices seen.
func scanForGoCube(client *ble.Client, attempts int, timeout time.Duration) ([]ble.ScanResult, error) {
	fmt.Println("Scanning for GoCube devices...")

	for attempt := 1; attempt <= attempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		results, err := client.Scan(ctx, timeout)
		cancel()

		if err != nil {
			fmt.Printf("Scan %d failed: %v\n", attempt, err)
			continue
		}
		if len(results) > 0 {
			fmt.Printf("Found: %s\n", results[0].Name)
			return results, nil
		}
		if attempt < attempts {
			fmt.Printf("Scan %d: No devices found, retrying...\n", attempt)
		}
	}
	return nil, ble.ErrDeviceNotFound
}

func runConnect(cmd *cobra.Command, args []string) error {
	client, err := ble.NewClient(logger.Named("ble"))
	if err != nil {
		return fmt.Errorf("BLE not available: %w", err)
	}

	results, err := scanForGoCube(client, max(connectRetries, 1), connectScanTimeout)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = client.Connect(ctx, results[0])
	cancel()
	if err != nil {
		return err
	}
	defer client.Disconnect()

	// Callbacks run on the Bluetooth goroutine; the channel hands moves to
	// the UI loop, which owns the engine.
	moves := make(chan pocketcube.MoveID, moveBuffer)
	client.SetMoveCallback(func(id pocketcube.MoveID) {
		select {
		case moves <- id:
		default:
			logger.Warn("dropping move, UI is behind", zap.Stringer("move", id))
		}
	})
	client.SetOrientationCallback(func(ev *protocol.OrientationEvent) {
		logger.Debug("orientation",
			zap.String("up", string(ev.UpFace)),
			zap.String("front", string(ev.FrontFace)))
	})

	db, err := openDB()
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	e := pocketcube.New(cfg.EngineOptions(logger.Named("engine"))...)
	m := newEngineModel("pocketcube connect", e, cfg.Animation)
	m.moves = moves
	m.device = client

	if db != nil {
		m.session = recorder.NewSession(db, logger.Named("recorder"))
		if _, err := m.session.Start(storage.NewSession{
			Source: "gocube",
			Notes:  connectNotes,
		}); err != nil {
			return err
		}
	}

	return runTUI(m)
}
