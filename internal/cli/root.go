// Package cli implements the command-line interface for pocketcube.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/pocketcube/internal/config"
	"github.com/SeamusWaldron/pocketcube/internal/logger"
	"github.com/SeamusWaldron/pocketcube/internal/storage"
)

const version = "0.1.0"

// annotationTUI marks commands that take over the terminal, so console
// logging is switched off for them.
const annotationTUI = "tui"

var (
	// Global flags
	cfgFile  string
	dbPath   string
	logLevel string
	logFile  string
	noStore  bool
	seed     int64
	verbose  bool

	cfg *config.Config
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "pocketcube",
	Short: "2x2x2 rotation puzzle simulator",
	Long: `pocketcube - A terminal simulator for the 2x2x2 rotation puzzle.

Turn faces from the keyboard or from a GoCube over Bluetooth, scramble with
random moves, watch the puzzle undo its own history, and replay recorded
sessions.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./pocketcube.yaml or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: ~/.pocketcube/pocketcube.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a rotating file")
	rootCmd.PersistentFlags().BoolVar(&noStore, "no-store", false, "Do not record sessions")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Seed for random moves (default: time based)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// setup loads configuration and starts logging before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile, config.Overrides{
		LogLevel:  logLevel,
		LogFile:   logFile,
		DBPath:    dbPath,
		NoStorage: noStore,
		Seed:      seed,
		Verbose:   verbose,
	})
	if err != nil {
		return err
	}
	cfg = c

	var fileCfg logger.FileConfig
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	var console io.Writer = os.Stderr
	if cmd.Annotations[annotationTUI] == "true" {
		console = nil
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, console); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	logger.Debug("config loaded",
		zap.String("command", cmd.Name()),
		zap.Bool("storage", cfg.Storage.Enabled),
		zap.String("playback", cfg.Playback.Mode))
	return nil
}

// openDB opens and migrates the session database. It returns nil when
// storage is disabled.
func openDB() (*storage.DB, error) {
	if !cfg.Storage.Enabled {
		return nil, nil
	}

	var db *storage.DB
	var err error
	if cfg.Storage.DBPath == "" {
		db, err = storage.OpenDefault()
	} else {
		db, err = storage.Open(cfg.Storage.DBPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// requireDB opens the database for commands that cannot run without it.
func requireDB() (*storage.DB, error) {
	if !cfg.Storage.Enabled {
		return nil, fmt.Errorf("storage is disabled (remove --no-store or set storage.enabled)")
	}
	return openDB()
}
