package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/SeamusWaldron/pocketcube"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Animation.StepAlpha != 0.01 {
		t.Errorf("expected step alpha 0.01, got %v", cfg.Animation.StepAlpha)
	}
	if cfg.Animation.PlaybackStepAlpha != 0.005 {
		t.Errorf("expected playback step alpha 0.005, got %v", cfg.Animation.PlaybackStepAlpha)
	}
	if cfg.Animation.SettleEpsilon != 0.1 {
		t.Errorf("expected settle epsilon 0.1, got %v", cfg.Animation.SettleEpsilon)
	}
	if cfg.Animation.RestEpsilon != 1e-6 {
		t.Errorf("expected rest epsilon 1e-6, got %v", cfg.Animation.RestEpsilon)
	}
	if cfg.Animation.FrameInterval != 16*time.Millisecond {
		t.Errorf("expected frame interval 16ms, got %v", cfg.Animation.FrameInterval)
	}
	if cfg.Scramble.Length != 20 {
		t.Errorf("expected scramble length 20, got %d", cfg.Scramble.Length)
	}
	if cfg.Playback.Mode != "undo" {
		t.Errorf("expected playback mode undo, got %s", cfg.Playback.Mode)
	}
	if !cfg.Storage.Enabled {
		t.Error("expected storage to be enabled by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
animation:
  step_alpha: 0.05
  frame_interval: 8ms
  frames_per_tick: 2

scramble:
  length: 30
  seed: 99

playback:
  mode: replay

storage:
  enabled: false
  db_path: "/tmp/cube.db"

logging:
  level: "debug"
  log_file: "cube.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath, Overrides{})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Animation.StepAlpha != 0.05 {
		t.Errorf("expected step alpha 0.05, got %v", cfg.Animation.StepAlpha)
	}
	// Unset keys keep their defaults.
	if cfg.Animation.SettleEpsilon != 0.1 {
		t.Errorf("expected default settle epsilon, got %v", cfg.Animation.SettleEpsilon)
	}
	if cfg.Animation.FrameInterval != 8*time.Millisecond {
		t.Errorf("expected frame interval 8ms, got %v", cfg.Animation.FrameInterval)
	}
	if cfg.Animation.FramesPerTick != 2 {
		t.Errorf("expected 2 frames per tick, got %d", cfg.Animation.FramesPerTick)
	}
	if cfg.Scramble.Length != 30 || cfg.Scramble.Seed != 99 {
		t.Errorf("unexpected scramble config %+v", cfg.Scramble)
	}
	if cfg.Playback.Mode != "replay" {
		t.Errorf("expected replay mode, got %s", cfg.Playback.Mode)
	}
	if cfg.Storage.Enabled || cfg.Storage.DBPath != "/tmp/cube.db" {
		t.Errorf("unexpected storage config %+v", cfg.Storage)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "cube.log" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("logging:\n  level: warn\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath, Overrides{
		LogLevel:  "error",
		DBPath:    "override.db",
		NoStorage: true,
		Seed:      5,
	})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("flag should win over file, got level %s", cfg.Logging.Level)
	}
	if cfg.Storage.DBPath != "override.db" || cfg.Storage.Enabled {
		t.Errorf("unexpected storage config %+v", cfg.Storage)
	}
	if cfg.Scramble.Seed != 5 {
		t.Errorf("expected seed 5, got %d", cfg.Scramble.Seed)
	}

	cfg, err = Load(configPath, Overrides{Verbose: true})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("verbose should select debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
animation:
  step_alpha: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(configPath, Overrides{}); err == nil {
		t.Error("expected error loading invalid YAML")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), Overrides{}); err == nil {
		t.Error("expected error for an explicit path that does not exist")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"alpha zero", func(c *Config) { c.Animation.StepAlpha = 0 }, ErrInvalidAlpha},
		{"alpha one", func(c *Config) { c.Animation.StepAlpha = 1 }, ErrInvalidAlpha},
		{"playback alpha negative", func(c *Config) { c.Animation.PlaybackStepAlpha = -0.1 }, ErrInvalidAlpha},
		{"settle epsilon", func(c *Config) { c.Animation.SettleEpsilon = 0 }, ErrInvalidEpsilon},
		{"rest epsilon", func(c *Config) { c.Animation.RestEpsilon = -1 }, ErrInvalidEpsilon},
		{"frame interval", func(c *Config) { c.Animation.FrameInterval = 0 }, ErrInvalidValue},
		{"frames per tick", func(c *Config) { c.Animation.FramesPerTick = 0 }, ErrInvalidValue},
		{"scramble length", func(c *Config) { c.Scramble.Length = -1 }, ErrInvalidValue},
		{"playback mode", func(c *Config) { c.Playback.Mode = "rewind" }, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}

	cfg := Default()
	cfg.Animation.PlaybackStepAlpha = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero playback alpha disables the extra step and should validate: %v", err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Scramble.Length = 12
	cfg.Playback.Mode = "replay"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded, err := Load(path, Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Scramble.Length != 12 || loaded.Playback.Mode != "replay" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := Default()
	cfg.Scramble.Seed = 42
	cfg.Playback.Mode = "replay"

	e := pocketcube.New(cfg.EngineOptions(nil)...)
	e.Enqueue(pocketcube.F)
	e.StartPlayback()
	for i := 0; i < 1_000_000 && (e.Playback() || !e.AtRest()); i++ {
		e.Frame()
	}
	// Replay applies F as-is.
	if e.Slots() != (pocketcube.SlotArray{2, 0, 3, 1, 4, 5, 6, 7}) {
		t.Errorf("slots = %v, want replayed F", e.Slots())
	}

	a := pocketcube.New(cfg.EngineOptions(nil)...).RandomMove()
	b := pocketcube.New(cfg.EngineOptions(nil)...).RandomMove()
	if a != b {
		t.Error("seeded engines should draw the same first move")
	}
}

func TestConfigDirXDG(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other unix systems")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if dir := ConfigDir(); dir != filepath.Join("/tmp/xdg", "pocketcube") {
		t.Errorf("unexpected config dir %q", dir)
	}
}
