package pocketcube

import (
	"math/rand"

	"go.uber.org/zap"
)

// Animation defaults.
const (
	// DefaultStepAlpha is the interpolation factor of a regular frame.
	DefaultStepAlpha = 0.01

	// DefaultPlaybackStepAlpha is the extra interpolation applied on frames
	// spent in playback, on top of the regular step.
	DefaultPlaybackStepAlpha = 0.005

	// SettleEpsilon is the loose threshold at which the puzzle is settled
	// enough for the next move to be taken.
	SettleEpsilon = 0.1

	// RestEpsilon is the tight threshold at which the animation is fully at
	// rest.
	RestEpsilon = 1e-6
)

// PlaybackMode selects what a popped queue entry does.
type PlaybackMode int

const (
	// PlaybackUndo applies the inverse of each popped move, unwinding the
	// recorded history back to the starting position.
	PlaybackUndo PlaybackMode = iota
	// PlaybackReplay applies each popped move as-is.
	PlaybackReplay
)

func (m PlaybackMode) String() string {
	switch m {
	case PlaybackUndo:
		return "undo"
	case PlaybackReplay:
		return "replay"
	default:
		return "unknown"
	}
}

// ParsePlaybackMode converts "undo" or "replay" to a PlaybackMode.
func ParsePlaybackMode(s string) (PlaybackMode, bool) {
	switch s {
	case "undo", "":
		return PlaybackUndo, true
	case "replay":
		return PlaybackReplay, true
	default:
		return PlaybackUndo, false
	}
}

// Option configures Engine behavior.
type Option func(*config)

type config struct {
	stepAlpha         float64
	playbackStepAlpha float64
	settleEpsilon     float64
	restEpsilon       float64
	playbackMode      PlaybackMode
	rng               *rand.Rand
	logger            *zap.Logger
}

func defaultConfig() *config {
	return &config{
		stepAlpha:         DefaultStepAlpha,
		playbackStepAlpha: DefaultPlaybackStepAlpha,
		settleEpsilon:     SettleEpsilon,
		restEpsilon:       RestEpsilon,
		playbackMode:      PlaybackUndo,
		logger:            zap.NewNop(),
	}
}

// WithStepAlpha sets the interpolation factor used by Frame.
// Values outside (0, 1] are ignored.
func WithStepAlpha(alpha float64) Option {
	return func(c *config) {
		if alpha > 0 && alpha <= 1 {
			c.stepAlpha = alpha
		}
	}
}

// WithPlaybackStepAlpha sets the extra interpolation factor Frame applies
// while playback has entries left. Zero disables the extra step.
func WithPlaybackStepAlpha(alpha float64) Option {
	return func(c *config) {
		if alpha >= 0 && alpha <= 1 {
			c.playbackStepAlpha = alpha
		}
	}
}

// WithSettleEpsilon sets the loose convergence threshold that gates playback
// and random moves.
func WithSettleEpsilon(eps float64) Option {
	return func(c *config) {
		if eps > 0 {
			c.settleEpsilon = eps
		}
	}
}

// WithRestEpsilon sets the tight convergence threshold reported by AtRest.
func WithRestEpsilon(eps float64) Option {
	return func(c *config) {
		if eps > 0 {
			c.restEpsilon = eps
		}
	}
}

// WithPlaybackMode selects undo (default) or replay playback.
func WithPlaybackMode(mode PlaybackMode) Option {
	return func(c *config) {
		c.playbackMode = mode
	}
}

// WithRand sets the random source used for scramble moves.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) {
		c.rng = rng
	}
}

// WithSeed seeds the scramble source deterministically.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
