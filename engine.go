package pocketcube

import (
	"go.uber.org/zap"

	"github.com/SeamusWaldron/pocketcube/pkg/quat"
)

// State is the playback state of an Engine.
type State int

const (
	// StateIdle: everything settled and nothing queued.
	StateIdle State = iota
	// StateAnimating: at least one cublet is still turning toward its target.
	StateAnimating
	// StateReadyToAdvance: settled with entries left in the queue.
	StateReadyToAdvance
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnimating:
		return "animating"
	case StateReadyToAdvance:
		return "ready"
	default:
		return "unknown"
	}
}

// MoveSource tells where an applied move came from.
type MoveSource int

const (
	SourceInput    MoveSource = iota // Push or PushRandom
	SourcePlayback                   // popped from the queue
)

func (s MoveSource) String() string {
	switch s {
	case SourceInput:
		return "input"
	case SourcePlayback:
		return "playback"
	default:
		return "unknown"
	}
}

// MoveEvent describes one applied move.
type MoveEvent struct {
	Index  int        // sequence number of the move since New or Reset
	Move   MoveID     // the move actually applied
	Source MoveSource // where the move came from
}

// CubletView is the read-only state a renderer needs for one slot.
type CubletView struct {
	Slot        int
	Cublet      int
	Anchor      quat.Vec3
	Orientation quat.Quat
	Rotation    quat.Mat4
	Colors      [3]Color
}

// Model returns the rotation applied after translating to the anchor, the
// transform that places this cublet in the puzzle frame.
func (v CubletView) Model() quat.Mat4 {
	return v.Rotation.Mul(quat.Translation(v.Anchor))
}

// Engine owns the eight cublets, the slot arrangement and the move queue, and
// advances the animation one frame at a time.
//
// An Engine is driven by a single frame loop and is not safe for concurrent
// use.
type Engine struct {
	cfg *config
	log *zap.Logger

	cublets   [NumCublets]Cublet
	slots     SlotArray
	queue     Queue
	scrambler *Scrambler

	playback bool
	settled  bool
	atRest   bool
	applied  int
	frames   uint64

	onMove func(MoveEvent)
}

// New creates an engine in the solved position with an empty queue.
func New(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	e := &Engine{
		cfg:       cfg,
		log:       cfg.logger,
		scrambler: NewScrambler(cfg.rng),
	}
	e.reset()
	return e
}

// OnMove sets a callback fired synchronously after every applied move.
func (e *Engine) OnMove(cb func(MoveEvent)) {
	e.onMove = cb
}

// Reset restores the solved position, clears the queue and leaves playback.
func (e *Engine) Reset() {
	e.reset()
	e.log.Debug("engine reset")
}

func (e *Engine) reset() {
	e.cublets = newCublets()
	e.slots = IdentitySlots()
	e.queue.Clear()
	e.playback = false
	e.applied = 0
	e.refresh()
}

// Push applies id immediately and records it on the queue.
// Moves pushed while an earlier one is still animating compound onto its
// target. Push is rejected while playback is running.
func (e *Engine) Push(id MoveID) error {
	if !id.Valid() {
		return ErrInvalidMove
	}
	if e.playback {
		return ErrPlaybackActive
	}
	e.apply(id, SourceInput)
	e.queue.Push(id)
	return nil
}

// PushRandom pushes a random move, but only once the previous animation has
// settled. It reports the move and whether it was applied.
func (e *Engine) PushRandom() (MoveID, bool) {
	if !e.settled || e.playback {
		return 0, false
	}
	id := e.scrambler.Next()
	if err := e.Push(id); err != nil {
		return 0, false
	}
	return id, true
}

// RandomMove returns a move from the engine's scramble source without
// applying it.
func (e *Engine) RandomMove() MoveID {
	return e.scrambler.Next()
}

// Enqueue adds scripted entries to the queue without applying them. They are
// consumed by playback, last entry first.
func (e *Engine) Enqueue(ids ...MoveID) error {
	for _, id := range ids {
		if !id.Valid() {
			return ErrInvalidMove
		}
	}
	for _, id := range ids {
		e.queue.Push(id)
	}
	return nil
}

// StartPlayback switches to gated playback: one queue entry is applied per
// settle event until the queue is empty.
func (e *Engine) StartPlayback() {
	if e.playback {
		return
	}
	e.playback = true
	e.log.Info("playback started",
		zap.Stringer("mode", e.cfg.playbackMode),
		zap.Int("queued", e.queue.Len()))
}

// Playback reports whether playback is active.
func (e *Engine) Playback() bool {
	return e.playback
}

// Frame runs one frame: in playback, pop and apply the next entry once
// settled and take the extra playback step; then take the regular step.
// It returns the settled flag.
func (e *Engine) Frame() bool {
	e.frames++

	if e.playback {
		if e.queue.Empty() {
			e.playback = false
			e.log.Info("playback finished", zap.Int("applied", e.applied))
		} else {
			if e.settled {
				id, _ := e.queue.Pop()
				e.apply(e.resolve(id), SourcePlayback)
			}
			if e.cfg.playbackStepAlpha > 0 {
				e.Tick(e.cfg.playbackStepAlpha)
			}
		}
	}

	return e.Tick(e.cfg.stepAlpha)
}

// Tick advances every cublet's orientation toward its target by alpha and
// returns whether the puzzle is settled.
func (e *Engine) Tick(alpha float64) bool {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	for i := range e.cublets {
		c := &e.cublets[i]
		c.Orientation = c.Orientation.Lerp(c.Target, alpha)
	}
	e.refresh()
	return e.settled
}

// Settled reports whether all cublets are within the settle threshold.
func (e *Engine) Settled() bool {
	return e.settled
}

// AtRest reports whether all cublets are within the rest threshold.
func (e *Engine) AtRest() bool {
	return e.atRest
}

// Distance returns the largest componentwise gap between any cublet's
// orientation and its target.
func (e *Engine) Distance() float64 {
	var d float64
	for i := range e.cublets {
		if g := e.cublets[i].Orientation.MaxDiff(e.cublets[i].Target); g > d {
			d = g
		}
	}
	return d
}

// State returns the current playback state.
func (e *Engine) State() State {
	switch {
	case !e.settled:
		return StateAnimating
	case !e.queue.Empty():
		return StateReadyToAdvance
	default:
		return StateIdle
	}
}

// Queue returns the engine's move queue.
func (e *Engine) Queue() *Queue {
	return &e.queue
}

// Slots returns a copy of the slot arrangement.
func (e *Engine) Slots() SlotArray {
	return e.slots
}

// Cublet returns a copy of cublet i (by identity, not by slot).
func (e *Engine) Cublet(i int) Cublet {
	return e.cublets[i]
}

// CubletInSlot returns a copy of the cublet occupying slot.
func (e *Engine) CubletInSlot(slot int) Cublet {
	return e.cublets[e.slots[slot]]
}

// Views returns the render state of every slot, in slot order.
func (e *Engine) Views() []CubletView {
	views := make([]CubletView, NumCublets)
	for slot, idx := range e.slots {
		c := &e.cublets[idx]
		views[slot] = CubletView{
			Slot:        slot,
			Cublet:      idx,
			Anchor:      c.Anchor,
			Orientation: c.Orientation,
			Rotation:    c.Orientation.Mat4(),
			Colors:      c.Colors,
		}
	}
	return views
}

// Applied returns the number of moves applied since New or Reset.
func (e *Engine) Applied() int {
	return e.applied
}

// Frames returns the number of frames run.
func (e *Engine) Frames() uint64 {
	return e.frames
}

// Facelets returns the visible sticker colors from the current orientations.
func (e *Engine) Facelets() Facelets {
	return faceletsOf(&e.cublets, func(c *Cublet) quat.Quat { return c.Orientation })
}

// TargetFacelets returns the sticker colors the animation is heading to.
func (e *Engine) TargetFacelets() Facelets {
	return faceletsOf(&e.cublets, func(c *Cublet) quat.Quat { return c.Target })
}

// IsSolved reports whether every face shows a single color once the current
// animation completes.
func (e *Engine) IsSolved() bool {
	return e.TargetFacelets().Solved()
}

func (e *Engine) resolve(id MoveID) MoveID {
	if e.cfg.playbackMode == PlaybackUndo {
		return id.Inverse()
	}
	return id
}

func (e *Engine) apply(id MoveID, src MoveSource) {
	applyMove(&e.slots, &e.cublets, id)
	e.applied++
	e.refresh()

	e.log.Debug("move applied",
		zap.Stringer("move", id),
		zap.Stringer("source", src),
		zap.Int("queued", e.queue.Len()))

	if e.onMove != nil {
		e.onMove(MoveEvent{Index: e.applied - 1, Move: id, Source: src})
	}
}

func (e *Engine) refresh() {
	e.settled = true
	e.atRest = true
	for i := range e.cublets {
		c := &e.cublets[i]
		if !c.Converged(e.cfg.settleEpsilon) {
			e.settled = false
		}
		if !c.Converged(e.cfg.restEpsilon) {
			e.atRest = false
		}
	}
}
