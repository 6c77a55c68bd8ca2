package pocketcube

import (
	"errors"
	"testing"

	"github.com/SeamusWaldron/pocketcube/pkg/quat"
)

const maxFrames = 10_000_000

// runUntil calls Frame until done reports true and returns the frame count.
func runUntil(t *testing.T, e *Engine, done func() bool) int {
	t.Helper()
	for n := 0; n < maxFrames; n++ {
		if done() {
			return n
		}
		e.Frame()
	}
	t.Fatalf("condition not reached after %d frames", maxFrames)
	return 0
}

func finished(e *Engine) func() bool {
	return func() bool { return !e.Playback() && e.AtRest() }
}

func TestPushRejectsInvalidMove(t *testing.T) {
	e := New()
	for _, id := range []MoveID{-1, NumMoves, 99} {
		if err := e.Push(id); !errors.Is(err, ErrInvalidMove) {
			t.Errorf("Push(%d) err = %v, want ErrInvalidMove", id, err)
		}
	}
	if e.Queue().Len() != 0 || e.Slots() != IdentitySlots() {
		t.Error("invalid moves must not reach the queue or the slots")
	}
}

func TestPushRecordsOnQueue(t *testing.T) {
	e := New()
	e.Push(R)
	e.Push(U)
	if got := FormatMoves(e.Queue().Snapshot()); got != "R U" {
		t.Errorf("queue = %q, want \"R U\"", got)
	}
	if e.Applied() != 2 {
		t.Errorf("Applied = %d, want 2", e.Applied())
	}
}

func TestStateTransitions(t *testing.T) {
	e := New()
	if e.State() != StateIdle {
		t.Fatalf("state = %v, want idle", e.State())
	}

	e.Push(F)
	if e.State() != StateAnimating {
		t.Fatalf("state after push = %v, want animating", e.State())
	}

	runUntil(t, e, e.Settled)
	if e.State() != StateReadyToAdvance {
		t.Fatalf("state after settle = %v, want ready", e.State())
	}

	e.StartPlayback()
	e.Frame()
	if e.Queue().Len() != 0 {
		t.Errorf("settled playback frame should pop, queue len = %d", e.Queue().Len())
	}
	if e.State() != StateAnimating {
		t.Errorf("state after pop = %v, want animating", e.State())
	}

	runUntil(t, e, finished(e))
	if e.State() != StateIdle {
		t.Errorf("final state = %v, want idle", e.State())
	}
	if e.Slots() != IdentitySlots() || !e.IsSolved() {
		t.Error("undo playback should return to solved")
	}
}

func TestSettleAndRestThresholdsAreIndependent(t *testing.T) {
	e := New()
	e.Push(R)

	settle := runUntil(t, e, e.Settled)
	if e.AtRest() {
		t.Error("loose threshold reached but tight threshold should not be")
	}
	rest := runUntil(t, e, e.AtRest)
	if rest == 0 {
		t.Error("reaching rest should take more frames than settling")
	}
	if !e.Settled() {
		t.Error("at rest implies settled")
	}

	for i := 0; i < NumCublets; i++ {
		c := e.Cublet(i)
		if !c.Converged(RestEpsilon) {
			t.Errorf("cublet %d not within RestEpsilon", i)
		}
	}
	t.Logf("settled after %d frames, at rest after %d more", settle, rest)
}

func TestSettleEpsilonOption(t *testing.T) {
	loose := New()
	loose.Push(U)
	nLoose := runUntil(t, loose, loose.Settled)

	tight := New(WithSettleEpsilon(1e-3))
	tight.Push(U)
	nTight := runUntil(t, tight, tight.Settled)

	if nTight <= nLoose {
		t.Errorf("tighter settle threshold took %d frames, loose took %d", nTight, nLoose)
	}
}

func TestStepAlphaOption(t *testing.T) {
	slow := New()
	slow.Push(D)
	nSlow := runUntil(t, slow, slow.Settled)

	fast := New(WithStepAlpha(0.1))
	fast.Push(D)
	nFast := runUntil(t, fast, fast.Settled)

	if nFast >= nSlow {
		t.Errorf("alpha 0.1 took %d frames, default took %d", nFast, nSlow)
	}
}

func TestPushRandomWaitsForSettle(t *testing.T) {
	e := New(WithSeed(11))
	if _, ok := e.PushRandom(); !ok {
		t.Fatal("first random move should be accepted")
	}
	if _, ok := e.PushRandom(); ok {
		t.Error("random move during animation should be refused")
	}
	if e.Queue().Len() != 1 {
		t.Errorf("queue len = %d, want 1", e.Queue().Len())
	}

	runUntil(t, e, e.Settled)
	id, ok := e.PushRandom()
	if !ok || !id.Valid() {
		t.Errorf("PushRandom after settle = %v, %v", id, ok)
	}
}

func TestPushDuringPlaybackIsRejected(t *testing.T) {
	e := New()
	e.Push(L)
	e.StartPlayback()
	if err := e.Push(R); !errors.Is(err, ErrPlaybackActive) {
		t.Errorf("Push during playback err = %v, want ErrPlaybackActive", err)
	}
	if _, ok := e.PushRandom(); ok {
		t.Error("PushRandom during playback should be refused")
	}
}

func TestPlaybackWaitsForSettle(t *testing.T) {
	e := New()
	e.Push(F)
	e.Push(R)
	e.Push(U)
	e.StartPlayback()

	e.Frame()
	if e.Queue().Len() != 3 {
		t.Fatalf("playback popped before settling, queue len = %d", e.Queue().Len())
	}

	runUntil(t, e, func() bool { return e.Queue().Len() == 2 })
	if e.Settled() {
		t.Error("a pop should start a new animation")
	}
	if top, _ := e.Queue().Peek(); top != R {
		t.Errorf("top after one pop = %v, want R", top)
	}
}

func TestPlaybackOnEmptyQueueEnds(t *testing.T) {
	e := New()
	e.StartPlayback()
	if !e.Playback() {
		t.Fatal("StartPlayback should enter playback")
	}
	e.Frame()
	if e.Playback() {
		t.Error("playback with an empty queue should end on the next frame")
	}
}

func TestEnqueueDoesNotApply(t *testing.T) {
	e := New()
	if err := e.Enqueue(F, R); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if e.Slots() != IdentitySlots() || e.Applied() != 0 {
		t.Error("Enqueue should not apply moves")
	}
	if err := e.Enqueue(U, 12); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("Enqueue with invalid id err = %v", err)
	}
	if e.Queue().Len() != 2 {
		t.Errorf("rejected Enqueue changed the queue, len = %d", e.Queue().Len())
	}
}

func TestReplayPlaybackAppliesMovesAsIs(t *testing.T) {
	e := New(WithPlaybackMode(PlaybackReplay))
	e.Enqueue(F)
	e.StartPlayback()
	runUntil(t, e, finished(e))

	want := SlotArray{2, 0, 3, 1, 4, 5, 6, 7}
	if e.Slots() != want {
		t.Errorf("replayed F slots = %v, want %v", e.Slots(), want)
	}
}

func TestUndoPlaybackOfScriptedQueue(t *testing.T) {
	e := New()
	e.Enqueue(F)
	e.StartPlayback()
	runUntil(t, e, finished(e))

	// Undo of an unapplied F is F'.
	want := SlotArray{1, 3, 0, 2, 4, 5, 6, 7}
	if e.Slots() != want {
		t.Errorf("undo of F slots = %v, want %v", e.Slots(), want)
	}
}

func TestOnMoveEvents(t *testing.T) {
	e := New()
	var events []MoveEvent
	e.OnMove(func(ev MoveEvent) { events = append(events, ev) })

	e.Push(R)
	e.Push(U)
	e.StartPlayback()
	runUntil(t, e, finished(e))

	want := []MoveEvent{
		{Index: 0, Move: R, Source: SourceInput},
		{Index: 1, Move: U, Source: SourceInput},
		{Index: 2, Move: UPrime, Source: SourcePlayback},
		{Index: 3, Move: RPrime, Source: SourcePlayback},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %v", len(events), len(want), events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, events[i], want[i])
		}
	}
}

func TestThousandRandomMovesUndoToSolved(t *testing.T) {
	e := New(WithSeed(2024))
	for i := 1; i <= 1000; i++ {
		if err := e.Push(e.RandomMove()); err != nil {
			t.Fatalf("Push: %v", err)
		}
		if e.Slots().Parity() != i%2 {
			t.Fatalf("parity after %d moves = %d", i, e.Slots().Parity())
		}
	}
	if e.Queue().Len() != 1000 {
		t.Fatalf("queue len = %d, want 1000", e.Queue().Len())
	}

	e.StartPlayback()
	runUntil(t, e, finished(e))

	if e.Slots() != IdentitySlots() {
		t.Errorf("slots after undo = %v, want identity", e.Slots())
	}
	if !e.IsSolved() {
		t.Error("puzzle should be solved after undo playback")
		t.Log(e.Facelets().String())
	}
	for i := 0; i < NumCublets; i++ {
		c := e.Cublet(i)
		if !c.Target.SameRotation(quat.Identity(), 1e-6) {
			t.Errorf("cublet %d target = %v, want identity", i, c.Target)
		}
	}
	if e.Applied() != 2000 {
		t.Errorf("Applied = %d, want 2000", e.Applied())
	}
}

func TestConvergenceIsMonotone(t *testing.T) {
	e := New()
	e.Push(R)
	prev := e.Distance()
	if prev == 0 {
		t.Fatal("Distance should be positive right after a move")
	}
	for !e.AtRest() {
		e.Frame()
		cur := e.Distance()
		if cur > prev+1e-15 {
			t.Fatalf("residual grew from %v to %v", prev, cur)
		}
		prev = cur
	}
}

func TestReset(t *testing.T) {
	e := New()
	e.Push(R)
	e.Push(F)
	e.StartPlayback()
	e.Reset()

	if e.Playback() || e.Queue().Len() != 0 || e.Applied() != 0 {
		t.Error("Reset should clear playback, queue and counters")
	}
	if e.Slots() != IdentitySlots() || !e.IsSolved() || !e.AtRest() {
		t.Error("Reset should restore the solved position at rest")
	}
}

func TestViewsInSlotOrder(t *testing.T) {
	e := New()
	e.Push(F)
	views := e.Views()
	if len(views) != NumCublets {
		t.Fatalf("got %d views", len(views))
	}
	slots := e.Slots()
	for slot, v := range views {
		if v.Slot != slot || v.Cublet != slots[slot] {
			t.Errorf("view %d = slot %d cublet %d, want cublet %d", slot, v.Slot, v.Cublet, slots[slot])
		}
	}

	// Orientation has not moved yet, so the model matrix places each cublet
	// at its own home anchor.
	v := views[0]
	origin := v.Model().MulVec3(quat.Vec3{})
	if origin != v.Anchor {
		t.Errorf("model origin = %v, want anchor %v", origin, v.Anchor)
	}
}

func TestStateString(t *testing.T) {
	if StateIdle.String() != "idle" || StateAnimating.String() != "animating" || StateReadyToAdvance.String() != "ready" {
		t.Error("unexpected state names")
	}
	if State(9).String() != "unknown" {
		t.Error("out of range state should be unknown")
	}
}
