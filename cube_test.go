package pocketcube

import (
	"math"
	"testing"

	"github.com/SeamusWaldron/pocketcube/pkg/quat"
)

// settleAll jumps every cublet straight to its target.
func settleAll(e *Engine) {
	e.Tick(1)
}

func TestNewEngineIsSolved(t *testing.T) {
	e := New()
	if !e.IsSolved() {
		t.Error("New engine should be solved")
		t.Log(e.Facelets().String())
	}
	if e.Slots() != IdentitySlots() {
		t.Errorf("New engine slots = %v, want identity", e.Slots())
	}
	if !e.Settled() || !e.AtRest() {
		t.Error("New engine should be settled and at rest")
	}
	if e.State() != StateIdle {
		t.Errorf("New engine state = %v, want idle", e.State())
	}
}

func TestNewCubletsColors(t *testing.T) {
	e := New()
	for i := 0; i < NumCublets; i++ {
		c := e.Cublet(i)
		want := [3]Color{White, Cyan, Blue}
		if c.Anchor.Z > 0 {
			want[ColorZ] = Red
		}
		if c.Anchor.X > 0 {
			want[ColorX] = Green
		}
		if c.Anchor.Y > 0 {
			want[ColorY] = Yellow
		}
		if c.Colors != want {
			t.Errorf("cublet %d colors = %v, want %v", i, c.Colors, want)
		}
		if c.Orientation != quat.Identity() || c.Target != quat.Identity() {
			t.Errorf("cublet %d should start at identity", i)
		}
	}
}

func TestSingleMoveBreaksSolved(t *testing.T) {
	e := New()
	if err := e.Push(R); err != nil {
		t.Fatalf("Push(R): %v", err)
	}
	if e.IsSolved() {
		t.Error("Puzzle should not be solved after R")
	}
}

func TestFourQuarterTurns_ReturnToSolved_AllMoves(t *testing.T) {
	for id := MoveID(0); id < NumMoves; id++ {
		e := New()
		for i := 0; i < 4; i++ {
			e.Push(id)
		}
		if e.Slots() != IdentitySlots() {
			t.Errorf("%v x 4 slots = %v, want identity", id, e.Slots())
		}
		if !e.IsSolved() {
			t.Errorf("%v x 4 should return to solved", id)
			t.Log(e.TargetFacelets().String())
		}
		for _, i := range MoveTable[id].Cycle {
			if !e.Cublet(i).Target.SameRotation(quat.Identity(), 1e-9) {
				t.Errorf("%v x 4: cublet %d target = %v, want identity", id, i, e.Cublet(i).Target)
			}
		}
	}
}

func TestMoveThenInverse_ReturnsToSolved(t *testing.T) {
	for id := MoveID(0); id < NumMoves; id++ {
		e := New()
		e.Push(id)
		e.Push(id.Inverse())
		if e.Slots() != IdentitySlots() {
			t.Errorf("%v %v slots = %v, want identity", id, id.Inverse(), e.Slots())
		}
		for i := 0; i < NumCublets; i++ {
			if !e.Cublet(i).Target.SameRotation(quat.Identity(), 1e-12) {
				t.Errorf("%v %v: cublet %d target = %v", id, id.Inverse(), i, e.Cublet(i).Target)
			}
		}
	}
}

func TestSexyMove_6Times_ReturnsToSolved(t *testing.T) {
	// (R U R' U') x 6 = identity
	e := New()
	for i := 0; i < 6; i++ {
		for _, m := range SexyMove {
			e.Push(m)
		}
	}
	if e.Slots() != IdentitySlots() {
		t.Errorf("Sexy move x 6 slots = %v, want identity", e.Slots())
	}
	if !e.IsSolved() {
		t.Error("Sexy move x 6 should return to solved")
		t.Log(e.TargetFacelets().String())
	}
}

func TestFrontMoveFromSolved(t *testing.T) {
	e := New()
	e.Push(F)

	want := SlotArray{2, 0, 3, 1, 4, 5, 6, 7}
	if e.Slots() != want {
		t.Errorf("slots after F = %v, want %v", e.Slots(), want)
	}

	rot := quat.FromAxisAngle(quat.AxisZ.Neg(), math.Pi/2)
	for i := 0; i < NumCublets; i++ {
		c := e.Cublet(i)
		if i < 4 {
			if !c.Target.ApproxEqual(rot, 1e-12) {
				t.Errorf("cublet %d target = %v, want %v", i, c.Target, rot)
			}
		} else if c.Target != quat.Identity() {
			t.Errorf("cublet %d target = %v, want identity", i, c.Target)
		}
		if c.Orientation != quat.Identity() {
			t.Errorf("cublet %d orientation moved before any tick", i)
		}
	}

	for n := 0; !e.AtRest(); n++ {
		if n > 10000 {
			t.Fatal("F did not come to rest")
		}
		e.Frame()
	}
	for i := 0; i < NumCublets; i++ {
		c := e.Cublet(i)
		if d := c.Orientation.MaxDiff(c.Target); d >= RestEpsilon {
			t.Errorf("cublet %d still %v from its target", i, d)
		}
		if i >= 4 && !c.Orientation.ApproxEqual(quat.Identity(), 1e-12) {
			t.Errorf("cublet %d orientation = %v, want identity", i, c.Orientation)
		}
	}
}

func TestTargetsKeepOrientationHemisphere(t *testing.T) {
	e := New(WithSeed(11))
	for i := 0; i < 200; i++ {
		id := e.RandomMove()
		if err := e.Push(id); err != nil {
			t.Fatalf("Push(%v): %v", id, err)
		}
		for j := 0; j < NumCublets; j++ {
			c := e.Cublet(j)
			if c.Target.Dot(c.Orientation) < 0 {
				t.Fatalf("move %d (%v): cublet %d target is antipodal to its orientation", i, id, j)
			}
		}
		// Leave some cublets mid-animation before the next move.
		for k := 0; k < i%7; k++ {
			e.Frame()
		}
	}
}

func TestCubletsLandOnSlotAnchors(t *testing.T) {
	e := New(WithSeed(7))
	for i := 0; i < 50; i++ {
		e.Push(e.RandomMove())
	}
	settleAll(e)

	for slot := 0; slot < NumCublets; slot++ {
		c := e.CubletInSlot(slot)
		got := c.Orientation.Rotate(c.Anchor)
		want := e.Cublet(slot).Anchor
		if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 || math.Abs(got.Z-want.Z) > 1e-9 {
			t.Errorf("slot %d: cublet %d sits at %v, want %v", slot, e.Slots()[slot], got, want)
		}
	}
}

func TestFrontMoveFacelets(t *testing.T) {
	e := New()
	e.Push(F)
	settleAll(e)
	fl := e.Facelets()

	front := fl.Face(FaceF)
	for i, c := range front {
		if c != Red {
			t.Errorf("F sticker %d = %v, want R", i, c)
		}
	}

	// The left face's front column turns up onto the bottom row of U.
	up := fl.Face(FaceU)
	wantUp := [4]Color{Yellow, Yellow, Cyan, Cyan}
	if up != wantUp {
		t.Errorf("U after F = %v, want %v", up, wantUp)
		t.Log(fl.String())
	}
}

func TestWholePuzzleRotationCountsAsSolved(t *testing.T) {
	// F and B' turn both layers the same way about Z.
	e := New()
	e.Push(F)
	e.Push(BPrime)
	if e.Slots() == IdentitySlots() {
		t.Fatal("expected cublets to have moved")
	}
	if !e.IsSolved() {
		t.Error("a whole-puzzle rotation should still read as solved")
		t.Log(e.TargetFacelets().String())
	}
}

func TestSlotsStayPermutation(t *testing.T) {
	e := New(WithSeed(3))
	for i := 1; i <= 200; i++ {
		e.Push(e.RandomMove())
		s := e.Slots()
		if !s.IsPermutation() {
			t.Fatalf("after %d moves slots = %v is not a permutation", i, s)
		}
		if s.Parity() != i%2 {
			t.Fatalf("after %d moves parity = %d, want %d", i, s.Parity(), i%2)
		}
	}
}

func TestSlotArrayIsPermutation(t *testing.T) {
	if !IdentitySlots().IsPermutation() {
		t.Error("identity should be a permutation")
	}
	bad := SlotArray{0, 0, 2, 3, 4, 5, 6, 7}
	if bad.IsPermutation() {
		t.Error("duplicate entry should not be a permutation")
	}
	outOfRange := SlotArray{0, 1, 2, 3, 4, 5, 6, 8}
	if outOfRange.IsPermutation() {
		t.Error("out of range entry should not be a permutation")
	}
}

func TestSlotArrayCycle(t *testing.T) {
	s := IdentitySlots()
	s.Cycle([4]int{0, 1, 3, 2})
	want := SlotArray{2, 0, 3, 1, 4, 5, 6, 7}
	if s != want {
		t.Errorf("Cycle = %v, want %v", s, want)
	}
	if s.Parity() != 1 {
		t.Errorf("4-cycle parity = %d, want 1", s.Parity())
	}
}
