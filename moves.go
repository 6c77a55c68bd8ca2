package pocketcube

import (
	"math"

	"github.com/SeamusWaldron/pocketcube/pkg/quat"
)

// Predefined moves for convenience.
//
// Example:
//
//	e.Push(pocketcube.R)
const (
	F      MoveID = 0  // Front clockwise
	FPrime MoveID = 1  // Front counter-clockwise
	L      MoveID = 2  // Left clockwise
	LPrime MoveID = 3  // Left counter-clockwise
	R      MoveID = 4  // Right clockwise
	RPrime MoveID = 5  // Right counter-clockwise
	B      MoveID = 6  // Back clockwise
	BPrime MoveID = 7  // Back counter-clockwise
	U      MoveID = 8  // Up clockwise
	UPrime MoveID = 9  // Up counter-clockwise
	D      MoveID = 10 // Down clockwise
	DPrime MoveID = 11 // Down counter-clockwise
)

// QuarterTurn is the rotation angle of every move.
const QuarterTurn = math.Pi / 2

// MoveSpec describes one quarter turn: a 4-cycle over slot indices and the
// rotation composed onto the targets of the four cublets it moves.
//
// Slots are numbered by home anchor: bit 0 clear is +X, bit 1 set is +Y,
// bit 2 clear is +Z.
type MoveSpec struct {
	Cycle [4]int
	Axis  quat.Vec3
	Angle float64
}

// Rotation returns the quaternion of the move.
func (m MoveSpec) Rotation() quat.Quat {
	return quat.FromAxisAngle(m.Axis, m.Angle)
}

var (
	negX = quat.AxisX.Neg()
	negY = quat.AxisY.Neg()
	negZ = quat.AxisZ.Neg()
)

// MoveTable holds every quarter turn, indexed by MoveID.
// A clockwise turn is a rotation about the negated outward normal of its face.
var MoveTable = [NumMoves]MoveSpec{
	F:      {Cycle: [4]int{0, 1, 3, 2}, Axis: negZ, Angle: QuarterTurn},
	FPrime: {Cycle: [4]int{0, 2, 3, 1}, Axis: quat.AxisZ, Angle: QuarterTurn},
	L:      {Cycle: [4]int{1, 5, 7, 3}, Axis: quat.AxisX, Angle: QuarterTurn},
	LPrime: {Cycle: [4]int{1, 3, 7, 5}, Axis: negX, Angle: QuarterTurn},
	R:      {Cycle: [4]int{0, 2, 6, 4}, Axis: negX, Angle: QuarterTurn},
	RPrime: {Cycle: [4]int{0, 4, 6, 2}, Axis: quat.AxisX, Angle: QuarterTurn},
	B:      {Cycle: [4]int{4, 6, 7, 5}, Axis: quat.AxisZ, Angle: QuarterTurn},
	BPrime: {Cycle: [4]int{4, 5, 7, 6}, Axis: negZ, Angle: QuarterTurn},
	U:      {Cycle: [4]int{2, 3, 7, 6}, Axis: negY, Angle: QuarterTurn},
	UPrime: {Cycle: [4]int{2, 6, 7, 3}, Axis: quat.AxisY, Angle: QuarterTurn},
	D:      {Cycle: [4]int{0, 4, 5, 1}, Axis: quat.AxisY, Angle: QuarterTurn},
	DPrime: {Cycle: [4]int{0, 1, 5, 4}, Axis: negY, Angle: QuarterTurn},
}

// applyMove permutes slots by the move's cycle and composes its rotation onto
// the targets of the four cublets now sitting in the cycled slots.
// Each new target keeps the sign closest to the cublet's current orientation
// so the componentwise lerp cannot stall on an antipodal pair.
func applyMove(slots *SlotArray, cublets *[NumCublets]Cublet, id MoveID) {
	spec := MoveTable[id]
	slots.Cycle(spec.Cycle)

	q := spec.Rotation()
	for _, slot := range spec.Cycle {
		c := &cublets[slots[slot]]
		c.Target = q.Mul(c.Target).Nearest(c.Orientation)
	}
}

// SexyMove is R U R' U'. Six repetitions return the puzzle to its start.
var SexyMove = []MoveID{R, U, RPrime, UPrime}
