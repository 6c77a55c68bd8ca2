package pocketcube

import (
	"github.com/SeamusWaldron/pocketcube/pkg/quat"
)

// Color identifies the color of one cublet face.
type Color byte

const (
	NoColor Color = iota
	Red           // Front face when solved
	White         // Back face when solved
	Green         // Right face when solved
	Cyan          // Left face when solved
	Yellow        // Up face when solved
	Blue          // Down face when solved
)

func (c Color) String() string {
	switch c {
	case Red:
		return "R"
	case White:
		return "W"
	case Green:
		return "G"
	case Cyan:
		return "C"
	case Yellow:
		return "Y"
	case Blue:
		return "B"
	default:
		return "?"
	}
}

// RGB returns the color as float components in [0, 1].
func (c Color) RGB() [3]float32 {
	switch c {
	case Red:
		return [3]float32{0.8, 0.1, 0.1}
	case White:
		return [3]float32{0.8, 0.8, 0.8}
	case Green:
		return [3]float32{0.1, 0.8, 0.1}
	case Cyan:
		return [3]float32{0.1, 0.9, 0.9}
	case Yellow:
		return [3]float32{0.8, 0.8, 0.1}
	case Blue:
		return [3]float32{0.1, 0.1, 0.8}
	default:
		return [3]float32{0, 0, 0}
	}
}

// Face color slots of a cublet, one per axis.
const (
	ColorZ = 0 // front/back face
	ColorX = 1 // right/left face
	ColorY = 2 // up/down face
)

// NumCublets is the number of corner cublets.
const NumCublets = 8

// Cublet is one corner piece.
//
// Anchor and Colors are fixed at creation. Orientation is advanced every tick
// toward Target, and Target is composed with the rotation of every move that
// touches the cublet.
type Cublet struct {
	Anchor      quat.Vec3
	Colors      [3]Color
	Orientation quat.Quat
	Target      quat.Quat
}

// Converged reports whether every component of Orientation is within eps of
// Target.
func (c *Cublet) Converged(eps float64) bool {
	return c.Orientation.ApproxEqual(c.Target, eps)
}

// ColorFacing returns the color of the cublet face whose local normal is
// closest to the given local direction.
func (c *Cublet) ColorFacing(local quat.Vec3) Color {
	switch axis, _ := local.Dominant(); axis {
	case 0:
		return c.Colors[ColorX]
	case 1:
		return c.Colors[ColorY]
	default:
		return c.Colors[ColorZ]
	}
}

// newCublets builds the eight cublets in their home slots.
// Cublet i starts in slot i with identity orientation.
func newCublets() [NumCublets]Cublet {
	var cs [NumCublets]Cublet
	for i := range cs {
		x, y, z := -0.5, -0.5, -0.5
		if i&1 == 0 {
			x = 0.5
		}
		if i&2 != 0 {
			y = 0.5
		}
		if i&4 == 0 {
			z = 0.5
		}

		colors := [3]Color{White, Cyan, Blue}
		if z > 0 {
			colors[ColorZ] = Red
		}
		if x > 0 {
			colors[ColorX] = Green
		}
		if y > 0 {
			colors[ColorY] = Yellow
		}

		cs[i] = Cublet{
			Anchor:      quat.Vec3{X: x, Y: y, Z: z},
			Colors:      colors,
			Orientation: quat.Identity(),
			Target:      quat.Identity(),
		}
	}
	return cs
}

// SlotArray maps each of the eight corner slots to the index of the cublet
// currently occupying it. It is always a permutation of 0..7.
type SlotArray [NumCublets]int

// IdentitySlots returns the solved arrangement: slot i holds cublet i.
func IdentitySlots() SlotArray {
	var s SlotArray
	for i := range s {
		s[i] = i
	}
	return s
}

// Cycle moves the cublet in slot c[i] to slot c[(i+1)%4].
func (s *SlotArray) Cycle(c [4]int) {
	tmp := s[c[3]]
	s[c[3]] = s[c[2]]
	s[c[2]] = s[c[1]]
	s[c[1]] = s[c[0]]
	s[c[0]] = tmp
}

// IsPermutation reports whether every cublet appears in exactly one slot.
func (s SlotArray) IsPermutation() bool {
	var seen [NumCublets]bool
	for _, idx := range s {
		if idx < 0 || idx >= NumCublets || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// Parity returns 0 for an even permutation and 1 for an odd one.
// Every quarter turn is a 4-cycle, so parity equals the move count mod 2.
func (s SlotArray) Parity() int {
	var visited [NumCublets]bool
	parity := 0
	for i := range s {
		if visited[i] {
			continue
		}
		length := 0
		for j := i; !visited[j]; j = s[j] {
			visited[j] = true
			length++
		}
		parity += length - 1
	}
	return parity % 2
}
