package pocketcube

import (
	"strings"

	"github.com/SeamusWaldron/pocketcube/pkg/quat"
)

// Facelets holds the four visible stickers of each face, indexed by the
// position of the face in Faces. Stickers are laid out
//
//	0 1
//	2 3
//
// as seen from outside the face, with U viewed with F below it and D viewed
// with F above it.
type Facelets [6][4]Color

// Normal returns the outward normal of a face.
func Normal(f Face) quat.Vec3 {
	switch f {
	case FaceF:
		return quat.AxisZ
	case FaceB:
		return quat.AxisZ.Neg()
	case FaceR:
		return quat.AxisX
	case FaceL:
		return quat.AxisX.Neg()
	case FaceU:
		return quat.AxisY
	case FaceD:
		return quat.AxisY.Neg()
	default:
		return quat.Vec3{}
	}
}

// Face returns the stickers of face f.
func (fl Facelets) Face(f Face) [4]Color {
	for i, face := range Faces {
		if face == f {
			return fl[i]
		}
	}
	return [4]Color{}
}

// Solved reports whether every face is a single color.
func (fl Facelets) Solved() bool {
	for _, face := range fl {
		for _, c := range face {
			if c == NoColor || c != face[0] {
				return false
			}
		}
	}
	return true
}

// String returns an unfolded net:
//
//	   U
//	L  F  R  B
//	   D
func (fl Facelets) String() string {
	var b strings.Builder
	row := func(f Face, r int) string {
		s := fl.Face(f)
		return s[r*2].String() + " " + s[r*2+1].String() + " "
	}

	for r := 0; r < 2; r++ {
		b.WriteString("    " + row(FaceU, r) + "\n")
	}
	for r := 0; r < 2; r++ {
		for _, f := range []Face{FaceL, FaceF, FaceR, FaceB} {
			b.WriteString(row(f, r))
		}
		b.WriteString("\n")
	}
	for r := 0; r < 2; r++ {
		b.WriteString("    " + row(FaceD, r) + "\n")
	}
	return b.String()
}

// faceletsOf snaps every cublet to the nearest axis-aligned placement under
// the orientation returned by orient and collects the outward stickers.
func faceletsOf(cublets *[NumCublets]Cublet, orient func(*Cublet) quat.Quat) Facelets {
	var out Facelets
	for i := range cublets {
		c := &cublets[i]
		m := orient(c).Mat4()
		pos := m.MulVec3(c.Anchor)

		for fi, face := range Faces {
			n := Normal(face)
			if pos.Dot(n) <= 0 {
				continue
			}
			color := c.ColorFacing(m.TransposeMulDir(n))
			row, col := cellOf(face, pos)
			out[fi][row*2+col] = color
		}
	}
	return out
}

// cellOf returns the sticker row and column of a cublet at pos on face.
func cellOf(face Face, pos quat.Vec3) (row, col int) {
	bit := func(cond bool) int {
		if cond {
			return 1
		}
		return 0
	}
	switch face {
	case FaceF:
		return bit(pos.Y < 0), bit(pos.X > 0)
	case FaceB:
		return bit(pos.Y < 0), bit(pos.X < 0)
	case FaceR:
		return bit(pos.Y < 0), bit(pos.Z < 0)
	case FaceL:
		return bit(pos.Y < 0), bit(pos.Z > 0)
	case FaceU:
		return bit(pos.Z > 0), bit(pos.X > 0)
	case FaceD:
		return bit(pos.Z < 0), bit(pos.X > 0)
	}
	return 0, 0
}
