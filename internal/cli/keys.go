package cli

import (
	"github.com/SeamusWaldron/pocketcube"
)

// numpadMoves maps the number row to clockwise turns, laid out like a
// keypad seen from the front: 8 up, 2 down, 4 left, 6 right, 5 front,
// 0 back.
var numpadMoves = map[string]pocketcube.MoveID{
	"5": pocketcube.F,
	"0": pocketcube.B,
	"4": pocketcube.L,
	"6": pocketcube.R,
	"8": pocketcube.U,
	"2": pocketcube.D,
}

// keyMove maps a key to a move. A lowercase face letter turns clockwise and
// an uppercase one counterclockwise.
func keyMove(key string) (pocketcube.MoveID, bool) {
	if id, ok := numpadMoves[key]; ok {
		return id, true
	}
	if len(key) != 1 {
		return 0, false
	}

	turn := pocketcube.CW
	ch := key[0]
	if ch >= 'A' && ch <= 'Z' {
		turn = pocketcube.CCW
		ch += 'a' - 'A'
	}

	var face pocketcube.Face
	switch ch {
	case 'f':
		face = pocketcube.FaceF
	case 'b':
		face = pocketcube.FaceB
	case 'l':
		face = pocketcube.FaceL
	case 'r':
		face = pocketcube.FaceR
	case 'u':
		face = pocketcube.FaceU
	case 'd':
		face = pocketcube.FaceD
	default:
		return 0, false
	}

	id, err := pocketcube.MoveFor(face, turn)
	if err != nil {
		return 0, false
	}
	return id, true
}
