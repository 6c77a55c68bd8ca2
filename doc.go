// Package pocketcube models a 2x2x2 rotation puzzle as eight corner cublets
// whose orientations animate toward their targets one frame at a time.
//
// # Features
//
//   - Quaternion orientation per cublet, interpolated every frame
//   - Index-based slot arrangement permuted by a data-driven move table
//   - Twelve quarter-turn moves addressed by identifier or notation
//   - A move queue with gated undo or replay playback
//   - Random scrambles from a seedable source
//   - Facelet readout and solved detection
//
// # Quick Start
//
//	e := pocketcube.New(pocketcube.WithSeed(42))
//
//	e.OnMove(func(ev pocketcube.MoveEvent) {
//	    fmt.Println("Move:", ev.Move)
//	})
//
//	moves, _ := pocketcube.ParseMoves("R U R' U'")
//	for _, m := range moves {
//	    e.Push(m)
//	}
//
//	// Undo everything, one move per settle.
//	e.StartPlayback()
//	for e.Playback() || !e.AtRest() {
//	    e.Frame()
//	}
//
//	fmt.Println("Solved:", e.IsSolved())
//
// # Move Identifiers
//
// Moves are numbered in pairs, clockwise then counter-clockwise:
//
//	0 F   1 F'   2 L   3 L'   4 R   5 R'
//	6 B   7 B'   8 U   9 U'  10 D  11 D'
//
// so the inverse of any move is id^1.
//
// # Convergence
//
// Two thresholds are tracked. Settled (SettleEpsilon) gates playback and
// random moves; AtRest (RestEpsilon) reports that the animation is finished.
package pocketcube
