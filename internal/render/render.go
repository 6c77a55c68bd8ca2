// Package render draws puzzle state for the terminal using lipgloss.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/pocketcube"
)

// stickerWidth is the number of terminal cells per sticker.
const stickerWidth = 2

var (
	blankCell  = strings.Repeat(" ", stickerWidth)
	faceLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	queueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

// Hex returns the terminal color for a sticker color.
func Hex(c pocketcube.Color) string {
	rgb := c.RGB()
	return fmt.Sprintf("#%02x%02x%02x",
		uint8(rgb[0]*255+0.5), uint8(rgb[1]*255+0.5), uint8(rgb[2]*255+0.5))
}

// Sticker renders one sticker as a colored block. The color letter is drawn
// on top so the net stays readable without color support.
func Sticker(c pocketcube.Color) string {
	style := lipgloss.NewStyle().
		Width(stickerWidth).
		Background(lipgloss.Color(Hex(c))).
		Foreground(lipgloss.Color("0"))
	return style.Render(c.String() + " ")
}

// Net renders facelets as an unfolded net:
//
//	   U
//	L  F  R  B
//	   D
func Net(fl pocketcube.Facelets) string {
	row := func(f pocketcube.Face, r int) string {
		s := fl.Face(f)
		return Sticker(s[r*2]) + Sticker(s[r*2+1])
	}
	pad := strings.Repeat(blankCell, 2)

	var lines []string
	for r := 0; r < 2; r++ {
		lines = append(lines, pad+row(pocketcube.FaceU, r))
	}
	for r := 0; r < 2; r++ {
		var b strings.Builder
		for _, f := range []pocketcube.Face{pocketcube.FaceL, pocketcube.FaceF, pocketcube.FaceR, pocketcube.FaceB} {
			b.WriteString(row(f, r))
		}
		lines = append(lines, b.String())
	}
	for r := 0; r < 2; r++ {
		lines = append(lines, pad+row(pocketcube.FaceD, r))
	}
	return strings.Join(lines, "\n")
}

// Labels returns the face letters aligned with the middle band of Net.
func Labels() string {
	var b strings.Builder
	for _, f := range []pocketcube.Face{pocketcube.FaceL, pocketcube.FaceF, pocketcube.FaceR, pocketcube.FaceB} {
		b.WriteString(lipgloss.NewStyle().Width(stickerWidth * 2).Render(string(f)))
	}
	return faceLabel.Render(b.String())
}

// Queue renders the pending moves, newest first, truncated to max entries.
func Queue(moves []pocketcube.MoveID, max int) string {
	if len(moves) == 0 {
		return faceLabel.Render("(empty)")
	}
	newest := make([]pocketcube.MoveID, 0, len(moves))
	for i := len(moves) - 1; i >= 0; i-- {
		newest = append(newest, moves[i])
	}
	more := 0
	if max > 0 && len(newest) > max {
		more = len(newest) - max
		newest = newest[:max]
	}
	out := queueStyle.Render(pocketcube.FormatMoves(newest))
	if more > 0 {
		out += faceLabel.Render(fmt.Sprintf(" (+%d)", more))
	}
	return out
}

// Progress renders a bar showing how far the animation is from rest, where
// distance is in [0, 1].
func Progress(distance float64, width int) string {
	if width <= 0 {
		return ""
	}
	if distance < 0 {
		distance = 0
	}
	if distance > 1 {
		distance = 1
	}
	done := int((1 - distance) * float64(width))
	return queueStyle.Render(strings.Repeat("█", done)) +
		faceLabel.Render(strings.Repeat("░", width-done))
}
