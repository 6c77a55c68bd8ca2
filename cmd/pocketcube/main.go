// pocketcube - terminal simulator for the 2x2x2 rotation puzzle.
package main

import (
	"github.com/SeamusWaldron/pocketcube/internal/cli"
)

func main() {
	cli.Execute()
}
