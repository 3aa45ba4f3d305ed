package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Play   PlayCommand   `command:"play" description:"Play a game with the live board TUI"`
	Export ExportCommand `command:"export" description:"Convert a PGN game into a g-code choreography"`
	Home   HomeCommand   `command:"home" description:"Home the printer axes"`
	Goto   GotoCommand   `command:"goto" description:"Move the head over a square"`
	Magnet MagnetCommand `command:"magnet" description:"Switch the magnet on or off"`
	Move   MoveCommand   `command:"move" description:"Drag a piece between two squares, no route planning"`
	Setup  SetupCommand  `command:"setup" description:"Write the printer configuration"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "PrinterChess - chess piece choreography on a 3D printer gantry"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
