// Package gcode converts board-unit plans into printer coordinates and
// formats the handful of g-code commands the choreography needs. This is
// the only place millimeters exist; everything upstream works in board
// units.
package gcode

import (
	"fmt"

	"github.com/gwillem/printerchess/pkg/board"
	"github.com/gwillem/printerchess/pkg/plan"
)

// MM is a toolhead position in printer millimeters.
type MM struct {
	X float64
	Y float64
}

func (m MM) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", m.X, m.Y)
}

// WorkArea maps the 8x8 board onto a rectangle of the printer bed. XMin
// and YMin locate the outer corner of a1.
type WorkArea struct {
	XMin   float64 `json:"x_min"`
	YMin   float64 `json:"y_min"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultWorkArea fits a 320mm board with a 10mm skirt, matching a
// stock 330mm bed.
func DefaultWorkArea() WorkArea {
	return WorkArea{XMin: 10, YMin: 10, Width: 320, Height: 320}
}

// ToMM converts a board-unit point to bed millimeters. Points outside
// the 8x8 area (graveyard slots, margin escapes) convert with the same
// scale, so they land beside the board as intended.
func (w WorkArea) ToMM(p plan.Point) MM {
	return MM{
		X: w.XMin + p.X*(w.Width/8),
		Y: w.YMin + p.Y*(w.Height/8),
	}
}

// SquareCenter returns the bed position of a square's center.
func (w WorkArea) SquareCenter(sq board.Square) MM {
	return w.ToMM(plan.UnitGeometry().Center(sq))
}

// Home returns the startup sequence: motors on, absolute positioning,
// home X and Y. Z never moves; the magnet rides at a fixed height.
func Home() []string {
	return []string{"M17", "G90", "G28 X Y"}
}

// Rapid formats a straight move to p at the given feed rate in mm/min.
func Rapid(p MM, feed int) string {
	return fmt.Sprintf("G0 X%.3f Y%.3f F%d", p.X, p.Y, feed)
}

// FanSpeed formats a Klipper generic-fan command. The electromagnet is
// wired as a fan so speed 1 engages it and 0 releases.
func FanSpeed(fan string, speed float64) string {
	return fmt.Sprintf("SET_FAN_SPEED FAN=%s SPEED=%g", fan, speed)
}

// Dwell formats a pause of the given duration in milliseconds.
func Dwell(ms int) string {
	return fmt.Sprintf("G4 P%d", ms)
}
