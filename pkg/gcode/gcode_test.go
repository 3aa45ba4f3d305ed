package gcode

import (
	"math"
	"testing"

	"github.com/gwillem/printerchess/pkg/board"
	"github.com/gwillem/printerchess/pkg/plan"
)

func TestToMM(t *testing.T) {
	w := DefaultWorkArea()

	tests := []struct {
		p    plan.Point
		want MM
	}{
		{plan.Point{X: 0, Y: 0}, MM{X: 10, Y: 10}},
		{plan.Point{X: 8, Y: 8}, MM{X: 330, Y: 330}},
		{plan.Point{X: 0.5, Y: 0.5}, MM{X: 30, Y: 30}},  // a1 center
		{plan.Point{X: 4.5, Y: 3.5}, MM{X: 190, Y: 150}}, // e4 center
		// Graveyard territory, right of the board.
		{plan.Point{X: 9.0, Y: 0.5}, MM{X: 370, Y: 30}},
	}
	for _, tt := range tests {
		got := w.ToMM(tt.p)
		if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
			t.Errorf("ToMM(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestSquareCenter(t *testing.T) {
	w := DefaultWorkArea()
	sq, err := board.ParseSquare("h8")
	if err != nil {
		t.Fatal(err)
	}
	got := w.SquareCenter(sq)
	if math.Abs(got.X-310) > 1e-9 || math.Abs(got.Y-310) > 1e-9 {
		t.Errorf("SquareCenter(h8) = %v, want (310, 310)", got)
	}
}

func TestCommands(t *testing.T) {
	if got := Rapid(MM{X: 190, Y: 150}, 12000); got != "G0 X190.000 Y150.000 F12000" {
		t.Errorf("Rapid = %q", got)
	}
	if got := FanSpeed("magnet", 1); got != "SET_FAN_SPEED FAN=magnet SPEED=1" {
		t.Errorf("FanSpeed on = %q", got)
	}
	if got := FanSpeed("magnet", 0); got != "SET_FAN_SPEED FAN=magnet SPEED=0" {
		t.Errorf("FanSpeed off = %q", got)
	}
	if got := Dwell(120); got != "G4 P120" {
		t.Errorf("Dwell = %q", got)
	}
	home := Home()
	if len(home) != 3 || home[2] != "G28 X Y" {
		t.Errorf("Home = %v", home)
	}
}
