package plan

import "github.com/gwillem/printerchess/pkg/board"

// GraveyardLayout describes the capture tray to the right of the board.
// All values are in squares; white fills the columns nearest the board,
// black the pair beyond them.
type GraveyardLayout struct {
	// Margin is the gap between the board edge and the first column.
	Margin float64
	// Spacing is the pitch between slots, slightly under one square so a
	// full game fits the tray height.
	Spacing float64
	Rows    int
	Cols    int
}

// DefaultGraveyardLayout fits the 15 possible captures per color into two
// columns of eight.
func DefaultGraveyardLayout() GraveyardLayout {
	return GraveyardLayout{Margin: 0.25, Spacing: 0.9, Rows: 8, Cols: 2}
}

// Graveyard hands out parking slots for captured pieces. Slots are
// append-only: ordinals per color strictly increase, nothing is ever
// reused or reassigned, and undoing a move does not give a slot back.
// Callers plan one move at a time; concurrent planning needs external
// locking around NextSlot.
type Graveyard struct {
	geom   Geometry
	layout GraveyardLayout
	counts [2]int
}

// NewGraveyard returns an empty allocator for the given geometry.
func NewGraveyard(geom Geometry, layout GraveyardLayout) *Graveyard {
	return &Graveyard{geom: geom, layout: layout}
}

// NextSlot returns the next unused slot for color along with its ordinal.
// The grid fills column-major. Once a color's grid is exhausted the
// allocator degrades to an overflow lane below the tray (fixed x,
// decreasing y) instead of failing.
func (g *Graveyard) NextSlot(color board.Color) (Point, int) {
	ordinal := g.counts[color]
	g.counts[color]++
	return g.slot(color, ordinal), ordinal
}

// Count returns how many slots color has consumed so far.
func (g *Graveyard) Count(color board.Color) int { return g.counts[color] }

// Reset clears the per-color counters for a new game. Already-returned
// slot points stay valid; only future allocation restarts at ordinal 0.
func (g *Graveyard) Reset() { g.counts = [2]int{} }

func (g *Graveyard) slot(color board.Color, ordinal int) Point {
	s := g.geom.Square
	colBase := 0
	if color == board.Black {
		colBase = g.layout.Cols
	}
	trayX := g.geom.BoardMax().X + g.layout.Margin*s

	capacity := g.layout.Rows * g.layout.Cols
	if ordinal >= capacity {
		// Overflow lane: keep x fixed at the color's first column and walk
		// down below the tray.
		return Point{
			X: trayX + (float64(colBase)+0.5)*g.layout.Spacing*s,
			Y: g.geom.BoardMin().Y - (0.5+0.35*float64(ordinal-capacity))*s,
		}
	}

	col := ordinal / g.layout.Rows
	row := ordinal % g.layout.Rows
	return Point{
		X: trayX + (float64(colBase+col)+0.5)*g.layout.Spacing*s,
		Y: g.geom.BoardMin().Y + (0.5+float64(row)*g.layout.Spacing)*s,
	}
}
