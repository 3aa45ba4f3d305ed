package plan

import (
	"errors"
	"fmt"

	"github.com/gwillem/printerchess/pkg/board"
)

// escapeClearance is how far outside the board edge the carried piece
// travels, in squares. Half a square clears the corridor, the rest keeps
// the piece away from edge squares.
const escapeClearance = 0.6

// planCapture removes the captured piece first, then plays the move:
//
//  1. disengaged travel src -> captured square
//  2. engage at the captured square
//  3. engaged travel to the graveyard slot via the board margin
//  4. disengage at the slot
//  5. disengaged travel back to src (captured piece already gone)
//  6. engaged travel src -> dst
//  7. disengage at dst
//
// The captured square comes from the move metadata: under en passant it is
// (dst file, src rank), never the destination itself.
func (p *Planner) planCapture(snap board.Snapshot, mv board.Move) (Result, error) {
	capSq := mv.CapturedSquare()
	victim := snap.PieceAt(capSq)
	if victim.IsEmpty() {
		return Result{}, fmt.Errorf("plan %s: nothing to capture on %s", mv, capSq)
	}

	toVictim, err := p.graph.Route(snap, mv.From, capSq)
	if err != nil {
		return Result{}, fmt.Errorf("plan %s: route to captured piece: %w", mv, err)
	}

	capPt := p.geom.Center(capSq)
	slot, ordinal := p.graveyard.NextSlot(victim.Color)
	escape := p.marginEscape(capPt, slot)

	// Everything after the removal is planned against the board without
	// the victim.
	after := snap.Remove(capSq)

	// The head returns empty, so when the corridors near the tray are
	// walled off a direct line back is still safe.
	back, err := p.graph.RouteBetween(after, slot, p.geom.Center(mv.From))
	if errors.Is(err, ErrPathNotFound) {
		back = []Point{slot, p.geom.Center(mv.From)}
	} else if err != nil {
		return Result{}, fmt.Errorf("plan %s: route back from graveyard: %w", mv, err)
	}
	own, err := p.pieceRoute(after, mv.From, mv.To)
	if err != nil {
		return Result{}, fmt.Errorf("plan %s: route to destination: %w", mv, err)
	}

	pl := Plan{
		travel(toVictim, false),
		mark(capPt, true),
		travel(escape, true),
		mark(slot, false),
		travel(back, false),
		travel(own, true),
		mark(own[len(own)-1], false),
	}
	return Result{
		Plan:     pl,
		Captured: &Captured{Piece: victim, Slot: slot, Ordinal: ordinal},
	}, nil
}

// marginEscape routes a carried piece from a square center to its
// graveyard slot without crossing any other square or a parked piece:
// half a square toward the nearest open edge, a step fully outside the
// boundary, then along the margins to the transit lane above both board
// and tray. The slot column is entered from above, where bottom-up
// filling keeps every row over the next free slot empty. The right edge
// never qualifies because the tray occupies that margin.
func (p *Planner) marginEscape(from, slot Point) []Point {
	s := p.geom.Square
	min, max := p.geom.BoardMin(), p.geom.BoardMax()
	out := escapeClearance * s
	side := 0.5 * s
	topY := max.Y + out
	leftX := min.X - out

	type edge struct {
		name string
		dist float64
	}
	edges := []edge{
		{"left", from.X - min.X},
		{"bottom", from.Y - min.Y},
		{"top", max.Y - from.Y},
	}
	nearest := edges[0]
	for _, e := range edges[1:] {
		if e.dist < nearest.dist {
			nearest = e
		}
	}

	pts := []Point{from}
	switch nearest.name {
	case "top":
		pts = append(pts,
			Point{X: from.X, Y: from.Y + side},
			Point{X: from.X, Y: topY},
		)
	case "left":
		pts = append(pts,
			Point{X: from.X - side, Y: from.Y},
			Point{X: leftX, Y: from.Y},
			Point{X: leftX, Y: topY},
		)
	case "bottom":
		// Around the bottom-left corner; the bottom margin right of the
		// board belongs to the overflow lane.
		pts = append(pts,
			Point{X: from.X, Y: from.Y - side},
			Point{X: from.X, Y: min.Y - out},
			Point{X: leftX, Y: min.Y - out},
			Point{X: leftX, Y: topY},
		)
	}
	return append(pts, Point{X: slot.X, Y: topY}, slot)
}
