package plan

import (
	"fmt"

	"github.com/gwillem/printerchess/pkg/board"
)

// Planner composes the corridor graph, knight router and graveyard into
// move plans. The graph is immutable after construction; the graveyard
// counters are the only mutable state, so one Planner serves one game.
type Planner struct {
	geom      Geometry
	graph     *Graph
	graveyard *Graveyard
}

// Captured describes the piece a capture plan parks in the graveyard.
type Captured struct {
	Piece   board.Piece
	Slot    Point
	Ordinal int
}

// Result is a finished plan plus capture bookkeeping, if any.
type Result struct {
	Plan     Plan
	Captured *Captured
}

// NewPlanner builds a planner with the default graveyard layout.
func NewPlanner(geom Geometry) *Planner {
	return &Planner{
		geom:      geom,
		graph:     NewGraph(geom),
		graveyard: NewGraveyard(geom, DefaultGraveyardLayout()),
	}
}

// Geometry returns the planner's geometry.
func (p *Planner) Geometry() Geometry { return p.geom }

// Graph exposes the shared corridor graph.
func (p *Planner) Graph() *Graph { return p.graph }

// Graveyard exposes the slot allocator.
func (p *Planner) Graveyard() *Graveyard { return p.graveyard }

// Reset prepares the planner for a new game.
func (p *Planner) Reset() { p.graveyard.Reset() }

// PlanMove builds the waypoint plan for mv against the given snapshot.
// The snapshot must be the position BEFORE the move. Planning never
// mutates it.
func (p *Planner) PlanMove(snap board.Snapshot, mv board.Move) (Result, error) {
	switch {
	case mv.Castling:
		pl, err := p.planCastling(snap, mv)
		return Result{Plan: pl}, err
	case mv.Capture:
		return p.planCapture(snap, mv)
	default:
		pl, err := p.planSimple(snap, mv)
		return Result{Plan: pl}, err
	}
}

// planSimple moves one piece src -> dst: engaged travel plus a zero-length
// disengage at the destination.
func (p *Planner) planSimple(snap board.Snapshot, mv board.Move) (Plan, error) {
	path, err := p.pieceRoute(snap, mv.From, mv.To)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", mv, err)
	}
	return Plan{
		travel(path, true),
		mark(path[len(path)-1], false),
	}, nil
}

// pieceRoute picks the knight router for knights and corridor A* for
// everything else.
func (p *Planner) pieceRoute(snap board.Snapshot, src, dst board.Square) ([]Point, error) {
	if snap.PieceAt(src).Type == board.Knight && IsKnightOffset(src, dst) {
		return KnightRoute(p.geom, src, dst), nil
	}
	return p.graph.Route(snap, src, dst)
}
