package plan

import (
	"fmt"

	"github.com/gwillem/printerchess/pkg/board"
)

// planCastling moves the rook first, then the king. Rook-first matches the
// physical layout: the king's corridor route passes right next to the
// rook's vacated path, so the rook must already be out of the way. The
// king's route is planned against a snapshot with the rook relocated.
func (p *Planner) planCastling(snap board.Snapshot, mv board.Move) (Plan, error) {
	rookFrom, rookTo := mv.CastlingRook()
	rook := snap.PieceAt(rookFrom)
	if rook.Type != board.Rook {
		return nil, fmt.Errorf("plan %s: no rook on %s", mv, rookFrom)
	}

	rookPath, err := p.graph.Route(snap, rookFrom, rookTo)
	if err != nil {
		return nil, fmt.Errorf("plan %s: rook route: %w", mv, err)
	}

	afterRook := snap.Remove(rookFrom).SetPiece(rookTo, rook)
	kingPath, err := p.graph.Route(afterRook, mv.From, mv.To)
	if err != nil {
		return nil, fmt.Errorf("plan %s: king route: %w", mv, err)
	}

	return Plan{
		travel(rookPath, true),
		mark(rookPath[len(rookPath)-1], false),
		travel(kingPath, true),
		mark(kingPath[len(kingPath)-1], false),
	}, nil
}
