package plan

import (
	"errors"
	"reflect"
	"testing"

	"github.com/gwillem/printerchess/pkg/board"
)

func sq(t *testing.T, s string) board.Square {
	t.Helper()
	v, err := board.ParseSquare(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestRouteEmptyBoard(t *testing.T) {
	g := NewGraph(UnitGeometry())
	snap := board.EmptyBoard()

	pts, err := g.Route(snap, sq(t, "e2"), sq(t, "e5"))
	if err != nil {
		t.Fatal(err)
	}
	// Three squares of travel, two edges per square.
	if len(pts) != 7 {
		t.Fatalf("got %d waypoints, want 7", len(pts))
	}
	if pts[0] != (Point{4.5, 1.5}) {
		t.Errorf("route starts at %v, want e2 center", pts[0])
	}
	if pts[len(pts)-1] != (Point{4.5, 4.5}) {
		t.Errorf("route ends at %v, want e5 center", pts[len(pts)-1])
	}
}

func TestRouteExemptsEndpoints(t *testing.T) {
	g := NewGraph(UnitGeometry())

	// Every square occupied. Adjacent squares are still routable because
	// only intermediate centers count as walls.
	snap := board.EmptyBoard()
	for s := board.Square(0); s < 64; s++ {
		snap = snap.SetPiece(s, board.Piece{Type: board.Pawn, Color: board.White})
	}

	pts, err := g.Route(snap, sq(t, "d4"), sq(t, "d5"))
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 3 {
		t.Fatalf("got %d waypoints, want 3", len(pts))
	}
	want := []Point{{3.5, 3.5}, {3.5, 4.0}, {3.5, 4.5}}
	if !reflect.DeepEqual(pts, want) {
		t.Errorf("route = %v, want %v", pts, want)
	}
}

func TestRouteAvoidsOccupiedCenters(t *testing.T) {
	g := NewGraph(UnitGeometry())

	// A wall of pawns on rank 4 with one gap at e4 forces the route
	// through the gap.
	snap := board.EmptyBoard()
	for f := 0; f < 8; f++ {
		if f == 4 {
			continue
		}
		snap = snap.SetPiece(board.NewSquare(f, 3), board.Piece{Type: board.Pawn, Color: board.Black})
	}
	snap = snap.SetPiece(sq(t, "a1"), board.Piece{Type: board.Queen, Color: board.White})

	pts, err := g.Route(snap, sq(t, "a1"), sq(t, "a8"))
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range pts {
		if p.Y > 3.0 && p.Y < 4.0 && p.X != 4.5 {
			// Strictly inside rank 4 territory, off the e-file gap: the
			// only legal crossings are the corridor lines at y=3 and y=4.
			t.Errorf("waypoint %v crosses the pawn wall", p)
		}
	}
	if got := pts[len(pts)-1]; got != (Point{0.5, 7.5}) {
		t.Errorf("route ends at %v, want a8 center", got)
	}
}

func TestRouteEnclosed(t *testing.T) {
	g := NewGraph(UnitGeometry())

	// a1 sealed in by a2 and b1: both escape corridors lead through an
	// occupied center.
	snap := board.EmptyBoard().
		SetPiece(sq(t, "a1"), board.Piece{Type: board.Rook, Color: board.White}).
		SetPiece(sq(t, "a2"), board.Piece{Type: board.Pawn, Color: board.White}).
		SetPiece(sq(t, "b1"), board.Piece{Type: board.Pawn, Color: board.White}).
		SetPiece(sq(t, "b2"), board.Piece{Type: board.Pawn, Color: board.White})

	_, err := g.Route(snap, sq(t, "a1"), sq(t, "a8"))
	if !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("err = %v, want ErrPathNotFound", err)
	}
}

func TestRouteDeterministic(t *testing.T) {
	g := NewGraph(UnitGeometry())
	snap := board.StartingPosition().Remove(sq(t, "d2"))

	// With d2 cleared, d1 -> h5 has many equal-cost routes through the
	// empty middle; the search must settle on the same one every time.
	first, err := g.Route(snap, sq(t, "d1"), sq(t, "h5"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := g.Route(snap, sq(t, "d1"), sq(t, "h5"))
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d diverged:\n%v\nvs\n%v", i, first, again)
		}
	}
}

func TestRouteBetween(t *testing.T) {
	g := NewGraph(UnitGeometry())
	snap := board.EmptyBoard().
		SetPiece(sq(t, "e4"), board.Piece{Type: board.Pawn, Color: board.White})

	// From an off-board graveyard point back to an occupied square: the
	// raw start point leads the path, and the occupied target is exempt.
	from := Point{9.0, 2.3}
	to := g.Geometry().Center(sq(t, "e4"))
	pts, err := g.RouteBetween(snap, from, to)
	if err != nil {
		t.Fatal(err)
	}
	if pts[0] != from {
		t.Errorf("path starts at %v, want %v", pts[0], from)
	}
	if got := pts[len(pts)-1]; got != to {
		t.Errorf("path ends at %v, want %v", got, to)
	}
}
