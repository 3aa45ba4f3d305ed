package plan

import (
	"testing"

	"github.com/gwillem/printerchess/pkg/board"
)

func TestGraveyardOrdinals(t *testing.T) {
	g := NewGraveyard(UnitGeometry(), DefaultGraveyardLayout())

	for i := 0; i < 20; i++ {
		if _, ord := g.NextSlot(board.Black); ord != i {
			t.Fatalf("allocation %d got ordinal %d", i, ord)
		}
	}
	if got := g.Count(board.Black); got != 20 {
		t.Errorf("Count = %d, want 20", got)
	}
	if got := g.Count(board.White); got != 0 {
		t.Errorf("white Count = %d, want 0", got)
	}
}

func TestGraveyardSlotsDistinct(t *testing.T) {
	g := NewGraveyard(UnitGeometry(), DefaultGraveyardLayout())

	seen := map[Point]int{}
	for _, c := range []board.Color{board.White, board.Black} {
		for i := 0; i < 20; i++ {
			p, ord := g.NextSlot(c)
			if prev, dup := seen[p]; dup {
				t.Fatalf("%v %d reuses slot %v of allocation %d", c, ord, p, prev)
			}
			seen[p] = ord
		}
	}
}

func TestGraveyardOffBoard(t *testing.T) {
	geom := UnitGeometry()
	g := NewGraveyard(geom, DefaultGraveyardLayout())

	// Every slot, grid or overflow, sits clear of the playing surface.
	for i := 0; i < 20; i++ {
		for _, c := range []board.Color{board.White, board.Black} {
			p, _ := g.NextSlot(c)
			inside := p.X > geom.BoardMin().X && p.X < geom.BoardMax().X &&
				p.Y > geom.BoardMin().Y && p.Y < geom.BoardMax().Y
			if inside {
				t.Errorf("slot %v lies on the board", p)
			}
		}
	}
}

func TestGraveyardColumnMajor(t *testing.T) {
	g := NewGraveyard(UnitGeometry(), DefaultGraveyardLayout())

	var col0 []Point
	for i := 0; i < 9; i++ {
		p, _ := g.NextSlot(board.White)
		col0 = append(col0, p)
	}
	// First eight fill one column bottom-up, the ninth starts the next.
	for i := 1; i < 8; i++ {
		if col0[i].X != col0[0].X {
			t.Errorf("slot %d changed column: %v vs %v", i, col0[i], col0[0])
		}
		if col0[i].Y <= col0[i-1].Y {
			t.Errorf("slot %d did not move up: %v after %v", i, col0[i], col0[i-1])
		}
	}
	if col0[8].X <= col0[0].X {
		t.Errorf("slot 8 should open a new column right of %v, got %v", col0[0], col0[8])
	}
}

func TestGraveyardOverflow(t *testing.T) {
	geom := UnitGeometry()
	g := NewGraveyard(geom, DefaultGraveyardLayout())

	for i := 0; i < 16; i++ {
		g.NextSlot(board.White)
	}
	a, _ := g.NextSlot(board.White)
	b, _ := g.NextSlot(board.White)

	if a.Y >= geom.BoardMin().Y {
		t.Errorf("overflow slot %v not below the tray", a)
	}
	if b.X != a.X || b.Y >= a.Y {
		t.Errorf("overflow lane should descend at fixed x: %v then %v", a, b)
	}
}

func TestGraveyardReset(t *testing.T) {
	g := NewGraveyard(UnitGeometry(), DefaultGraveyardLayout())

	first, _ := g.NextSlot(board.White)
	g.NextSlot(board.White)
	g.Reset()

	again, ord := g.NextSlot(board.White)
	if ord != 0 {
		t.Errorf("ordinal after reset = %d, want 0", ord)
	}
	if again != first {
		t.Errorf("slot 0 after reset = %v, want %v", again, first)
	}
}
