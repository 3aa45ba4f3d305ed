package board

import "testing"

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in   string
		file int
		rank int
		err  bool
	}{
		{"a1", 0, 0, false},
		{"h8", 7, 7, false},
		{"e4", 4, 3, false},
		{"d5", 3, 4, false},
		{"i1", 0, 0, true},
		{"a9", 0, 0, true},
		{"", 0, 0, true},
		{"e44", 0, 0, true},
	}

	for _, tt := range tests {
		sq, err := ParseSquare(tt.in)
		if tt.err {
			if err == nil {
				t.Errorf("ParseSquare(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSquare(%q) = %v", tt.in, err)
			continue
		}
		if sq.File() != tt.file || sq.Rank() != tt.rank {
			t.Errorf("ParseSquare(%q) = file %d rank %d, want %d %d",
				tt.in, sq.File(), sq.Rank(), tt.file, tt.rank)
		}
		if sq.String() != tt.in {
			t.Errorf("String() = %q, want %q", sq.String(), tt.in)
		}
	}
}

func TestStartingPosition(t *testing.T) {
	s := StartingPosition()

	count := 0
	for sq := Square(0); sq < 64; sq++ {
		if s.Occupied(sq) {
			count++
		}
	}
	if count != 32 {
		t.Errorf("starting position has %d pieces, want 32", count)
	}

	e1 := s.PieceAt(mustSquare(t, "e1"))
	if e1.Type != King || e1.Color != White {
		t.Errorf("e1 = %+v, want white king", e1)
	}
	b8 := s.PieceAt(mustSquare(t, "b8"))
	if b8.Type != Knight || b8.Color != Black {
		t.Errorf("b8 = %+v, want black knight", b8)
	}
}

func TestApplyDoesNotMutate(t *testing.T) {
	s := StartingPosition()
	mv, err := s.ParseUCI("e2e4")
	if err != nil {
		t.Fatal(err)
	}

	next := s.Apply(mv)

	if !s.Occupied(mv.From) {
		t.Error("Apply mutated the original snapshot")
	}
	if next.Occupied(mv.From) {
		t.Error("successor still has a piece on e2")
	}
	if next.PieceAt(mv.To).Type != Pawn {
		t.Error("successor missing pawn on e4")
	}
	if got := next.EnPassantTarget(); got != mustSquare(t, "e3") {
		t.Errorf("en passant target = %v, want e3", got)
	}
}

func TestDeriveEnPassant(t *testing.T) {
	// White pawn e5, black plays d7d5; e5xd6 is en passant and the
	// captured pawn sits on d5.
	s := EmptyBoard().
		SetPiece(mustSquare(t, "e5"), Piece{Type: Pawn, Color: White}).
		SetPiece(mustSquare(t, "d7"), Piece{Type: Pawn, Color: Black})

	push, err := s.ParseUCI("d7d5")
	if err != nil {
		t.Fatal(err)
	}
	s = s.Apply(push)

	mv, err := s.ParseUCI("e5d6")
	if err != nil {
		t.Fatal(err)
	}
	if !mv.EnPassant || !mv.Capture {
		t.Fatalf("e5d6 flags = %+v, want en passant capture", mv)
	}
	if got := mv.CapturedSquare(); got != mustSquare(t, "d5") {
		t.Errorf("captured square = %v, want d5", got)
	}

	next := s.Apply(mv)
	if next.Occupied(mustSquare(t, "d5")) {
		t.Error("captured pawn still on d5 after apply")
	}
}

func TestDeriveCastling(t *testing.T) {
	tests := []struct {
		uci      string
		rookFrom string
		rookTo   string
	}{
		{"e1g1", "h1", "f1"},
		{"e1c1", "a1", "d1"},
		{"e8g8", "h8", "f8"},
		{"e8c8", "a8", "d8"},
	}

	for _, tt := range tests {
		color := White
		if tt.uci[1] == '8' {
			color = Black
		}
		kingSq := mustSquare(t, tt.uci[:2])
		s := EmptyBoard().
			SetPiece(kingSq, Piece{Type: King, Color: color}).
			SetPiece(mustSquare(t, tt.rookFrom), Piece{Type: Rook, Color: color})

		mv, err := s.ParseUCI(tt.uci)
		if err != nil {
			t.Fatal(err)
		}
		if !mv.Castling {
			t.Errorf("%s not flagged as castling", tt.uci)
		}
		rf, rt := mv.CastlingRook()
		if rf != mustSquare(t, tt.rookFrom) || rt != mustSquare(t, tt.rookTo) {
			t.Errorf("%s rook = %v->%v, want %s->%s", tt.uci, rf, rt, tt.rookFrom, tt.rookTo)
		}

		next := s.Apply(mv)
		if next.PieceAt(rt).Type != Rook {
			t.Errorf("%s: rook not on %s after apply", tt.uci, tt.rookTo)
		}
		if next.Occupied(rf) {
			t.Errorf("%s: rook still on %s after apply", tt.uci, tt.rookFrom)
		}
	}
}

func TestParseUCIPromotion(t *testing.T) {
	s := EmptyBoard().SetPiece(mustSquare(t, "e7"), Piece{Type: Pawn, Color: White})
	mv, err := s.ParseUCI("e7e8q")
	if err != nil {
		t.Fatal(err)
	}
	if mv.Promotion != Queen {
		t.Errorf("promotion = %v, want queen", mv.Promotion)
	}
	next := s.Apply(mv)
	if next.PieceAt(mustSquare(t, "e8")).Type != Queen {
		t.Error("promoted piece is not a queen")
	}
}

func mustSquare(t *testing.T, s string) Square {
	t.Helper()
	sq, err := ParseSquare(s)
	if err != nil {
		t.Fatal(err)
	}
	return sq
}
