package board

import "fmt"

// Move is a single chess move plus the metadata the sequencers need. The
// flags are derived from a snapshot (see Derive); they are never guessed
// from the squares alone.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType

	Capture   bool
	Castling  bool
	EnPassant bool
}

// CapturedSquare returns the square the captured piece actually sits on.
// Under en passant that is (dst file, src rank), not the destination.
func (m Move) CapturedSquare() Square {
	if m.EnPassant {
		return NewSquare(m.To.File(), m.From.Rank())
	}
	return m.To
}

// CastlingRook returns the rook's source and destination for a castling
// move, derived from the king's destination file and shared rank.
func (m Move) CastlingRook() (from, to Square) {
	rank := m.From.Rank()
	if m.To.File() > m.From.File() { // kingside
		return NewSquare(7, rank), NewSquare(5, rank)
	}
	return NewSquare(0, rank), NewSquare(3, rank)
}

func (m Move) String() string {
	s := m.From.String() + m.To.String()
	switch m.Promotion {
	case Queen:
		s += "q"
	case Rook:
		s += "r"
	case Bishop:
		s += "b"
	case Knight:
		s += "n"
	}
	return s
}

// Derive builds a Move from src/dst against the snapshot, filling in the
// capture, castling and en passant flags. It validates only that a piece
// exists on src; legality is the rules engine's job.
func (s Snapshot) Derive(from, to Square, promotion PieceType) (Move, error) {
	p := s.PieceAt(from)
	if p.IsEmpty() {
		return Move{}, fmt.Errorf("no piece on %s", from)
	}
	mv := Move{From: from, To: to, Promotion: promotion}

	dst := s.PieceAt(to)
	if !dst.IsEmpty() && dst.Color != p.Color {
		mv.Capture = true
	}
	if p.Type == Pawn && dst.IsEmpty() && from.File() != to.File() && to == s.epTarget {
		mv.EnPassant = true
		mv.Capture = true
	}
	if p.Type == King && abs(to.File()-from.File()) == 2 {
		mv.Castling = true
	}
	return mv, nil
}

// ParseUCI parses "e2e4" style input (optional promotion suffix) and
// derives the move metadata from the snapshot.
func (s Snapshot) ParseUCI(str string) (Move, error) {
	if len(str) != 4 && len(str) != 5 {
		return Move{}, fmt.Errorf("bad move %q", str)
	}
	from, err := ParseSquare(str[:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(str[2:4])
	if err != nil {
		return Move{}, err
	}
	promo := Empty
	if len(str) == 5 {
		switch str[4] {
		case 'q':
			promo = Queen
		case 'r':
			promo = Rook
		case 'b':
			promo = Bishop
		case 'n':
			promo = Knight
		default:
			return Move{}, fmt.Errorf("bad promotion %q", str[4])
		}
	}
	return s.Derive(from, to, promo)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
