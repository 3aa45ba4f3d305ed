package board

// Snapshot is an immutable-by-convention picture of the board. It is a
// value type: Apply, SetPiece and Remove return modified copies so planning
// code can build hypothetical positions without touching the original.
type Snapshot struct {
	squares [64]Piece
	// epTarget is the square a pawn just jumped over, or NoSquare.
	epTarget Square
}

// StartingPosition returns a snapshot of the standard initial setup.
func StartingPosition() Snapshot {
	s := Snapshot{epTarget: NoSquare}
	back := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for f := 0; f < 8; f++ {
		s.squares[NewSquare(f, 0)] = Piece{Type: back[f], Color: White}
		s.squares[NewSquare(f, 1)] = Piece{Type: Pawn, Color: White}
		s.squares[NewSquare(f, 6)] = Piece{Type: Pawn, Color: Black}
		s.squares[NewSquare(f, 7)] = Piece{Type: back[f], Color: Black}
	}
	return s
}

// EmptyBoard returns a snapshot with no pieces.
func EmptyBoard() Snapshot {
	return Snapshot{epTarget: NoSquare}
}

// PieceAt returns the piece on sq, or the empty Piece.
func (s Snapshot) PieceAt(sq Square) Piece {
	if !sq.Valid() {
		return Piece{}
	}
	return s.squares[sq]
}

// Occupied reports whether sq holds a piece.
func (s Snapshot) Occupied(sq Square) bool {
	return sq.Valid() && !s.squares[sq].IsEmpty()
}

// EnPassantTarget returns the current en passant target square, or NoSquare.
func (s Snapshot) EnPassantTarget() Square { return s.epTarget }

// SetPiece returns a copy with p placed on sq.
func (s Snapshot) SetPiece(sq Square, p Piece) Snapshot {
	s.squares[sq] = p
	return s
}

// Remove returns a copy with sq cleared.
func (s Snapshot) Remove(sq Square) Snapshot {
	s.squares[sq] = Piece{}
	return s
}

// Apply returns the successor position after mv. The move is trusted; no
// legality checking happens here.
func (s Snapshot) Apply(mv Move) Snapshot {
	p := s.squares[mv.From]

	if mv.Capture {
		s.squares[mv.CapturedSquare()] = Piece{}
	}
	s.squares[mv.From] = Piece{}
	if mv.Promotion != Empty {
		p.Type = mv.Promotion
	}
	s.squares[mv.To] = p

	if mv.Castling {
		rookFrom, rookTo := mv.CastlingRook()
		rook := s.squares[rookFrom]
		s.squares[rookFrom] = Piece{}
		s.squares[rookTo] = rook
	}

	// A double pawn push exposes the skipped square to en passant.
	s.epTarget = NoSquare
	if p.Type == Pawn {
		if d := mv.To.Rank() - mv.From.Rank(); d == 2 || d == -2 {
			s.epTarget = NewSquare(mv.From.File(), (mv.From.Rank()+mv.To.Rank())/2)
		}
	}
	return s
}
