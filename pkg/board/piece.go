package board

// Color is a piece color.
type Color int8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType identifies a kind of chess piece. The zero value means empty.
type PieceType int8

const (
	Empty PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (t PieceType) String() string {
	switch t {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "empty"
}

// Piece is a piece on a square. The zero value is an empty square.
type Piece struct {
	Type  PieceType
	Color Color
}

// IsEmpty reports whether no piece is present.
func (p Piece) IsEmpty() bool { return p.Type == Empty }
