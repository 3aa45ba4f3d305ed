// Package board provides chess board snapshots and move metadata for the
// path planner. It deliberately knows nothing about move legality; the
// embedding application is expected to feed it already-validated moves.
package board

import "fmt"

// Square identifies one of the 64 board squares, a1=0 .. h8=63.
type Square int8

// NoSquare marks the absence of a square (e.g. no en passant target).
const NoSquare Square = -1

// NewSquare builds a Square from file (0..7, a..h) and rank (0..7, 1..8).
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// File returns the file index 0..7 (a..h).
func (s Square) File() int { return int(s) % 8 }

// Rank returns the rank index 0..7 (1..8).
func (s Square) Rank() int { return int(s) / 8 }

// Valid reports whether the square is on the board.
func (s Square) Valid() bool { return s >= 0 && s < 64 }

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+s.File(), s.Rank()+1)
}

// ParseSquare parses algebraic notation like "e4".
func ParseSquare(str string) (Square, error) {
	if len(str) != 2 || str[0] < 'a' || str[0] > 'h' || str[1] < '1' || str[1] > '8' {
		return NoSquare, fmt.Errorf("bad square %q", str)
	}
	return NewSquare(int(str[0]-'a'), int(str[1]-'1')), nil
}
