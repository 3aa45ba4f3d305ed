package plan

import (
	"fmt"

	"github.com/gwillem/printerchess/pkg/board"
)

// KnightRoute returns the fixed 4-point corridor path for a knight jump:
// the source center, a half-square sidestep onto the corridor parallel to
// the long axis, a two-square run along that corridor, and the destination
// center. Because the whole route stays on corridor lines it is valid no
// matter what sits on the intervening squares.
//
// Calling it with anything but a true knight offset is a programming error
// and panics.
func KnightRoute(geom Geometry, src, dst board.Square) []Point {
	df := dst.File() - src.File()
	dr := dst.Rank() - src.Rank()

	s := geom.Center(src)
	d := geom.Center(dst)
	half := geom.Square / 2
	two := geom.Square * 2

	switch {
	case abs(df) == 1 && abs(dr) == 2:
		// Long axis vertical: sidestep onto the file corridor, run two
		// squares up/down, then into the destination center.
		laneX := s.X + float64(sign(df))*half
		return []Point{
			s,
			{X: laneX, Y: s.Y},
			{X: laneX, Y: s.Y + float64(sign(dr))*two},
			d,
		}
	case abs(df) == 2 && abs(dr) == 1:
		// Long axis horizontal.
		laneY := s.Y + float64(sign(dr))*half
		return []Point{
			s,
			{X: s.X, Y: laneY},
			{X: s.X + float64(sign(df))*two, Y: laneY},
			d,
		}
	}
	panic(fmt.Sprintf("plan: knight route on non-knight offset %s -> %s", src, dst))
}

// IsKnightOffset reports whether src -> dst is a true knight jump.
func IsKnightOffset(src, dst board.Square) bool {
	df := abs(dst.File() - src.File())
	dr := abs(dst.Rank() - src.Rank())
	return (df == 1 && dr == 2) || (df == 2 && dr == 1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}
