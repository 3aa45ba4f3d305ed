package plan

// Segment is one atomic travel unit: a polyline of waypoints walked with
// the magnet either engaged (dragging a piece) or disengaged. Engage and
// disengage events are expressed as single-waypoint segments with the new
// magnet state, so the executor can treat every transition uniformly.
type Segment struct {
	Waypoints []Point
	Engaged   bool
}

// Plan is the full ordered segment sequence for one logical move:
// 2 segments for a simple move, 7 for a capture, 4 for castling.
type Plan []Segment

// First returns the very first waypoint of the plan.
func (p Plan) First() (Point, bool) {
	for _, seg := range p {
		if len(seg.Waypoints) > 0 {
			return seg.Waypoints[0], true
		}
	}
	return Point{}, false
}

// End returns the final waypoint of the plan.
func (p Plan) End() (Point, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if n := len(p[i].Waypoints); n > 0 {
			return p[i].Waypoints[n-1], true
		}
	}
	return Point{}, false
}

func travel(pts []Point, engaged bool) Segment {
	return Segment{Waypoints: pts, Engaged: engaged}
}

// mark emits a zero-length segment that only flips the magnet state at p.
func mark(p Point, engaged bool) Segment {
	return Segment{Waypoints: []Point{p}, Engaged: engaged}
}
