package plan

import (
	"container/heap"
	"errors"

	"github.com/gwillem/printerchess/pkg/board"
)

// ErrPathNotFound means no corridor route exists under the current
// occupancy. Callers must reject the move; approximating with a straight
// line through occupied squares is never acceptable.
var ErrPathNotFound = errors.New("plan: no corridor path found")

// Blocked reports whether a square's center may not be crossed. The start
// and goal squares of a search are always exempted by the caller wrappers.
type Blocked func(sq board.Square) bool

// FindPath runs A* from start to goal over the corridor graph. Edges cost
// 1; the heuristic is the Manhattan distance scaled to edge lengths (every
// edge spans half a square along one axis), which keeps it admissible.
// Ties on f-score break by (kind, rank, file) node order so equal-cost
// routes resolve the same way every run.
func (g *Graph) FindPath(start, goal Node, blocked Blocked) ([]Node, error) {
	halfSquare := g.geom.Square / 2
	h := func(n Node) float64 {
		return g.PointOf(n).Manhattan(g.PointOf(goal)) / halfSquare
	}

	open := &openHeap{}
	heap.Push(open, openItem{node: start, f: h(start)})
	gScore := map[Node]int{start: 0}
	came := map[Node]Node{}

	for open.Len() > 0 {
		cur := heap.Pop(open).(openItem)
		if cur.node == goal {
			return rebuild(came, goal), nil
		}
		for _, nb := range g.adj[cur.node] {
			if nb.Kind == Center && nb != goal && nb != start && blocked(nb.Square()) {
				continue
			}
			tentative := gScore[cur.node] + 1
			if prev, ok := gScore[nb]; !ok || tentative < prev {
				gScore[nb] = tentative
				came[nb] = cur.node
				heap.Push(open, openItem{node: nb, f: float64(tentative) + h(nb)})
			}
		}
	}
	return nil, ErrPathNotFound
}

// Route plans a corridor path between two square centers. The src and dst
// squares are exempt from the blocked set; everything else occupied is a
// wall.
func (g *Graph) Route(snap board.Snapshot, src, dst board.Square) ([]Point, error) {
	blocked := func(sq board.Square) bool {
		return sq != src && sq != dst && snap.Occupied(sq)
	}
	nodes, err := g.FindPath(CenterNode(src), CenterNode(dst), blocked)
	if err != nil {
		return nil, err
	}
	return g.points(nodes), nil
}

// RouteBetween plans a corridor path between two arbitrary points, e.g.
// from a graveyard slot back onto the board. Each endpoint snaps to its
// nearest graph node; if that node is the center of an occupied square it
// is exempted, since entering or leaving through it is the whole point.
func (g *Graph) RouteBetween(snap board.Snapshot, from, to Point) ([]Point, error) {
	start := g.Nearest(from)
	goal := g.Nearest(to)

	blocked := func(sq board.Square) bool {
		if start.Kind == Center && start.Square() == sq {
			return false
		}
		if goal.Kind == Center && goal.Square() == sq {
			return false
		}
		return snap.Occupied(sq)
	}
	nodes, err := g.FindPath(start, goal, blocked)
	if err != nil {
		return nil, err
	}

	pts := g.points(nodes)
	if len(pts) == 0 || pts[0].Dist(from) > 1e-9 {
		pts = append([]Point{from}, pts...)
	}
	return pts, nil
}

func (g *Graph) points(nodes []Node) []Point {
	pts := make([]Point, len(nodes))
	for i, n := range nodes {
		pts[i] = g.PointOf(n)
	}
	return pts
}

func rebuild(came map[Node]Node, goal Node) []Node {
	path := []Node{goal}
	for {
		prev, ok := came[path[len(path)-1]]
		if !ok {
			break
		}
		path = append(path, prev)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type openItem struct {
	node Node
	f    float64
}

type openHeap []openItem

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return nodeLess(h[i].node, h[j].node)
}
func (h openHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *openHeap) Push(x any)        { *h = append(*h, x.(openItem)) }
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}
