package plan

import (
	"sort"

	"github.com/gwillem/printerchess/pkg/board"
)

// NodeKind distinguishes the three node flavors of the corridor graph.
type NodeKind uint8

const (
	// Center sits at the middle of square (File, Rank).
	Center NodeKind = iota
	// HMid sits on the corridor between (File, Rank) and (File+1, Rank).
	HMid
	// VMid sits on the corridor between (File, Rank) and (File, Rank+1).
	VMid
)

// Node is one vertex of the corridor graph. Nodes are comparable and map
// to exactly one Point under a given Geometry.
type Node struct {
	Kind NodeKind
	File int8
	Rank int8
}

// CenterNode returns the center node of sq.
func CenterNode(sq board.Square) Node {
	return Node{Kind: Center, File: int8(sq.File()), Rank: int8(sq.Rank())}
}

// Square returns the square a Center node belongs to. For mid nodes it
// returns the lower/left flanking square.
func (n Node) Square() board.Square {
	return board.NewSquare(int(n.File), int(n.Rank))
}

// Graph is the static corridor graph: 64 square centers, 56 horizontal
// corridor midpoints and 56 vertical ones, where every midpoint links only
// its two flanking centers. Build it once with NewGraph; it is read-only
// afterward and safe to share across goroutines.
type Graph struct {
	geom Geometry
	adj  map[Node][]Node
}

// NewGraph builds the corridor graph for the given geometry.
func NewGraph(geom Geometry) *Graph {
	g := &Graph{geom: geom, adj: make(map[Node][]Node, 176)}

	link := func(a, b Node) {
		g.adj[a] = append(g.adj[a], b)
		g.adj[b] = append(g.adj[b], a)
	}

	for r := int8(0); r < 8; r++ {
		for f := int8(0); f < 8; f++ {
			g.adj[Node{Kind: Center, File: f, Rank: r}] = nil
		}
	}
	for r := int8(0); r < 8; r++ {
		for f := int8(0); f < 7; f++ {
			m := Node{Kind: HMid, File: f, Rank: r}
			link(m, Node{Kind: Center, File: f, Rank: r})
			link(m, Node{Kind: Center, File: f + 1, Rank: r})
		}
	}
	for r := int8(0); r < 7; r++ {
		for f := int8(0); f < 8; f++ {
			m := Node{Kind: VMid, File: f, Rank: r}
			link(m, Node{Kind: Center, File: f, Rank: r})
			link(m, Node{Kind: Center, File: f, Rank: r + 1})
		}
	}

	// Neighbor lists are sorted once so that search order, and therefore
	// tie-breaking among equal-cost paths, is reproducible.
	for n := range g.adj {
		nbs := g.adj[n]
		sort.Slice(nbs, func(i, j int) bool { return nodeLess(nbs[i], nbs[j]) })
	}
	return g
}

// Geometry returns the geometry the graph was built with.
func (g *Graph) Geometry() Geometry { return g.geom }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.adj) }

// Neighbors returns the adjacency list of n. Callers must not modify it.
func (g *Graph) Neighbors(n Node) []Node { return g.adj[n] }

// PointOf maps a node to its point. Center nodes sit at square centers,
// mid nodes at the exact midpoint between their two flanking centers.
func (g *Graph) PointOf(n Node) Point {
	c := g.geom.Center(n.Square())
	switch n.Kind {
	case HMid:
		c.X += g.geom.Square / 2
	case VMid:
		c.Y += g.geom.Square / 2
	}
	return c
}

// Nearest returns the graph node closest to p by Manhattan distance.
// Ties resolve to the smallest node in (kind, rank, file) order.
func (g *Graph) Nearest(p Point) Node {
	var best Node
	bestD := -1.0
	for n := range g.adj {
		d := g.PointOf(n).Manhattan(p)
		if bestD < 0 || d < bestD || (d == bestD && nodeLess(n, best)) {
			best, bestD = n, d
		}
	}
	return best
}

func nodeLess(a, b Node) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.File < b.File
}
