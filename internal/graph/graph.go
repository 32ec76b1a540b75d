// Package graph builds the directed mention graph and reduces oversized graphs
// to a bounded view for rendering.
package graph

import "errors"

var (
	// ErrEmptyGraph signals that there is nothing to display.
	ErrEmptyGraph = errors.New("graph has no nodes")
	// ErrInvalidLimit is returned for non-positive reduction budgets.
	ErrInvalidLimit = errors.New("node limit must be positive")
)

// Edge is a directed author → mentioned relation.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is a simple directed graph over handles. Nodes and edges iterate in
// first-insertion order. Self-loops are allowed; parallel edges are not.
type Graph struct {
	nodes    []string
	nodeSet  map[string]bool
	edges    []Edge
	edgeSet  map[Edge]bool
	inDegree map[string]int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodeSet:  make(map[string]bool),
		edgeSet:  make(map[Edge]bool),
		inDegree: make(map[string]int),
	}
}

// AddEdge adds from → to, creating both endpoints as needed. Adding an edge
// that already exists is a no-op. Returns true if the edge was new.
func (g *Graph) AddEdge(from, to string) bool {
	e := Edge{From: from, To: to}
	if g.edgeSet[e] {
		return false
	}
	g.addNode(from)
	g.addNode(to)
	g.edgeSet[e] = true
	g.edges = append(g.edges, e)
	g.inDegree[to]++
	return true
}

func (g *Graph) addNode(n string) {
	if g.nodeSet[n] {
		return
	}
	g.nodeSet[n] = true
	g.nodes = append(g.nodes, n)
}

// Nodes returns the handles in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// HasNode reports whether n is in the graph.
func (g *Graph) HasNode(n string) bool { return g.nodeSet[n] }

// HasEdge reports whether from → to is in the graph.
func (g *Graph) HasEdge(from, to string) bool { return g.edgeSet[Edge{From: from, To: to}] }

// InDegree is the number of distinct edges terminating at n.
func (g *Graph) InDegree(n string) int { return g.inDegree[n] }

// NumNodes returns the node count.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int { return len(g.edges) }

// Empty reports whether the graph has no nodes.
func (g *Graph) Empty() bool { return len(g.nodes) == 0 }

// Clone returns an independent copy with the same iteration order.
func (g *Graph) Clone() *Graph {
	c := New()
	for _, e := range g.edges {
		c.AddEdge(e.From, e.To)
	}
	return c
}

// Density is edges / (nodes * (nodes - 1)), and 0 when there are fewer than
// two nodes. Self-loops count as edges, so a graph with loops can exceed 1.
func Density(g *Graph) float64 {
	n := g.NumNodes()
	if n <= 1 {
		return 0
	}
	return float64(g.NumEdges()) / float64(n*(n-1))
}

// Summary holds the headline counts of a graph.
type Summary struct {
	Nodes   int     `json:"nodes"`
	Edges   int     `json:"edges"`
	Density float64 `json:"density"`
}

// Summarize computes node count, edge count and density.
func Summarize(g *Graph) Summary {
	return Summary{
		Nodes:   g.NumNodes(),
		Edges:   g.NumEdges(),
		Density: Density(g),
	}
}
