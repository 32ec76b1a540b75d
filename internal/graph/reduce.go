package graph

import "sort"

// Ranked is a handle with its in-degree.
type Ranked struct {
	Handle   string `json:"handle"`
	InDegree int    `json:"inDegree"`
}

// RankByInDegree orders all nodes by in-degree, highest first. Ties are broken
// by handle in ascending order so the ranking is independent of insertion order.
func RankByInDegree(g *Graph) []Ranked {
	ranked := make([]Ranked, 0, g.NumNodes())
	for _, n := range g.nodes {
		ranked = append(ranked, Ranked{Handle: n, InDegree: g.inDegree[n]})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].InDegree != ranked[j].InDegree {
			return ranked[i].InDegree > ranked[j].InDegree
		}
		return ranked[i].Handle < ranked[j].Handle
	})
	return ranked
}

// TopMentioned returns at most n handles from RankByInDegree.
func TopMentioned(g *Graph, n int) []Ranked {
	ranked := RankByInDegree(g)
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ReduceToTopMentioned keeps the limit most-mentioned nodes and every edge
// that points at one of them. Sources of those edges are kept even when they
// are outside the top set, so the result can hold more than limit nodes.
// A graph with at most limit nodes is returned unchanged (as a copy).
func ReduceToTopMentioned(g *Graph, limit int) (*Graph, error) {
	if g == nil || g.Empty() {
		return nil, ErrEmptyGraph
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if g.NumNodes() <= limit {
		return g.Clone(), nil
	}

	important := make(map[string]bool, limit)
	for _, r := range TopMentioned(g, limit) {
		important[r.Handle] = true
	}

	sub := New()
	for _, e := range g.edges {
		if important[e.To] {
			sub.AddEdge(e.From, e.To)
		}
	}
	return sub, nil
}
