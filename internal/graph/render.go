package graph

// Node sizing: a floor keeps unmentioned handles visible and the linear term
// grows with in-degree.
const (
	baseNodeSize   = 15
	sizePerMention = 3
)

// NodeSize returns the rendered size of a node with the given in-degree.
func NodeSize(inDegree int) int {
	return inDegree*sizePerMention + baseNodeSize
}

// ViewNode holds prepared data for a node in the interactive network view.
type ViewNode struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	InDegree int    `json:"inDegree"`
	Size     int    `json:"size"`
}

// View is the renderable form of a graph.
type View struct {
	Nodes []ViewNode `json:"nodes"`
	Edges []Edge     `json:"edges"`
}

// Render attaches the size attribute to every node and returns the node and
// edge lists in insertion order.
func Render(g *Graph) (View, error) {
	if g == nil || g.Empty() {
		return View{}, ErrEmptyGraph
	}
	nodes := make([]ViewNode, 0, g.NumNodes())
	for _, n := range g.nodes {
		in := g.inDegree[n]
		nodes = append(nodes, ViewNode{
			ID:       n,
			Label:    n,
			InDegree: in,
			Size:     NodeSize(in),
		})
	}
	return View{Nodes: nodes, Edges: g.Edges()}, nil
}
