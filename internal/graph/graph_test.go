package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// post is a minimal Source for tests.
type post struct {
	author   string
	mentions []string
}

func (p post) AuthorHandle() string       { return p.author }
func (p post) MentionedHandles() []string { return p.mentions }

// buildFromPairs creates a graph from "from->to" pairs.
func buildFromPairs(pairs [][2]string) *Graph {
	g := New()
	for _, p := range pairs {
		g.AddEdge(p[0], p[1])
	}
	return g
}

func TestBuild_LowercasesAuthorAndMentions(t *testing.T) {
	g := Build([]post{{author: "Zara_Fan", mentions: []string{"shein", "ASOS"}}})

	assert.Equal(t, []string{"zara_fan", "shein", "asos"}, g.Nodes())
	assert.True(t, g.HasEdge("zara_fan", "shein"))
	assert.True(t, g.HasEdge("zara_fan", "asos"))
	assert.Equal(t, 2, g.NumEdges())
}

func TestBuild_RepeatedMentionsCollapse(t *testing.T) {
	g := Build([]post{
		{author: "ana", mentions: []string{"zara", "zara"}},
		{author: "ANA", mentions: []string{"Zara"}},
	})
	assert.Equal(t, 1, g.NumEdges())
	assert.Equal(t, 1, g.InDegree("zara"))
}

func TestBuild_NodesOnlyFromEdges(t *testing.T) {
	g := Build([]post{
		{author: "silent", mentions: nil},
		{author: "ana", mentions: []string{"bob"}},
	})
	assert.False(t, g.HasNode("silent"))
	assert.Equal(t, []string{"ana", "bob"}, g.Nodes())
}

func TestBuild_SelfMentionIsLoop(t *testing.T) {
	g := Build([]post{{author: "ana", mentions: []string{"ANA"}}})
	assert.True(t, g.HasEdge("ana", "ana"))
	assert.Equal(t, 1, g.NumNodes())
	assert.Equal(t, 1, g.InDegree("ana"))
}

func TestBuild_SkipsBlankAuthorAndMentions(t *testing.T) {
	g := Build([]post{
		{author: "  ", mentions: []string{"zara"}},
		{author: "ana", mentions: []string{"", " "}},
	})
	assert.True(t, g.Empty())
	assert.Equal(t, 0, g.NumEdges())
}

func TestBuild_EmptyCollection(t *testing.T) {
	g := Build([]post{})
	assert.Equal(t, 0, g.NumNodes())
	assert.Equal(t, 0, g.NumEdges())
	assert.True(t, g.Empty())
}

func TestBuild_Deterministic(t *testing.T) {
	posts := []post{
		{author: "c", mentions: []string{"a", "b"}},
		{author: "a", mentions: []string{"b"}},
		{author: "b", mentions: []string{"c", "a"}},
	}
	g1 := Build(posts)
	g2 := Build(posts)
	assert.Equal(t, g1.Nodes(), g2.Nodes())
	assert.Equal(t, g1.Edges(), g2.Edges())
}

func TestDensity(t *testing.T) {
	assert.Equal(t, 0.0, Density(New()))
	assert.Equal(t, 0.0, Density(buildFromPairs([][2]string{{"a", "a"}})), "single node")

	g := buildFromPairs([][2]string{{"a", "b"}, {"b", "a"}, {"a", "c"}})
	assert.InDelta(t, 3.0/6.0, Density(g), 1e-9)
}

func TestSummarize(t *testing.T) {
	g := buildFromPairs([][2]string{{"a", "b"}, {"c", "b"}})
	assert.Equal(t, Summary{Nodes: 3, Edges: 2, Density: 2.0 / 6.0}, Summarize(g))
}

func TestClone_Independent(t *testing.T) {
	g := buildFromPairs([][2]string{{"a", "b"}})
	c := g.Clone()
	c.AddEdge("b", "c")
	assert.Equal(t, 1, g.NumEdges())
	assert.Equal(t, 2, c.NumEdges())
}

func TestAddEdge_ReportsNew(t *testing.T) {
	g := New()
	assert.True(t, g.AddEdge("a", "b"))
	assert.False(t, g.AddEdge("a", "b"))
}
