package enricher_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/brandgraph/internal/dataset"
	"github.com/olehluchkiv/brandgraph/internal/enricher"
	"github.com/olehluchkiv/brandgraph/internal/graph"
	"github.com/olehluchkiv/brandgraph/internal/logging"
	"github.com/olehluchkiv/brandgraph/internal/mention"
)

var brands = []string{"zara", "h&m", "primark", "shein", "asos"}

func TestBrandTagger_FirstMatchWins(t *testing.T) {
	tagger := enricher.NewBrandTagger(brands)

	assert.Equal(t, "shein", tagger.Tag("SHEIN is cheaper than zara"))
	assert.Equal(t, "h&m", tagger.Tag("new H&M x BGYO collab"))
	assert.Equal(t, "zara", tagger.Tag("zaraofficial restock"))
	assert.Equal(t, dataset.OtherBrand, tagger.Tag("thrifted jacket"))
	assert.Equal(t, dataset.OtherBrand, tagger.Tag(""))
}

func TestBrandTagger_EmptyVocabulary(t *testing.T) {
	tagger := enricher.NewBrandTagger([]string{" ", ""})
	assert.Equal(t, dataset.OtherBrand, tagger.Tag("zara"))
}

func TestMentionExtractor_KeepsPrecomputed(t *testing.T) {
	posts := []dataset.Post{
		{Author: "a", Content: "hi @Bob and @carl"},
		{Author: "b", Content: "hi @Dana", Mentions: mention.Mentions{"eve"}},
		{Author: "c", Content: "hi @Fay", Mentions: mention.Mentions{}},
	}

	out := enricher.NewMentionExtractor().Enrich(posts)

	assert.Equal(t, mention.Mentions{"bob", "carl"}, out[0].Mentions)
	assert.Equal(t, mention.Mentions{"eve"}, out[1].Mentions)
	assert.Equal(t, mention.Mentions{}, out[2].Mentions)
	assert.Nil(t, posts[0].Mentions, "input is not modified")
}

func TestDefaultPipeline(t *testing.T) {
	posts := []dataset.Post{
		{Author: "Zara_Fan", Content: "@shein vs @ASOS?", CleanText: "shein vs asos"},
		{Author: "ana", Content: "no tags", CleanText: "vintage"},
	}

	out := enricher.Run(posts, enricher.Default(brands)...)
	require.Len(t, out, 2)
	assert.Equal(t, "shein", out[0].Brand)
	assert.Equal(t, dataset.OtherBrand, out[1].Brand)

	g := graph.Build(out)
	assert.True(t, g.HasEdge("zara_fan", "shein"))
	assert.True(t, g.HasEdge("zara_fan", "asos"))
	assert.Equal(t, 2, g.NumEdges())
}

func TestMentionRepresentationsBuildSameGraph(t *testing.T) {
	content := "@Alice hi @bob @Alice"
	extracted := enricher.NewMentionExtractor().Enrich([]dataset.Post{{Author: "x", Content: content}})
	parsed, err := mention.Parse(mention.Extract(content).String())
	require.NoError(t, err)
	joined := []dataset.Post{{Author: "x", Mentions: parsed}}

	g1 := graph.Build(extracted)
	g2 := graph.Build(joined)
	assert.Equal(t, g1.Nodes(), g2.Nodes())
	assert.Equal(t, g1.Edges(), g2.Edges())
}

func TestDefaultPipeline_UnreadableMentionsColumnUsesContent(t *testing.T) {
	csv := "User_Handle,Tweet_Content,Tweet_DateTime,mentions\n" +
		"ana,hi @Alice @bob,2024-03-01,\"['alice', 'bob']\"\n"
	ds, err := dataset.Read(context.Background(), strings.NewReader(csv), logging.Discard())
	require.NoError(t, err)

	out := enricher.Run(ds.Posts, enricher.Default(brands)...)
	require.Len(t, out, 1)
	assert.Equal(t, mention.Mentions{"alice", "bob"}, out[0].Mentions)

	g := graph.Build(out)
	assert.Equal(t, []string{"ana", "alice", "bob"}, g.Nodes())
	assert.True(t, g.HasEdge("ana", "alice"))
	assert.True(t, g.HasEdge("ana", "bob"))
}
