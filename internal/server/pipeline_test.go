package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/brandgraph/internal/dataset"
	"github.com/olehluchkiv/brandgraph/internal/graph"
	"github.com/olehluchkiv/brandgraph/internal/graphcache"
	"github.com/olehluchkiv/brandgraph/internal/logging"
)

const fixtureCSV = `User_Handle,Tweet_Content,FinalCleaned,Tweet_DateTime,topic,community
ana,"@zara love it @bob",love zara,2024-03-01 10:00:00,0,1
bob,"@ZARA @ana",zara,2024-03-02 10:00:00,1,1
carl,"@shein haul",shein haul,2024-03-03 10:00:00,2,2
dana,"nothing to see",primark,2024-03-05 10:00:00,1,
`

var testBrands = []string{"zara", "shein", "primark", "asos"}

var testLabels = map[int]string{0: "Resale", 1: "Deals", 2: "Trends"}

func loadFixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posts.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o644))

	ds, err := LoadDataset(context.Background(), path, testBrands, logging.Discard())
	require.NoError(t, err)
	return ds
}

func newTestPipeline(t *testing.T, cfg PipelineConfig, reg prometheus.Registerer) *Pipeline {
	t.Helper()
	cache, err := graphcache.New(8, reg)
	require.NoError(t, err)
	if cfg.Labels == nil {
		cfg.Labels = testLabels
	}
	p, err := NewPipeline(loadFixture(t), cfg, cache, reg, logging.Discard())
	require.NoError(t, err)
	return p
}

func TestLoadDataset_Enriches(t *testing.T) {
	ds := loadFixture(t)
	require.Len(t, ds.Posts, 4)

	assert.Equal(t, "zara", ds.Posts[0].Brand)
	assert.Equal(t, "shein", ds.Posts[2].Brand)
	assert.Equal(t, "primark", ds.Posts[3].Brand)
	assert.Equal(t, []string{"zara", "bob"}, []string(ds.Posts[0].Mentions))
	assert.Empty(t, ds.Posts[3].Mentions)
	assert.Equal(t, []string{"primark", "shein", "zara"}, ds.Brands())
}

func TestLoadDataset_NotFound(t *testing.T) {
	_, err := LoadDataset(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), testBrands, logging.Discard())
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrNotFound)
}

func TestNewPipeline_RejectsLimits(t *testing.T) {
	_, err := NewPipeline(&dataset.Dataset{}, PipelineConfig{MaxNodes: 0, TopK: 5}, nil, nil, logging.Discard())
	assert.ErrorIs(t, err, graph.ErrInvalidLimit)
}

func TestRunGraph_Full(t *testing.T) {
	p := newTestPipeline(t, PipelineConfig{MaxNodes: 500, TopK: 100}, nil)

	resp, err := p.RunGraph(dataset.Filter{})
	require.NoError(t, err)

	assert.Equal(t, StatusOK, resp.Status)
	assert.False(t, resp.Reduced)
	assert.Zero(t, resp.OriginalNodes)
	assert.Equal(t, graph.Summary{Nodes: 5, Edges: 5, Density: 5.0 / 20.0}, resp.Summary)

	ids := make([]string, 0, len(resp.View.Nodes))
	for _, n := range resp.View.Nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"ana", "zara", "bob", "carl", "shein"}, ids)
	assert.Equal(t, graph.NodeSize(2), resp.View.Nodes[1].Size)
}

func TestRunGraph_BrandFilter(t *testing.T) {
	p := newTestPipeline(t, PipelineConfig{MaxNodes: 500, TopK: 100}, nil)

	resp, err := p.RunGraph(dataset.Filter{Brand: "ZARA"})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Summary.Nodes)
	assert.Equal(t, 4, resp.Summary.Edges)
}

func TestRunGraph_ReducesLargeGraphs(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := newTestPipeline(t, PipelineConfig{MaxNodes: 2, TopK: 1}, reg)

	resp, err := p.RunGraph(dataset.Filter{})
	require.NoError(t, err)

	assert.True(t, resp.Reduced)
	assert.Equal(t, 5, resp.OriginalNodes)
	assert.Equal(t, 5, resp.Summary.Nodes, "summary describes the full selection")
	assert.Len(t, resp.View.Nodes, 3)
	for _, e := range resp.View.Edges {
		assert.Equal(t, "zara", e.To)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(p.metrics.reductions))
}

func TestRunGraph_NoData(t *testing.T) {
	p := newTestPipeline(t, PipelineConfig{MaxNodes: 500, TopK: 100}, nil)

	// Posts exist on 2024-03-05 but carry no mentions.
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	resp, err := p.RunGraph(dataset.Filter{From: day, To: day})
	require.NoError(t, err)
	assert.Equal(t, GraphResponse{Status: StatusNoData}, resp)

	resp, err = p.RunGraph(dataset.Filter{Brand: "asos"})
	require.NoError(t, err)
	assert.Equal(t, StatusNoData, resp.Status)
}

func TestRunGraph_InvalidRange(t *testing.T) {
	p := newTestPipeline(t, PipelineConfig{MaxNodes: 500, TopK: 100}, nil)

	_, err := p.RunGraph(dataset.Filter{
		From: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.Error(t, err)
}

func TestFullGraph_Cached(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := newTestPipeline(t, PipelineConfig{MaxNodes: 500, TopK: 100}, reg)

	g1, err := p.FullGraph(dataset.Filter{Brand: "zara"})
	require.NoError(t, err)
	g2, err := p.FullGraph(dataset.Filter{Brand: "Zara"})
	require.NoError(t, err)

	assert.Same(t, g1, g2, "equivalent filters share one cache entry")
	assert.Equal(t, 1, p.cache.Len())
}

func TestOverview(t *testing.T) {
	p := newTestPipeline(t, PipelineConfig{MaxNodes: 500, TopK: 100}, nil)

	o, err := p.Overview(dataset.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 4, o.Posts)
	assert.Equal(t, 4, o.UniqueUsers)
	assert.Equal(t, 5, o.Interactions)
	assert.InDelta(t, 0.25, o.Density, 1e-9)
}
