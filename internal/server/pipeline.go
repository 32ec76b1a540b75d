package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/olehluchkiv/brandgraph/internal/analytics"
	"github.com/olehluchkiv/brandgraph/internal/dataset"
	"github.com/olehluchkiv/brandgraph/internal/enricher"
	"github.com/olehluchkiv/brandgraph/internal/graph"
	"github.com/olehluchkiv/brandgraph/internal/graphcache"
	"github.com/olehluchkiv/brandgraph/internal/resolver"
)

// Response statuses.
const (
	StatusOK     = "ok"
	StatusNoData = "no_data"
)

// LoadDataset executes the resolve → load → enrich pipeline and returns posts
// ready for filtering.
func LoadDataset(ctx context.Context, input string, brands []string, logger *slog.Logger) (*dataset.Dataset, error) {
	logger = logger.With("component", "loader")

	// Step 1: Resolve input to a dataset file.
	logger.Info("resolving dataset", "input", input)
	path, err := resolver.Resolve(input, logger)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}

	// Step 2: Parse rows.
	ds, err := dataset.Load(ctx, path, logger)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	// Step 3: Tag brands and extract mentions.
	ds.Posts = enricher.Run(ds.Posts, enricher.Default(brands)...)

	logger.Info("dataset ready", "posts", len(ds.Posts), "brands", len(ds.Brands()))
	return ds, nil
}

// PipelineConfig holds the graph and presentation parameters.
type PipelineConfig struct {
	MaxNodes int // graphs with more nodes are reduced
	TopK     int // reducer budget
	Labels   map[int]string
}

// Pipeline answers filtered queries over an immutable loaded dataset. It is
// safe for concurrent use; the graph cache is the only shared mutable state.
type Pipeline struct {
	ds      *dataset.Dataset
	cfg     PipelineConfig
	cache   *graphcache.Cache
	metrics *pipelineMetrics
	logger  *slog.Logger
}

// NewPipeline wires a loaded dataset to a graph cache. reg may be nil.
func NewPipeline(ds *dataset.Dataset, cfg PipelineConfig, cache *graphcache.Cache, reg prometheus.Registerer, logger *slog.Logger) (*Pipeline, error) {
	if cfg.MaxNodes <= 0 || cfg.TopK <= 0 {
		return nil, fmt.Errorf("%w: max nodes %d, top k %d", graph.ErrInvalidLimit, cfg.MaxNodes, cfg.TopK)
	}
	p := &Pipeline{
		ds:     ds,
		cfg:    cfg,
		cache:  cache,
		logger: logger.With("component", "pipeline"),
	}
	if reg != nil {
		m, err := newPipelineMetrics(reg)
		if err != nil {
			return nil, fmt.Errorf("registering pipeline metrics: %w", err)
		}
		p.metrics = m
	}
	return p, nil
}

// Dataset returns the loaded dataset.
func (p *Pipeline) Dataset() *dataset.Dataset { return p.ds }

// Labels returns the topic label table.
func (p *Pipeline) Labels() map[int]string { return p.cfg.Labels }

// Posts returns the posts matching f.
func (p *Pipeline) Posts(f dataset.Filter) ([]dataset.Post, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return dataset.Apply(p.ds.Posts, f), nil
}

// FullGraph returns the mention graph of the posts matching f, served from
// the cache when possible. The returned graph is shared and must not be
// mutated.
func (p *Pipeline) FullGraph(f dataset.Filter) (*graph.Graph, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	build := func() *graph.Graph {
		return graph.Build(dataset.Apply(p.ds.Posts, f))
	}
	if p.cache == nil {
		return build(), nil
	}
	g, hit := p.cache.GetOrBuild(f.Key(), build)
	p.logger.Debug("graph lookup", "filter", f.Key(), "cache_hit", hit, "nodes", g.NumNodes())
	return g, nil
}

// Selection is a graph prepared for display: the full graph plus the view
// actually shown, which is reduced when the full graph is too large.
type Selection struct {
	Full    *graph.Graph
	View    *graph.Graph
	Reduced bool
}

// Select builds the graph for f and reduces it when it exceeds the node
// threshold. An empty graph returns graph.ErrEmptyGraph.
func (p *Pipeline) Select(f dataset.Filter) (Selection, error) {
	full, err := p.FullGraph(f)
	if err != nil {
		return Selection{}, err
	}
	if full.Empty() {
		return Selection{}, graph.ErrEmptyGraph
	}
	if full.NumNodes() <= p.cfg.MaxNodes {
		return Selection{Full: full, View: full}, nil
	}

	view, err := graph.ReduceToTopMentioned(full, p.cfg.TopK)
	if err != nil {
		return Selection{}, fmt.Errorf("reducing graph: %w", err)
	}
	p.logger.Info("graph reduced",
		"filter", f.Key(),
		"original_nodes", full.NumNodes(),
		"shown_nodes", view.NumNodes())
	if p.metrics != nil {
		p.metrics.reductions.Inc()
	}
	return Selection{Full: full, View: view, Reduced: true}, nil
}

// GraphResponse is the payload of the network view.
type GraphResponse struct {
	Status        string        `json:"status"`
	Reduced       bool          `json:"reduced,omitempty"`
	OriginalNodes int           `json:"originalNodes,omitempty"`
	Summary       graph.Summary `json:"summary"`
	View          graph.View    `json:"view"`
}

// RunGraph executes the filter → build → reduce → size pass for one request.
// An empty selection is reported with StatusNoData rather than an error.
func (p *Pipeline) RunGraph(f dataset.Filter) (GraphResponse, error) {
	start := time.Now()
	resp, err := p.runGraph(f)
	if p.metrics != nil {
		outcome := resp.Status
		if err != nil {
			outcome = "error"
		}
		p.metrics.duration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}
	return resp, err
}

func (p *Pipeline) runGraph(f dataset.Filter) (GraphResponse, error) {
	sel, err := p.Select(f)
	if errors.Is(err, graph.ErrEmptyGraph) {
		return GraphResponse{Status: StatusNoData}, nil
	}
	if err != nil {
		return GraphResponse{}, err
	}

	view, err := graph.Render(sel.View)
	if err != nil {
		return GraphResponse{}, fmt.Errorf("rendering graph: %w", err)
	}
	resp := GraphResponse{
		Status:  StatusOK,
		Reduced: sel.Reduced,
		Summary: graph.Summarize(sel.Full),
		View:    view,
	}
	if sel.Reduced {
		resp.OriginalNodes = sel.Full.NumNodes()
	}
	return resp, nil
}

// Overview computes the headline metrics for f.
func (p *Pipeline) Overview(f dataset.Filter) (analytics.Overview, error) {
	posts, err := p.Posts(f)
	if err != nil {
		return analytics.Overview{}, err
	}
	g, err := p.FullGraph(f)
	if err != nil {
		return analytics.Overview{}, err
	}
	return analytics.Summarize(posts, g), nil
}
