// Package graphcache memoizes mention graphs by filter descriptor.
//
// The cache sits outside the graph core: callers build on a miss and store the
// result. Stored graphs are shared between requests and must not be mutated.
package graphcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/olehluchkiv/brandgraph/internal/graph"
)

// Cache is a thread-safe LRU of built graphs.
type Cache struct {
	entries *lru.Cache[string, *graph.Graph]
	metrics *cacheMetrics // nil when no registerer was given
}

// New creates a cache holding at most size graphs. When reg is non-nil the
// hit, miss and eviction counters are registered with it.
func New(size int, reg prometheus.Registerer) (*Cache, error) {
	c := &Cache{}
	if reg != nil {
		m, err := newCacheMetrics(reg)
		if err != nil {
			return nil, fmt.Errorf("registering cache metrics: %w", err)
		}
		c.metrics = m
	}

	entries, err := lru.NewWithEvict(size, func(string, *graph.Graph) {
		if c.metrics != nil {
			c.metrics.evictions.Inc()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("creating graph cache: %w", err)
	}
	c.entries = entries
	return c, nil
}

// Key hashes a filter descriptor into a fixed-size cache key.
func Key(descriptor string) string {
	h := sha256.Sum256([]byte(descriptor))
	return hex.EncodeToString(h[:16])
}

// Get returns the graph stored for descriptor.
func (c *Cache) Get(descriptor string) (*graph.Graph, bool) {
	g, ok := c.entries.Get(Key(descriptor))
	if c.metrics != nil {
		if ok {
			c.metrics.hits.Inc()
		} else {
			c.metrics.misses.Inc()
		}
	}
	return g, ok
}

// Add stores g under descriptor.
func (c *Cache) Add(descriptor string, g *graph.Graph) {
	c.entries.Add(Key(descriptor), g)
	if c.metrics != nil {
		c.metrics.size.Set(float64(c.entries.Len()))
	}
}

// GetOrBuild returns the cached graph for descriptor, building and storing it
// on a miss. hit reports whether the cache served the request.
func (c *Cache) GetOrBuild(descriptor string, build func() *graph.Graph) (g *graph.Graph, hit bool) {
	if g, ok := c.Get(descriptor); ok {
		return g, true
	}
	g = build()
	c.Add(descriptor, g)
	return g, false
}

// Len returns the number of cached graphs.
func (c *Cache) Len() int { return c.entries.Len() }

// Purge drops every entry, e.g. after the dataset is reloaded.
func (c *Cache) Purge() {
	c.entries.Purge()
	if c.metrics != nil {
		c.metrics.size.Set(0)
	}
}
