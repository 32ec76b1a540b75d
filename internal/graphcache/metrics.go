package graphcache

import "github.com/prometheus/client_golang/prometheus"

type cacheMetrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
	size      prometheus.Gauge
}

func newCacheMetrics(reg prometheus.Registerer) (*cacheMetrics, error) {
	m := &cacheMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brandgraph",
			Subsystem: "graph_cache",
			Name:      "hits_total",
			Help:      "Total number of graph cache hits",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brandgraph",
			Subsystem: "graph_cache",
			Name:      "misses_total",
			Help:      "Total number of graph cache misses",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brandgraph",
			Subsystem: "graph_cache",
			Name:      "evictions_total",
			Help:      "Total number of graphs evicted from the cache",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "brandgraph",
			Subsystem: "graph_cache",
			Name:      "entries",
			Help:      "Current number of cached graphs",
		}),
	}
	for _, c := range []prometheus.Collector{m.hits, m.misses, m.evictions, m.size} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
