package server

import "github.com/prometheus/client_golang/prometheus"

type pipelineMetrics struct {
	duration   *prometheus.HistogramVec
	reductions prometheus.Counter
}

func newPipelineMetrics(reg prometheus.Registerer) (*pipelineMetrics, error) {
	m := &pipelineMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "brandgraph",
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Time spent building, reducing and sizing a graph view",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		reductions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brandgraph",
			Subsystem: "pipeline",
			Name:      "reductions_total",
			Help:      "Total number of graph views reduced to the most mentioned handles",
		}),
	}
	for _, c := range []prometheus.Collector{m.duration, m.reductions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

type httpMetrics struct {
	requests *prometheus.CounterVec
}

func newHTTPMetrics(reg prometheus.Registerer) (*httpMetrics, error) {
	m := &httpMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brandgraph",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of dashboard requests by route and status code",
		}, []string{"route", "code"}),
	}
	if err := reg.Register(m.requests); err != nil {
		return nil, err
	}
	return m, nil
}
