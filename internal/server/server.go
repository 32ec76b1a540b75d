package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olehluchkiv/brandgraph/internal/analytics"
	"github.com/olehluchkiv/brandgraph/internal/dataset"
	"github.com/olehluchkiv/brandgraph/internal/graph"
)

// RequestIDHeader carries the per-request id in both directions.
const RequestIDHeader = "X-Request-ID"

// topMentionedCount is how many handles the overview lists.
const topMentionedCount = 10

// Server serves the dashboard page and its JSON API.
type Server struct {
	pipeline *Pipeline
	brands   map[string]bool
	tmpl     *template.Template
	gatherer prometheus.Gatherer
	metrics  *httpMetrics
	logger   *slog.Logger
}

// New creates a dashboard server. brands is the configured brand vocabulary
// accepted in the brand query parameter. reg may be nil, in which case
// /metrics serves an empty registry.
func New(p *Pipeline, brands []string, reg *prometheus.Registry, logger *slog.Logger) (*Server, error) {
	tmpl, err := template.New("dashboard").Parse(dashboardTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML template: %w", err)
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m, err := newHTTPMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("registering HTTP metrics: %w", err)
	}

	known := make(map[string]bool, len(brands))
	for _, b := range brands {
		known[strings.ToLower(b)] = true
	}
	return &Server{
		pipeline: p,
		brands:   known,
		tmpl:     tmpl,
		gatherer: reg,
		metrics:  m,
		logger:   logger.With("component", "http"),
	}, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/filters", s.handleFilters)
	mux.HandleFunc("GET /api/overview", s.handleOverview)
	mux.HandleFunc("GET /api/volume", s.handleVolume)
	mux.HandleFunc("GET /api/topics", s.handleTopics)
	mux.HandleFunc("GET /api/communities/{id}", s.handleCommunity)
	mux.HandleFunc("GET /api/graph", s.handleGraph)
	mux.HandleFunc("GET /api/graph.mmd", s.handleMermaid)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return s.withRequestID(mux)
}

// Serve starts the HTTP server. It blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context, port int, openBrowser bool) error {
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := fmt.Sprintf("http://localhost:%d", port)
	s.logger.Info("starting HTTP server", "addr", url)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
		close(errCh)
	}()

	if openBrowser {
		openInBrowser(url, s.logger)
	}

	// Block until the context is cancelled or the server fails.
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown error: %w", err)
		}
		return nil
	}
}

// openInBrowser opens the given URL in the default system browser.
func openInBrowser(url string, logger *slog.Logger) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		logger.Warn("unsupported platform for opening browser", "os", runtime.GOOS)
		return
	}

	if err := cmd.Start(); err != nil {
		logger.Warn("failed to open browser", "error", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
		s.logger.Debug("request handled",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.code,
			"duration", time.Since(start))
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Brands []string
	}{
		Brands: s.pipeline.Dataset().Brands(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to render template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

type filtersResponse struct {
	Brands      []string `json:"brands"`
	From        string   `json:"from,omitempty"`
	To          string   `json:"to,omitempty"`
	Communities []int    `json:"communities"`
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	ds := s.pipeline.Dataset()
	resp := filtersResponse{
		Brands:      append([]string{dataset.AllBrands}, ds.Brands()...),
		Communities: analytics.Communities(ds.Posts),
	}
	if first, last, ok := ds.Bounds(); ok {
		resp.From = first.Format(time.DateOnly)
		resp.To = last.Format(time.DateOnly)
	}
	writeJSON(w, http.StatusOK, resp)
}

type overviewResponse struct {
	Status       string             `json:"status"`
	Overview     analytics.Overview `json:"overview"`
	TopMentioned []graph.Ranked     `json:"topMentioned"`
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	f, ok := s.parseFilter(w, r)
	if !ok {
		return
	}
	posts, err := s.pipeline.Posts(f)
	if err != nil {
		s.badRequest(w, err)
		return
	}
	if len(posts) == 0 {
		writeNoData(w)
		return
	}
	g, err := s.pipeline.FullGraph(f)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overviewResponse{
		Status:       StatusOK,
		Overview:     analytics.Summarize(posts, g),
		TopMentioned: graph.TopMentioned(g, topMentionedCount),
	})
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	posts, ok := s.filteredPosts(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Status string               `json:"status"`
		Days   []analytics.DayCount `json:"days"`
	}{StatusOK, analytics.DailyVolume(posts)})
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	posts, ok := s.filteredPosts(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Status string                 `json:"status"`
		Topics []analytics.LabelCount `json:"topics"`
	}{StatusOK, analytics.TopicDistribution(posts, s.pipeline.Labels())})
}

func (s *Server) handleCommunity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		s.badRequest(w, fmt.Errorf("invalid community id %q", r.PathValue("id")))
		return
	}
	posts, ok := s.filteredPosts(w, r)
	if !ok {
		return
	}
	profile, found := analytics.CommunityProfile(posts, id, s.pipeline.Labels())
	if !found {
		writeNoData(w)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Status  string            `json:"status"`
		Profile analytics.Profile `json:"profile"`
	}{StatusOK, profile})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	f, ok := s.parseFilter(w, r)
	if !ok {
		return
	}
	resp, err := s.pipeline.RunGraph(f)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMermaid(w http.ResponseWriter, r *http.Request) {
	f, ok := s.parseFilter(w, r)
	if !ok {
		return
	}
	sel, err := s.pipeline.Select(f)
	if errors.Is(err, graph.ErrEmptyGraph) {
		writeNoData(w)
		return
	}
	if err != nil {
		s.internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(sel.View, graph.MermaidOptions{IncludeInit: true})))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": StatusOK,
		"posts":  len(s.pipeline.Dataset().Posts),
	})
}

// parseFilter reads the brand, from and to query parameters. On failure it
// writes a 400 response and returns false.
func (s *Server) parseFilter(w http.ResponseWriter, r *http.Request) (dataset.Filter, bool) {
	q := r.URL.Query()
	var f dataset.Filter

	brand := strings.TrimSpace(q.Get("brand"))
	switch {
	case brand == "", strings.EqualFold(brand, dataset.AllBrands), strings.EqualFold(brand, dataset.OtherBrand):
	case !s.brands[strings.ToLower(brand)]:
		s.badRequest(w, fmt.Errorf("unknown brand %q", brand))
		return f, false
	}
	f.Brand = brand

	for _, p := range []struct {
		name string
		dst  *time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		t, err := dataset.ParseDay(v)
		if err != nil {
			s.badRequest(w, fmt.Errorf("invalid %s date %q", p.name, v))
			return f, false
		}
		*p.dst = t
	}

	if err := f.Validate(); err != nil {
		s.badRequest(w, err)
		return f, false
	}
	return f, true
}

// filteredPosts parses the filter and returns the matching posts. Empty
// selections are answered with no_data and reported as not ok.
func (s *Server) filteredPosts(w http.ResponseWriter, r *http.Request) ([]dataset.Post, bool) {
	f, ok := s.parseFilter(w, r)
	if !ok {
		return nil, false
	}
	posts, err := s.pipeline.Posts(f)
	if err != nil {
		s.badRequest(w, err)
		return nil, false
	}
	if len(posts) == 0 {
		writeNoData(w)
		return nil, false
	}
	return posts, true
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.logger.Debug("bad request", "error", err)
	writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "error": err.Error()})
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "error": "internal error"})
}

func writeNoData(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]string{"status": StatusNoData})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
