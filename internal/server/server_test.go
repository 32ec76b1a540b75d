package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/brandgraph/internal/logging"
)

func newTestServer(t *testing.T, cfg PipelineConfig) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	p := newTestPipeline(t, cfg, reg)
	s, err := New(p, testBrands, reg, logging.Discard())
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, ts *httptest.Server, path string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp
}

func defaultConfig() PipelineConfig {
	return PipelineConfig{MaxNodes: 500, TopK: 100}
}

func TestIndex(t *testing.T) {
	ts := newTestServer(t, defaultConfig())

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), `<option value="shein">shein</option>`)
	for _, tab := range []string{"overview", "topics", "communities", "network"} {
		assert.Contains(t, string(body), `data-tab="`+tab+`"`)
	}
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t, defaultConfig())

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Len(t, resp.Header.Get(RequestIDHeader), 36)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestFilters(t *testing.T) {
	ts := newTestServer(t, defaultConfig())

	var got filtersResponse
	getJSON(t, ts, "/api/filters", &got)
	assert.Equal(t, []string{"ALL", "primark", "shein", "zara"}, got.Brands)
	assert.Equal(t, "2024-03-01", got.From)
	assert.Equal(t, "2024-03-05", got.To)
	assert.Equal(t, []int{1, 2}, got.Communities)
}

func TestOverviewEndpoint(t *testing.T) {
	ts := newTestServer(t, defaultConfig())

	var got overviewResponse
	resp := getJSON(t, ts, "/api/overview?brand=zara", &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, StatusOK, got.Status)
	assert.Equal(t, 2, got.Overview.Posts)
	assert.Equal(t, 4, got.Overview.Interactions)
	require.NotEmpty(t, got.TopMentioned)
	assert.Equal(t, "zara", got.TopMentioned[0].Handle)
	assert.Equal(t, 2, got.TopMentioned[0].InDegree)
}

func TestEmptySelectionsReportNoData(t *testing.T) {
	ts := newTestServer(t, defaultConfig())

	for _, path := range []string{
		"/api/overview?from=2024-04-01",
		"/api/volume?from=2024-04-01",
		"/api/topics?brand=asos",
		"/api/communities/1?brand=shein",
		"/api/graph?from=2024-03-05&to=2024-03-05",
		"/api/graph.mmd?brand=asos",
	} {
		t.Run(path, func(t *testing.T) {
			var got map[string]any
			resp := getJSON(t, ts, path, &got)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, StatusNoData, got["status"])
		})
	}
}

func TestBadParams(t *testing.T) {
	ts := newTestServer(t, defaultConfig())

	for _, path := range []string{
		"/api/graph?brand=gucci",
		"/api/overview?from=garbage",
		"/api/volume?from=2024-03-05&to=2024-03-01",
		"/api/communities/x",
	} {
		t.Run(path, func(t *testing.T) {
			var got map[string]any
			resp := getJSON(t, ts, path, &got)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "error", got["status"])
			assert.NotEmpty(t, got["error"])
		})
	}
}

func TestVolumeAndTopics(t *testing.T) {
	ts := newTestServer(t, defaultConfig())

	var volume struct {
		Status string `json:"status"`
		Days   []struct {
			Day   string `json:"day"`
			Count int    `json:"count"`
		} `json:"days"`
	}
	getJSON(t, ts, "/api/volume", &volume)
	require.Len(t, volume.Days, 5)
	assert.Equal(t, 0, volume.Days[3].Count)

	var topics struct {
		Topics []struct {
			Label string `json:"label"`
			Count int    `json:"count"`
		} `json:"topics"`
	}
	getJSON(t, ts, "/api/topics", &topics)
	require.NotEmpty(t, topics.Topics)
	assert.Equal(t, "Deals", topics.Topics[0].Label)
	assert.Equal(t, 2, topics.Topics[0].Count)
}

func TestCommunityEndpoint(t *testing.T) {
	ts := newTestServer(t, defaultConfig())

	var got struct {
		Status  string `json:"status"`
		Profile struct {
			Members int `json:"members"`
			Posts   int `json:"posts"`
		} `json:"profile"`
	}
	getJSON(t, ts, "/api/communities/1", &got)
	assert.Equal(t, StatusOK, got.Status)
	assert.Equal(t, 2, got.Profile.Members)
	assert.Equal(t, 2, got.Profile.Posts)
}

func TestGraphEndpoint_Reduced(t *testing.T) {
	ts := newTestServer(t, PipelineConfig{MaxNodes: 2, TopK: 1})

	var got GraphResponse
	getJSON(t, ts, "/api/graph", &got)
	assert.Equal(t, StatusOK, got.Status)
	assert.True(t, got.Reduced)
	assert.Equal(t, 5, got.OriginalNodes)
	assert.Len(t, got.View.Nodes, 3)
}

func TestMermaidEndpoint(t *testing.T) {
	ts := newTestServer(t, defaultConfig())

	resp, err := http.Get(ts.URL + "/api/graph.mmd?brand=zara")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	assert.Contains(t, string(body), "flowchart LR")
	assert.Contains(t, string(body), "u_ana --> u_zara")
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, defaultConfig())

	for i := 0; i < 2; i++ {
		resp, err := http.Get(ts.URL + "/api/graph")
		require.NoError(t, err)
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, "brandgraph_graph_cache_hits_total 1")
	assert.Contains(t, text, "brandgraph_graph_cache_misses_total 1")
	assert.Contains(t, text, `brandgraph_pipeline_duration_seconds_count{outcome="ok"} 2`)
	assert.True(t, strings.Contains(text, `brandgraph_http_requests_total{code="200",route="GET /api/graph"} 2`))
}
