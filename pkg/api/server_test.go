package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depscope/depscope/pkg/graph"
	"github.com/depscope/depscope/pkg/observability"
)

func newTestServer() (*Server, *graph.MockGateway) {
	gw := graph.NewMockGateway()
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	return NewServer(gw, logger, nil), gw
}

func doRequest(t *testing.T, s *Server, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestIngestManifest(t *testing.T) {
	s, gw := newTestServer()
	gw.StubQuery("count(r) AS linked", []graph.Record{{"linked": int64(3)}}, nil)

	payload := `{
		"file_name": "package.json",
		"path": "services/web/package.json",
		"content": "{\"name\":\"web-app\",\"version\":\"1.0.0\",\"dependencies\":{\"express\":\"^4.18.0\"}}"
	}`
	w := doRequest(t, s, "POST", "/api/v1/ingest", payload)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "web-app", body["project"])
	assert.Equal(t, float64(1), body["dependencies"])
	assert.Equal(t, float64(3), body["linked_edges"])
	assert.NotEmpty(t, body["run_id"])
	assert.NotEmpty(t, gw.Writes)
}

func TestIngestManifestUnsupportedFile(t *testing.T) {
	s, _ := newTestServer()

	w := doRequest(t, s, "POST", "/api/v1/ingest",
		`{"file_name":"Cargo.toml","content":"[package]"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported manifest file")
}

func TestIngestManifestParseError(t *testing.T) {
	s, _ := newTestServer()

	w := doRequest(t, s, "POST", "/api/v1/ingest",
		`{"file_name":"package.json","content":"{broken"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestManifestMissingFields(t *testing.T) {
	s, _ := newTestServer()

	w := doRequest(t, s, "POST", "/api/v1/ingest", `{"content":"{}"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file_name is required")
}

func TestLinkPackages(t *testing.T) {
	s, gw := newTestServer()
	gw.StubQuery("count(r) AS linked", []graph.Record{{"linked": int64(7)}}, nil)

	w := doRequest(t, s, "POST", "/api/v1/link", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"linked_edges":7}`, w.Body.String())
}

func TestResetGraph(t *testing.T) {
	s, gw := newTestServer()

	w := doRequest(t, s, "DELETE", "/api/v1/graph", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, gw.Cleared)
}

func TestGetGraphStats(t *testing.T) {
	s, gw := newTestServer()
	gw.SetStats(graph.StoreStats{Projects: 2, Packages: 10, Dependencies: 14, Files: 2})

	w := doRequest(t, s, "GET", "/api/v1/graph/stats", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(10), body["packages"])
}

func newMetricsTestServer() (*Server, *graph.MockGateway, *observability.Metrics) {
	gw := graph.NewMockGateway()
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	return NewServer(gw, logger, metrics), gw, metrics
}

func TestAnalysisRunMetrics(t *testing.T) {
	s, _, metrics := newMetricsTestServer()

	w := doRequest(t, s, "GET", "/api/v1/cycles", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, s, "GET", "/api/v1/conflicts", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AnalysisRunsTotal.WithLabelValues("cycles", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AnalysisRunsTotal.WithLabelValues("conflicts", "success")))
}

func TestAnalysisRunMetricsOnError(t *testing.T) {
	s, gw, metrics := newMetricsTestServer()
	gw.StubQuery("LIMIT 100", nil, assert.AnError)

	w := doRequest(t, s, "GET", "/api/v1/cycles", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AnalysisRunsTotal.WithLabelValues("cycles", "error")))
}

func TestIngestRecordsDependencyMetrics(t *testing.T) {
	s, _, metrics := newMetricsTestServer()

	payload := `{
		"file_name": "package.json",
		"content": "{\"name\":\"web-app\",\"dependencies\":{\"express\":\"^4.18.0\",\"lodash\":\"^4.17.0\"}}"
	}`
	w := doRequest(t, s, "POST", "/api/v1/ingest", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.DependenciesUpserted))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ManifestsIngestedTotal.WithLabelValues("javascript", "success")))
}
