package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkuzmenko/citescope/internal/model"
	"github.com/vkuzmenko/citescope/internal/pipeline"
	"github.com/vkuzmenko/citescope/internal/score"
)

func testServer(t *testing.T, mutate func(*model.Config)) *httptest.Server {
	t.Helper()
	registry, err := score.NewRegistry()
	require.NoError(t, err)

	cfg := model.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	analyzer := pipeline.NewAnalyzer(cfg, registry)

	srv := New(analyzer, nil, registry, cfg.Server, "test")
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	ts := testServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestScoringWeightsEndpoint(t *testing.T) {
	ts := testServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/scoring-weights")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Versions []string                 `json:"versions"`
		Tables   map[string]score.Version `json:"tables"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Versions, "v2.0")
	assert.Contains(t, body.Tables, "v1.0")
}

func TestAuditEndpointContentText(t *testing.T) {
	ts := testServer(t, nil)

	resp := postJSON(t, ts.URL+"/api/audit", map[string]string{
		"content_text": "Fan tokens let fans vote on minor club decisions. Clubs issue fan tokens through regulated exchanges around the world.",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result model.AuditResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Len(t, result.Dimensions, len(model.Dimensions()))
	assert.GreaterOrEqual(t, result.TotalScore, 0.0)
	assert.LessOrEqual(t, result.TotalScore, 100.0)
}

func TestAuditEndpointValidation(t *testing.T) {
	ts := testServer(t, nil)

	// Neither url nor content_text
	resp := postJSON(t, ts.URL+"/api/audit", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Both at once
	resp = postJSON(t, ts.URL+"/api/audit", map[string]string{
		"url":          "https://example.com",
		"content_text": "some text",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Whitespace-only content normalizes to nothing
	resp = postJSON(t, ts.URL+"/api/audit", map[string]string{"content_text": "   \n\t "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuditEndpointUnknownWeightVersion(t *testing.T) {
	ts := testServer(t, func(cfg *model.Config) {
		cfg.Scoring.WeightVersion = "v9.9"
	})

	resp := postJSON(t, ts.URL+"/api/audit", map[string]string{
		"content_text": "Fan tokens let fans vote on minor club decisions across leagues.",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestOptimizeEndpointUnconfigured(t *testing.T) {
	ts := testServer(t, nil)

	resp := postJSON(t, ts.URL+"/api/optimize", map[string]string{"content_text": "some text"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
