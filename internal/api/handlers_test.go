//nolint:testpackage // Testing internal handlers requires same package access
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/globalpulse/internal/data"
	"github.com/jonesrussell/globalpulse/internal/domain"
	"github.com/jonesrussell/globalpulse/internal/geo"
	"github.com/jonesrussell/globalpulse/internal/ingest"
	"github.com/jonesrussell/globalpulse/internal/insights"
	"github.com/jonesrussell/globalpulse/internal/logging"
	"github.com/jonesrussell/globalpulse/internal/sentiment"
	"github.com/jonesrussell/globalpulse/internal/sources"
	"github.com/jonesrussell/globalpulse/internal/store"
)

// stubSource returns a fixed batch for every keyword.
type stubSource struct {
	name    string
	items   []domain.RawItem
	fetched bool
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context, _ string) []domain.RawItem {
	s.fetched = true
	return s.items
}

type testEnv struct {
	router  *gin.Engine
	records *store.Records
}

func setupTestEnv(t *testing.T, srcs ...sources.Source) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.Open(store.Config{Driver: "sqlite3", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	records := store.NewRecords(db)
	require.NoError(t, records.EnsureSchema(context.Background()))

	logger := logging.NewNop()
	sentimentRouter := sentiment.NewRouter(sentiment.NewLexiconEngine(), nil, sentiment.RouterConfig{}, logger)
	pipeline := ingest.NewPipeline(records, sentimentRouter, geo.NewInferencer(data.CountryKeywords), nil, logger)

	samplePath := filepath.Join(t.TempDir(), "sample.json")
	sample := `[
		{"id": "s1", "text": "Sydney beaches are wonderful", "created_at": "2026-02-01T10:00:00Z"},
		{"id": "s2", "text": ""}
	]`
	require.NoError(t, os.WriteFile(samplePath, []byte(sample), 0o600))

	handler := NewHandler(
		records,
		pipeline,
		insights.NewGenerator(nil, logger),
		srcs,
		samplePath,
		ServiceInfo{Name: "globalpulse", Version: "test"},
		logger,
	)

	router := gin.New()
	router.Use(corsMiddleware())
	SetupRoutes(router, handler)

	return &testEnv{router: router, records: records}
}

func (e *testEnv) do(t *testing.T, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestSearch_MissingKeyword(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch_WithSources(t *testing.T) {
	src := &stubSource{name: "stub", items: []domain.RawItem{
		{ID: "a", Source: "youtube", Text: "Tokyo coffee culture is amazing", CreatedAt: "2026-02-01T09:00:00Z"},
		{ID: "b", Source: "news", Text: "   "},
	}}
	env := setupTestEnv(t, src)

	w := env.do(t, http.MethodGet, "/api/v1/search?q=coffee&engine=vader&hours=87600", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "coffee", resp.Keyword)
	assert.Equal(t, ingest.Stats{Received: 2, Stored: 1, Skipped: 1}, resp.Stats)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "a", resp.Records[0].ID)
	require.NotNil(t, resp.Records[0].CountryCode)
	assert.Equal(t, "JP", *resp.Records[0].CountryCode)
}

func TestSearch_UseSample(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/search?q=travel&use_sample=true&engine=vader&hours=87600", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, ingest.Stats{Received: 2, Stored: 1, Skipped: 1}, resp.Stats)
	require.Equal(t, 1, resp.Total)
	require.NotNil(t, resp.Records[0].CountryCode)
	assert.Equal(t, "AU", *resp.Records[0].CountryCode)
}

func TestSearch_SourceFilter(t *testing.T) {
	youtube := &stubSource{name: "youtube", items: []domain.RawItem{
		{ID: "y1", Text: "Video reactions are glowing", CreatedAt: "2026-02-01T09:00:00Z"},
	}}
	news := &stubSource{name: "news", items: []domain.RawItem{
		{ID: "n1", Text: "Coverage has been steady", CreatedAt: "2026-02-01T09:00:00Z"},
	}}
	env := setupTestEnv(t, youtube, news)

	w := env.do(t, http.MethodGet, "/api/v1/search?q=coffee&sources=news&engine=vader&hours=87600", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.False(t, youtube.fetched)
	assert.True(t, news.fetched)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "n1", resp.Records[0].ID)
}

func TestSearch_KeywordLowercased(t *testing.T) {
	src := &stubSource{name: "stub", items: []domain.RawItem{
		{ID: "a", Text: "Tokyo coffee culture is amazing", CreatedAt: "2026-02-01T09:00:00Z"},
	}}
	env := setupTestEnv(t, src)

	w := env.do(t, http.MethodGet, "/api/v1/search?q=%20Coffee%20&engine=vader&hours=87600", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "coffee", resp.Keyword)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "coffee", resp.Records[0].Keyword)

	// A differently-cased follow-up sees the same records.
	w = env.do(t, http.MethodGet, "/api/v1/geo?q=COFFEE&hours=87600", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var geo GeoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &geo))
	require.Len(t, geo.Countries, 1)
	assert.Equal(t, "JP", geo.Countries[0].CountryCode)
}

func TestSearch_Idempotent(t *testing.T) {
	src := &stubSource{name: "stub", items: []domain.RawItem{
		{ID: "same", Text: "London is lovely in spring", CreatedAt: "2026-02-01T09:00:00Z"},
	}}
	env := setupTestEnv(t, src)

	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodGet, "/api/v1/search?q=london&engine=vader&hours=87600", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	count, err := env.records.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGeo(t *testing.T) {
	env := setupTestEnv(t)

	us := "US"
	jp := "JP"
	now := time.Now().UTC()
	require.NoError(t, env.records.UpsertBatch(context.Background(), []*domain.Record{
		{ID: "1", Keyword: "coffee", Source: "web", Author: "a", Text: "t", CreatedAt: now, SentimentScore: 0.5, SentimentLabel: domain.LabelPositive, CountryCode: &us},
		{ID: "2", Keyword: "coffee", Source: "web", Author: "a", Text: "t", CreatedAt: now, SentimentScore: -0.5, SentimentLabel: domain.LabelNegative, CountryCode: &us},
		{ID: "3", Keyword: "coffee", Source: "web", Author: "a", Text: "t", CreatedAt: now, SentimentScore: 1, SentimentLabel: domain.LabelPositive, CountryCode: &jp},
	}))

	w := env.do(t, http.MethodGet, "/api/v1/geo?q=coffee", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp GeoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Countries, 2)
	assert.Equal(t, "US", resp.Countries[0].CountryCode)
	assert.Equal(t, 2, resp.Countries[0].Mentions)
	assert.InDelta(t, 0, resp.Countries[0].AvgSentiment, 1e-9)
}

func TestGeo_MissingKeyword(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/geo", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInsights(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/insights?q=coffee", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp InsightsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "coffee", resp.Keyword)
	assert.Equal(t, 0, resp.Items)
	assert.NotEmpty(t, resp.Insight.Summary)
}

func TestChat(t *testing.T) {
	env := setupTestEnv(t)

	body, _ := json.Marshal(ChatRequest{
		Keyword:  "Coffee",
		Question: "What is the mood?",
		History: []insights.ChatMessage{
			{Role: "user", Content: "Anything new?"},
			{Role: "assistant", Content: "Not much yet."},
		},
	})
	w := env.do(t, http.MethodPost, "/api/v1/chat", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "coffee", resp.Keyword)
	assert.NotEmpty(t, resp.Answer)
}

func TestChat_BadRequest(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/chat", []byte(`{"keyword": "coffee"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheck(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "globalpulse", resp["service"])
}

func TestCORSPreflight(t *testing.T) {
	env := setupTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/search", http.NoBody)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
