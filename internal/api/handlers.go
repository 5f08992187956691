// Package api exposes the HTTP surface: search-and-ingest, geo and
// insight aggregations, chat, health, and metrics.
package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/globalpulse/internal/domain"
	"github.com/jonesrussell/globalpulse/internal/ingest"
	"github.com/jonesrussell/globalpulse/internal/insights"
	"github.com/jonesrussell/globalpulse/internal/logging"
	"github.com/jonesrussell/globalpulse/internal/sources"
	"github.com/jonesrussell/globalpulse/internal/store"
)

const (
	defaultWindowHours     = 24
	defaultChatWindowHours = 168
	defaultSearchLimit     = 100
	maxSearchLimit         = 500
)

// ServiceInfo identifies the service in health responses.
type ServiceInfo struct {
	Name    string
	Version string
}

// Handler handles HTTP requests for the API.
type Handler struct {
	records    *store.Records
	pipeline   *ingest.Pipeline
	insights   *insights.Generator
	sources    []sources.Source
	samplePath string
	info       ServiceInfo
	logger     logging.Logger
}

// NewHandler creates a new API handler.
func NewHandler(
	records *store.Records,
	pipeline *ingest.Pipeline,
	insightsGen *insights.Generator,
	srcs []sources.Source,
	samplePath string,
	info ServiceInfo,
	logger logging.Logger,
) *Handler {
	return &Handler{
		records:    records,
		pipeline:   pipeline,
		insights:   insightsGen,
		sources:    srcs,
		samplePath: samplePath,
		info:       info,
		logger:     logger,
	}
}

// SearchResponse is the payload for GET /api/v1/search.
type SearchResponse struct {
	Keyword string          `json:"keyword"`
	Stats   ingest.Stats    `json:"stats"`
	Total   int             `json:"total"`
	Records []domain.Record `json:"records"`
}

// Search handles GET /api/v1/search. It ingests fresh items for the
// keyword, then returns the stored records inside the time window.
func (h *Handler) Search(c *gin.Context) {
	keyword, ok := h.keyword(c)
	if !ok {
		return
	}

	engine := c.DefaultQuery("engine", domain.EngineAuto)
	useSample, _ := strconv.ParseBool(c.Query("use_sample"))

	limit := queryInt(c, "limit", defaultSearchLimit)
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	ctx := c.Request.Context()

	var stats ingest.Stats
	var err error
	if useSample {
		stats, err = h.pipeline.IngestFile(ctx, keyword, h.samplePath, engine)
	} else {
		var items []domain.RawItem
		for _, src := range h.selectedSources(c) {
			items = append(items, src.Fetch(ctx, keyword)...)
		}
		stats, err = h.pipeline.IngestItems(ctx, keyword, items, engine)
	}
	if err != nil {
		h.logger.Error("Ingestion failed",
			logging.String("keyword", keyword),
			logging.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ingestion failed"})
		return
	}

	records, err := h.records.ListByKeyword(ctx, keyword, h.since(c), limit)
	if err != nil {
		h.logger.Error("Record listing failed",
			logging.String("keyword", keyword),
			logging.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Keyword: keyword,
		Stats:   stats,
		Total:   len(records),
		Records: records,
	})
}

// GeoResponse is the payload for GET /api/v1/geo.
type GeoResponse struct {
	Keyword   string              `json:"keyword"`
	Countries []store.CountryStat `json:"countries"`
}

// Geo handles GET /api/v1/geo, aggregating stored records by country.
func (h *Handler) Geo(c *gin.Context) {
	keyword, ok := h.keyword(c)
	if !ok {
		return
	}

	stats, err := h.records.AggregateByCountry(c.Request.Context(), keyword, h.since(c))
	if err != nil {
		h.logger.Error("Geo aggregation failed",
			logging.String("keyword", keyword),
			logging.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	c.JSON(http.StatusOK, GeoResponse{Keyword: keyword, Countries: stats})
}

// InsightsResponse is the payload for GET /api/v1/insights.
type InsightsResponse struct {
	Keyword string           `json:"keyword"`
	Items   int              `json:"items"`
	Insight insights.Summary `json:"insight"`
}

// Insights handles GET /api/v1/insights.
func (h *Handler) Insights(c *gin.Context) {
	keyword, ok := h.keyword(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	records, err := h.records.ListByKeyword(ctx, keyword, h.since(c), maxSearchLimit)
	if err != nil {
		h.logger.Error("Record listing failed",
			logging.String("keyword", keyword),
			logging.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	c.JSON(http.StatusOK, InsightsResponse{
		Keyword: keyword,
		Items:   len(records),
		Insight: h.insights.Summarize(ctx, keyword, records),
	})
}

// ChatRequest is the body for POST /api/v1/chat. History carries the
// prior turns of the conversation, oldest first.
type ChatRequest struct {
	Keyword  string                 `json:"keyword"  binding:"required"`
	Question string                 `json:"question" binding:"required"`
	Hours    int                    `json:"hours"`
	History  []insights.ChatMessage `json:"history"`
}

// ChatResponse is the payload for POST /api/v1/chat.
type ChatResponse struct {
	Keyword string `json:"keyword"`
	Answer  string `json:"answer"`
}

// Chat handles POST /api/v1/chat, answering a question grounded on the
// stored records for the keyword.
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	keyword := normalizeKeyword(req.Keyword)

	// Chat grounds on a wider window than search, a week by default.
	hours := req.Hours
	if hours <= 0 {
		hours = defaultChatWindowHours
	}
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)

	ctx := c.Request.Context()
	records, err := h.records.ListByKeyword(ctx, keyword, since, maxSearchLimit)
	if err != nil {
		h.logger.Error("Record listing failed",
			logging.String("keyword", keyword),
			logging.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Keyword: keyword,
		Answer:  h.insights.Chat(ctx, keyword, req.Question, req.History, records),
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	count, err := h.records.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unavailable",
			"service": h.info.Name,
			"error":   "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.info.Name,
		"version": h.info.Version,
		"records": count,
	})
}

// keyword extracts and validates the q query parameter, normalized.
func (h *Handler) keyword(c *gin.Context) (string, bool) {
	keyword := normalizeKeyword(c.Query("q"))
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required parameter: q"})
		return "", false
	}
	return keyword, true
}

// normalizeKeyword trims and lowercases a keyword so records written by
// one request are found by the next, whatever the caller's casing.
func normalizeKeyword(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// selectedSources filters the configured sources by the comma-separated
// sources query parameter. An absent parameter selects all of them.
func (h *Handler) selectedSources(c *gin.Context) []sources.Source {
	raw := strings.TrimSpace(c.Query("sources"))
	if raw == "" {
		return h.sources
	}

	wanted := make(map[string]bool)
	for _, name := range strings.Split(raw, ",") {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			wanted[name] = true
		}
	}

	selected := make([]sources.Source, 0, len(h.sources))
	for _, src := range h.sources {
		if wanted[src.Name()] {
			selected = append(selected, src)
		}
	}
	return selected
}

// since computes the window start from the hours query parameter.
func (h *Handler) since(c *gin.Context) time.Time {
	hours := queryInt(c, "hours", defaultWindowHours)
	if hours <= 0 {
		hours = defaultWindowHours
	}
	return time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
}

func queryInt(c *gin.Context, key string, defaultValue int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
