// Package ingest turns raw source items into enriched, stored records:
// normalize the text, score sentiment, infer a country, and upsert.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jonesrussell/globalpulse/internal/domain"
	"github.com/jonesrussell/globalpulse/internal/geo"
	"github.com/jonesrussell/globalpulse/internal/logging"
	"github.com/jonesrussell/globalpulse/internal/sentiment"
	"github.com/jonesrussell/globalpulse/internal/store"
	"github.com/jonesrussell/globalpulse/internal/telemetry"
	"github.com/jonesrussell/globalpulse/internal/textnorm"
)

const syntheticIDLength = 16

// Stats summarizes one ingestion run.
type Stats struct {
	Received int `json:"received"`
	Stored   int `json:"stored"`
	Skipped  int `json:"skipped"`
}

// Pipeline enriches raw items and persists them. Items are processed in
// order and written in a single transaction, so a run either lands whole
// or not at all.
type Pipeline struct {
	records    *store.Records
	router     *sentiment.Router
	inferencer *geo.Inferencer
	metrics    *telemetry.Metrics // optional
	logger     logging.Logger
	now        func() time.Time
}

// NewPipeline creates an ingestion pipeline. metrics may be nil.
func NewPipeline(
	records *store.Records,
	router *sentiment.Router,
	inferencer *geo.Inferencer,
	metrics *telemetry.Metrics,
	logger logging.Logger,
) *Pipeline {
	return &Pipeline{
		records:    records,
		router:     router,
		inferencer: inferencer,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// IngestItems enriches every item and stores the results under keyword.
// Items whose cleaned text is empty are skipped. Analyzer failures never
// surface here; only storage errors abort the run.
func (p *Pipeline) IngestItems(ctx context.Context, keyword string, items []domain.RawItem, engine string) (Stats, error) {
	return p.ingest(ctx, keyword, items, engine, domain.DefaultSource)
}

func (p *Pipeline) ingest(ctx context.Context, keyword string, items []domain.RawItem, engine, defaultSource string) (Stats, error) {
	stats := Stats{Received: len(items)}
	if len(items) == 0 {
		return stats, nil
	}

	start := p.now()

	recs := make([]*domain.Record, 0, len(items))
	for i := range items {
		rec, ok := p.enrich(ctx, keyword, &items[i], engine, defaultSource)
		if !ok {
			stats.Skipped++
			if p.metrics != nil {
				p.metrics.ItemsSkippedEmpty.Inc()
			}
			continue
		}
		recs = append(recs, rec)
	}

	if err := p.records.UpsertBatch(ctx, recs); err != nil {
		return stats, fmt.Errorf("failed to store ingested records: %w", err)
	}
	stats.Stored = len(recs)

	if p.metrics != nil {
		for _, rec := range recs {
			p.metrics.ItemsIngested.WithLabelValues(rec.Source).Inc()
		}
		p.metrics.IngestDuration.Observe(time.Since(start).Seconds())
	}

	p.logger.Info("Ingestion complete",
		logging.String("keyword", keyword),
		logging.Int("received", stats.Received),
		logging.Int("stored", stats.Stored),
		logging.Int("skipped", stats.Skipped),
		logging.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return stats, nil
}

// IngestFile reads a JSON array of raw items from path and ingests it.
// Items without a source are filed under "sample" rather than "web".
// A missing or malformed file is a structural error and aborts the run.
func (p *Pipeline) IngestFile(ctx context.Context, keyword, path, engine string) (Stats, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read sample file: %w", err)
	}

	var items []domain.RawItem
	if err = json.Unmarshal(raw, &items); err != nil {
		return Stats{}, fmt.Errorf("failed to parse sample file %s: %w", path, err)
	}

	return p.ingest(ctx, keyword, items, engine, domain.SampleSource)
}

func (p *Pipeline) enrich(ctx context.Context, keyword string, item *domain.RawItem, engine, defaultSource string) (*domain.Record, bool) {
	text := textnorm.Clean(item.Text)
	if text == "" {
		p.logger.Debug("Skipping item with empty text", logging.String("id", item.ID))
		return nil, false
	}

	source := item.Source
	if source == "" {
		source = defaultSource
	}
	author := item.Author
	if author == "" {
		author = domain.DefaultAuthor
	}

	score := p.router.Analyze(ctx, text, engine)

	rec := &domain.Record{
		ID:             itemID(item.ID, source, author, text),
		Keyword:        keyword,
		Source:         source,
		Author:         author,
		Text:           text,
		CreatedAt:      parseCreatedAt(item.CreatedAt, p.now),
		SentimentScore: score.Value,
		SentimentLabel: score.Label,
	}

	if code, ok := p.inferencer.Infer(text); ok {
		rec.CountryCode = &code
	}

	return rec, true
}

// itemID returns the item's own ID, or a deterministic synthetic one so
// re-ingesting the same content stays idempotent.
func itemID(raw, source, author, text string) string {
	if raw != "" {
		return raw
	}
	sum := sha256.Sum256([]byte(source + "|" + author + "|" + text))
	return "gp_" + hex.EncodeToString(sum[:])[:syntheticIDLength]
}

// parseCreatedAt parses an ISO-8601 timestamp, accepting both a trailing
// "Z" and a naive datetime. Anything unparseable falls back to now, in UTC.
func parseCreatedAt(raw string, now func() time.Time) time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return now().UTC()
	}

	s = strings.Replace(s, "Z", "+00:00", 1)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}

	return now().UTC()
}
