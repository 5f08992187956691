package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jonesrussell/globalpulse/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id              TEXT PRIMARY KEY,
	keyword         TEXT NOT NULL,
	source          TEXT NOT NULL,
	author          TEXT NOT NULL,
	text            TEXT NOT NULL,
	created_at      TIMESTAMP NOT NULL,
	sentiment_score DOUBLE PRECISION NOT NULL,
	sentiment_label TEXT NOT NULL,
	country_code    TEXT
);

CREATE INDEX IF NOT EXISTS idx_records_keyword ON records (keyword);
CREATE INDEX IF NOT EXISTS idx_records_created_at ON records (created_at);
CREATE INDEX IF NOT EXISTS idx_records_country_code ON records (country_code);
`

const upsertQuery = `
	INSERT INTO records (id, keyword, source, author, text, created_at,
	                     sentiment_score, sentiment_label, country_code)
	VALUES (:id, :keyword, :source, :author, :text, :created_at,
	        :sentiment_score, :sentiment_label, :country_code)
	ON CONFLICT (id) DO UPDATE SET
		keyword         = excluded.keyword,
		source          = excluded.source,
		author          = excluded.author,
		text            = excluded.text,
		created_at      = excluded.created_at,
		sentiment_score = excluded.sentiment_score,
		sentiment_label = excluded.sentiment_label,
		country_code    = excluded.country_code
`

// Records handles database operations for enriched records.
type Records struct {
	db *sqlx.DB
}

// NewRecords creates a new records repository.
func NewRecords(db *sqlx.DB) *Records {
	return &Records{db: db}
}

// EnsureSchema creates the records table and its indexes if they do not
// exist. Safe to call on every startup.
func (r *Records) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Upsert inserts the record, replacing any existing record with the same ID.
func (r *Records) Upsert(ctx context.Context, rec *domain.Record) error {
	if _, err := r.db.NamedExecContext(ctx, upsertQuery, rec); err != nil {
		return fmt.Errorf("failed to upsert record %s: %w", rec.ID, err)
	}
	return nil
}

// UpsertBatch writes all records in a single transaction. Either every
// record lands or none do.
func (r *Records) UpsertBatch(ctx context.Context, recs []*domain.Record) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, rec := range recs {
		if _, execErr := tx.NamedExecContext(ctx, upsertQuery, rec); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to upsert record %s: %w", rec.ID, execErr)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListByKeyword returns records for the keyword created at or after since,
// newest first, capped at limit.
func (r *Records) ListByKeyword(ctx context.Context, keyword string, since time.Time, limit int) ([]domain.Record, error) {
	query := r.db.Rebind(`
		SELECT id, keyword, source, author, text, created_at,
		       sentiment_score, sentiment_label, country_code
		FROM records
		WHERE keyword = ? AND created_at >= ?
		ORDER BY created_at DESC
		LIMIT ?
	`)

	records := make([]domain.Record, 0)
	if err := r.db.SelectContext(ctx, &records, query, keyword, since.UTC(), limit); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return records, nil
}

// CountryStat aggregates sentiment for one inferred country.
type CountryStat struct {
	CountryCode  string  `db:"country_code"  json:"country_code"`
	Mentions     int     `db:"mentions"      json:"mentions"`
	AvgSentiment float64 `db:"avg_sentiment" json:"avg_sentiment"`
}

// AggregateByCountry groups records for the keyword created at or after
// since by inferred country. Records without a country are excluded.
func (r *Records) AggregateByCountry(ctx context.Context, keyword string, since time.Time) ([]CountryStat, error) {
	query := r.db.Rebind(`
		SELECT country_code,
		       COUNT(*) AS mentions,
		       AVG(sentiment_score) AS avg_sentiment
		FROM records
		WHERE keyword = ? AND created_at >= ? AND country_code IS NOT NULL
		GROUP BY country_code
		ORDER BY mentions DESC, country_code ASC
	`)

	stats := make([]CountryStat, 0)
	if err := r.db.SelectContext(ctx, &stats, query, keyword, since.UTC()); err != nil {
		return nil, fmt.Errorf("failed to aggregate by country: %w", err)
	}

	return stats, nil
}

// Count returns the total number of stored records.
func (r *Records) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}
