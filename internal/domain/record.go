// Package domain defines the core data shapes shared across the service.
package domain

import "time"

// RawItem is an untrusted item as produced by a live source iterator or a
// sample file. Every field may be missing; the ingestion pipeline coerces
// or synthesizes what it needs at the boundary.
type RawItem struct {
	ID        string `json:"id,omitempty"`
	Source    string `json:"source,omitempty"`
	Author    string `json:"author,omitempty"`
	Text      string `json:"text,omitempty"`
	CreatedAt string `json:"created_at,omitempty"` // ISO-8601, may be absent
}

// Record is the enriched, persisted form of an item. ID is unique across
// the whole store; ingesting the same ID again replaces the record entirely.
type Record struct {
	ID             string    `db:"id"              json:"id"`
	Keyword        string    `db:"keyword"         json:"keyword"`
	Source         string    `db:"source"          json:"source"`
	Author         string    `db:"author"          json:"author"`
	Text           string    `db:"text"            json:"text"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
	SentimentScore float64   `db:"sentiment_score" json:"sentiment_score"`
	SentimentLabel string    `db:"sentiment_label" json:"sentiment_label"`
	CountryCode    *string   `db:"country_code"    json:"country_code"` // ISO 3166-1 alpha-2, nil when unmatched
}

// Sentiment label constants. These are the only values ever stored.
const (
	LabelPositive = "positive"
	LabelNeutral  = "neutral"
	LabelNegative = "negative"
)

// ValidLabel reports whether label is one of the three enumerated values.
func ValidLabel(label string) bool {
	switch label {
	case LabelPositive, LabelNeutral, LabelNegative:
		return true
	}
	return false
}

// Engine choice constants for the sentiment router.
const (
	EngineGemini = "gemini"
	EngineVader  = "vader"
	EngineAuto   = "auto"
)

// Default field values applied at the ingestion boundary.
const (
	DefaultAuthor = "anon"
	DefaultSource = "web"
	SampleSource  = "sample"
)
