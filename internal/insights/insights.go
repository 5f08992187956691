// Package insights generates keyword-level summaries and grounded chat
// answers from recently stored records. Like the sentiment router, it
// degrades gracefully: a missing API key or a failed call yields an
// explanatory payload, never an error to the caller.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonesrussell/globalpulse/internal/domain"
	"github.com/jonesrussell/globalpulse/internal/geminiclient"
	"github.com/jonesrussell/globalpulse/internal/logging"
)

const (
	maxContextItems   = 50
	maxSnippetLength  = 300
	maxQuoteCount     = 5
	maxQuoteLength    = 140
	unavailableAnswer = "Insights are unavailable: no generative API key is configured."
	failedAnswer      = "Could not generate an answer right now, please try again."
)

// Client is the generative backend used for summaries and chat.
type Client interface {
	Configured() bool
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ChatMessage is one prior turn of a chat conversation. Role is "user"
// or "assistant".
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Summary is the structured insight payload for one keyword.
type Summary struct {
	Summary string            `json:"summary"`
	Themes  []string          `json:"themes"`
	Aspects map[string]string `json:"aspects"`
	Quotes  []string          `json:"quotes"`
}

// Generator produces summaries and chat answers.
type Generator struct {
	client Client
	logger logging.Logger
}

// NewGenerator creates a generator. client may be nil.
func NewGenerator(client Client, logger logging.Logger) *Generator {
	return &Generator{client: client, logger: logger}
}

const summaryPromptFormat = `You are analyzing public opinion about %q.
Based only on the items below, return strict JSON, no prose, no markdown:
{"summary": "<2-3 sentence overview>",
 "themes": ["<recurring theme>", ...],
 "aspects": {"price": "<one sentence>", "quality": "<one sentence>", "service": "<one sentence>"},
 "quotes": ["<short representative quote>", ...]}

Items:
%s`

// Summarize builds a structured summary of the records. Empty input
// returns an explanatory payload; a missing key and upstream failures
// fall back to a summary computed from the records themselves.
func (g *Generator) Summarize(ctx context.Context, keyword string, recs []domain.Record) Summary {
	if len(recs) == 0 {
		return emptySummary(fmt.Sprintf("No recent items found for %q.", keyword))
	}
	if g.client == nil || !g.client.Configured() {
		return heuristicSummary(keyword, recs)
	}

	prompt := fmt.Sprintf(summaryPromptFormat, keyword, contextBlock(recs))

	raw, err := g.client.GenerateJSON(ctx, prompt)
	if err != nil {
		g.logger.Warn("insight summary failed",
			logging.String("keyword", keyword),
			logging.Error(err))
		return heuristicSummary(keyword, recs)
	}

	payload, err := geminiclient.ExtractJSONObject(raw)
	if err != nil {
		g.logger.Warn("insight summary returned no JSON",
			logging.String("keyword", keyword))
		return heuristicSummary(keyword, recs)
	}

	var summary Summary
	if err = json.Unmarshal([]byte(payload), &summary); err != nil {
		g.logger.Warn("insight summary returned malformed JSON",
			logging.String("keyword", keyword),
			logging.Error(err))
		return heuristicSummary(keyword, recs)
	}

	normalize(&summary)
	return summary
}

const chatPromptFormat = `You are a concise analyst. Answer the question using only
the items below about %q. If the items do not contain the answer, say so.

Items:
%s
%sQuestion: %s`

// Chat answers a free-form question grounded on the records, carrying
// the prior turns so follow-up questions keep their referents.
func (g *Generator) Chat(ctx context.Context, keyword, question string, history []ChatMessage, recs []domain.Record) string {
	if g.client == nil || !g.client.Configured() {
		return unavailableAnswer
	}
	if strings.TrimSpace(question) == "" {
		return "Ask a question about the collected items."
	}

	prompt := fmt.Sprintf(chatPromptFormat, keyword, contextBlock(recs), historyBlock(history), question)

	answer, err := g.client.GenerateText(ctx, prompt)
	if err != nil {
		g.logger.Warn("insight chat failed",
			logging.String("keyword", keyword),
			logging.Error(err))
		return failedAnswer
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return failedAnswer
	}
	return answer
}

// contextBlock renders records as a compact numbered list for prompting.
func contextBlock(recs []domain.Record) string {
	n := len(recs)
	if n > maxContextItems {
		n = maxContextItems
	}

	var b strings.Builder
	for i := 0; i < n; i++ {
		rec := recs[i]
		country := "??"
		if rec.CountryCode != nil {
			country = *rec.CountryCode
		}
		fmt.Fprintf(&b, "%d. [%s/%s/%s] %s\n",
			i+1, rec.Source, country, rec.SentimentLabel, snippet(rec.Text, maxSnippetLength))
	}
	return b.String()
}

// historyBlock renders prior turns as a transcript, or nothing when the
// conversation is fresh.
func historyBlock(history []ChatMessage) string {
	var b strings.Builder
	for _, msg := range history {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		role := "User"
		if strings.EqualFold(msg.Role, "assistant") {
			role = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, content)
	}
	if b.Len() == 0 {
		return ""
	}
	return "Conversation so far:\n" + b.String() + "\n"
}

// aspectWords drive the fallback aspect scores: an aspect's score is the
// net sentiment of the items mentioning one of its words, scaled by the
// item count.
var aspectWords = map[string][]string{
	"price":   {"price", "cost", "expensive", "cheap", "afford"},
	"quality": {"quality", "reliable", "buggy", "performance", "battery", "range"},
	"service": {"support", "service", "warranty", "customer", "shipping"},
}

// heuristicSummary computes an insight payload from the records alone:
// label counts, the average score, and keyword-hit aspect scores.
func heuristicSummary(keyword string, recs []domain.Record) Summary {
	var pos, neg int
	var total float64
	for _, rec := range recs {
		switch rec.SentimentLabel {
		case domain.LabelPositive:
			pos++
		case domain.LabelNegative:
			neg++
		}
		total += rec.SentimentScore
	}
	neu := len(recs) - pos - neg
	avg := total / float64(len(recs))

	aspects := make(map[string]string, len(aspectWords))
	for aspect, words := range aspectWords {
		aspects[aspect] = fmt.Sprintf("%+.2f", aspectScore(recs, words))
	}

	quotes := make([]string, 0, maxQuoteCount)
	for _, rec := range recs[:min(len(recs), maxQuoteCount)] {
		quotes = append(quotes, snippet(rec.Text, maxQuoteLength))
	}

	return Summary{
		Summary: fmt.Sprintf("For %q, analyzed %d items: %d positive, %d negative, %d neutral. Average sentiment %.2f.",
			keyword, len(recs), pos, neg, neu, avg),
		Themes:  []string{},
		Aspects: aspects,
		Quotes:  quotes,
	}
}

// aspectScore nets +1/-1 per item that mentions one of the words and is
// labeled positive/negative, over the total item count. The result is
// always within [-1, 1].
func aspectScore(recs []domain.Record, words []string) float64 {
	var score float64
	for _, rec := range recs {
		text := strings.ToLower(rec.Text)
		for _, word := range words {
			if strings.Contains(text, word) {
				switch rec.SentimentLabel {
				case domain.LabelPositive:
					score++
				case domain.LabelNegative:
					score--
				}
				break
			}
		}
	}
	return score / float64(len(recs))
}

func snippet(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

func emptySummary(text string) Summary {
	return Summary{
		Summary: text,
		Themes:  []string{},
		Aspects: map[string]string{},
		Quotes:  []string{},
	}
}

func normalize(s *Summary) {
	if s.Themes == nil {
		s.Themes = []string{}
	}
	if s.Aspects == nil {
		s.Aspects = map[string]string{}
	}
	if s.Quotes == nil {
		s.Quotes = []string{}
	}
}
