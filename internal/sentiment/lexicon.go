package sentiment

import (
	"context"

	"github.com/jonreiter/govader"
)

// LexiconEngine scores text with a fixed word-valence dictionary (VADER).
// It is deterministic, performs no I/O, and serves as the universal
// fallback for every other engine.
type LexiconEngine struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewLexiconEngine creates a lexicon engine with the standard VADER
// dictionary.
func NewLexiconEngine() *LexiconEngine {
	return &LexiconEngine{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Analyze scores the text. It never returns an error.
func (e *LexiconEngine) Analyze(_ context.Context, text string) (Score, error) {
	compound := clamp(e.analyzer.PolarityScores(text).Compound)
	return Score{Value: compound, Label: labelFor(compound)}, nil
}
