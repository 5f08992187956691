// Package sentiment scores item text. Two engines back the package: a
// deterministic lexicon analyzer and a remote Gemini analyzer. The Router
// selects between them and guarantees every caller a clamped score and a
// valid label, whatever the engines do.
package sentiment

import (
	"context"

	"github.com/jonesrussell/globalpulse/internal/domain"
)

// Thresholds mapping a compound score to a label. These match the VADER
// convention used by the lexicon engine.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// Score is the result of analyzing one text.
type Score struct {
	Value float64 // compound polarity in [-1, 1]
	Label string  // one of domain.LabelPositive/Neutral/Negative
}

// Engine is the capability shared by all sentiment analyzers.
type Engine interface {
	Analyze(ctx context.Context, text string) (Score, error)
}

// clamp bounds v into [-1, 1].
func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// labelFor maps a compound score to a sentiment label.
func labelFor(compound float64) string {
	switch {
	case compound >= positiveThreshold:
		return domain.LabelPositive
	case compound <= negativeThreshold:
		return domain.LabelNegative
	default:
		return domain.LabelNeutral
	}
}
