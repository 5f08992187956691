package sentiment_test

import (
	"context"
	"testing"

	"github.com/jonesrussell/globalpulse/internal/domain"
	"github.com/jonesrussell/globalpulse/internal/sentiment"
)

func TestLexiconEngine_Analyze(t *testing.T) {
	engine := sentiment.NewLexiconEngine()
	ctx := context.Background()

	tests := []struct {
		name      string
		text      string
		wantLabel string
	}{
		{
			name:      "clearly negative",
			text:      "This is absolutely terrible and broken",
			wantLabel: domain.LabelNegative,
		},
		{
			name:      "clearly positive",
			text:      "I love this, it is wonderful and amazing",
			wantLabel: domain.LabelPositive,
		},
		{
			name:      "neutral statement",
			text:      "The package arrived on Tuesday",
			wantLabel: domain.LabelNeutral,
		},
		{
			name:      "empty text",
			text:      "",
			wantLabel: domain.LabelNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Analyze(ctx, tt.text)
			if err != nil {
				t.Fatalf("Analyze(%q) error = %v", tt.text, err)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("Analyze(%q) label = %q (score %v), want %q", tt.text, got.Label, got.Value, tt.wantLabel)
			}
			if got.Value < -1 || got.Value > 1 {
				t.Errorf("Analyze(%q) score %v outside [-1,1]", tt.text, got.Value)
			}
		})
	}
}

// Determinism: the lexicon engine must produce identical output for
// identical input.
func TestLexiconEngine_Deterministic(t *testing.T) {
	engine := sentiment.NewLexiconEngine()
	ctx := context.Background()

	first, _ := engine.Analyze(ctx, "pretty good, somewhat disappointing ending")
	for i := 0; i < 10; i++ {
		again, _ := engine.Analyze(ctx, "pretty good, somewhat disappointing ending")
		if again != first {
			t.Fatalf("Analyze() = %+v, earlier run gave %+v", again, first)
		}
	}
}
