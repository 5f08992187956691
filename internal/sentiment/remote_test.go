package sentiment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jonesrussell/globalpulse/internal/domain"
	"github.com/jonesrussell/globalpulse/internal/sentiment"
)

// stubClient returns a canned generateContent response.
type stubClient struct {
	response string
	err      error
}

func (s *stubClient) GenerateJSON(_ context.Context, _ string) (string, error) {
	return s.response, s.err
}

func TestRemoteEngine_Analyze(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
		want     sentiment.Score
		wantErr  bool
	}{
		{
			name:     "strict json",
			response: `{"label":"positive","score":0.8}`,
			want:     sentiment.Score{Value: 0.8, Label: domain.LabelPositive},
		},
		{
			name:     "prose around the object is tolerated",
			response: "Here you go: {\"label\":\"negative\",\"score\":-0.6} :)",
			want:     sentiment.Score{Value: -0.6, Label: domain.LabelNegative},
		},
		{
			name:     "uppercase label normalized",
			response: `{"label":"Neutral","score":0}`,
			want:     sentiment.Score{Value: 0, Label: domain.LabelNeutral},
		},
		{
			name:     "out of range score clamped",
			response: `{"label":"positive","score":3.5}`,
			want:     sentiment.Score{Value: 1, Label: domain.LabelPositive},
		},
		{
			name:     "unrecognized label fails",
			response: `{"label":"ecstatic","score":0.9}`,
			wantErr:  true,
		},
		{
			name:     "no json object fails",
			response: "I cannot classify that.",
			wantErr:  true,
		},
		{
			name:     "malformed json fails",
			response: `{"label":"positive","score":}`,
			wantErr:  true,
		},
		{
			name:    "transport error propagates",
			err:     errors.New("connection refused"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := sentiment.NewRemoteEngine(&stubClient{response: tt.response, err: tt.err})
			got, err := engine.Analyze(context.Background(), "some text")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Analyze() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Analyze() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBudget(t *testing.T) {
	b := sentiment.NewBudget(2)
	if !b.TryConsume() || !b.TryConsume() {
		t.Fatal("first two TryConsume() calls should succeed")
	}
	if b.TryConsume() {
		t.Error("third TryConsume() should fail, budget spent")
	}

	if sentiment.NewBudget(0).TryConsume() {
		t.Error("zero budget should never allow a call")
	}
	if sentiment.NewBudget(-1).TryConsume() {
		t.Error("negative budget should never allow a call")
	}
}
