package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonesrussell/globalpulse/internal/domain"
	"github.com/jonesrussell/globalpulse/internal/geminiclient"
)

// GenerativeClient is the transport capability the remote engine needs.
// *geminiclient.Client satisfies it.
type GenerativeClient interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

const remotePrompt = `Classify the sentiment of the text as one of: positive, neutral, negative. ` +
	`Also provide a real-valued score in [-1,1] (negative numbers = negative). ` +
	`Return STRICT JSON: {"label":"positive|neutral|negative","score": <number>}.` + "\n" +
	`Text: %q`

// RemoteEngine classifies sentiment with one generateContent call per
// text. Any transport, parse, or shape failure comes back as an error;
// the Router turns that into a lexicon fallback, so callers above the
// router never see it.
type RemoteEngine struct {
	client GenerativeClient
}

// NewRemoteEngine creates a remote engine over the given client.
func NewRemoteEngine(client GenerativeClient) *RemoteEngine {
	return &RemoteEngine{client: client}
}

// Analyze requests a strict-JSON classification of the text. The response
// is parsed leniently (outermost object span) but validated strictly: an
// unrecognized label is a failure, and the score is clamped into [-1, 1]
// before returning.
func (e *RemoteEngine) Analyze(ctx context.Context, text string) (Score, error) {
	raw, err := e.client.GenerateJSON(ctx, fmt.Sprintf(remotePrompt, text))
	if err != nil {
		return Score{}, fmt.Errorf("remote analyze: %w", err)
	}

	obj, err := geminiclient.ExtractJSONObject(raw)
	if err != nil {
		return Score{}, fmt.Errorf("remote analyze: %w", err)
	}

	var parsed struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return Score{}, fmt.Errorf("remote analyze: decode %q: %w", obj, err)
	}

	label := strings.ToLower(strings.TrimSpace(parsed.Label))
	if !domain.ValidLabel(label) {
		return Score{}, fmt.Errorf("remote analyze: unrecognized label %q", parsed.Label)
	}

	return Score{Value: clamp(parsed.Score), Label: label}, nil
}
