package sentiment

import (
	"context"

	"github.com/jonesrussell/globalpulse/internal/domain"
	"github.com/jonesrussell/globalpulse/internal/logging"
	"github.com/jonesrussell/globalpulse/internal/telemetry"
)

// Router dispatches sentiment analysis to the lexicon or remote engine
// according to the engine choice, with rate-capped fallback. Analyze never
// returns an error: remote failures of any kind degrade to the lexicon
// engine for that single text.
type Router struct {
	lexicon Engine
	remote  Engine // nil when no remote engine is configured
	auto    bool   // global enable flag consulted by the "auto" choice
	budget  *Budget
	metrics *telemetry.Metrics // optional
	logger  logging.Logger
}

// RouterConfig holds router construction parameters.
type RouterConfig struct {
	// RemoteEnabled is the global flag the "auto" choice consults.
	RemoteEnabled bool
	// MaxRemoteCalls caps attempted remote calls per router lifetime.
	MaxRemoteCalls int
	// Metrics is optional; pass nil to skip instrumentation.
	Metrics *telemetry.Metrics
}

// NewRouter creates a router. remote may be nil; every choice then uses
// the lexicon engine.
func NewRouter(lexicon, remote Engine, cfg RouterConfig, logger logging.Logger) *Router {
	return &Router{
		lexicon: lexicon,
		remote:  remote,
		auto:    cfg.RemoteEnabled,
		budget:  NewBudget(cfg.MaxRemoteCalls),
		metrics: cfg.Metrics,
		logger:  logger,
	}
}

// Analyze scores the text with the engine selected by choice:
// domain.EngineVader forces the lexicon, domain.EngineGemini forces
// remote-with-fallback, and domain.EngineAuto (or anything else) uses the
// remote engine only when the global flag enables it.
func (r *Router) Analyze(ctx context.Context, text, choice string) Score {
	var score Score
	switch choice {
	case domain.EngineVader:
		score = r.analyzeLexicon(ctx, text)
	case domain.EngineGemini:
		score = r.analyzeRemote(ctx, text)
	default: // domain.EngineAuto and unknown choices
		if r.auto {
			score = r.analyzeRemote(ctx, text)
		} else {
			score = r.analyzeLexicon(ctx, text)
		}
	}

	if r.metrics != nil {
		r.metrics.LabelTotal.WithLabelValues(score.Label).Inc()
	}
	return score
}

// analyzeRemote attempts the remote engine within the call budget and
// falls back to the lexicon on any failure.
func (r *Router) analyzeRemote(ctx context.Context, text string) Score {
	if r.remote == nil {
		return r.analyzeLexicon(ctx, text)
	}

	if !r.budget.TryConsume() {
		if r.metrics != nil {
			r.metrics.BudgetExhausted.Inc()
		}
		return r.analyzeLexicon(ctx, text)
	}

	if r.metrics != nil {
		r.metrics.RemoteAttempts.Inc()
	}

	score, err := r.remote.Analyze(ctx, text)
	if err != nil {
		if r.metrics != nil {
			r.metrics.RemoteFallbacks.Inc()
		}
		r.logger.Warn("remote sentiment failed, using lexicon",
			logging.Error(err))
		return r.analyzeLexicon(ctx, text)
	}
	return score
}

func (r *Router) analyzeLexicon(ctx context.Context, text string) Score {
	score, err := r.lexicon.Analyze(ctx, text)
	if err != nil {
		// The lexicon engine cannot fail; guard the contract anyway.
		r.logger.Error("lexicon engine failed", logging.Error(err))
		return Score{Value: 0, Label: domain.LabelNeutral}
	}
	return score
}
