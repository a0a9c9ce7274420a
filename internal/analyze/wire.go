// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"go.uber.org/zap"

	"github.com/pdiddy/argument-engine/internal/corpus"
	"github.com/pdiddy/argument-engine/internal/llm"
	"github.com/pdiddy/argument-engine/internal/metrics"
	"github.com/pdiddy/argument-engine/internal/query"
	"github.com/pdiddy/argument-engine/internal/resilience"
	"github.com/pdiddy/argument-engine/internal/search"
	"github.com/pdiddy/argument-engine/internal/similarity"
	"github.com/pdiddy/argument-engine/internal/synthesize"
	"github.com/pdiddy/argument-engine/pkg/types"
)

// Components are the pipeline stages built from one configuration.
type Components struct {
	Expander    *query.Expander
	Aggregator  *corpus.Aggregator
	Synthesizer *synthesize.Synthesizer
}

// Build creates every stage from cfg. The chat client, and with it the
// credential, is created once here and shared by expansion and synthesis.
// Generative calls carry no state between requests unless
// cfg.LLM.BreakerEnabled opts into a circuit breaker per operation.
func Build(cfg types.Config, logger *zap.Logger, m *metrics.Pipeline) Components {
	if logger == nil {
		logger = zap.NewNop()
	}

	chat := llm.NewChatClient(cfg.LLM)

	retry := resilience.DefaultRetry()
	retry.Attempts = cfg.LLM.MaxRetries + 1
	var breaker *resilience.Breaker
	if cfg.LLM.BreakerEnabled {
		b := resilience.DefaultBreaker()
		breaker = &b
	}
	guard := func(op string) *llm.Guarded {
		exec := resilience.New(op, retry, breaker, llm.UpstreamClassifier, logger.Named("resilience"))
		return &llm.Guarded{Next: chat, Exec: exec, Metrics: m}
	}

	expander := &query.Expander{
		LLM:                guard("llm.expand"),
		FallbackToArgument: cfg.Expansion.FallbackToArgument,
	}

	agg := &corpus.Aggregator{
		Expander:    expander,
		Retriever:   search.NewArxivClient(cfg.Search, logger.Named("arxiv")),
		MaxResults:  cfg.Search.MaxResults,
		Parallel:    cfg.Search.Parallel,
		MaxParallel: cfg.Search.MaxParallel,
		Dedupe:      cfg.Search.Dedupe,
		Logger:      logger.Named("corpus"),
		Metrics:     m,
	}
	if cfg.Similarity.Enabled {
		agg.Scorer = &similarity.Scorer{Embedder: similarity.NewOpenAIEmbedder(cfg.Similarity)}
	}

	return Components{
		Expander:    expander,
		Aggregator:  agg,
		Synthesizer: &synthesize.Synthesizer{LLM: guard("llm.synthesize")},
	}
}

// NewService builds the full pipeline from cfg.
func NewService(cfg types.Config, logger *zap.Logger, m *metrics.Pipeline) *Service {
	c := Build(cfg, logger, m)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Aggregator:  c.Aggregator,
		Synthesizer: c.Synthesizer,
		Logger:      logger.Named("analyze"),
		Metrics:     m,
	}
}
