// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze runs the full argument pipeline for one request: build
// the ranked corpus, then synthesize a referenced argument from it.
package analyze

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/argument-engine/internal/corpus"
	"github.com/pdiddy/argument-engine/internal/metrics"
	"github.com/pdiddy/argument-engine/pkg/types"
)

// NoResultsMessage is returned when no expanded query produced an article.
const NoResultsMessage = "No relevant articles found"

// ErrEmptyArgument rejects a blank argument before any upstream call.
var ErrEmptyArgument = errors.New("argument must not be empty")

// Aggregator builds the ranked corpus for an argument.
type Aggregator interface {
	Aggregate(ctx context.Context, argument string) (corpus.Corpus, error)
}

// Synthesizer writes the argument from the corpus.
type Synthesizer interface {
	Synthesize(ctx context.Context, articles []types.Article, argument string) (string, error)
}

// Result is the response envelope. Exactly one of Message or Results is set.
type Result struct {
	Message  string `json:"message,omitempty" yaml:"message,omitempty"`
	Argument string `json:"argument,omitempty" yaml:"argument,omitempty"`
	Results  string `json:"results,omitempty" yaml:"results,omitempty"`

	// Corpus is the ranked article set the argument was written from.
	// It is kept for the CLI and omitted from the HTTP envelope.
	Corpus corpus.Corpus `json:"-" yaml:"-"`
}

// NoResults reports whether the result is the informational empty outcome.
func (r Result) NoResults() bool {
	return r.Message != ""
}

// Service wires the aggregator and synthesizer. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	Aggregator  Aggregator
	Synthesizer Synthesizer
	Logger      *zap.Logger
	Metrics     *metrics.Pipeline
}

// Analyze runs the pipeline for argument. An empty corpus yields a Result
// carrying NoResultsMessage and a nil error.
func (s *Service) Analyze(ctx context.Context, argument string) (Result, error) {
	start := time.Now()
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("analysis_id", uuid.NewString()))

	res, err := s.analyze(ctx, argument, log)
	outcome := Outcome(res, err)
	s.Metrics.ObserveAnalyze(outcome, time.Since(start))
	if err != nil {
		log.Error("analysis failed", zap.String("outcome", outcome), zap.Error(err))
		return Result{}, err
	}
	log.Info("analysis finished", zap.String("outcome", outcome), zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

func (s *Service) analyze(ctx context.Context, argument string, log *zap.Logger) (Result, error) {
	if strings.TrimSpace(argument) == "" {
		return Result{}, ErrEmptyArgument
	}
	log.Info("received request to analyze argument", zap.String("argument", argument))

	c, err := s.Aggregator.Aggregate(ctx, argument)
	if err != nil {
		return Result{}, err
	}
	if c.Empty() {
		return Result{Message: NoResultsMessage, Corpus: c}, nil
	}

	text, err := s.Synthesizer.Synthesize(ctx, c.Articles, argument)
	if err != nil {
		return Result{}, err
	}
	return Result{Argument: argument, Results: text, Corpus: c}, nil
}

// Outcome classifies a result for metrics and logs.
func Outcome(res Result, err error) string {
	switch {
	case err == nil && res.NoResults():
		return metrics.OutcomeNoResults
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrEmptyArgument):
		return metrics.OutcomeInvalid
	case errors.Is(err, types.ErrUpstreamUnavailable):
		return metrics.OutcomeUpstream
	default:
		return metrics.OutcomeError
	}
}
