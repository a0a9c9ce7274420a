// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resilience guards one upstream operation with bounded retry and
// an optional circuit breaker.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Classifier sorts failures. Retryable failures are attempted again;
// failures that Count are held against the breaker. Nil funcs mean
// "never retry" and "always count".
type Classifier struct {
	Retryable func(error) bool
	Counts    func(error) bool
}

// Executor guards a single named operation. Without a breaker every call
// is independent; with one, breaker state lives as long as the Executor.
// It is safe for concurrent use.
type Executor struct {
	name     string
	retry    Retry
	classify Classifier
	cb       *gobreaker.CircuitBreaker[struct{}]
	logger   *zap.Logger
}

// New returns an Executor for the operation name. breaker may be nil.
func New(name string, retry Retry, breaker *Breaker, classify Classifier, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if classify.Retryable == nil {
		classify.Retryable = func(error) bool { return false }
	}
	if classify.Counts == nil {
		classify.Counts = func(error) bool { return true }
	}

	e := &Executor{
		name:     name,
		retry:    retry.withDefaults(),
		classify: classify,
		logger:   logger.With(zap.String("operation", name)),
	}
	if breaker != nil {
		b := breaker.withDefaults()
		e.cb = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:        name,
			MaxRequests: b.Probes,
			Timeout:     b.OpenFor,
			ReadyToTrip: b.tripped,
			IsSuccessful: func(err error) bool {
				return err == nil || !classify.Counts(err)
			},
			OnStateChange: func(_ string, from, to gobreaker.State) {
				e.logger.Warn("circuit breaker state change",
					zap.Stringer("from", from), zap.Stringer("to", to))
			},
		})
	}
	return e
}

// Name returns the guarded operation's name.
func (e *Executor) Name() string { return e.name }

// Do runs fn until it succeeds, fails permanently, or runs out of attempts.
// With a breaker, an open circuit fails fast; IsCircuitOpen recognizes it.
func (e *Executor) Do(ctx context.Context, fn func(context.Context) error) error {
	if e.cb == nil {
		return e.attempt(ctx, fn)
	}
	_, err := e.cb.Execute(func() (struct{}, error) {
		return struct{}{}, e.attempt(ctx, fn)
	})
	return err
}

func (e *Executor) attempt(ctx context.Context, fn func(context.Context) error) error {
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn(ctx)
		if err == nil || n >= e.retry.Attempts || !e.classify.Retryable(err) {
			return err
		}

		wait := e.retry.pause(n)
		e.logger.Warn("retrying upstream call",
			zap.Int("attempt", n),
			zap.Int("attempts", e.retry.Attempts),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(wait):
		}
	}
}

// IsCircuitOpen reports whether err came from an open or saturated breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
