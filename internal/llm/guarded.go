// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"time"

	"github.com/pdiddy/argument-engine/internal/metrics"
	"github.com/pdiddy/argument-engine/internal/resilience"
	"github.com/pdiddy/argument-engine/pkg/types"
)

// UpstreamClassifier retries transient completion failures and holds only
// upstream failures against a breaker.
var UpstreamClassifier = resilience.Classifier{
	Retryable: IsTransient,
	Counts:    func(err error) bool { return errors.Is(err, types.ErrUpstreamUnavailable) },
}

// Guarded runs every completion of Next through Exec. Upstream latency is
// recorded under the executor's operation name.
type Guarded struct {
	Next    Completer
	Exec    *resilience.Executor
	Metrics *metrics.Pipeline
}

// Complete calls Next with bounded retry. An open breaker is reported as an
// upstream failure so callers need only one classification.
func (g *Guarded) Complete(ctx context.Context, prompt string) (string, error) {
	var out string
	err := g.Exec.Do(ctx, func(ctx context.Context) error {
		start := time.Now()
		text, err := g.Next.Complete(ctx, prompt)
		g.Metrics.ObserveUpstream(g.Exec.Name(), err, time.Since(start))
		if err != nil {
			return err
		}
		out = text
		return nil
	})
	if err != nil {
		if resilience.IsCircuitOpen(err) {
			return "", errors.Join(types.ErrUpstreamUnavailable, err)
		}
		return "", err
	}
	return out, nil
}
