// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus builds the article collection for one argument: it expands
// the argument into search queries, retrieves and parses results for each,
// merges them in query order, and ranks them by similarity.
package corpus

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/argument-engine/internal/metrics"
	"github.com/pdiddy/argument-engine/internal/search"
	"github.com/pdiddy/argument-engine/pkg/types"
)

// Stage names recorded on a QueryFailure.
const (
	StageRetrieve = "retrieve"
	StageParse    = "parse"
)

const defaultMaxParallel = 3

// Expander turns an argument into search queries.
type Expander interface {
	Expand(ctx context.Context, argument string) ([]string, error)
}

// Retriever fetches the raw response for one search query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, maxResults int) (string, error)
}

// Scorer assigns similarity scores to articles.
type Scorer interface {
	Score(ctx context.Context, argument string, articles []types.Article) ([]types.Article, error)
}

// QueryFailure records an expanded query that contributed nothing because
// retrieval or parsing failed.
type QueryFailure struct {
	Query string
	Stage string
	Err   error
}

// Corpus is the outcome of one aggregation.
type Corpus struct {
	// Queries are the expanded queries, in the order they were issued.
	Queries []string

	// Articles are ordered by similarity descending; ties keep query order.
	Articles []types.Article

	// Failures lists the queries dropped from the merge.
	Failures []QueryFailure
}

// Empty reports whether no article was found. It is a valid outcome, not an error.
func (c Corpus) Empty() bool {
	return len(c.Articles) == 0
}

// Aggregator runs expansion, per-query retrieval and parsing, and ranking.
type Aggregator struct {
	Expander  Expander
	Retriever Retriever

	// Parse converts a raw response into articles (default search.ParseFeed).
	Parse func(raw string) ([]types.Article, error)

	// Scorer is optional; nil leaves every similarity absent.
	Scorer Scorer

	MaxResults  int
	Parallel    bool
	MaxParallel int
	Dedupe      bool

	Logger  *zap.Logger
	Metrics *metrics.Pipeline
}

// queryResult holds one query's contribution.
type queryResult struct {
	articles []types.Article
	failure  *QueryFailure
}

// Aggregate builds the ranked corpus for argument. Only an expansion
// failure is returned as an error; a failing query is logged, recorded in
// Corpus.Failures, and skipped.
func (a *Aggregator) Aggregate(ctx context.Context, argument string) (Corpus, error) {
	log := a.logger()

	queries, err := a.Expander.Expand(ctx, argument)
	if err != nil {
		return Corpus{}, err
	}
	log.Info("expanded queries", zap.Strings("queries", queries))

	results, err := a.runQueries(ctx, queries)
	if err != nil {
		return Corpus{}, err
	}

	out := Corpus{Queries: queries}
	for _, r := range results {
		if r.failure != nil {
			out.Failures = append(out.Failures, *r.failure)
			continue
		}
		out.Articles = append(out.Articles, r.articles...)
	}

	if a.Dedupe {
		var removed int
		out.Articles, removed = search.DedupeByLink(out.Articles)
		if removed > 0 {
			log.Info("dropped duplicate articles", zap.Int("removed", removed))
		}
	}

	if out.Empty() {
		log.Info("no relevant articles found")
		return out, nil
	}

	if a.Scorer != nil {
		scored, err := a.Scorer.Score(ctx, argument, out.Articles)
		if err != nil {
			log.Warn("similarity scoring failed, keeping retrieval order", zap.Error(err))
		} else {
			out.Articles = scored
		}
	}

	log.Info("sorting articles by similarity", zap.Int("articles", len(out.Articles)))
	Rank(out.Articles)
	return out, nil
}

// runQueries processes each query and returns results indexed by query
// position, so merge order never depends on completion order.
func (a *Aggregator) runQueries(ctx context.Context, queries []string) ([]queryResult, error) {
	results := make([]queryResult, len(queries))

	if !a.Parallel {
		for i, q := range queries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = a.processQuery(ctx, q)
		}
		return results, nil
	}

	limit := a.MaxParallel
	if limit <= 0 {
		limit = defaultMaxParallel
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, q := range queries {
		g.Go(func() error {
			results[i] = a.processQuery(gctx, q)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *Aggregator) processQuery(ctx context.Context, q string) queryResult {
	log := a.logger().With(zap.String("query", q))
	log.Info("processing expanded query")

	start := time.Now()
	raw, err := a.Retriever.Retrieve(ctx, q, a.MaxResults)
	a.Metrics.ObserveUpstream("arxiv", err, time.Since(start))
	if err != nil {
		log.Error("retrieval failed", zap.Error(err))
		a.Metrics.QueryFailed(StageRetrieve)
		return queryResult{failure: &QueryFailure{Query: q, Stage: StageRetrieve, Err: err}}
	}
	log.Info("retrieval succeeded", zap.Int("bytes", len(raw)))

	parse := a.Parse
	if parse == nil {
		parse = search.ParseFeed
	}
	articles, err := parse(raw)
	if err != nil {
		log.Error("parse failed", zap.Error(err))
		a.Metrics.QueryFailed(StageParse)
		return queryResult{failure: &QueryFailure{Query: q, Stage: StageParse, Err: err}}
	}

	a.Metrics.ArticlesParsed(len(articles))
	if len(articles) == 0 {
		log.Warn("no abstracts found for query")
		return queryResult{}
	}
	log.Info("parsed entries", zap.Int("entries", len(articles)))
	return queryResult{articles: articles}
}

func (a *Aggregator) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// Rank stable-sorts articles by similarity descending; an absent score
// counts as 0 and equal scores keep their relative order.
func Rank(articles []types.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Score() > articles[j].Score()
	})
}

// String summarizes a failure for logs and CLI output.
func (f QueryFailure) String() string {
	return fmt.Sprintf("%s %q: %v", f.Stage, f.Query, f.Err)
}
