// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/argument-engine/internal/httputil"
	"github.com/pdiddy/argument-engine/pkg/types"
)

// DefaultArxivURL is the arXiv search endpoint.
const DefaultArxivURL = "http://export.arxiv.org/api/query"

const defaultMaxResults = 10

// ArxivClient retrieves raw Atom feeds from the arXiv query API.
type ArxivClient struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	Client     *http.Client
	Logger     *zap.Logger

	// limiter spaces consecutive requests; nil disables pacing.
	limiter *rate.Limiter
}

// NewArxivClient builds a client from cfg. A positive RequestInterval
// installs a limiter so that concurrent retrievals share one request budget.
func NewArxivClient(cfg types.SearchConfig, logger *zap.Logger) *ArxivClient {
	c := &ArxivClient{
		BaseURL:    cfg.BaseURL,
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		Client:     &http.Client{},
		Logger:     logger,
	}
	if cfg.RequestInterval > 0 {
		c.limiter = rate.NewLimiter(rate.Every(cfg.RequestInterval), 1)
	}
	return c
}

// Retrieve runs one search for query and returns the response body. Every
// whitespace-separated word of query must match the abstract. Transport
// failures, timeouts, and non-2xx statuses wrap types.ErrUpstreamUnavailable.
func (c *ArxivClient) Retrieve(ctx context.Context, query string, maxResults int) (string, error) {
	expr := BuildSearchQuery(query)
	if expr == "" {
		return "", fmt.Errorf("empty arXiv query")
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("waiting for arXiv request slot: %w: %w", types.ErrUpstreamUnavailable, err)
		}
	}

	base := c.BaseURL
	if base == "" {
		base = DefaultArxivURL
	}
	params := url.Values{
		"search_query": {expr},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(maxResults)},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries, c.Logger)
	if err != nil {
		return "", fmt.Errorf("arXiv API request: %w: %w", types.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("arXiv API returned HTTP %d: %w", resp.StatusCode, types.ErrUpstreamUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading arXiv response: %w: %w", types.ErrUpstreamUnavailable, err)
	}
	return string(body), nil
}

// BuildSearchQuery ANDs an abstract-field match for every word of q:
// "dark matter" becomes "abs:dark AND abs:matter".
func BuildSearchQuery(q string) string {
	words := strings.Fields(q)
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = "abs:" + w
	}
	return strings.Join(parts, " AND ")
}
