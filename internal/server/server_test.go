// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/argument-engine/internal/analyze"
	"github.com/pdiddy/argument-engine/internal/metrics"
	"github.com/pdiddy/argument-engine/pkg/types"
)

type analyzerFunc func(ctx context.Context, argument string) (analyze.Result, error)

func (f analyzerFunc) Analyze(ctx context.Context, argument string) (analyze.Result, error) {
	return f(ctx, argument)
}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return rec, out
}

func TestAnalyzeSuccess(t *testing.T) {
	var got string
	s := New(types.ServerConfig{}, analyzerFunc(func(_ context.Context, argument string) (analyze.Result, error) {
		got = argument
		return analyze.Result{Argument: argument, Results: "A referenced argument."}, nil
	}), nil, nil)

	rec, out := post(t, s.Handler(), `{"argument":"dark matter shapes galaxies"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dark matter shapes galaxies", got)
	assert.Equal(t, map[string]string{
		"argument": "dark matter shapes galaxies",
		"results":  "A referenced argument.",
	}, out)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestAnalyzeNoResults(t *testing.T) {
	s := New(types.ServerConfig{}, analyzerFunc(func(context.Context, string) (analyze.Result, error) {
		return analyze.Result{Message: analyze.NoResultsMessage}, nil
	}), nil, nil)

	rec, out := post(t, s.Handler(), `{"argument":"x"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"message": "No relevant articles found"}, out)
}

func TestAnalyzeErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"empty argument", analyze.ErrEmptyArgument, http.StatusBadRequest, analyze.ErrEmptyArgument.Error()},
		{"upstream", fmt.Errorf("writing argument: %w", types.ErrUpstreamUnavailable), http.StatusBadGateway, "Failed to reach an upstream service"},
		{"internal", errors.New("template exploded"), http.StatusInternalServerError, "Failed to analyze argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(types.ServerConfig{}, analyzerFunc(func(context.Context, string) (analyze.Result, error) {
				return analyze.Result{}, tt.err
			}), nil, nil)

			rec, out := post(t, s.Handler(), `{"argument":"x"}`)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, map[string]string{"detail": tt.detail}, out)
		})
	}
}

func TestAnalyzeInvalidBody(t *testing.T) {
	s := New(types.ServerConfig{}, analyzerFunc(func(context.Context, string) (analyze.Result, error) {
		t.Fatal("analyzer must not run on a malformed body")
		return analyze.Result{}, nil
	}), nil, nil)

	rec, out := post(t, s.Handler(), `{"argument":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", out["detail"])
}

func TestAnalyzeMissingArgumentField(t *testing.T) {
	s := New(types.ServerConfig{}, analyzerFunc(func(_ context.Context, argument string) (analyze.Result, error) {
		if strings.TrimSpace(argument) == "" {
			return analyze.Result{}, analyze.ErrEmptyArgument
		}
		return analyze.Result{Results: "x"}, nil
	}), nil, nil)

	rec, _ := post(t, s.Handler(), `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRouteUsesDetailEnvelope(t *testing.T) {
	s := New(types.ServerConfig{}, nil, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"detail"`)
}

func TestHealthz(t *testing.T) {
	s := New(types.ServerConfig{}, nil, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.NewPipeline()
	m.ObserveAnalyze(metrics.OutcomeOK, time.Second)

	s := New(types.ServerConfig{}, nil, m, nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `argument_engine_analyze_total{outcome="ok"} 1`)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s := New(types.ServerConfig{Listen: "127.0.0.1:0", ShutdownTimeout: time.Second}, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
