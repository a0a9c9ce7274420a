// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/argument-engine/pkg/types"
)

func TestChatClientComplete(t *testing.T) {
	var (
		gotPath, gotAuth, gotUA string
		gotBody                 chatRequest
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"1. first\n2. second"}},{"message":{"role":"assistant","content":"ignored"}}]}`)
	}))
	defer ts.Close()

	c := NewChatClient(types.LLMConfig{
		BaseURL:    ts.URL + "/",
		APIKey:     "gsk_test",
		Model:      "llama3-8b-8192",
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "argument-engine/test"},
	})

	text, err := c.Complete(context.Background(), "expand this")
	require.NoError(t, err)
	assert.Equal(t, "1. first\n2. second", text)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer gsk_test", gotAuth)
	assert.Equal(t, "argument-engine/test", gotUA)
	assert.Equal(t, "llama3-8b-8192", gotBody.Model)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, chatMessage{Role: "user", Content: "expand this"}, gotBody.Messages[0])
}

func TestChatClientErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		transient bool
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":"slow down"}`, true},
		{"server error", http.StatusBadGateway, `oops`, true},
		{"unauthorized", http.StatusUnauthorized, `{"error":"invalid api key"}`, false},
		{"no choices", http.StatusOK, `{"choices":[]}`, true},
		{"malformed body", http.StatusOK, `{"choices":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			c := &ChatClient{BaseURL: ts.URL, Model: "m", Client: ts.Client()}
			_, err := c.Complete(context.Background(), "p")
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrUpstreamUnavailable)
			assert.Equal(t, tt.transient, IsTransient(err))
		})
	}
}

func TestChatClientAPIErrorCarriesStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, "  invalid api key \n")
	}))
	defer ts.Close()

	c := &ChatClient{BaseURL: ts.URL, Client: ts.Client()}
	_, err := c.Complete(context.Background(), "p")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid api key", apiErr.Body)
}

func TestChatClientTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := ts.URL
	ts.Close()

	c := &ChatClient{BaseURL: base}
	_, err := c.Complete(context.Background(), "p")
	assert.ErrorIs(t, err, types.ErrUpstreamUnavailable)
	assert.True(t, IsTransient(err))
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(errors.New("plain")))
	assert.False(t, IsTransient(context.Canceled))
	assert.False(t, IsTransient(errors.Join(types.ErrUpstreamUnavailable, context.Canceled)))
	assert.True(t, IsTransient(fmt.Errorf("wrapped: %w", &APIError{StatusCode: 503})))
	assert.False(t, IsTransient(&APIError{StatusCode: 400}))
}

func TestCompleterFunc(t *testing.T) {
	f := CompleterFunc(func(_ context.Context, p string) (string, error) { return "echo " + p, nil })
	got, err := f.Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo hi", got)
}
