// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the analyze operation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/pdiddy/argument-engine/internal/analyze"
	"github.com/pdiddy/argument-engine/internal/metrics"
	"github.com/pdiddy/argument-engine/pkg/types"
)

// Analyzer runs the pipeline for one argument.
type Analyzer interface {
	Analyze(ctx context.Context, argument string) (analyze.Result, error)
}

// Server is the echo application plus its dependencies.
type Server struct {
	echo   *echo.Echo
	cfg    types.ServerConfig
	logger *zap.Logger
}

// analyzeRequest is the body of POST /analyze.
type analyzeRequest struct {
	Argument string `json:"argument"`
}

// errorResponse is the failure envelope.
type errorResponse struct {
	Detail string `json:"detail"`
}

// New builds the routes. m may be nil, in which case /metrics serves an
// empty registry.
func New(cfg types.ServerConfig, svc Analyzer, m *metrics.Pipeline, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(logger))
	e.HTTPErrorHandler = errorHandler(logger)

	h := &handler{svc: svc}
	e.POST("/analyze", h.analyze)
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	return &Server{echo: e, cfg: cfg, logger: logger}
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully within
// the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Listen
	if addr == "" {
		addr = ":8000"
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

type handler struct {
	svc Analyzer
}

func (h *handler) analyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	res, err := h.svc.Analyze(c.Request().Context(), req.Argument)
	switch {
	case errors.Is(err, analyze.ErrEmptyArgument):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	case errors.Is(err, types.ErrUpstreamUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to reach an upstream service").SetInternal(err)
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to analyze argument").SetInternal(err)
	}

	if res.NoResults() {
		return c.JSON(http.StatusOK, map[string]string{"message": res.Message})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"argument": res.Argument,
		"results":  res.Results,
	})
}

// errorHandler renders every failure as {"detail": ...}.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}

		req := c.Request()
		logger.Warn("request failed",
			zap.Int("status", code),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err),
		)
		if !c.Response().Committed {
			_ = c.JSON(code, errorResponse{Detail: msg})
		}
	}
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			logger.Info("request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return nil
		}
	}
}
