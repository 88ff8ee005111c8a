// Package httpapi provides the HTTP API for briefd.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/briefd/internal/orchestrator"
	"github.com/fyrsmithlabs/briefd/internal/redact"
)

// Researcher runs one research query end to end.
type Researcher interface {
	Research(ctx context.Context, query string) (*orchestrator.BriefingOutput, error)
}

// Config holds HTTP server configuration.
type Config struct {
	Addr string
}

// Server provides HTTP endpoints for briefd.
type Server struct {
	echo       *echo.Echo
	researcher Researcher
	redactor   *redact.Redactor
	gatherer   prometheus.Gatherer
	logger     *zap.Logger
	config     *Config
}

// NewServer creates a new HTTP server. The gatherer may be nil, which
// disables the /metrics endpoint.
func NewServer(researcher Researcher, redactor *redact.Redactor, gatherer prometheus.Gatherer, logger *zap.Logger, cfg *Config) (*Server, error) {
	if researcher == nil {
		return nil, fmt.Errorf("researcher cannot be nil")
	}
	if redactor == nil {
		return nil, fmt.Errorf("redactor cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Addr: ":8080"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:       e,
		researcher: researcher,
		redactor:   redactor,
		gatherer:   gatherer,
		logger:     logger,
		config:     cfg,
	}
	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	if s.gatherer != nil {
		s.echo.GET("/metrics", echo.WrapHandler(
			promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.echo.Group("/api/v1")
	v1.POST("/research", s.handleResearch)
	v1.POST("/redact", s.handleRedact)
	v1.GET("/redactions/stats", s.handleRedactionStats)
}

// ResearchRequest is the request body for POST /api/v1/research.
type ResearchRequest struct {
	Query string `json:"query"`
}

// RedactRequest is the request body for POST /api/v1/redact.
type RedactRequest struct {
	Text string `json:"text"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleResearch runs a research query and returns the redacted
// briefing.
func (s *Server) handleResearch(c echo.Context) error {
	var req ResearchRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid research request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query field is required")
	}

	out, err := s.researcher.Research(c.Request().Context(), req.Query)
	if err != nil {
		s.logger.Error("research failed", zap.Error(err))
		if errors.Is(err, orchestrator.ErrExtraction) || errors.Is(err, orchestrator.ErrNoBriefing) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "research run failed")
	}

	return c.JSON(http.StatusOK, out)
}

// handleRedact runs text through the redaction pipeline.
func (s *Server) handleRedact(c echo.Context) error {
	var req RedactRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid redact request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	}

	result := s.redactor.Redact(req.Text, true)

	s.logger.Debug("redacted content",
		zap.Int("matches_found", result.MatchesFound),
	)

	return c.JSON(http.StatusOK, result)
}

// handleRedactionStats returns cumulative statistics from the process
// redaction log.
func (s *Server) handleRedactionStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.redactor.Statistics())
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.config.Addr))
	return s.echo.Start(s.config.Addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
