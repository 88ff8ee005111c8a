package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/briefd/internal/orchestrator"
	"github.com/fyrsmithlabs/briefd/internal/redact"
)

type stubResearcher struct {
	output *orchestrator.BriefingOutput
	err    error
	query  string
}

func (s *stubResearcher) Research(_ context.Context, query string) (*orchestrator.BriefingOutput, error) {
	s.query = query
	if s.err != nil {
		return nil, s.err
	}
	return s.output, nil
}

func setupTestServer(t *testing.T, researcher Researcher) *Server {
	t.Helper()
	if researcher == nil {
		researcher = &stubResearcher{output: &orchestrator.BriefingOutput{SubjectName: "stub"}}
	}
	server, err := NewServer(researcher, redact.New(nil), nil, zap.NewNop(), nil)
	require.NoError(t, err)
	return server
}

func postJSON(server *Server, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)
	return rec
}

func TestNewServer(t *testing.T) {
	t.Run("creates server with valid config", func(t *testing.T) {
		researcher := &stubResearcher{}
		cfg := &Config{Addr: ":9090"}
		server, err := NewServer(researcher, redact.New(nil), nil, zap.NewNop(), cfg)
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.Equal(t, cfg, server.config)
	})

	t.Run("uses defaults when config is nil", func(t *testing.T) {
		server := setupTestServer(t, nil)
		assert.Equal(t, ":8080", server.config.Addr)
	})

	t.Run("returns error when researcher is nil", func(t *testing.T) {
		_, err := NewServer(nil, redact.New(nil), nil, zap.NewNop(), nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "researcher cannot be nil")
	})

	t.Run("returns error when redactor is nil", func(t *testing.T) {
		_, err := NewServer(&stubResearcher{}, nil, nil, zap.NewNop(), nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redactor cannot be nil")
	})

	t.Run("returns error when logger is nil", func(t *testing.T) {
		_, err := NewServer(&stubResearcher{}, redact.New(nil), nil, nil, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "logger is required")
	})
}

func TestHandleHealth(t *testing.T) {
	server := setupTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestHandleResearch(t *testing.T) {
	t.Run("returns briefing output", func(t *testing.T) {
		researcher := &stubResearcher{output: &orchestrator.BriefingOutput{
			RunID:           "run-1",
			SubjectName:     "Example Co",
			BriefingContent: "Briefing body",
			ResearchSteps:   []string{"company_finder"},
		}}
		server := setupTestServer(t, researcher)

		rec := postJSON(server, "/api/v1/research", ResearchRequest{Query: "research Example Co"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "research Example Co", researcher.query)

		var resp orchestrator.BriefingOutput
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Example Co", resp.SubjectName)
		assert.Equal(t, "Briefing body", resp.BriefingContent)
	})

	t.Run("requires query", func(t *testing.T) {
		server := setupTestServer(t, nil)
		rec := postJSON(server, "/api/v1/research", ResearchRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects invalid body", func(t *testing.T) {
		server := setupTestServer(t, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/research", bytes.NewReader([]byte("{not json")))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps run failures to 422", func(t *testing.T) {
		researcher := &stubResearcher{err: orchestrator.ErrNoBriefing}
		server := setupTestServer(t, researcher)
		rec := postJSON(server, "/api/v1/research", ResearchRequest{Query: "q"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("maps unexpected failures to 500", func(t *testing.T) {
		researcher := &stubResearcher{err: errors.New("boom")}
		server := setupTestServer(t, researcher)
		rec := postJSON(server, "/api/v1/research", ResearchRequest{Query: "q"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandleRedact(t *testing.T) {
	t.Run("redacts text", func(t *testing.T) {
		server := setupTestServer(t, nil)
		rec := postJSON(server, "/api/v1/redact", RedactRequest{Text: "SSN 123-45-6789"})
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp redact.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.RedactedText, "[SSN_REDACTED]")
		assert.Equal(t, 1, resp.MatchesFound)
	})

	t.Run("requires text", func(t *testing.T) {
		server := setupTestServer(t, nil)
		rec := postJSON(server, "/api/v1/redact", RedactRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleRedactionStats(t *testing.T) {
	server := setupTestServer(t, nil)

	// A zero-activity process reports a zero baseline, not an error.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/redactions/stats", nil)
	rec := httptest.NewRecorder()
	server.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var stats redact.Statistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.TotalRedactions)

	// Redaction traffic shows up in the stats.
	postJSON(server, "/api/v1/redact", RedactRequest{Text: "mail me at a@b.com"})
	rec = httptest.NewRecorder()
	server.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/redactions/stats", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalRedactions)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Run("served when a gatherer is wired", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		redactor := redact.New(&redact.Config{Registerer: reg})
		server, err := NewServer(&stubResearcher{}, redactor, reg, zap.NewNop(), nil)
		require.NoError(t, err)

		postJSON(server, "/api/v1/redact", RedactRequest{Text: "a@b.com"})

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "briefd_redact_calls_total")
	})

	t.Run("absent without a gatherer", func(t *testing.T) {
		server := setupTestServer(t, nil)
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		server.echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
