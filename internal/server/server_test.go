package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/deckhand/deckhand/internal/errors"
	"github.com/deckhand/deckhand/internal/ratelimit"
	"github.com/deckhand/deckhand/internal/server/handlers"
	"github.com/deckhand/deckhand/internal/tools"
	"github.com/deckhand/deckhand/internal/trackerapi"
)

func testServer(t *testing.T, upstream http.HandlerFunc) *Server {
	t.Helper()

	limiter := ratelimit.NewLimiter(
		ratelimit.Quota{Capacity: 100, Window: time.Second},
		ratelimit.Quota{Capacity: 100, Window: time.Second},
	)
	exec := ratelimit.NewExecutor(limiter)
	exec.MaxAttempts = 1

	baseURL := "http://localhost:0"
	if upstream != nil {
		srv := httptest.NewServer(upstream)
		t.Cleanup(srv.Close)
		baseURL = srv.URL
	}
	client := trackerapi.NewClient(baseURL, "app-token", "user-token", exec)

	registry := tools.NewRegistry()
	require.NoError(t, tools.RegisterTaskdeckTools(registry, client))

	handlers.InitHealthManager("test")

	return New("127.0.0.1", 0, registry, limiter)
}

func TestServerUsesStandardErrorHandlers(t *testing.T) {
	srv := testServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body apperrors.HTTPErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestServerListsTools(t *testing.T) {
	srv := testServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body handlers.ToolListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotEmpty(t, body.Tools)

	names := make(map[string]bool)
	for _, tool := range body.Tools {
		names[tool.Name] = true
	}
	require.True(t, names["get_task"])
	require.True(t, names["list_tasks"])
	require.True(t, names["create_webhook"])
}

func TestServerInvokesTool(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"t1","title":"Fix login flow"}`)) // nolint:errcheck
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/get_task",
		jsonBody(`{"id":"t1"}`))
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body handlers.ToolInvokeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "get_task", body.Tool)
	require.NotNil(t, body.Result)
}

func TestServerUnknownToolReturnsNotFound(t *testing.T) {
	srv := testServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/not_a_tool",
		jsonBody(`{}`))
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body apperrors.HTTPErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestServerMapsUpstreamFailures(t *testing.T) {
	srv := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/get_task",
		jsonBody(`{"id":"t1"}`))
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body apperrors.HTTPErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "EXTERNAL_SERVICE_ERROR", body.Error.Code)
}

func TestServerReportsLimiterOccupancy(t *testing.T) {
	srv := testServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/limits", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body handlers.LimitsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, 100, body.AppCapacity)
	require.Equal(t, 100, body.UserCapacity)
	require.Zero(t, body.Waiting)
}

func jsonBody(payload string) io.Reader { return strings.NewReader(payload) }
