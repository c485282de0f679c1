package response_test

import (
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shelfgraph/shelfgraph-server/internal/http/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Success(rec, map[string]string{"status": "healthy"}, discardLogger())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "healthy", body["data"].(map[string]any)["status"])
	assert.NotContains(t, body, "error")
}

func TestJSON_ErrorStatusFlipsSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	response.JSON(rec, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"}, discardLogger())

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "unhealthy", body["data"].(map[string]any)["status"])
}

func TestBadRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	response.BadRequest(rec, "query is required", discardLogger())

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "query is required", body["error"])
	assert.NotContains(t, body, "data")
}

func TestSuccess_NilLoggerDoesNotPanic(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		response.Success(rec, "ok", nil)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}
