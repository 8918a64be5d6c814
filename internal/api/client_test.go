package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"tasky-cli/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_NonOKCarriesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"Claude API key not configured"}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Summary(context.Background(), model.SummaryRequest{ForceRegenerate: true})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Claude API key not configured", apiErr.Message)
}

func TestClient_SendsRequestIDAndJSON(t *testing.T) {
	var gotBody model.SummaryRequest
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = io.WriteString(w, `{"summary":"ok","cached":true,"cache_age_minutes":12}`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithRateLimit(100, 1))
	res, err := c.Summary(context.Background(), model.SummaryRequest{IncludeCompletedCancelled: true})
	require.NoError(t, err)

	assert.NotEmpty(t, gotID)
	assert.True(t, gotBody.IncludeCompletedCancelled)
	assert.False(t, gotBody.ForceRegenerate)
	assert.True(t, res.Cached)
	assert.Equal(t, 12, res.CacheAgeMinutes)
}

func TestClient_UpdateTaskSendsFullEntity(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/tasks/t1", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&raw)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var task model.Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":"t1","title":"Call","status":"Open","notes":"keep me"}`), &task))
	task.Status = "In Progress"

	got, err := New(srv.URL).UpdateTask(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, "In Progress", got.Status, "empty body falls back to the sent task")
	assert.Equal(t, "keep me", raw["notes"])
	assert.Equal(t, "Call", raw["title"])
}

func TestClient_TransportErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).ListTasks(context.Background())
	require.Error(t, err)
	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "GET /api/tasks")
}

func TestSaveSettings_NeverResendsMaskedKey(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
	}))
	defer srv.Close()

	err := New(srv.URL).SaveSettings(context.Background(), model.Settings{AIProvider: "claude", APIKey: "***abcd"})
	require.NoError(t, err)
	_, present := raw["api_key"]
	assert.False(t, present)
	assert.Equal(t, "claude", raw["ai_provider"])
}

func TestResourceClient_UnknownName(t *testing.T) {
	_, err := NewResource[model.Deal](New("http://x"), "widgets")
	assert.Error(t, err)
}

func TestNewError_TruncatesPlainBodyOnRuneBoundary(t *testing.T) {
	body := strings.Repeat("é", 300)
	e := newError(http.StatusBadGateway, []byte(body))
	assert.True(t, utf8.ValidString(e.Message), "message split a rune: %q", e.Message)
	assert.True(t, strings.HasSuffix(e.Message, "…"))
	assert.LessOrEqual(t, utf8.RuneCountInString(e.Message), maxErrorWidth)

	short := newError(http.StatusBadGateway, []byte("upstream down\n"))
	assert.Equal(t, "upstream down", short.Message)

	page := newError(http.StatusBadGateway, []byte("<html><body>Bad gateway</body></html>"))
	assert.Equal(t, "", page.Message)
}
