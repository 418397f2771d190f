package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swibrow/intent/internal/catalog"
	"github.com/swibrow/intent/internal/classifier"
	"github.com/swibrow/intent/internal/history"
	"github.com/swibrow/intent/internal/logging"
	"github.com/swibrow/intent/internal/text"
)

type fakeRecorder struct {
	entries []history.Entry
	err     error
}

func (f *fakeRecorder) Save(_ context.Context, e history.Entry) error {
	f.entries = append(f.entries, e)
	return f.err
}

func newTestRouter(t *testing.T, rec Recorder) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	stemmer, err := text.NewSnowballStemmer(text.DefaultCacheSize)
	require.NoError(t, err)
	c := classifier.New(catalog.Default(), stemmer)
	return NewRouter(NewHandler(c, rec, logging.Discard()))
}

type classifyEnvelope struct {
	Data struct {
		Kind     string             `json:"kind"`
		Labels   []string           `json:"labels"`
		Reply    string             `json:"reply"`
		Response string             `json:"response"`
		Matches  []classifier.Match `json:"matches"`
	} `json:"data"`
}

func do(t *testing.T, router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, newTestRouter(t, nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestClassifyPost(t *testing.T) {
	rec := &fakeRecorder{}
	router := newTestRouter(t, rec)

	w := do(t, router, http.MethodPost, "/api/v1/classify", `{"phrase":"I like marketing and project management?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var env classifyEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "category", env.Data.Kind)
	assert.Equal(t, []string{"Content Developer", "Business Developer"}, env.Data.Labels)
	assert.Equal(t, "You might be interested in Content Developer and Business Developer.", env.Data.Response)
	assert.NotEmpty(t, env.Data.Matches)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, "i like marketing and project management", rec.entries[0].Phrase)
	assert.Equal(t, "category", rec.entries[0].Kind)
}

func TestClassifyQuery(t *testing.T) {
	router := newTestRouter(t, nil)

	w := do(t, router, http.MethodGet, "/api/v1/classify?q="+url.QueryEscape("hi there"), "")
	require.Equal(t, http.StatusOK, w.Code)

	var env classifyEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "greeting", env.Data.Kind)
	assert.Equal(t, "Hi there!", env.Data.Reply)
	assert.Equal(t, "Hi there!", env.Data.Response)
	assert.Equal(t, []string{}, env.Data.Labels)
}

func TestClassifyNoMatch(t *testing.T) {
	w := do(t, newTestRouter(t, nil), http.MethodGet, "/api/v1/classify?q=zzz", "")
	require.Equal(t, http.StatusOK, w.Code)

	var env classifyEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "none", env.Data.Kind)
	assert.Equal(t, "Please try again.", env.Data.Response)
}

func TestClassifyBlankPhrase(t *testing.T) {
	rec := &fakeRecorder{}
	router := newTestRouter(t, rec)

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{"missing query", http.MethodGet, "/api/v1/classify", ""},
		{"empty query", http.MethodGet, "/api/v1/classify?q=", ""},
		{"question marks only", http.MethodGet, "/api/v1/classify?q=" + url.QueryEscape(" ?? "), ""},
		{"blank phrase", http.MethodPost, "/api/v1/classify", `{"phrase":"  ?? "}`},
		{"missing phrase", http.MethodPost, "/api/v1/classify", `{}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, router, tc.method, tc.target, tc.body)
			require.Equal(t, http.StatusOK, w.Code)

			var env classifyEnvelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.Equal(t, "none", env.Data.Kind)
			assert.Equal(t, "Please try again.", env.Data.Response)
			assert.Equal(t, []string{}, env.Data.Labels)
		})
	}
	assert.Empty(t, rec.entries)
}

func TestClassifyMalformedBody(t *testing.T) {
	w := do(t, newTestRouter(t, nil), http.MethodPost, "/api/v1/classify", `{"phrase":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bad_request", resp.Error.Code)
}

func TestClassifyRecorderFailureIsNotFatal(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	w := do(t, newTestRouter(t, rec), http.MethodGet, "/api/v1/classify?q=hello", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, rec.entries, 1)
}

func TestCategories(t *testing.T) {
	w := do(t, newTestRouter(t, nil), http.MethodGet, "/api/v1/categories", "")
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Data []catalog.Category `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Data, 3)
	assert.Equal(t, "ai", env.Data[0].ID)
	assert.Equal(t, "Content Developer", env.Data[2].Label)
}
