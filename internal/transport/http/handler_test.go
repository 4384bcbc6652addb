package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rssreader/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGetter struct {
	items     []domain.NewsItem
	err       error
	lastLimit int
}

func (s *stubGetter) GetNews(ctx context.Context, limit int) ([]domain.NewsItem, error) {
	s.lastLimit = limit
	return s.items, s.err
}

type stubFetcher struct {
	items      []domain.NewsItem
	err        error
	invalidate []bool
}

func (s *stubFetcher) FetchNews(ctx context.Context, invalidateCache bool) ([]domain.NewsItem, error) {
	s.invalidate = append(s.invalidate, invalidateCache)
	return s.items, s.err
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func newTestServer(getter *stubGetter, fetcher *stubFetcher, pinger Pinger) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(log, NewHandler(log, getter, fetcher, pinger))
}

func TestGetNews(t *testing.T) {
	published := time.Date(2017, 9, 19, 14, 3, 0, 0, time.UTC)
	getter := &stubGetter{items: []domain.NewsItem{
		{Image: "http://img/a.jpg", Title: "A", Link: "http://x/a", PublishedAt: &published, Description: "d"},
		{Title: "B"},
	}}
	srv := newTestServer(getter, &stubFetcher{}, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/news?limit=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, 2, getter.lastLimit)
	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "http://img/a.jpg", body[0]["image"])
	assert.Equal(t, "2017-09-19T14:03:00Z", body[0]["published_at"])
	assert.Nil(t, body[1]["published_at"])
	assert.Equal(t, "", body[1]["image"])
}

func TestGetNews_DefaultLimitAndEmptyList(t *testing.T) {
	getter := &stubGetter{}
	srv := newTestServer(getter, &stubFetcher{}, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, getter.lastLimit)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetNews_InvalidLimit(t *testing.T) {
	for _, limit := range []string{"abc", "0", "-3"} {
		t.Run(limit, func(t *testing.T) {
			srv := newTestServer(&stubGetter{}, &stubFetcher{}, nil)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/news?limit="+limit, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetNews_StorageError(t *testing.T) {
	srv := newTestServer(&stubGetter{err: errors.New("db down")}, &stubFetcher{}, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetNews_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(&stubGetter{}, &stubFetcher{}, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/news", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRefreshNews(t *testing.T) {
	fetcher := &stubFetcher{items: []domain.NewsItem{{Title: "A"}, {Title: "B"}, {Title: "C"}}}
	srv := newTestServer(&stubGetter{}, fetcher, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/news/refresh", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":3}`, rec.Body.String())
	assert.Equal(t, []bool{true}, fetcher.invalidate)
}

func TestRefreshNews_Failure(t *testing.T) {
	srv := newTestServer(&stubGetter{}, &stubFetcher{err: errors.New("timeout")}, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/news/refresh", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"Fail to load news"}`, rec.Body.String())
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		pinger Pinger
		want   int
	}{
		{"no pinger", nil, http.StatusOK},
		{"db ok", stubPinger{}, http.StatusOK},
		{"db down", stubPinger{err: errors.New("refused")}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&stubGetter{}, &stubFetcher{}, tt.pinger)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(&stubGetter{}, &stubFetcher{}, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "client-id-1")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "client-id-1", rec.Header().Get(requestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(&stubGetter{}, &stubFetcher{}, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/news/refresh", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), "POST"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&stubGetter{}, &stubFetcher{}, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
