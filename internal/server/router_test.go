package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ayush/exploring-space/internal/archive"
	"github.com/ayush/exploring-space/internal/article"
	"github.com/ayush/exploring-space/internal/chat"
	"github.com/ayush/exploring-space/internal/content"
	"github.com/ayush/exploring-space/internal/explore"
	"github.com/ayush/exploring-space/internal/metrics"
	"github.com/ayush/exploring-space/internal/middleware"
	"github.com/ayush/exploring-space/internal/nasa"
	"github.com/ayush/exploring-space/internal/session"
)

const imagesBody = `{"collection":{"items":[
	{"links":[{"href":"https://images-assets.nasa.gov/a.jpg"}],"data":[{"title":"Pillars of Creation","description":"Eagle Nebula"}]},
	{"links":[{"href":"https://images-assets.nasa.gov/b.jpg"}],"data":[{"title":"Crab Nebula","description":"Supernova remnant"}]}
]}}`

type markdownGenerator struct{}

func (markdownGenerator) Generate(_ context.Context, prompt string, _ int) (string, error) {
	if strings.HasPrefix(prompt, "Write a comprehensive") {
		return "# Overview\n\n**Stars** form in `molecular clouds`.", nil
	}
	return "Jupiter has 95 known moons.", nil
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search":
			w.Write([]byte(imagesBody))
		case "/planetary/apod":
			if r.URL.Query().Has("date") {
				w.Write([]byte(`{"title":"Orion","url":"https://apod.nasa.gov/o.jpg"}`))
				return
			}
			w.Write([]byte(`[{"title":"Orion","url":"https://apod.nasa.gov/o.jpg"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(upstream.Close)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	logger := zap.NewNop()
	r := content.NewRand(5)

	client := nasa.NewClient(upstream.URL, upstream.URL, "test-key", nasa.WithMetrics(m))
	norm := content.NewNormalizer(client, client, r, logger, m)
	synth := article.NewSynthesizer(markdownGenerator{}, logger, m)
	orch := explore.NewOrchestrator(norm, synth, r, logger)

	return NewRouter(Deps{
		Nasa:       nasa.NewHandler(client, logger),
		Article:    article.NewHandler(synth, logger),
		Chat:       chat.NewHandler(markdownGenerator{}, logger),
		Explore:    explore.NewHandler(orch, session.NewMemoryStore(time.Hour), nil, logger),
		Archive:    archive.NewHandler(nil, nil, logger),
		Metrics:    m,
		Gatherer:   reg,
		Logger:     logger,
		Origins:    []string{"http://localhost:3000"},
		SessionTTL: time.Hour,
	})
}

func send(h http.Handler, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := send(newTestServer(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestNasaProxyRoute(t *testing.T) {
	h := newTestServer(t)

	rec := send(h, http.MethodGet, "/api/nasa?endpoint=apod&date=2024-01-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"title":"Orion","url":"https://apod.nasa.gov/o.jpg"}`, rec.Body.String())
	assert.Equal(t, "public, s-maxage=3600, stale-while-revalidate=1800", rec.Header().Get("Cache-Control"))

	rec = send(h, http.MethodGet, "/api/nasa?endpoint=../admin", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatAndGenerateRoutes(t *testing.T) {
	h := newTestServer(t)

	rec := send(h, http.MethodPost, "/api/ai", `{"prompt":"How many moons does Jupiter have?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response":"Jupiter has 95 known moons."}`, rec.Body.String())

	rec = send(h, http.MethodPost, "/api/generate-article", `{"query":"star formation"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var a map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, "Star formation", a["title"])
	assert.Equal(t, "Overview\n\nStars form in molecular clouds.", a["content"])

	rec = send(h, http.MethodGet, "/api/article/black-hole", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Black hole"`)
}

func TestExploreFlow(t *testing.T) {
	h := newTestServer(t)

	rec := send(h, http.MethodGet, "/api/explore", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)

	var feed explore.Feed
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	assert.Equal(t, "random", feed.Mode)
	assert.Len(t, feed.Articles, explore.InitialArticles)
	assert.Len(t, feed.Gallery, 2)

	rec = send(h, http.MethodPost, "/api/explore/search", `{"query":"mars"}`, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	assert.Equal(t, "search", feed.Mode)
	assert.Equal(t, "mars", feed.Articles[0].Tags[0])

	rec = send(h, http.MethodPost, "/api/explore/more", "", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	assert.Len(t, feed.Articles, explore.InitialArticles+explore.MoreArticles)
	assert.Equal(t, explore.MoreArticles, feed.Added)

	rec = send(h, http.MethodDelete, "/api/explore", "", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	feed = explore.Feed{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	assert.Empty(t, feed.Articles)
	assert.Empty(t, feed.History)

	rec = send(h, http.MethodGet, "/api/explore", "", cookies...)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	assert.Equal(t, "random", feed.Mode)
	assert.Len(t, feed.Articles, explore.InitialArticles)

	rec = send(h, http.MethodGet, "/api/search/recent", "")
	assert.JSONEq(t, `{"queries":[]}`, rec.Body.String())
}

func TestArchiveDisabledAndMetrics(t *testing.T) {
	h := newTestServer(t)

	rec := send(h, http.MethodGet, "/api/archive", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = send(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",route="/api/archive`)
	assert.Contains(t, body, `status="503"`)
}
