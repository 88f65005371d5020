package archive

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/ayush/exploring-space/internal/models"
	"github.com/ayush/exploring-space/internal/store"
)

type memArticles struct {
	mu        sync.Mutex
	docs      map[string]models.ArchivedArticle
	insertErr error
}

func newMemArticles() *memArticles {
	return &memArticles{docs: map[string]models.ArchivedArticle{}}
}

func (m *memArticles) Insert(_ context.Context, doc *models.ArchivedArticle) (string, error) {
	if m.insertErr != nil {
		return "", m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc.ID = primitive.NewObjectID()
	m.docs[doc.ID.Hex()] = *doc
	return doc.ID.Hex(), nil
}

func (m *memArticles) List(_ context.Context, limit int64) ([]models.ArchivedArticle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ArchivedArticle{}
	for _, d := range m.docs {
		if int64(len(out)) == limit {
			break
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *memArticles) GetByID(_ context.Context, id string) (*models.ArchivedArticle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &d, nil
}

func (m *memArticles) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

type memFiles struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
}

func newMemFiles() *memFiles { return &memFiles{objects: map[string][]byte{}} }

func (m *memFiles) Upload(_ context.Context, key string, data []byte, _ string) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memFiles) Download(_ context.Context, key string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, "", store.ErrNotFound
	}
	return data, "application/json", nil
}

func (m *memFiles) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

var blackHole = models.Article{
	ID:      "1705312800000",
	Title:   "Black hole",
	Content: "A region of spacetime.",
	Date:    time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	Source:  "NASA Data & Insights",
	Tags:    []string{"black hole", "space", "astronomy"},
}

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "articles/black-hole/1705312800000.json", SnapshotKey("Black  Hole", "1705312800000"))
}

func TestRecorder(t *testing.T) {
	articles, files := newMemArticles(), newMemFiles()
	NewRecorder(articles, files, zap.NewNop()).Record(context.Background(), "black hole", blackHole)

	require.Len(t, articles.docs, 1)
	for _, d := range articles.docs {
		assert.Equal(t, "black hole", d.Topic)
		assert.Equal(t, "articles/black-hole/1705312800000.json", d.SnapshotKey)
		assert.Equal(t, blackHole.Title, d.Article.Title)
	}

	var snap models.Article
	require.NoError(t, json.Unmarshal(files.objects["articles/black-hole/1705312800000.json"], &snap))
	assert.Equal(t, blackHole.Content, snap.Content)
}

func TestRecorderSnapshotFailure(t *testing.T) {
	articles, files := newMemArticles(), newMemFiles()
	files.uploadErr = errors.New("minio down")
	NewRecorder(articles, files, zap.NewNop()).Record(context.Background(), "black hole", blackHole)

	require.Len(t, articles.docs, 1)
	for _, d := range articles.docs {
		assert.Empty(t, d.SnapshotKey)
	}
}

func TestRecorderInsertFailureIsSwallowed(t *testing.T) {
	articles := newMemArticles()
	articles.insertErr = errors.New("mongo down")
	assert.NotPanics(t, func() {
		NewRecorder(articles, nil, zap.NewNop()).Record(context.Background(), "pulsar", blackHole)
	})
	var nilRecorder *Recorder
	assert.NotPanics(t, func() { nilRecorder.Record(context.Background(), "pulsar", blackHole) })
}

func newRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/archive", h.List)
	r.Get("/api/archive/{id}", h.Get)
	r.Get("/api/archive/{id}/export", h.Export)
	r.Delete("/api/archive/{id}", h.Delete)
	return r
}

func seeded(t *testing.T) (*memArticles, *memFiles, string) {
	t.Helper()
	articles, files := newMemArticles(), newMemFiles()
	NewRecorder(articles, files, zap.NewNop()).Record(context.Background(), "black hole", blackHole)
	for id := range articles.docs {
		return articles, files, id
	}
	t.Fatal("nothing archived")
	return nil, nil, ""
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandlerListAndGet(t *testing.T) {
	articles, files, id := seeded(t)
	r := newRouter(NewHandler(articles, files, zap.NewNop()))

	rec := do(r, http.MethodGet, "/api/archive")
	require.Equal(t, http.StatusOK, rec.Code)
	var docs []models.ArchivedArticle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID.Hex())

	rec = do(r, http.MethodGet, "/api/archive/"+id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"topic":"black hole"`)

	rec = do(r, http.MethodGet, "/api/archive/"+primitive.NewObjectID().Hex())
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(r, http.MethodGet, "/api/archive?limit=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerExport(t *testing.T) {
	articles, files, id := seeded(t)
	r := newRouter(NewHandler(articles, files, zap.NewNop()))

	rec := do(r, http.MethodGet, "/api/archive/"+id+"/export")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="black-hole.json"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "A region of spacetime.")

	noFiles := newRouter(NewHandler(articles, nil, zap.NewNop()))
	rec = do(noFiles, http.MethodGet, "/api/archive/"+id+"/export")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"snapshot not available"}`, rec.Body.String())
}

func TestHandlerDelete(t *testing.T) {
	articles, files, id := seeded(t)
	r := newRouter(NewHandler(articles, files, zap.NewNop()))

	rec := do(r, http.MethodDelete, "/api/archive/"+id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"deleted"}`, rec.Body.String())
	assert.Empty(t, articles.docs)
	assert.Empty(t, files.objects)

	rec = do(r, http.MethodDelete, "/api/archive/"+id)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerDisabled(t *testing.T) {
	r := newRouter(NewHandler(nil, nil, zap.NewNop()))
	for _, target := range []string{"/api/archive", "/api/archive/abc", "/api/archive/abc/export"} {
		rec := do(r, http.MethodGet, target)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
		assert.JSONEq(t, `{"error":"archive disabled"}`, rec.Body.String())
	}
	rec := do(r, http.MethodDelete, "/api/archive/abc")
	assert.True(t, strings.Contains(rec.Body.String(), "archive disabled"))
}
