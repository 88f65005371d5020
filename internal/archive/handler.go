package archive

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ayush/exploring-space/internal/content"
	"github.com/ayush/exploring-space/internal/httpx"
	"github.com/ayush/exploring-space/internal/store"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Handler holds archive HTTP handlers.
type Handler struct {
	store  ArticleStore
	files  FileStore
	logger *zap.Logger
}

// NewHandler wires the handler. A nil store disables every route with 503;
// a nil files store disables export.
func NewHandler(articles ArticleStore, files FileStore, logger *zap.Logger) *Handler {
	return &Handler{store: articles, files: files, logger: logger}
}

func (h *Handler) enabled(w http.ResponseWriter) bool {
	if h.store == nil {
		httpx.WriteError(w, http.StatusServiceUnavailable, ErrDisabled.Error())
		return false
	}
	return true
}

// List returns the newest archived articles.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w) {
		return
	}
	limit := int64(defaultLimit)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			httpx.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLimit)
	}

	docs, err := h.store.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("archive list failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "database error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, docs)
}

// Get returns one archived article.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w) {
		return
	}
	doc, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.notFoundOr500(w, err, "archive get failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, doc)
}

// Export streams the article's JSON snapshot from object storage.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w) {
		return
	}
	doc, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.notFoundOr500(w, err, "archive export lookup failed")
		return
	}
	if h.files == nil || doc.SnapshotKey == "" {
		httpx.WriteError(w, http.StatusNotFound, "snapshot not available")
		return
	}

	data, ct, err := h.files.Download(r.Context(), doc.SnapshotKey)
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "snapshot not available")
		return
	}
	if err != nil {
		h.logger.Error("snapshot download failed", zap.String("key", doc.SnapshotKey), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "download failed")
		return
	}
	if ct == "" {
		ct = "application/json"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", content.Slug(doc.Topic)+".json"))
	w.Write(data)
}

// Delete removes an archived article and its snapshot.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w) {
		return
	}
	id := chi.URLParam(r, "id")
	doc, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.notFoundOr500(w, err, "archive delete lookup failed")
		return
	}

	if h.files != nil && doc.SnapshotKey != "" {
		if err := h.files.Remove(r.Context(), doc.SnapshotKey); err != nil && !errors.Is(err, store.ErrNotFound) {
			h.logger.Warn("snapshot remove failed", zap.String("key", doc.SnapshotKey), zap.Error(err))
		}
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.notFoundOr500(w, err, "archive delete failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (h *Handler) notFoundOr500(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "not found")
		return
	}
	h.logger.Error(msg, zap.Error(err))
	httpx.WriteError(w, http.StatusInternalServerError, "database error")
}
