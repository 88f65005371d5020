package article

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ayush/exploring-space/internal/httpx"
	"github.com/ayush/exploring-space/internal/models"
)

const generationError = "Sorry, I'm having trouble generating an article right now."

// Service is the part of Synthesizer the handlers need.
type Service interface {
	Generate(ctx context.Context, topic string, images []models.NasaImage) (*models.Article, error)
	Detail(ctx context.Context, slug, imageURL string) models.Article
}

// Handler serves article generation endpoints.
type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(svc Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Generate handles POST /api/generate-article.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	topic := strings.TrimSpace(req.Query)
	if topic == "" {
		httpx.WriteError(w, http.StatusBadRequest, "query is required")
		return
	}

	a, err := h.svc.Generate(r.Context(), topic, req.NasaImages)
	if err != nil {
		h.logger.Error("generate-article failed", zap.String("topic", topic), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, generationError)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, a)
}

// Detail handles GET /api/article/{slug}?imageUrl=.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if strings.TrimSpace(slug) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "topic is required")
		return
	}
	a := h.svc.Detail(r.Context(), slug, r.URL.Query().Get("imageUrl"))
	httpx.WriteJSON(w, http.StatusOK, a)
}
