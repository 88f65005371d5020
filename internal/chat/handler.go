package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ayush/exploring-space/internal/httpx"
	"github.com/ayush/exploring-space/internal/inference"
	"github.com/ayush/exploring-space/internal/models"
)

// MaxTokens bounds chat replies.
const MaxTokens = 200

const (
	defaultReply = "I'm sorry, I couldn't generate a response at this time."
	serviceError = "Sorry, I'm having trouble connecting to the AI service right now. Please try again later."
)

// Handler serves POST /api/ai.
type Handler struct {
	gen    inference.Generator
	logger *zap.Logger
}

func NewHandler(gen inference.Generator, logger *zap.Logger) *Handler {
	return &Handler{gen: gen, logger: logger}
}

// Reply forwards the prompt to the generator.
func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	text, err := h.gen.Generate(r.Context(), req.Prompt, MaxTokens)
	if err != nil && !errors.Is(err, inference.ErrEmptyCompletion) {
		h.logger.Error("chat completion failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, serviceError)
		return
	}
	if strings.TrimSpace(text) == "" {
		text = defaultReply
	}
	httpx.WriteJSON(w, http.StatusOK, models.ChatResponse{Response: text})
}
