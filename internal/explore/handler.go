package explore

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ayush/exploring-space/internal/content"
	"github.com/ayush/exploring-space/internal/httpx"
	"github.com/ayush/exploring-space/internal/middleware"
	"github.com/ayush/exploring-space/internal/models"
)

// StateStore persists explore state per session.
type StateStore interface {
	Load(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, id string, st *State) error
	Delete(ctx context.Context, id string) error
}

// RecentSearches lists recent distinct queries, newest first.
type RecentSearches interface {
	Recent(ctx context.Context, limit int) ([]string, error)
}

const (
	defaultRecent = 10
	maxRecent     = 50
)

// GalleryCard is a gallery image with its detail-page link.
type GalleryCard struct {
	models.GalleryImage
	Link string `json:"link"`
}

// ArticleCard is an article with its detail-page link.
type ArticleCard struct {
	models.Article
	Link string `json:"link"`
}

// Feed is the explore response body.
type Feed struct {
	Mode           string        `json:"mode"` // random or search
	Query          string        `json:"query,omitempty"`
	Gallery        []GalleryCard `json:"gallery"`
	Articles       []ArticleCard `json:"articles"`
	CanLoadMore    bool          `json:"canLoadMore"`
	LoadingMessage string        `json:"loadingMessage"`
	History        []string      `json:"history"`
	Added          int           `json:"added,omitempty"`
}

// Handler serves the explore feed endpoints.
type Handler struct {
	orch   *Orchestrator
	states StateStore
	recent RecentSearches
	logger *zap.Logger
}

// NewHandler wires the handler; recent may be nil when no search log is
// configured.
func NewHandler(orch *Orchestrator, states StateStore, recent RecentSearches, logger *zap.Logger) *Handler {
	return &Handler{orch: orch, states: states, recent: recent, logger: logger}
}

// State returns the current feed, loading a random one for a new session.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	h.withState(w, r, func(ctx context.Context, st *State) (int, bool) {
		if len(st.Articles) == 0 && len(st.Gallery) == 0 {
			h.orch.Load(ctx, st)
			return 0, true
		}
		return 0, false
	})
}

// Load replaces the feed with a random one.
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	h.withState(w, r, func(ctx context.Context, st *State) (int, bool) {
		h.orch.Load(ctx, st)
		return 0, true
	})
}

// Search replaces the feed with results for the posted query.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "query is required")
		return
	}
	h.withState(w, r, func(ctx context.Context, st *State) (int, bool) {
		return 0, h.orch.Search(ctx, st, req.Query)
	})
}

// More appends a load-more batch to the feed.
func (h *Handler) More(w http.ResponseWriter, r *http.Request) {
	h.withState(w, r, func(ctx context.Context, st *State) (int, bool) {
		n := h.orch.LoadMore(ctx, st)
		return n, n > 0
	})
}

// Reset drops the session's feed and search history and returns an empty
// feed; the next State call loads a fresh random one.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := middleware.SessionID(ctx)
	if id == "" {
		httpx.WriteError(w, http.StatusBadRequest, "missing session")
		return
	}
	if err := h.states.Delete(ctx, id); err != nil {
		h.logger.Error("delete explore state failed", zap.String("session", id), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "failed to reset session")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, NewFeed(&State{}, LoadingMessage(h.orch.Rand(), "")))
}

// Recent lists recent searches across all sessions.
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecent
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			httpx.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxRecent)
	}

	queries := []string{}
	if h.recent != nil {
		got, err := h.recent.Recent(r.Context(), limit)
		if err != nil {
			h.logger.Error("recent searches failed", zap.Error(err))
			httpx.WriteError(w, http.StatusInternalServerError, "failed to load recent searches")
			return
		}
		queries = append(queries, got...)
	}
	httpx.WriteJSON(w, http.StatusOK, map[string][]string{"queries": queries})
}

// withState loads the session state, applies fn and saves the state when fn
// reports a change.
func (h *Handler) withState(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, st *State) (added int, changed bool)) {
	ctx := r.Context()
	id := middleware.SessionID(ctx)
	if id == "" {
		httpx.WriteError(w, http.StatusBadRequest, "missing session")
		return
	}

	st, err := h.states.Load(ctx, id)
	if err != nil {
		h.logger.Error("load explore state failed", zap.String("session", id), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	added, changed := fn(ctx, st)
	if changed {
		if err := h.states.Save(ctx, id, st); err != nil {
			h.logger.Error("save explore state failed", zap.String("session", id), zap.Error(err))
			httpx.WriteError(w, http.StatusInternalServerError, "failed to save session")
			return
		}
	}

	feed := NewFeed(st, LoadingMessage(h.orch.Rand(), st.Query))
	feed.Added = added
	httpx.WriteJSON(w, http.StatusOK, feed)
}

// NewFeed renders st with detail links.
func NewFeed(st *State, loadingMessage string) Feed {
	f := Feed{
		Mode:           "random",
		Query:          st.Query,
		Gallery:        make([]GalleryCard, len(st.Gallery)),
		Articles:       make([]ArticleCard, len(st.Articles)),
		CanLoadMore:    st.CanLoadMore(),
		LoadingMessage: loadingMessage,
		History:        append([]string{}, st.History...),
	}
	if st.SearchMode {
		f.Mode = "search"
	}
	for i, g := range st.Gallery {
		f.Gallery[i] = GalleryCard{GalleryImage: g, Link: content.DetailLink(g.Title, g.URL)}
	}
	for i, a := range st.Articles {
		f.Articles[i] = ArticleCard{Article: a, Link: content.DetailLink(linkTopic(a), a.ImageURL)}
	}
	return f
}

func linkTopic(a models.Article) string {
	if a.SearchQuery != "" {
		return a.SearchQuery
	}
	if len(a.Tags) > 0 {
		return a.Tags[0]
	}
	return a.Title
}
