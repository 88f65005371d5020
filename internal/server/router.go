package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ayush/exploring-space/internal/archive"
	"github.com/ayush/exploring-space/internal/article"
	"github.com/ayush/exploring-space/internal/chat"
	"github.com/ayush/exploring-space/internal/explore"
	"github.com/ayush/exploring-space/internal/httpx"
	"github.com/ayush/exploring-space/internal/metrics"
	"github.com/ayush/exploring-space/internal/middleware"
	"github.com/ayush/exploring-space/internal/nasa"
)

// Deps are the handlers and shared services mounted by NewRouter.
type Deps struct {
	Nasa    *nasa.Handler
	Article *article.Handler
	Chat    *chat.Handler
	Explore *explore.Handler
	Archive *archive.Handler

	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	Logger     *zap.Logger
	Origins    []string
	SessionTTL time.Duration
}

// NewRouter builds the HTTP routes.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(d.Logger))
	r.Use(chimw.Recoverer)
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/nasa", d.Nasa.Proxy)
		r.Post("/generate-article", d.Article.Generate)
		r.Get("/article/{slug}", d.Article.Detail)
		r.Post("/ai", d.Chat.Reply)

		r.Route("/explore", func(r chi.Router) {
			r.Use(middleware.Session(d.SessionTTL))
			r.Get("/", d.Explore.State)
			r.Delete("/", d.Explore.Reset)
			r.Post("/load", d.Explore.Load)
			r.Post("/search", d.Explore.Search)
			r.Post("/more", d.Explore.More)
		})
		r.Get("/search/recent", d.Explore.Recent)

		r.Route("/archive", func(r chi.Router) {
			r.Get("/", d.Archive.List)
			r.Get("/{id}", d.Archive.Get)
			r.Get("/{id}/export", d.Archive.Export)
			r.Delete("/{id}", d.Archive.Delete)
		})
	})
	return r
}
