package explore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ayush/exploring-space/internal/article"
	"github.com/ayush/exploring-space/internal/content"
	"github.com/ayush/exploring-space/internal/models"
)

const (
	sourceLoad = "NASA/Space Data"
	sourceMore = "NASA Data & Insights"
)

// Images supplies image hints and galleries.
type Images interface {
	ImageHint(ctx context.Context, topic, fallbackURL string) string
	Gallery(ctx context.Context, query string) []models.GalleryImage
}

// Synthesizer turns a topic into an article, falling back on failure.
type Synthesizer interface {
	Synthesize(ctx context.Context, topic, imageHint string, fallback article.FallbackFunc) models.Article
}

// SearchLog records submitted queries.
type SearchLog interface {
	Record(ctx context.Context, query string) error
}

// Orchestrator drives the explore feed: initial load, search and load-more.
type Orchestrator struct {
	images  Images
	synth   Synthesizer
	rand    content.Rand
	log     SearchLog
	limit   int
	now     func() time.Time
	batchID func() string
	logger  *zap.Logger
}

type Option func(*Orchestrator)

// WithSearchLog records every search in l.
func WithSearchLog(l SearchLog) Option { return func(o *Orchestrator) { o.log = l } }

// WithFanoutLimit bounds concurrent syntheses per batch.
func WithFanoutLimit(n int) Option { return func(o *Orchestrator) { o.limit = n } }

func WithClock(now func() time.Time) Option { return func(o *Orchestrator) { o.now = now } }

func withBatchID(f func() string) Option { return func(o *Orchestrator) { o.batchID = f } }

func NewOrchestrator(images Images, synth Synthesizer, r content.Rand, logger *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		images:  images,
		synth:   synth,
		rand:    r,
		now:     time.Now,
		batchID: func() string { return uuid.NewString()[:8] },
		logger:  logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Rand exposes the orchestrator's random source.
func (o *Orchestrator) Rand() content.Rand { return o.rand }

// Load replaces the feed with a random gallery and InitialArticles random
// articles, and leaves search mode.
func (o *Orchestrator) Load(ctx context.Context, st *State) {
	topics := content.Sample(o.rand, ArticleTopics, InitialArticles)

	var (
		g       errgroup.Group
		gallery []models.GalleryImage
	)
	g.Go(func() error {
		gallery = o.images.Gallery(ctx, "")
		return nil
	})
	articles := o.run(ctx, randomJobs(topics, "random", sourceLoad))
	_ = g.Wait()

	st.Gallery = gallery
	st.Articles = articles
	st.SearchMode = false
	st.Query = ""
	st.UpdatedAt = o.now().UTC()
	o.logger.Info("explore feed loaded", zap.Int("articles", len(articles)))
}

// Search replaces the feed with a gallery for query and a main article plus
// its related sub-topics. A blank query leaves st untouched and returns false.
func (o *Orchestrator) Search(ctx context.Context, st *State, query string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return false
	}

	var (
		g       errgroup.Group
		gallery []models.GalleryImage
	)
	g.Go(func() error {
		gallery = o.images.Gallery(ctx, q)
		return nil
	})
	articles := o.run(ctx, searchJobs(q))
	_ = g.Wait()

	st.Gallery = gallery
	st.Articles = articles
	st.SearchMode = true
	st.Query = q
	st.remember(q)
	st.UpdatedAt = o.now().UTC()

	if o.log != nil {
		if err := o.log.Record(ctx, q); err != nil {
			o.logger.Warn("search log write failed", zap.String("query", q), zap.Error(err))
		}
	}
	o.logger.Info("explore search", zap.String("query", q), zap.Int("articles", len(articles)))
	return true
}

// LoadMore appends up to MoreArticles articles without exceeding MaxArticles
// and returns how many were added.
func (o *Orchestrator) LoadMore(ctx context.Context, st *State) int {
	room := MaxArticles - len(st.Articles)
	if room <= 0 {
		return 0
	}
	n := min(room, MoreArticles)

	var jobs []job
	if st.SearchMode && st.Query != "" {
		jobs = subTopicJobs(st.Query, moreSubTopics[:n], "search-more")
	} else {
		jobs = randomJobs(content.Sample(o.rand, ArticleTopics, n), "loadmore", sourceMore)
	}

	added := o.run(ctx, jobs)
	st.Articles = append(st.Articles, added...)
	st.UpdatedAt = o.now().UTC()
	return len(added)
}

// run synthesizes jobs concurrently; the result order matches jobs.
func (o *Orchestrator) run(ctx context.Context, jobs []job) []models.Article {
	batch := o.batchID()
	ms := o.now().UnixMilli()
	return settleAll(ctx, o.limit, len(jobs), func(ctx context.Context, i int) models.Article {
		j := jobs[i]
		hint := o.images.ImageHint(ctx, j.topic, j.imageFallback)
		a := o.synth.Synthesize(ctx, j.topic, hint, j.fallback)
		a.ID = fmt.Sprintf("%s-%d-%s-%d", j.idPrefix, ms, batch, i)
		return a
	})
}
