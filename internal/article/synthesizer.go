package article

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ayush/exploring-space/internal/content"
	"github.com/ayush/exploring-space/internal/inference"
	"github.com/ayush/exploring-space/internal/metrics"
	"github.com/ayush/exploring-space/internal/models"
)

// Source labels generated articles.
const Source = "NASA Data & Insights"

const noContent = "No content generated"

// Recorder receives every successfully generated article. It must not block
// for long and reports its own failures.
type Recorder interface {
	Record(ctx context.Context, topic string, a models.Article)
}

// FallbackFunc builds the templated article used when generation fails.
type FallbackFunc func(topic, imageURL string) models.Article

// Synthesizer turns a topic into an Article using a text generator.
type Synthesizer struct {
	gen      inference.Generator
	recorder Recorder
	logger   *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

type Option func(*Synthesizer)

func WithRecorder(r Recorder) Option { return func(s *Synthesizer) { s.recorder = r } }

func WithClock(now func() time.Time) Option { return func(s *Synthesizer) { s.now = now } }

func NewSynthesizer(gen inference.Generator, logger *zap.Logger, m *metrics.Metrics, opts ...Option) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Synthesizer{gen: gen, logger: logger, metrics: m, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces an article for topic, taking the image from the first
// candidate with a url or hdurl. Generator failures are returned.
func (s *Synthesizer) Generate(ctx context.Context, topic string, images []models.NasaImage) (*models.Article, error) {
	return s.generate(ctx, topic, ResolveImage("", images, topic))
}

// Synthesize always returns an article. When generation fails it returns
// fallback(topic, imageURL), or DefaultFallback when fallback is nil.
func (s *Synthesizer) Synthesize(ctx context.Context, topic, imageHint string, fallback FallbackFunc) models.Article {
	imageURL := ResolveImage(imageHint, nil, topic)
	a, err := s.generate(ctx, topic, imageURL)
	if err == nil {
		return *a
	}

	s.logger.Warn("article generation failed, using fallback", zap.String("topic", topic), zap.Error(err))
	s.metrics.Fallback("article")
	if fallback == nil {
		fallback = DefaultFallback
	}
	fb := fallback(topic, imageURL)
	if fb.ID == "" {
		fb.ID = strconv.FormatInt(s.now().UnixMilli(), 10)
	}
	if fb.Date.IsZero() {
		fb.Date = s.now().UTC()
	}
	if fb.ImageURL == "" {
		fb.ImageURL = imageURL
	}
	if len(fb.Tags) == 0 || fb.Tags[0] != topic {
		fb.Tags = append([]string{topic}, fb.Tags...)
	}
	fb.Generated = false
	return fb
}

// Detail regenerates the article behind a detail-page slug.
func (s *Synthesizer) Detail(ctx context.Context, slug, imageURL string) models.Article {
	topic := content.TopicFromSlug(slug)
	if imageURL == "" {
		imageURL = content.SlugPlaceholderURL(content.SizeArticle, slug, "space")
	}
	return s.Synthesize(ctx, topic, imageURL, DefaultFallback)
}

func (s *Synthesizer) generate(ctx context.Context, topic, imageURL string) (*models.Article, error) {
	text, err := s.gen.Generate(ctx, Prompt(topic), MaxTokens)
	if errors.Is(err, inference.ErrEmptyCompletion) {
		text, err = "", nil
	}
	if err != nil {
		return nil, fmt.Errorf("generate article %q: %w", topic, err)
	}
	if strings.TrimSpace(text) == "" {
		text = noContent
	}

	body := content.Strip(text)
	now := s.now()
	a := &models.Article{
		ID:          strconv.FormatInt(now.UnixMilli(), 10),
		Title:       content.Capitalize(topic),
		Summary:     content.Summarize(body),
		Content:     body,
		ImageURL:    imageURL,
		Date:        now.UTC(),
		Source:      Source,
		Tags:        []string{topic, "space", "astronomy"},
		SearchQuery: topic,
		Generated:   true,
	}
	if s.recorder != nil {
		s.recorder.Record(ctx, topic, *a)
	}
	return a, nil
}

// ResolveImage prefers hint, then the first candidate with a url or hdurl,
// then a placeholder for topic.
func ResolveImage(hint string, candidates []models.NasaImage, topic string) string {
	if hint != "" {
		return hint
	}
	for _, c := range candidates {
		if c.URL != "" {
			return c.URL
		}
		if c.HDURL != "" {
			return c.HDURL
		}
	}
	return content.PlaceholderURL(content.SizeArticle, topic, "space")
}

// DefaultFallback is the templated article for a topic.
func DefaultFallback(topic, imageURL string) models.Article {
	return models.Article{
		Title: content.TitleCase(topic),
		Content: fmt.Sprintf("This is a detailed article about %s. "+
			"It draws on NASA data related to this topic. The James Webb Space Telescope and other instruments "+
			"provide incredible data about phenomena in our universe, which is used to create these articles.", topic),
		Summary:     fmt.Sprintf("An in-depth exploration of %s based on NASA observations and research.", topic),
		ImageURL:    imageURL,
		Source:      Source,
		Tags:        []string{topic, "space", "astronomy"},
		SearchQuery: topic,
	}
}
