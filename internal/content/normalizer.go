package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ayush/exploring-space/internal/httpx"
	"github.com/ayush/exploring-space/internal/metrics"
	"github.com/ayush/exploring-space/internal/models"
)

// GallerySize is the number of images in a gallery batch.
const GallerySize = 6

const descriptionLength = 100

// GalleryTopics are searched when the gallery is loaded without a query.
var GalleryTopics = []string{
	"galaxy", "nebula", "star", "cosmos", "universe", "milky way",
	"constellation", "planetary nebula", "supernova", "black hole",
	"pulsar", "quasar", "exoplanet", "astrophysics", "cosmology",
	"stellar formation", "interstellar", "celestial", "astronomy", "orbit",
}

var (
	// used when the image search itself fails
	outageCategories = []string{"space", "galaxy", "nebula", "planet", "star", "cosmos"}
	// used when search and APOD both come back empty
	stockCategories = []string{"galaxy", "nebula", "planet", "star", "cosmos", "universe", "milkyway", "constellation"}
)

// ImageSearcher searches the NASA image library.
type ImageSearcher interface {
	SearchImages(ctx context.Context, term string) (*models.ImageCollection, error)
}

// ApodFetcher fetches random Astronomy Pictures of the Day.
type ApodFetcher interface {
	Apod(ctx context.Context, count int) ([]models.ApodItem, error)
}

// Normalizer turns upstream image payloads into image URLs and gallery
// entries. It never returns an error: every failure yields a placeholder.
type Normalizer struct {
	images  ImageSearcher
	apod    ApodFetcher
	rand    Rand
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewNormalizer(images ImageSearcher, apod ApodFetcher, r Rand, logger *zap.Logger, m *metrics.Metrics) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{images: images, apod: apod, rand: r, logger: logger, metrics: m}
}

// ImageHint returns a random image URL for topic, or fallbackURL when the
// search fails or has nothing usable.
func (n *Normalizer) ImageHint(ctx context.Context, topic, fallbackURL string) string {
	coll, err := n.images.SearchImages(ctx, topic)
	if err != nil {
		n.logger.Warn("image hint lookup failed", zap.String("topic", topic), zap.Error(err))
		n.metrics.Fallback("image_hint")
		return fallbackURL
	}
	if u, ok := PickImage(n.rand, coll); ok {
		return u
	}
	n.metrics.Fallback("image_hint")
	return fallbackURL
}

// Gallery builds a GallerySize batch for query, or for a random gallery topic
// when query is blank.
//
// Fallback order: image search, then APOD, then stock categories. A failed
// image search goes straight to the outage categories: OutageGallery when
// NASA answered with an error status, ErrorGallery when the request or its
// decoding failed.
func (n *Normalizer) Gallery(ctx context.Context, query string) []models.GalleryImage {
	term := strings.TrimSpace(query)
	placeholderTopic := term
	if term == "" {
		term = Pick(n.rand, GalleryTopics)
		placeholderTopic = "space"
	}

	coll, err := n.images.SearchImages(ctx, term)
	if err != nil {
		n.logger.Warn("gallery search failed", zap.String("term", term), zap.Error(err))
		n.metrics.Fallback("gallery")
		var se *httpx.StatusError
		if errors.As(err, &se) {
			return OutageGallery(n.rand)
		}
		return ErrorGallery(n.rand)
	}
	if g := GalleryFromCollection(n.rand, coll, placeholderTopic); len(g) > 0 {
		return g
	}

	items, err := n.apod.Apod(ctx, GallerySize)
	if err != nil {
		n.logger.Warn("gallery apod fallback failed", zap.Error(err))
	} else if g := GalleryFromApod(n.rand, items, placeholderTopic); len(g) > 0 {
		return g
	}

	n.metrics.Fallback("gallery")
	return StockGallery(n.rand)
}

// PickImage takes the first link of a randomly chosen item. ok is false when
// there are no items or the chosen item has no link.
func PickImage(r Rand, coll *models.ImageCollection) (string, bool) {
	items := coll.Items()
	if len(items) == 0 {
		return "", false
	}
	item := Shuffled(r, items)[0]
	if len(item.Links) == 0 || item.Links[0].Href == "" {
		return "", false
	}
	return item.Links[0].Href, true
}

// GalleryFromCollection shuffles the items and maps up to GallerySize of them.
func GalleryFromCollection(r Rand, coll *models.ImageCollection, placeholderTopic string) []models.GalleryImage {
	items := Sample(r, coll.Items(), GallerySize)
	out := make([]models.GalleryImage, 0, len(items))
	for i, item := range items {
		img := models.GalleryImage{
			ID:          i + 1,
			URL:         PlaceholderURL(SizeGallery, placeholderTopic, "astronomy"),
			Title:       fmt.Sprintf("Space Image %d", i+1),
			Description: "Astronomy image",
		}
		if len(item.Links) > 0 && item.Links[0].Href != "" {
			img.URL = item.Links[0].Href
		}
		if len(item.Data) > 0 {
			if item.Data[0].Title != "" {
				img.Title = item.Data[0].Title
			}
			if item.Data[0].Description != "" {
				img.Description = Truncate(item.Data[0].Description, descriptionLength)
			}
		}
		out = append(out, img)
	}
	return out
}

// GalleryFromApod shuffles APOD entries and maps up to GallerySize of them.
func GalleryFromApod(r Rand, items []models.ApodItem, placeholderTopic string) []models.GalleryImage {
	items = Sample(r, items, GallerySize)
	out := make([]models.GalleryImage, 0, len(items))
	for i, item := range items {
		img := models.GalleryImage{
			ID:          i + 1,
			URL:         firstNonEmpty(item.URL, item.HDURL, PlaceholderURL(SizeGallery, placeholderTopic, "astronomy")),
			Title:       firstNonEmpty(item.Title, fmt.Sprintf("APOD Image %d", i+1)),
			Description: "Astronomy Picture of the Day",
		}
		if item.Explanation != "" {
			img.Description = Truncate(item.Explanation, descriptionLength)
		}
		out = append(out, img)
	}
	return out
}

// OutageGallery is one image per outage category, shuffled.
func OutageGallery(r Rand) []models.GalleryImage {
	cats := Shuffled(r, outageCategories)
	out := make([]models.GalleryImage, len(cats))
	for i, c := range cats {
		out[i] = models.GalleryImage{
			ID:          i + 1,
			URL:         PlaceholderURL(SizeGallery, c, "astronomy"),
			Title:       Capitalize(c) + " View",
			Description: "A stunning view of " + c,
		}
	}
	return out
}

// ErrorGallery is OutageGallery with plain titles and numbered descriptions.
func ErrorGallery(r Rand) []models.GalleryImage {
	cats := Shuffled(r, outageCategories)
	out := make([]models.GalleryImage, len(cats))
	for i, c := range cats {
		out[i] = models.GalleryImage{
			ID:          i + 1,
			URL:         PlaceholderURL(SizeGallery, c, "astronomy"),
			Title:       Capitalize(c) + " Image",
			Description: fmt.Sprintf("Space image %d", i+1),
		}
	}
	return out
}

// StockGallery is GallerySize random stock categories.
func StockGallery(r Rand) []models.GalleryImage {
	cats := Sample(r, stockCategories, GallerySize)
	out := make([]models.GalleryImage, len(cats))
	for i, c := range cats {
		out[i] = models.GalleryImage{
			ID:          i + 1,
			URL:         PlaceholderURL(SizeGallery, c, "space"),
			Title:       Capitalize(c) + " Image",
			Description: fmt.Sprintf("A beautiful %s captured by space telescopes", c),
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
