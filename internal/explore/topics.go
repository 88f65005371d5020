package explore

import (
	"fmt"
	"strings"

	"github.com/ayush/exploring-space/internal/article"
	"github.com/ayush/exploring-space/internal/content"
	"github.com/ayush/exploring-space/internal/models"
)

const (
	// MaxArticles caps the feed; load-more is a no-op beyond it.
	MaxArticles = 18
	// InitialArticles is the size of a load or search batch.
	InitialArticles = 6
	// MoreArticles is the size of a load-more batch.
	MoreArticles = 3
)

// ArticleTopics are sampled for the random feed.
var ArticleTopics = []string{
	"nebula", "galaxy", "black hole", "exoplanet", "supernova", "pulsar",
	"quasar", "dark matter", "cosmic radiation", "stellar evolution",
	"planetary formation", "cosmic microwave background", "red giant",
	"white dwarf", "neutron star", "interstellar medium",
}

// subTopic is a query-derived topic suffix with the tag used for its
// placeholder image.
type subTopic struct {
	suffix   string
	imageTag string
}

// relatedSubTopics follow the main article of a search, in this order.
var relatedSubTopics = []subTopic{
	{"physical properties and composition", "composition"},
	{"historical discovery and observations", "surface"},
	{"atmospheric and surface features", "orbit"},
	{"orbital mechanics and celestial dynamics", "moons"},
	{"notable missions and exploratory efforts", "atmosphere"},
}

// moreSubTopics extend a search on load-more.
var moreSubTopics = []subTopic{
	{"advanced research", "research"},
	{"latest discoveries", "discoveries"},
	{"scientific breakthroughs", "science"},
}

// RelatedSuffixes lists the suffixes of the five related search articles.
func RelatedSuffixes() []string {
	out := make([]string, len(relatedSubTopics))
	for i, s := range relatedSubTopics {
		out[i] = s.suffix
	}
	return out
}

// job is one article to produce in a batch.
type job struct {
	topic         string
	imageFallback string
	fallback      article.FallbackFunc
	idPrefix      string
}

func randomJobs(topics []string, prefix, source string) []job {
	jobs := make([]job, len(topics))
	for i, t := range topics {
		jobs[i] = job{
			topic:         t,
			imageFallback: content.PlaceholderURL(content.SizeArticle, t, "space"),
			fallback:      randomFallback(source),
			idPrefix:      prefix,
		}
	}
	return jobs
}

func searchJobs(q string) []job {
	jobs := []job{{
		topic:         q,
		imageFallback: content.PlaceholderURL(content.SizeArticle, q, "space"),
		fallback:      mainFallback,
		idPrefix:      "search-main",
	}}
	return append(jobs, subTopicJobs(q, relatedSubTopics, "search-related")...)
}

func subTopicJobs(q string, subs []subTopic, prefix string) []job {
	jobs := make([]job, len(subs))
	for i, s := range subs {
		jobs[i] = job{
			topic:         q + " " + s.suffix,
			imageFallback: content.PlaceholderURL(content.SizeArticle, q, s.imageTag),
			fallback:      relatedFallback(q, s.suffix),
			idPrefix:      prefix,
		}
	}
	return jobs
}

func randomFallback(source string) article.FallbackFunc {
	return func(topic, imageURL string) models.Article {
		return models.Article{
			Title:   content.Capitalize(topic) + ": Cosmic Wonders",
			Summary: fmt.Sprintf("Exploring the fascinating properties of %s in our universe", topic),
			Content: fmt.Sprintf("This article explores the fascinating %s and its role in cosmic phenomena. "+
				"Scientists continue to study these celestial objects to better understand the universe.", topic),
			ImageURL:    imageURL,
			Source:      source,
			Tags:        []string{topic, "space", "astronomy"},
			SearchQuery: topic,
		}
	}
}

func mainFallback(q, imageURL string) models.Article {
	return models.Article{
		Title:   "Information about " + q,
		Summary: fmt.Sprintf("Search results for %s in our space database", q),
		Content: fmt.Sprintf("This article contains information about %s. "+
			"This content was created based on available space data and research.", q),
		ImageURL:    imageURL,
		Source:      article.Source,
		Tags:        []string{q, "space", "astronomy"},
		SearchQuery: q,
	}
}

func relatedFallback(q, suffix string) article.FallbackFunc {
	category, _, _ := strings.Cut(suffix, " ")
	return func(topic, imageURL string) models.Article {
		return models.Article{
			Title:   content.Capitalize(q) + ": " + content.Capitalize(suffix),
			Summary: "Detailed information about " + topic,
			Content: fmt.Sprintf("This article explores %s in detail. Through advanced telescopic observation and space missions, "+
				"scientists have gathered significant data about %s which has enhanced our understanding of %s's unique characteristics.",
				topic, q, q),
			ImageURL:    imageURL,
			Source:      "NASA Data & AI Insights",
			Tags:        []string{topic, category, "astronomy"},
			SearchQuery: topic,
		}
	}
}
