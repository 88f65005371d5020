package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Article is a generated (or placeholder) article shown in the explore feed.
type Article struct {
	ID          string    `json:"id"                    bson:"article_id"`
	Title       string    `json:"title"                 bson:"title"`
	Summary     string    `json:"summary"               bson:"summary"`
	Content     string    `json:"content"               bson:"content"`
	ImageURL    string    `json:"imageUrl"              bson:"image_url"`
	Date        time.Time `json:"date"                  bson:"date"`
	Source      string    `json:"source"                bson:"source"`
	Tags        []string  `json:"tags"                  bson:"tags"`
	SearchQuery string    `json:"searchQuery,omitempty" bson:"search_query,omitempty"`

	// Generated is false for locally templated fallbacks.
	Generated bool `json:"-" bson:"-"`
}

// GalleryImage is one entry of the explore gallery.
type GalleryImage struct {
	ID          int    `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ArchivedArticle is a generated article kept in MongoDB.
type ArchivedArticle struct {
	ID          primitive.ObjectID `json:"id"           bson:"_id,omitempty"`
	Topic       string             `json:"topic"        bson:"topic"`
	Article     Article            `json:"article"      bson:"article"`
	SnapshotKey string             `json:"snapshot_key" bson:"snapshot_key"`
	CreatedAt   time.Time          `json:"created_at"   bson:"created_at"`
}

// NasaImage is a candidate image passed along with a generation request.
type NasaImage struct {
	URL   string `json:"url,omitempty"`
	HDURL string `json:"hdurl,omitempty"`
}

// GenerateArticleRequest is the JSON body for POST /api/generate-article.
type GenerateArticleRequest struct {
	Query      string      `json:"query"`
	NasaImages []NasaImage `json:"nasaImages,omitempty"`
}

// ChatRequest is the JSON body for POST /api/ai.
type ChatRequest struct {
	Prompt string `json:"prompt"`
}

// ChatResponse is returned by POST /api/ai.
type ChatResponse struct {
	Response string `json:"response"`
}

// SearchRequest is the JSON body for POST /api/explore/search.
type SearchRequest struct {
	Query string `json:"query"`
}
