package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ayush/exploring-space/internal/content"
	"github.com/ayush/exploring-space/internal/models"
)

// ErrDisabled is returned when no archive store is configured.
var ErrDisabled = errors.New("archive disabled")

// ArticleStore persists archived articles.
type ArticleStore interface {
	Insert(ctx context.Context, doc *models.ArchivedArticle) (string, error)
	List(ctx context.Context, limit int64) ([]models.ArchivedArticle, error)
	GetByID(ctx context.Context, id string) (*models.ArchivedArticle, error)
	Delete(ctx context.Context, id string) error
}

// FileStore defines the interface for snapshot storage.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
}

// SnapshotKey is the object key of an article's JSON snapshot.
func SnapshotKey(topic, articleID string) string {
	return fmt.Sprintf("articles/%s/%s.json", content.Slug(topic), articleID)
}

// Recorder archives every generated article. Failures are logged and never
// reach the caller.
type Recorder struct {
	store  ArticleStore
	files  FileStore
	logger *zap.Logger
}

// NewRecorder returns a recorder; files may be nil to skip snapshots.
func NewRecorder(articles ArticleStore, files FileStore, logger *zap.Logger) *Recorder {
	return &Recorder{store: articles, files: files, logger: logger}
}

// Record uploads a snapshot of a, then stores a in the archive.
func (r *Recorder) Record(ctx context.Context, topic string, a models.Article) {
	if r == nil || r.store == nil {
		return
	}
	doc := &models.ArchivedArticle{Topic: topic, Article: a}

	if r.files != nil {
		key := SnapshotKey(topic, a.ID)
		if err := r.snapshot(ctx, key, a); err != nil {
			r.logger.Warn("article snapshot failed", zap.String("topic", topic), zap.Error(err))
		} else {
			doc.SnapshotKey = key
		}
	}

	id, err := r.store.Insert(ctx, doc)
	if err != nil {
		r.logger.Warn("article archive failed", zap.String("topic", topic), zap.Error(err))
		return
	}
	r.logger.Debug("article archived", zap.String("topic", topic), zap.String("id", id))
}

func (r *Recorder) snapshot(ctx context.Context, key string, a models.Article) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return r.files.Upload(ctx, key, data, "application/json")
}
