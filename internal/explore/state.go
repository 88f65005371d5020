package explore

import (
	"time"

	"github.com/ayush/exploring-space/internal/models"
)

// HistorySize is the number of recent queries kept per session.
const HistorySize = 5

// State is one visitor's explore feed. It is owned by a single request at a
// time; concurrent requests on the same session are last-write-wins.
type State struct {
	Gallery    []models.GalleryImage `json:"gallery"`
	Articles   []models.Article      `json:"articles"`
	SearchMode bool                  `json:"searchMode"`
	Query      string                `json:"query,omitempty"`
	History    []string              `json:"history,omitempty"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

// CanLoadMore reports whether the feed is below MaxArticles.
func (s *State) CanLoadMore() bool {
	return len(s.Articles) < MaxArticles
}

// remember puts q first in History, dropping an older copy.
func (s *State) remember(q string) {
	h := []string{q}
	for _, prev := range s.History {
		if prev != q && len(h) < HistorySize {
			h = append(h, prev)
		}
	}
	s.History = h
}
