package database

import (
	"time"

	"github.com/lysyi3m/news-comb/app/feed"
)

type PreferenceRepository interface {
	// Get returns the persisted preferences, falling back to the fixed
	// defaults when the record is absent or unparsable.
	Get() (feed.UserPreferences, error)

	UpdateSources(sources []feed.NewsSource) error
	UpdateCategories(categories []feed.Category) error
	UpdateAuthors(authors []string) error
	Reset() error
}

type SavedArticleRepository interface {
	List() ([]SavedArticle, error)
	Get(id string) (*SavedArticle, error)

	// Save persists a full article snapshot. Saving an already-saved
	// article is a no-op.
	Save(article feed.Article) error
	Remove(id string) error

	UpdateExtraction(id string, content string, status string, extractedAt *time.Time, extractionError string) error
}
