package database

import (
	"time"

	"github.com/lysyi3m/news-comb/app/feed"
)

// Extraction status values for saved articles.
const (
	ExtractionPending = "pending"
	ExtractionSuccess = "success"
	ExtractionFailed  = "failed"
	ExtractionSkipped = "skipped"
)

// SavedArticle is a full article snapshot persisted independently of
// the live feed, enriched with the readable-content extraction state.
type SavedArticle struct {
	feed.Article
	SavedAt          time.Time  `json:"savedAt"`
	ExtractionStatus string     `json:"extractionStatus"`
	ExtractedAt      *time.Time `json:"extractedAt,omitempty"`
	ExtractionError  string     `json:"extractionError,omitempty"`
}
