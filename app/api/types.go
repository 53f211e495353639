package api

import (
	"context"
	"net/http"
	"time"

	"github.com/lysyi3m/news-comb/app/aggregator"
	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/feed"
	"github.com/lysyi3m/news-comb/app/tasks"
)

type AggregatorInterface interface {
	Refresh(ctx context.Context)
	UpdateFilters(ctx context.Context, patch feed.FilterPatch) error
	ClearFilters()
	Snapshot() aggregator.Snapshot
}

var _ AggregatorInterface = (*aggregator.Aggregator)(nil)

type Handler struct {
	aggregator   AggregatorInterface
	prefRepo     database.PreferenceRepository
	savedRepo    database.SavedArticleRepository
	scheduler    tasks.TaskSchedulerInterface
	extractor    *feed.ContentExtractor
	httpClient   *http.Client
	userAgent    string
	fetchTimeout time.Duration
}
