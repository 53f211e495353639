package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/araddon/dateparse"

	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/feed"
	"github.com/lysyi3m/news-comb/app/providers"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Snapshot is a consistent view of the aggregator for the presentation
// layer: the filtered article list, the fetch status, the per-source
// outcomes and the active filters.
type Snapshot struct {
	Articles []feed.Article                        `json:"articles"`
	Status   Status                                `json:"status"`
	Error    string                                `json:"error,omitempty"`
	Filters  feed.SearchFilters                    `json:"filters"`
	Sources  map[feed.NewsSource]feed.SourceStatus `json:"sources"`
}

// Aggregator owns the fetch lifecycle: fan-out across the registered
// providers, merge and sort of the combined result set, and the split
// between server-delegated keyword search and client-side facet
// filtering over the cached full set.
type Aggregator struct {
	providers []providers.Provider
	prefRepo  database.PreferenceRepository
	filterer  *feed.Filterer
	timeout   time.Duration

	mu         sync.Mutex
	filters    feed.SearchFilters
	all        []feed.Article
	visible    []feed.Article
	status     Status
	lastError  string
	sources    map[feed.NewsSource]feed.SourceStatus
	generation uint64
}

func New(providerList []providers.Provider, prefRepo database.PreferenceRepository, timeout time.Duration) *Aggregator {
	return &Aggregator{
		providers: providerList,
		prefRepo:  prefRepo,
		filterer:  feed.NewFilterer(),
		timeout:   timeout,
		filters:   feed.DefaultFilters(),
		status:    StatusIdle,
		sources:   make(map[feed.NewsSource]feed.SourceStatus),
	}
}

// Refresh runs one full fetch cycle: all enabled providers are queried
// concurrently with the keyword-only filter set, the cycle waits for
// every provider to settle, and the merged set replaces the cache. A
// cycle that is stale by the time it completes is discarded
// (last-request-wins).
func (a *Aggregator) Refresh(ctx context.Context) {
	a.mu.Lock()
	a.generation++
	generation := a.generation
	a.status = StatusLoading
	a.lastError = ""

	enabled := a.enabledProvidersLocked()
	statuses := make(map[feed.NewsSource]feed.SourceStatus, len(enabled))
	for _, provider := range enabled {
		statuses[provider.Tag()] = feed.SourceStatus{State: feed.SourceStatePending}
	}
	a.sources = statuses

	// Only the keyword is delegated upstream; everything else stays
	// client-side.
	apiFilters := feed.SearchFilters{Keyword: a.filters.Keyword}
	a.mu.Unlock()

	if len(enabled) == 0 {
		a.mu.Lock()
		defer a.mu.Unlock()
		if generation != a.generation {
			return
		}
		a.status = StatusError
		a.lastError = "no providers enabled"
		a.all = nil
		a.visible = nil
		return
	}

	type providerResult struct {
		tag      feed.NewsSource
		articles []feed.Article
		err      error
	}

	results := make([]providerResult, len(enabled))
	var wg sync.WaitGroup

	for i, provider := range enabled {
		wg.Add(1)
		go func(i int, provider providers.Provider) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			articles, err := provider.Fetch(fetchCtx, apiFilters)
			results[i] = providerResult{tag: provider.Tag(), articles: articles, err: err}
		}(i, provider)
	}

	wg.Wait()

	a.mu.Lock()
	defer a.mu.Unlock()

	if generation != a.generation {
		slog.Debug("Discarding stale fetch cycle", "generation", generation, "current", a.generation)
		return
	}

	merged := make([]feed.Article, 0)
	for _, result := range results {
		if result.err != nil {
			// A failed provider drops its contribution; the aggregate
			// carries on with the rest.
			slog.Warn("Provider fetch failed", "provider", result.tag, "error", result.err)
			a.sources[result.tag] = feed.SourceStatus{
				State: feed.SourceStateError,
				Error: result.err.Error(),
			}
			continue
		}
		a.sources[result.tag] = feed.SourceStatus{
			State:        feed.SourceStateOK,
			ArticleCount: len(result.articles),
		}
		merged = append(merged, result.articles...)
	}

	sortByPublishedAt(merged)

	a.all = merged
	a.status = StatusSuccess
	a.visible = a.filterer.Run(a.all, a.filters)

	slog.Info("Fetch cycle completed", "generation", generation, "providers", len(enabled), "articles", len(merged))
}

// UpdateFilters merges a partial filter update into the current
// filters. A keyword change triggers a new fetch cycle; any other
// change only recomputes the client-side view over the cached set.
func (a *Aggregator) UpdateFilters(ctx context.Context, patch feed.FilterPatch) error {
	a.mu.Lock()

	if patch.Category != nil && *patch.Category != "" && !patch.Category.Valid() {
		a.mu.Unlock()
		return fmt.Errorf("invalid category: %s", *patch.Category)
	}
	if patch.Source != nil && *patch.Source != "" && !patch.Source.Valid() {
		a.mu.Unlock()
		return fmt.Errorf("invalid source: %s", *patch.Source)
	}

	keywordChanged := false
	if patch.Keyword != nil && *patch.Keyword != a.filters.Keyword {
		a.filters.Keyword = *patch.Keyword
		keywordChanged = true
	}
	if patch.DateFrom != nil {
		a.filters.DateFrom = *patch.DateFrom
	}
	if patch.DateTo != nil {
		a.filters.DateTo = *patch.DateTo
	}
	if patch.Category != nil {
		a.filters.Category = *patch.Category
	}
	if patch.Source != nil {
		a.filters.Source = *patch.Source
	}
	if patch.Author != nil {
		a.filters.Author = *patch.Author
	}

	if !keywordChanged {
		a.visible = a.filterer.Run(a.all, a.filters)
		a.mu.Unlock()
		return nil
	}

	a.mu.Unlock()
	a.Refresh(ctx)
	return nil
}

// ClearFilters resets the filters to the defaults and restores the
// visible list to the full cached set. No refetch: the cached set is
// unaffected by non-keyword filters, and the default keyword is empty.
func (a *Aggregator) ClearFilters() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.filters = feed.DefaultFilters()
	a.visible = a.filterer.Run(a.all, a.filters)
}

func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	articles := make([]feed.Article, len(a.visible))
	copy(articles, a.visible)

	sources := make(map[feed.NewsSource]feed.SourceStatus, len(a.sources))
	for tag, status := range a.sources {
		sources[tag] = status
	}

	return Snapshot{
		Articles: articles,
		Status:   a.status,
		Error:    a.lastError,
		Filters:  a.filters,
		Sources:  sources,
	}
}

// enabledProvidersLocked resolves the persisted source preferences
// against the registered providers, preserving registration order so
// the merge concatenation order stays stable.
func (a *Aggregator) enabledProvidersLocked() []providers.Provider {
	preferences, err := a.prefRepo.Get()
	if err != nil {
		slog.Warn("Failed to load preferences, using defaults", "error", err)
		preferences = feed.DefaultPreferences()
	}

	enabledTags := make(map[feed.NewsSource]bool, len(preferences.Sources))
	for _, source := range preferences.Sources {
		enabledTags[source] = true
	}

	enabled := make([]providers.Provider, 0, len(a.providers))
	for _, provider := range a.providers {
		if enabledTags[provider.Tag()] {
			enabled = append(enabled, provider)
		}
	}
	return enabled
}

// sortByPublishedAt orders articles newest first. The sort is stable,
// so articles with equal timestamps keep their concatenation order.
// Unparsable timestamps sort last.
func sortByPublishedAt(articles []feed.Article) {
	keys := make(map[string]time.Time, len(articles))
	for _, article := range articles {
		if _, ok := keys[article.ID]; ok {
			continue
		}
		parsed, err := dateparse.ParseAny(article.PublishedAt)
		if err != nil {
			parsed = time.Time{}
		}
		keys[article.ID] = parsed
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return keys[articles[i].ID].After(keys[articles[j].ID])
	})
}
