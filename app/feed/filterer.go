package feed

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Filterer applies the client-side facet predicate to an
// already-fetched article set. All facets are optional and
// AND-combined; no network round-trip is involved.
type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

func (f *Filterer) Run(articles []Article, filters SearchFilters) []Article {
	result := make([]Article, 0, len(articles))
	for _, article := range articles {
		if f.matches(article, filters) {
			result = append(result, article)
		}
	}
	return result
}

func (f *Filterer) matches(article Article, filters SearchFilters) bool {
	if filters.Category != "" && article.Category != filters.Category {
		return false
	}

	if filters.Source != "" && article.Source.ID != string(filters.Source) {
		return false
	}

	if filters.Author != "" {
		if !strings.Contains(strings.ToLower(article.Author), strings.ToLower(filters.Author)) {
			return false
		}
	}

	if filters.DateFrom != "" || filters.DateTo != "" {
		publishedAt, err := dateparse.ParseAny(article.PublishedAt)
		if err != nil {
			return false
		}
		publishedAt = publishedAt.UTC()

		if filters.DateFrom != "" {
			from, err := time.Parse("2006-01-02", filters.DateFrom)
			if err != nil || publishedAt.Before(from) {
				return false
			}
		}

		if filters.DateTo != "" {
			to, err := time.Parse("2006-01-02", filters.DateTo)
			if err != nil {
				return false
			}
			// Inclusive upper bound: a same-day article must not be
			// excluded by truncation to midnight.
			to = to.Add(24*time.Hour - time.Millisecond)
			if publishedAt.After(to) {
				return false
			}
		}
	}

	return true
}
