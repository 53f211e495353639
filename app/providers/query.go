package providers

import (
	"net/url"

	"github.com/lysyi3m/news-comb/app/feed"
)

// queryParams is the fixed per-provider parameter-name table. The
// three providers use different names for the same semantic fields;
// this is a lookup, never inferred.
var queryParams = map[feed.NewsSource]struct {
	dateFrom string
	dateTo   string
	category string
}{
	feed.SourceNewsAPI:  {dateFrom: "from", dateTo: "to", category: "category"},
	feed.SourceGuardian: {dateFrom: "from", dateTo: "to", category: "section"},
	feed.SourceNYTimes:  {dateFrom: "begin_date", dateTo: "end_date", category: "news_desk"},
}

// BuildQuery translates the provider-agnostic filter set into one
// provider's query parameters. Note the aggregator only ever delegates
// the keyword upstream; the remaining fields are still translated here
// because this table is the adapter-facing contract.
func BuildQuery(filters feed.SearchFilters, source feed.NewsSource) url.Values {
	params := url.Values{}
	names := queryParams[source]

	if filters.Keyword != "" {
		params.Set("q", filters.Keyword)
	}

	if filters.DateFrom != "" {
		params.Set(names.dateFrom, filters.DateFrom)
	}

	if filters.DateTo != "" {
		params.Set(names.dateTo, filters.DateTo)
	}

	if filters.Category != "" {
		params.Set(names.category, string(filters.Category))
	}

	return params
}
