package feed

// Canonical article types shared across providers

type NewsSource string

const (
	SourceNewsAPI  NewsSource = "newsapi"
	SourceGuardian NewsSource = "guardian"
	SourceNYTimes  NewsSource = "nytimes"
)

// AllSources returns every known provider tag in registration order.
// The order is load-bearing: it is the concatenation order of the merge,
// and therefore the tie-break order for equal timestamps.
func AllSources() []NewsSource {
	return []NewsSource{SourceNewsAPI, SourceGuardian, SourceNYTimes}
}

func (s NewsSource) Valid() bool {
	switch s {
	case SourceNewsAPI, SourceGuardian, SourceNYTimes:
		return true
	}
	return false
}

type Category string

const (
	CategoryBusiness      Category = "business"
	CategoryEntertainment Category = "entertainment"
	CategoryGeneral       Category = "general"
	CategoryHealth        Category = "health"
	CategoryScience       Category = "science"
	CategorySports        Category = "sports"
	CategoryTechnology    Category = "technology"
)

func AllCategories() []Category {
	return []Category{
		CategoryBusiness, CategoryEntertainment, CategoryGeneral,
		CategoryHealth, CategoryScience, CategorySports, CategoryTechnology,
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryBusiness, CategoryEntertainment, CategoryGeneral,
		CategoryHealth, CategoryScience, CategorySports, CategoryTechnology:
		return true
	}
	return false
}

type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article is the unified, provider-independent article representation.
// ID is "<providerTag>-<providerNativeId>" so the origin provider is
// always recoverable from the prefix. PublishedAt keeps the provider's
// native ISO-8601 string; display formatting is a presentation concern.
type Article struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content,omitempty"`
	URL         string   `json:"url"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Author      string   `json:"author,omitempty"`
	Source      Source   `json:"source"`
	Category    Category `json:"category,omitempty"`
	PublishedAt string   `json:"publishedAt"`
}

// SearchFilters is the provider-agnostic filter set. Only Keyword is
// ever delegated upstream; every other field is applied client-side
// over the cached full set.
type SearchFilters struct {
	Keyword  string     `json:"keyword"`
	DateFrom string     `json:"dateFrom,omitempty"`
	DateTo   string     `json:"dateTo,omitempty"`
	Category Category   `json:"category,omitempty"`
	Source   NewsSource `json:"source,omitempty"`
	Author   string     `json:"author,omitempty"`
}

func DefaultFilters() SearchFilters {
	return SearchFilters{}
}

// FilterPatch is a partial filter update; nil fields are left untouched,
// a pointer to the zero value clears the facet.
type FilterPatch struct {
	Keyword  *string     `json:"keyword,omitempty"`
	DateFrom *string     `json:"dateFrom,omitempty"`
	DateTo   *string     `json:"dateTo,omitempty"`
	Category *Category   `json:"category,omitempty"`
	Source   *NewsSource `json:"source,omitempty"`
	Author   *string     `json:"author,omitempty"`
}

// UserPreferences is the persisted user configuration consumed by the
// aggregator to decide which providers to fan out to.
type UserPreferences struct {
	Sources    []NewsSource `json:"sources"`
	Categories []Category   `json:"categories"`
	Authors    []string     `json:"authors"`
}

func DefaultPreferences() UserPreferences {
	return UserPreferences{
		Sources:    []NewsSource{SourceNewsAPI, SourceGuardian, SourceNYTimes},
		Categories: []Category{CategoryGeneral, CategoryTechnology, CategoryBusiness},
		Authors:    []string{},
	}
}

type SourceState string

const (
	SourceStatePending SourceState = "pending"
	SourceStateOK      SourceState = "ok"
	SourceStateError   SourceState = "error"
)

// SourceStatus reports one provider's outcome for the latest fetch
// cycle, so a provider that is down is distinguishable from one that
// legitimately returned zero matches.
type SourceStatus struct {
	State        SourceState `json:"state"`
	ArticleCount int         `json:"articleCount"`
	Error        string      `json:"error,omitempty"`
}
