package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lysyi3m/news-comb/app/feed"
)

const nytimesBaseURL = "https://api.nytimes.com/svc/search/v2/articlesearch.json"

// nytimesImagePrefix is prepended to the relative multimedia paths the
// article-search endpoint returns.
const nytimesImagePrefix = "https://www.nytimes.com/"

// NYTimesClient adapts the NYT article-search endpoint. Auth is a
// query parameter; results are requested newest-first.
type NYTimesClient struct {
	BaseURL    string
	httpClient *http.Client
	apiKey     string
	classifier *feed.Classifier
	userAgent  string
}

func NewNYTimesClient(httpClient *http.Client, apiKey string, classifier *feed.Classifier, userAgent string) *NYTimesClient {
	return &NYTimesClient{
		BaseURL:    nytimesBaseURL,
		httpClient: httpClient,
		apiKey:     apiKey,
		classifier: classifier,
		userAgent:  userAgent,
	}
}

func (c *NYTimesClient) Tag() feed.NewsSource {
	return feed.SourceNYTimes
}

// Strict boundary schema for NYT article-search responses.

type nytimesResponse struct {
	Status   string `json:"status"`
	Response struct {
		Docs []nytimesArticle `json:"docs"`
	} `json:"response"`
}

type nytimesArticle struct {
	ID       string `json:"_id"`
	WebURL   string `json:"web_url"`
	Snippet  string `json:"snippet"`
	Abstract string `json:"abstract"`
	Headline struct {
		Main string `json:"main"`
	} `json:"headline"`
	PubDate     string `json:"pub_date"`
	SectionName string `json:"section_name"`
	Byline      struct {
		Original string `json:"original"`
	} `json:"byline"`
	Multimedia []struct {
		URL string `json:"url"`
	} `json:"multimedia"`
}

func (c *NYTimesClient) Fetch(ctx context.Context, filters feed.SearchFilters) ([]feed.Article, error) {
	params := BuildQuery(filters, feed.SourceNYTimes)
	params.Set("api-key", c.apiKey)
	params.Set("sort", "newest")

	var response nytimesResponse
	err := getJSON(ctx, c.httpClient, feed.SourceNYTimes,
		c.BaseURL+"?"+params.Encode(), c.userAgent, nil, &response)
	if err != nil {
		return nil, err
	}

	articles := make([]feed.Article, 0, len(response.Response.Docs))
	for _, record := range response.Response.Docs {
		article, err := c.normalize(record)
		if err != nil {
			slog.Debug("Skipping malformed record", "provider", feed.SourceNYTimes, "error", err)
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func (c *NYTimesClient) normalize(record nytimesArticle) (feed.Article, error) {
	if record.ID == "" {
		return feed.Article{}, fmt.Errorf("record has no id")
	}
	if record.Headline.Main == "" {
		return feed.Article{}, fmt.Errorf("record has no headline")
	}
	if record.WebURL == "" {
		return feed.Article{}, fmt.Errorf("record has no url")
	}

	description := record.Abstract
	if description == "" {
		description = record.Snippet
	}

	imageURL := ""
	if len(record.Multimedia) > 0 && record.Multimedia[0].URL != "" {
		imageURL = nytimesImagePrefix + record.Multimedia[0].URL
	}

	return feed.Article{
		ID:          fmt.Sprintf("%s-%s", feed.SourceNYTimes, record.ID),
		Title:       record.Headline.Main,
		Description: truncateDescription(description),
		URL:         record.WebURL,
		ImageURL:    imageURL,
		Author:      strings.TrimPrefix(record.Byline.Original, "By "),
		Source:      feed.Source{ID: string(feed.SourceNYTimes), Name: "The New York Times"},
		Category:    c.classifier.NYTimesSection(record.SectionName),
		PublishedAt: record.PubDate,
	}, nil
}
