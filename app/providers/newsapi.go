package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lysyi3m/news-comb/app/feed"
)

const newsAPIBaseURL = "https://newsapi.org/v2/top-headlines"

// NewsAPIClient adapts the NewsAPI top-headlines endpoint. Auth goes
// in the X-Api-Key header; records rarely carry a category, so one is
// inferred from the title.
type NewsAPIClient struct {
	BaseURL    string
	httpClient *http.Client
	apiKey     string
	classifier *feed.Classifier
	userAgent  string
}

func NewNewsAPIClient(httpClient *http.Client, apiKey string, classifier *feed.Classifier, userAgent string) *NewsAPIClient {
	return &NewsAPIClient{
		BaseURL:    newsAPIBaseURL,
		httpClient: httpClient,
		apiKey:     apiKey,
		classifier: classifier,
		userAgent:  userAgent,
	}
}

func (c *NewsAPIClient) Tag() feed.NewsSource {
	return feed.SourceNewsAPI
}

// Strict boundary schema for NewsAPI responses.

type newsAPIResponse struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

func (c *NewsAPIClient) Fetch(ctx context.Context, filters feed.SearchFilters) ([]feed.Article, error) {
	params := BuildQuery(filters, feed.SourceNewsAPI)
	if filters.Keyword == "" {
		// Without a query the endpoint needs a language to return
		// headlines at all.
		params.Set("language", "en")
	}

	var response newsAPIResponse
	err := getJSON(ctx, c.httpClient, feed.SourceNewsAPI,
		c.BaseURL+"?"+params.Encode(), c.userAgent,
		map[string]string{"X-Api-Key": c.apiKey}, &response)
	if err != nil {
		return nil, err
	}

	articles := make([]feed.Article, 0, len(response.Articles))
	for _, record := range response.Articles {
		article, err := c.normalize(record)
		if err != nil {
			slog.Debug("Skipping malformed record", "provider", feed.SourceNewsAPI, "error", err)
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func (c *NewsAPIClient) normalize(record newsAPIArticle) (feed.Article, error) {
	if record.Title == "" {
		return feed.Article{}, fmt.Errorf("record has no title")
	}
	if record.URL == "" {
		return feed.Article{}, fmt.Errorf("record has no url")
	}

	sourceID := record.Source.ID
	if sourceID == "" {
		sourceID = string(feed.SourceNewsAPI)
	}
	sourceName := record.Source.Name
	if sourceName == "" {
		sourceName = "NewsAPI"
	}

	return feed.Article{
		ID:          fmt.Sprintf("%s-%s", feed.SourceNewsAPI, record.URL),
		Title:       record.Title,
		Description: record.Description,
		Content:     record.Content,
		URL:         record.URL,
		ImageURL:    record.URLToImage,
		Author:      record.Author,
		Source:      feed.Source{ID: sourceID, Name: sourceName},
		Category:    c.classifier.Classify(record.Title),
		PublishedAt: record.PublishedAt,
	}, nil
}
