package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lysyi3m/news-comb/app/feed"
)

const guardianBaseURL = "https://content.guardianapis.com/search"

// guardianSectionFilter is the pipe-joined section restriction the
// content-search endpoint expects when no single section is requested.
const guardianSectionFilter = "business|entertainment|politics|world|technology|science|sport|health"

// GuardianClient adapts the Guardian content-search endpoint. Auth is
// a query parameter; extended fields are requested explicitly so the
// response carries thumbnail, byline and body text.
type GuardianClient struct {
	BaseURL    string
	httpClient *http.Client
	apiKey     string
	classifier *feed.Classifier
	userAgent  string
}

func NewGuardianClient(httpClient *http.Client, apiKey string, classifier *feed.Classifier, userAgent string) *GuardianClient {
	return &GuardianClient{
		BaseURL:    guardianBaseURL,
		httpClient: httpClient,
		apiKey:     apiKey,
		classifier: classifier,
		userAgent:  userAgent,
	}
}

func (c *GuardianClient) Tag() feed.NewsSource {
	return feed.SourceGuardian
}

// Strict boundary schema for Guardian responses.

type guardianResponse struct {
	Response struct {
		Status  string            `json:"status"`
		Total   int               `json:"total"`
		Results []guardianArticle `json:"results"`
	} `json:"response"`
}

type guardianArticle struct {
	ID                 string `json:"id"`
	SectionID          string `json:"sectionId"`
	WebTitle           string `json:"webTitle"`
	WebURL             string `json:"webUrl"`
	WebPublicationDate string `json:"webPublicationDate"`
	Fields             struct {
		Headline  string `json:"headline"`
		Thumbnail string `json:"thumbnail"`
		Byline    string `json:"byline"`
		BodyText  string `json:"bodyText"`
	} `json:"fields"`
}

func (c *GuardianClient) Fetch(ctx context.Context, filters feed.SearchFilters) ([]feed.Article, error) {
	params := BuildQuery(filters, feed.SourceGuardian)
	params.Set("api-key", c.apiKey)
	params.Set("show-fields", "headline,thumbnail,byline,bodyText")
	if params.Get("section") == "" {
		params.Set("section", guardianSectionFilter)
	}

	var response guardianResponse
	err := getJSON(ctx, c.httpClient, feed.SourceGuardian,
		c.BaseURL+"?"+params.Encode(), c.userAgent, nil, &response)
	if err != nil {
		return nil, err
	}

	articles := make([]feed.Article, 0, len(response.Response.Results))
	for _, record := range response.Response.Results {
		article, err := c.normalize(record)
		if err != nil {
			slog.Debug("Skipping malformed record", "provider", feed.SourceGuardian, "error", err)
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func (c *GuardianClient) normalize(record guardianArticle) (feed.Article, error) {
	if record.ID == "" {
		return feed.Article{}, fmt.Errorf("record has no id")
	}
	if record.WebTitle == "" {
		return feed.Article{}, fmt.Errorf("record has no title")
	}
	if record.WebURL == "" {
		return feed.Article{}, fmt.Errorf("record has no url")
	}

	return feed.Article{
		ID:          fmt.Sprintf("%s-%s", feed.SourceGuardian, record.ID),
		Title:       record.WebTitle,
		Description: truncateDescription(record.Fields.BodyText),
		URL:         record.WebURL,
		ImageURL:    record.Fields.Thumbnail,
		Author:      record.Fields.Byline,
		Source:      feed.Source{ID: string(feed.SourceGuardian), Name: "The Guardian"},
		Category:    c.classifier.GuardianSection(record.SectionID),
		PublishedAt: record.WebPublicationDate,
	}, nil
}
