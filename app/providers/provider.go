package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lysyi3m/news-comb/app/feed"
)

// Provider fetches one upstream news API and normalizes its records
// into canonical articles. Failed records are skipped inside the
// provider; a transport or status failure is returned as *NetworkError
// and drops the whole contribution.
type Provider interface {
	Tag() feed.NewsSource
	Fetch(ctx context.Context, filters feed.SearchFilters) ([]feed.Article, error)
}

// NetworkError is an HTTP transport failure or non-2xx response from
// an upstream provider.
type NetworkError struct {
	Provider   feed.NewsSource
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP error: %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: request failed: %v", e.Provider, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// getJSON issues a GET and decodes the JSON body into out.
func getJSON(ctx context.Context, client *http.Client, provider feed.NewsSource,
	url string, userAgent string, headers map[string]string, out interface{}) error {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &NetworkError{Provider: provider, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &NetworkError{Provider: provider, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", provider, err)
	}

	return nil
}

const descriptionLimit = 150

// truncateDescription caps a long provider body at a fixed short
// length so list views render uniformly.
func truncateDescription(body string) string {
	runes := []rune(body)
	if len(runes) <= descriptionLimit {
		return body
	}
	return string(runes[:descriptionLimit])
}
