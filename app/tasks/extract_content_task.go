package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/feed"
)

// ExtractContentTask fetches a saved article's page and stores the
// readable body text on its snapshot, so the article keeps its content
// even after the upstream feed drops it.
type ExtractContentTask struct {
	Task
	httpClient *http.Client
	extractor  *feed.ContentExtractor
	savedRepo  database.SavedArticleRepository
	userAgent  string
	timeout    time.Duration
}

func NewExtractContentTask(articleID string, httpClient *http.Client,
	extractor *feed.ContentExtractor, savedRepo database.SavedArticleRepository,
	userAgent string, timeout time.Duration) *ExtractContentTask {

	return &ExtractContentTask{
		Task:       NewTask(TaskTypeExtractContent, articleID),
		httpClient: httpClient,
		extractor:  extractor,
		savedRepo:  savedRepo,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

func (t *ExtractContentTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	article, err := t.savedRepo.Get(t.ArticleID)
	if err != nil {
		return fmt.Errorf("failed to load saved article: %w", err)
	}
	if article == nil {
		// Removed before the worker got to it.
		slog.Debug("Saved article gone, skipping extraction", "article", t.ArticleID)
		return nil
	}
	if article.ExtractionStatus == database.ExtractionSuccess {
		return nil
	}

	if article.URL == "" {
		now := time.Now().UTC()
		if err := t.savedRepo.UpdateExtraction(t.ArticleID, "", database.ExtractionSkipped, &now, "article has no url"); err != nil {
			slog.Warn("Failed to persist extraction status", "article", t.ArticleID, "error", err)
		}
		return nil
	}

	data, err := t.fetchPage(ctx, article.URL)
	if err != nil {
		t.markFailed(err)
		return fmt.Errorf("failed to fetch article page: %w", err)
	}

	content, err := t.extractor.Run(data)
	if err != nil {
		t.markFailed(err)
		return fmt.Errorf("failed to extract content: %w", err)
	}

	now := time.Now().UTC()
	if err := t.savedRepo.UpdateExtraction(t.ArticleID, content, database.ExtractionSuccess, &now, ""); err != nil {
		return fmt.Errorf("failed to persist extracted content: %w", err)
	}

	slog.Info("Task completed",
		"type", "ExtractContent",
		"article", t.ArticleID,
		"duration", t.GetDuration(),
		"content_length", len(content))

	return nil
}

func (t *ExtractContentTask) fetchPage(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// markFailed is best-effort: the write failure must not mask the
// extraction error driving the retry.
func (t *ExtractContentTask) markFailed(cause error) {
	now := time.Now().UTC()
	if err := t.savedRepo.UpdateExtraction(t.ArticleID, "", database.ExtractionFailed, &now, cause.Error()); err != nil {
		slog.Warn("Failed to persist extraction failure", "article", t.ArticleID, "error", err)
	}
}
