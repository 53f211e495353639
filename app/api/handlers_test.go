package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/news-comb/app/aggregator"
	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/feed"
	"github.com/lysyi3m/news-comb/app/tasks"
)

type stubAggregator struct {
	snapshot     aggregator.Snapshot
	refreshCalls int
	clearCalls   int
	lastPatch    *feed.FilterPatch
	updateErr    error
}

func (a *stubAggregator) Refresh(ctx context.Context) { a.refreshCalls++ }

func (a *stubAggregator) UpdateFilters(ctx context.Context, patch feed.FilterPatch) error {
	a.lastPatch = &patch
	return a.updateErr
}

func (a *stubAggregator) ClearFilters() { a.clearCalls++ }

func (a *stubAggregator) Snapshot() aggregator.Snapshot { return a.snapshot }

type stubPrefRepository struct {
	preferences feed.UserPreferences

	updatedSources    []feed.NewsSource
	updatedCategories []feed.Category
	updatedAuthors    []string
	resetCalls        int
}

func (r *stubPrefRepository) Get() (feed.UserPreferences, error) { return r.preferences, nil }

func (r *stubPrefRepository) UpdateSources(sources []feed.NewsSource) error {
	r.updatedSources = sources
	r.preferences.Sources = sources
	return nil
}

func (r *stubPrefRepository) UpdateCategories(categories []feed.Category) error {
	r.updatedCategories = categories
	r.preferences.Categories = categories
	return nil
}

func (r *stubPrefRepository) UpdateAuthors(authors []string) error {
	r.updatedAuthors = authors
	r.preferences.Authors = authors
	return nil
}

func (r *stubPrefRepository) Reset() error {
	r.resetCalls++
	r.preferences = feed.DefaultPreferences()
	return nil
}

type stubSavedRepository struct {
	articles []database.SavedArticle
	saved    []feed.Article
	removed  []string
}

func (r *stubSavedRepository) List() ([]database.SavedArticle, error) { return r.articles, nil }

func (r *stubSavedRepository) Get(id string) (*database.SavedArticle, error) {
	for i := range r.articles {
		if r.articles[i].ID == id {
			return &r.articles[i], nil
		}
	}
	return nil, nil
}

func (r *stubSavedRepository) Save(article feed.Article) error {
	r.saved = append(r.saved, article)
	return nil
}

func (r *stubSavedRepository) Remove(id string) error {
	r.removed = append(r.removed, id)
	return nil
}

func (r *stubSavedRepository) UpdateExtraction(id string, content string, status string, extractedAt *time.Time, extractionError string) error {
	return nil
}

type stubScheduler struct {
	enqueued []tasks.TaskInterface
}

func (s *stubScheduler) EnqueueTask(task tasks.TaskInterface) error {
	s.enqueued = append(s.enqueued, task)
	return nil
}

type testEnv struct {
	engine    *gin.Engine
	agg       *stubAggregator
	prefRepo  *stubPrefRepository
	savedRepo *stubSavedRepository
	scheduler *stubScheduler
}

func newTestEnv() *testEnv {
	agg := &stubAggregator{snapshot: aggregator.Snapshot{
		Status:  aggregator.StatusSuccess,
		Filters: feed.DefaultFilters(),
		Sources: map[feed.NewsSource]feed.SourceStatus{},
	}}
	prefRepo := &stubPrefRepository{preferences: feed.DefaultPreferences()}
	savedRepo := &stubSavedRepository{}
	scheduler := &stubScheduler{}

	handler := NewHandler(agg, prefRepo, savedRepo, scheduler,
		&http.Client{}, "Test Agent", 5*time.Second)

	return &testEnv{
		engine:    NewServer(handler),
		agg:       agg,
		prefRepo:  prefRepo,
		savedRepo: savedRepo,
		scheduler: scheduler,
	}
}

func (e *testEnv) request(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func TestGetArticles(t *testing.T) {
	env := newTestEnv()
	env.agg.snapshot.Articles = []feed.Article{
		{ID: "newsapi-1", Title: "Test", URL: "https://example.com/1"},
	}

	w := env.request(t, http.MethodGet, "/articles", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var snapshot aggregator.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(snapshot.Articles) != 1 || snapshot.Articles[0].ID != "newsapi-1" {
		t.Errorf("Unexpected articles in response: %+v", snapshot.Articles)
	}
}

func TestRefreshArticles(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodPost, "/articles/refresh", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if env.agg.refreshCalls != 1 {
		t.Errorf("Expected 1 refresh call, got %d", env.agg.refreshCalls)
	}
}

func TestUpdateFilters(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodPatch, "/articles/filters", `{"category":"technology"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if env.agg.lastPatch == nil || env.agg.lastPatch.Category == nil {
		t.Fatal("Expected the category patch to reach the aggregator")
	}
	if *env.agg.lastPatch.Category != feed.CategoryTechnology {
		t.Errorf("Expected category technology, got %s", *env.agg.lastPatch.Category)
	}
}

func TestUpdateFiltersInvalid(t *testing.T) {
	env := newTestEnv()
	env.agg.updateErr = errors.New("invalid category: bogus")

	w := env.request(t, http.MethodPatch, "/articles/filters", `{"category":"bogus"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestClearFilters(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodDelete, "/articles/filters", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if env.agg.clearCalls != 1 {
		t.Errorf("Expected 1 clear call, got %d", env.agg.clearCalls)
	}
}

func TestGetPreferences(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodGet, "/preferences", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var preferences feed.UserPreferences
	if err := json.Unmarshal(w.Body.Bytes(), &preferences); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(preferences.Sources) != 3 {
		t.Errorf("Expected 3 default sources, got %d", len(preferences.Sources))
	}
}

func TestUpdateSources(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodPut, "/preferences/sources", `{"sources":["guardian"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if len(env.prefRepo.updatedSources) != 1 || env.prefRepo.updatedSources[0] != feed.SourceGuardian {
		t.Errorf("Unexpected updated sources: %v", env.prefRepo.updatedSources)
	}
}

func TestUpdateSourcesEmpty(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodPut, "/preferences/sources", `{"sources":[]}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", w.Code)
	}
	if env.prefRepo.updatedSources != nil {
		t.Error("Expected no update for an empty source list")
	}
}

func TestUpdateSourcesUnknown(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodPut, "/preferences/sources", `{"sources":["bogus"]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestUpdateCategoriesEmpty(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodPut, "/preferences/categories", `{"categories":[]}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", w.Code)
	}
}

func TestUpdateAuthorsEmptyAllowed(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodPut, "/preferences/authors", `{"authors":[]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if env.prefRepo.updatedAuthors == nil {
		t.Error("Expected the empty author list to be persisted")
	}
}

func TestResetPreferences(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodPost, "/preferences/reset", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if env.prefRepo.resetCalls != 1 {
		t.Errorf("Expected 1 reset call, got %d", env.prefRepo.resetCalls)
	}
}

func TestSaveArticle(t *testing.T) {
	env := newTestEnv()

	body := `{"id":"guardian-abc","title":"Test Article","url":"https://example.com/a","source":{"id":"guardian","name":"The Guardian"},"publishedAt":"2024-01-01T10:00:00Z"}`
	w := env.request(t, http.MethodPost, "/saved", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	if len(env.savedRepo.saved) != 1 || env.savedRepo.saved[0].ID != "guardian-abc" {
		t.Errorf("Unexpected saved articles: %+v", env.savedRepo.saved)
	}
	if len(env.scheduler.enqueued) != 1 {
		t.Fatalf("Expected 1 enqueued task, got %d", len(env.scheduler.enqueued))
	}
	if env.scheduler.enqueued[0].GetArticleID() != "guardian-abc" {
		t.Errorf("Expected extraction task for guardian-abc, got %s", env.scheduler.enqueued[0].GetArticleID())
	}
}

func TestSaveArticleMissingFields(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodPost, "/saved", `{"id":"guardian-abc"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if len(env.scheduler.enqueued) != 0 {
		t.Error("Expected no task for a rejected save")
	}
}

func TestRemoveSavedArticle(t *testing.T) {
	env := newTestEnv()
	env.savedRepo.articles = []database.SavedArticle{
		{Article: feed.Article{ID: "nytimes-1", Title: "Test", URL: "https://example.com/1"}},
	}

	w := env.request(t, http.MethodDelete, "/saved/nytimes-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if len(env.savedRepo.removed) != 1 || env.savedRepo.removed[0] != "nytimes-1" {
		t.Errorf("Unexpected removals: %v", env.savedRepo.removed)
	}
}

func TestRemoveSavedArticleNotFound(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodDelete, "/saved/unknown", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestListSavedArticles(t *testing.T) {
	env := newTestEnv()
	env.savedRepo.articles = []database.SavedArticle{
		{Article: feed.Article{ID: "newsapi-1", Title: "Test", URL: "https://example.com/1"}},
	}

	w := env.request(t, http.MethodGet, "/saved", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Articles []database.SavedArticle `json:"articles"`
		Total    int                     `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Total != 1 || len(response.Articles) != 1 {
		t.Errorf("Expected 1 saved article, got %+v", response)
	}
}

func TestGetHealth(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var health map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if health["timestamp"] == "" {
		t.Error("Expected a timestamp in the health response")
	}
}
