package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/feed"
	"github.com/lysyi3m/news-comb/app/tasks"
)

func NewHandler(agg AggregatorInterface, prefRepo database.PreferenceRepository,
	savedRepo database.SavedArticleRepository, scheduler tasks.TaskSchedulerInterface,
	httpClient *http.Client, userAgent string, fetchTimeout time.Duration) *Handler {
	return &Handler{
		aggregator:   agg,
		prefRepo:     prefRepo,
		savedRepo:    savedRepo,
		scheduler:    scheduler,
		extractor:    feed.NewContentExtractor(),
		httpClient:   httpClient,
		userAgent:    userAgent,
		fetchTimeout: fetchTimeout,
	}
}

func (h *Handler) GetArticles(c *gin.Context) {
	c.JSON(http.StatusOK, h.aggregator.Snapshot())
}

func (h *Handler) RefreshArticles(c *gin.Context) {
	h.aggregator.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, h.aggregator.Snapshot())
}

func (h *Handler) UpdateFilters(c *gin.Context) {
	var patch feed.FilterPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.aggregator.UpdateFilters(c.Request.Context(), patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.aggregator.Snapshot())
}

func (h *Handler) ClearFilters(c *gin.Context) {
	h.aggregator.ClearFilters()
	c.JSON(http.StatusOK, h.aggregator.Snapshot())
}

func (h *Handler) GetPreferences(c *gin.Context) {
	preferences, err := h.prefRepo.Get()
	if err != nil {
		slog.Error("Database error", "operation", "get_preferences", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, preferences)
}

func (h *Handler) UpdateSources(c *gin.Context) {
	var req struct {
		Sources []feed.NewsSource `json:"sources"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if len(req.Sources) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "At least one source must be enabled"})
		return
	}

	for _, source := range req.Sources {
		if !source.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown source: " + string(source)})
			return
		}
	}

	if err := h.prefRepo.UpdateSources(req.Sources); err != nil {
		slog.Error("Database error", "operation", "update_sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.GetPreferences(c)
}

func (h *Handler) UpdateCategories(c *gin.Context) {
	var req struct {
		Categories []feed.Category `json:"categories"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if len(req.Categories) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "At least one category must be selected"})
		return
	}

	for _, category := range req.Categories {
		if !category.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category: " + string(category)})
			return
		}
	}

	if err := h.prefRepo.UpdateCategories(req.Categories); err != nil {
		slog.Error("Database error", "operation", "update_categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.GetPreferences(c)
}

func (h *Handler) UpdateAuthors(c *gin.Context) {
	var req struct {
		Authors []string `json:"authors"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	// An empty author list is valid: it means no author preference.
	if req.Authors == nil {
		req.Authors = []string{}
	}

	if err := h.prefRepo.UpdateAuthors(req.Authors); err != nil {
		slog.Error("Database error", "operation", "update_authors", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.GetPreferences(c)
}

func (h *Handler) ResetPreferences(c *gin.Context) {
	if err := h.prefRepo.Reset(); err != nil {
		slog.Error("Database error", "operation", "reset_preferences", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.GetPreferences(c)
}

func (h *Handler) ListSavedArticles(c *gin.Context) {
	articles, err := h.savedRepo.List()
	if err != nil {
		slog.Error("Database error", "operation", "list_saved", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"total":    len(articles),
	})
}

func (h *Handler) SaveArticle(c *gin.Context) {
	var article feed.Article
	if err := c.ShouldBindJSON(&article); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if article.ID == "" || article.Title == "" || article.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Article id, title and url are required"})
		return
	}

	if err := h.savedRepo.Save(article); err != nil {
		slog.Error("Database error", "operation", "save_article", "article", article.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	task := tasks.NewExtractContentTask(article.ID, h.httpClient, h.extractor,
		h.savedRepo, h.userAgent, h.fetchTimeout)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing extraction task", "article", article.ID, "error", err)
		// The save itself succeeded; extraction stays pending.
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"article": gin.H{
			"id":    article.ID,
			"title": article.Title,
		},
		"task": gin.H{
			"id":   task.ID,
			"type": task.Type,
		},
	})
}

func (h *Handler) RemoveSavedArticle(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing article id parameter"})
		return
	}

	article, err := h.savedRepo.Get(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_saved", "article", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Saved article not found"})
		return
	}

	if err := h.savedRepo.Remove(id); err != nil {
		slog.Error("Database error", "operation", "remove_saved", "article", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      id,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	snapshot := h.aggregator.Snapshot()
	health["status"] = snapshot.Status
	health["articles"] = len(snapshot.Articles)
	health["sources"] = len(snapshot.Sources)

	if saved, err := h.savedRepo.List(); err == nil {
		health["saved_articles"] = len(saved)
	}

	c.JSON(http.StatusOK, health)
}
