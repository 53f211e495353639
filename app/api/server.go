package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/news-comb/app/cfg"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler) *gin.Engine {
	// Set Gin mode (can be controlled via GIN_MODE environment variable)
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS middleware for API endpoints
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Routes
	setupRoutes(r, handler)

	return r
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler) {
	// Article feed endpoints
	r.GET("/articles", handler.GetArticles)
	r.POST("/articles/refresh", handler.RefreshArticles)
	r.PATCH("/articles/filters", handler.UpdateFilters)
	r.DELETE("/articles/filters", handler.ClearFilters)

	// Preference endpoints
	r.GET("/preferences", handler.GetPreferences)
	r.PUT("/preferences/sources", handler.UpdateSources)
	r.PUT("/preferences/categories", handler.UpdateCategories)
	r.PUT("/preferences/authors", handler.UpdateAuthors)
	r.POST("/preferences/reset", handler.ResetPreferences)

	// Saved article endpoints
	r.GET("/saved", handler.ListSavedArticles)
	r.POST("/saved", handler.SaveArticle)
	r.DELETE("/saved/:id", handler.RemoveSavedArticle)

	// Health endpoint
	r.GET("/health", handler.GetHealth)

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":     "News Comb",
			"version":     cfg.GetVersion(),
			"description": "News aggregator combining NewsAPI, The Guardian and The New York Times into a unified feed",
			"endpoints": map[string]string{
				"articles":    "/articles",
				"refresh":     "/articles/refresh (POST)",
				"filters":     "/articles/filters (PATCH, DELETE)",
				"preferences": "/preferences",
				"saved":       "/saved",
				"health":      "/health",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}
