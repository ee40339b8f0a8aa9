package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates the HTTP server with all routes configured
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
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
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Routes
	setupRoutes(r, handler, apiAccessKey)

	return r
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	// Read-only query endpoints
	api := r.Group("/api")
	{
		api.GET("/content", handler.ListContent)
		api.GET("/content/:id", handler.GetContent)
		api.GET("/authors", handler.ListAuthors)
		api.GET("/authors/:id", handler.GetAuthor)
		api.GET("/authors/:id/content", handler.GetAuthorContent)
		api.GET("/topics", handler.GetTopics)
		api.GET("/status", handler.GetStatus)
	}

	// Manual fetch trigger (conditionally protected with authentication)
	if apiAccessKey != "" {
		api.POST("/fetch", authMiddleware(apiAccessKey), handler.TriggerFetch)
		slog.Info("Fetch trigger endpoint enabled with authentication")
	} else {
		api.POST("/fetch", handler.TriggerFetch)
		slog.Info("Fetch trigger endpoint enabled without authentication (API_ACCESS_KEY not set)")
	}

	// Health endpoint
	r.GET("/health", handler.GetHealth)

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"content":        "/api/content?topic=&region=&subregion=&type=&author=&since=&limit=&offset=",
			"content_by_id":  "/api/content/<id>",
			"authors":        "/api/authors",
			"author_by_id":   "/api/authors/<id>",
			"author_content": "/api/authors/<id>/content",
			"topics":         "/api/topics",
			"status":         "/api/status",
			"health":         "/health",
			"fetch":          "/api/fetch (POST)",
		}
		if apiAccessKey != "" {
			endpoints["fetch"] = "/api/fetch (POST, requires X-API-Key header)"
		}

		c.JSON(200, gin.H{
			"service":     "LinkedIn Comb",
			"description": "LinkedIn article and post indexer with topic-based search, deduplication, and rate-limited fetching",
			"endpoints":   endpoints,
			"api_status": map[string]interface{}{
				"auth_required": apiAccessKey != "",
				"header":        "X-API-Key",
			},
			"documentation": "https://github.com/lysyi3m/linkedin-comb",
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

// authMiddleware creates authentication middleware for protected endpoints
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get API key from X-API-Key header
		providedKey := c.GetHeader("X-API-Key")

		// Also check Authorization header with Bearer prefix
		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
