package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/linkedin-comb/app/database"
	"github.com/lysyi3m/linkedin-comb/app/topics"
)

const (
	defaultQueryLimit = 50
	maxQueryLimit     = 200
	recentFetchLimit  = 20
)

func NewHandler(authorRepo database.AuthorRepository, contentRepo database.ContentRepository,
	fetchLogRepo database.FetchLogRepository, quota QuotaInterface,
	trigger FetchTriggerInterface, topicsLoader *topics.Loader) *Handler {
	return &Handler{
		authorRepo:   authorRepo,
		contentRepo:  contentRepo,
		fetchLogRepo: fetchLogRepo,
		quota:        quota,
		trigger:      trigger,
		topicsLoader: topicsLoader,
	}
}

func (h *Handler) ListContent(c *gin.Context) {
	query := database.ContentQuery{
		Topic:     c.Query("topic"),
		Region:    c.Query("region"),
		Subregion: c.Query("subregion"),
		AuthorID:  c.Query("author"),
		Limit:     defaultQueryLimit,
	}

	if contentType := c.Query("type"); contentType != "" && contentType != "all" {
		if contentType != string(database.ContentTypeArticle) && contentType != string(database.ContentTypePost) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type, expected 'article', 'post' or 'all'"})
			return
		}
		query.Type = database.ContentType(contentType)
	}

	if since := c.Query("since"); since != "" {
		parsed, err := time.Parse(time.RFC3339, since)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid since, expected RFC3339 timestamp"})
			return
		}
		query.Since = &parsed
	}

	if limitParam := c.Query("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		if limit > maxQueryLimit {
			limit = maxQueryLimit
		}
		query.Limit = limit
	}

	if offsetParam := c.Query("offset"); offsetParam != "" {
		offset, err := strconv.Atoi(offsetParam)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset"})
			return
		}
		query.Offset = offset
	}

	items, err := h.contentRepo.QueryContent(query)
	if err != nil {
		slog.Error("Database error", "operation", "query_content", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"content": items,
		"count":   len(items),
		"limit":   query.Limit,
		"offset":  query.Offset,
	})
}

func (h *Handler) GetContent(c *gin.Context) {
	id := c.Param("id")

	content, err := h.contentRepo.GetContentByID(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_content", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if content == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
		return
	}

	c.JSON(http.StatusOK, content)
}

func (h *Handler) ListAuthors(c *gin.Context) {
	authors, err := h.authorRepo.ListAuthors()
	if err != nil {
		slog.Error("Database error", "operation", "list_authors", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authors": authors,
		"total":   len(authors),
	})
}

func (h *Handler) GetAuthor(c *gin.Context) {
	id := c.Param("id")

	author, err := h.authorRepo.GetAuthorByID(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_author", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if author == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
		return
	}

	c.JSON(http.StatusOK, author)
}

func (h *Handler) GetAuthorContent(c *gin.Context) {
	id := c.Param("id")

	author, err := h.authorRepo.GetAuthorByID(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_author", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if author == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Author not found"})
		return
	}

	items, err := h.contentRepo.QueryContent(database.ContentQuery{
		AuthorID: id,
		Limit:    defaultQueryLimit,
	})
	if err != nil {
		slog.Error("Database error", "operation", "query_content", "author", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"author":  author,
		"content": items,
		"count":   len(items),
	})
}

func (h *Handler) GetTopics(c *gin.Context) {
	config, err := h.topicsLoader.Load()
	if err != nil {
		slog.Error("Failed to load topics configuration", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load topics configuration"})
		return
	}

	regions := make(map[string]interface{}, len(config.Regions))
	for key, region := range config.Regions {
		regions[key] = gin.H{
			"name":       region.Name,
			"subregions": region.Subregions,
			"topics":     region.Topics,
		}
	}

	c.JSON(http.StatusOK, gin.H{"regions": regions})
}

func (h *Handler) GetStatus(c *gin.Context) {
	status := gin.H{
		"fetch_running": h.trigger.IsRunning(),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	}

	if remaining, err := h.quota.Remaining(); err == nil {
		status["remaining_requests_today"] = remaining
	} else {
		slog.Error("Failed to compute remaining budget", "error", err)
		// Explicit null so clients can tell "unavailable" from a stale read
		status["remaining_requests_today"] = nil
	}

	if recent, err := h.fetchLogRepo.RecentFetchLog(recentFetchLimit); err == nil {
		status["recent_fetches"] = recent
	} else {
		slog.Error("Database error", "operation", "recent_fetch_log", "error", err)
	}

	c.JSON(http.StatusOK, status)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if remaining, err := h.quota.Remaining(); err != nil {
		health["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	} else {
		health["remaining_requests_today"] = remaining
	}

	health["status"] = "ok"
	c.JSON(http.StatusOK, health)
}

// TriggerFetch starts a fetch cycle in the background and acks immediately.
// A trigger arriving while a cycle runs is discarded, not queued; the
// discard is still acknowledged, never reported as an error.
func (h *Handler) TriggerFetch(c *gin.Context) {
	started := h.trigger.Trigger()

	message := "Fetch cycle started"
	if !started {
		message = "A fetch cycle is already running"
	}

	c.JSON(http.StatusAccepted, gin.H{
		"started": started,
		"message": message,
	})
}
