package api

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/newsdeck/app/database"
	"github.com/lysyi3m/newsdeck/app/feed"
	"github.com/lysyi3m/newsdeck/app/tasks"
)

func NewHandler(configs ConfigStore, feedRepo database.FeedRepository,
	entryRepo database.EntryRepository, bookmarkRepo database.BookmarkRepository,
	generator GeneratorInterface, extractor ExtractorInterface,
	factory *tasks.Factory, scheduler tasks.TaskSchedulerInterface, version string) *Handler {
	return &Handler{
		configs:      configs,
		feedRepo:     feedRepo,
		entryRepo:    entryRepo,
		bookmarkRepo: bookmarkRepo,
		generator:    generator,
		extractor:    extractor,
		factory:      factory,
		scheduler:    scheduler,
		version:      version,
	}
}

// lookupFeed resolves a configured section and its stored row. It writes
// the error response itself and returns ok=false when the caller should stop.
func (h *Handler) lookupFeed(c *gin.Context) (*feed.Config, *database.Feed, bool) {
	name := c.Param("name")

	feedConfig, err := h.configs.GetConfig(name)
	if err != nil {
		slog.Debug("Feed configuration not found", "feed", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed not found"})
		return nil, nil, false
	}

	stored, err := h.feedRepo.GetFeed(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_feed", "feed", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, nil, false
	}

	if stored == nil {
		slog.Warn("Feed not found in database", "feed", name)
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed not found"})
		return nil, nil, false
	}

	return feedConfig, stored, true
}

// lookupEntry resolves a visible entry by section and position.
func (h *Handler) lookupEntry(c *gin.Context) (*database.Entry, bool) {
	if _, _, ok := h.lookupFeed(c); !ok {
		return nil, false
	}

	name := c.Param("name")
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil || position < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry position"})
		return nil, false
	}

	entry, err := h.entryRepo.GetEntry(name, position)
	if err != nil {
		slog.Error("Database error", "operation", "get_entry", "feed", name, "position", position, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}

	if entry == nil || entry.IsFiltered {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return nil, false
	}

	return entry, true
}

func (h *Handler) GetIndex(apiEnabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.writeIndex(c, apiEnabled)
	}
}

func (h *Handler) writeIndex(c *gin.Context, apiEnabled bool) {
	endpoints := map[string]string{
		"feeds":  "/feeds",
		"feed":   "/feeds/<name>",
		"rss":    "/feeds/<name>/rss",
		"share":  "/feeds/<name>/entries/<position>/share",
		"reader": "/feeds/<name>/entries/<position>/reader",
		"health": "/health",
	}

	if apiEnabled {
		endpoints["bookmarks"] = "/api/bookmarks (GET, POST, requires X-API-Key header)"
		endpoints["details"] = "/api/feeds/<name>/details (requires X-API-Key header)"
		endpoints["reload"] = "/api/feeds/<name>/reload (POST, requires X-API-Key header)"
	}

	c.JSON(http.StatusOK, gin.H{
		"service":     "Newsdeck",
		"version":     h.version,
		"description": "Section-based news reader over RSS feeds",
		"endpoints":   endpoints,
		"api_status": gin.H{
			"enabled":       apiEnabled,
			"auth_required": apiEnabled,
			"header":        "X-API-Key",
		},
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if feedCount, err := h.feedRepo.GetFeedCount(); err == nil {
		health["feeds"] = feedCount
	}

	if bookmarkCount, err := h.bookmarkRepo.GetBookmarkCount(); err == nil {
		health["bookmarks"] = bookmarkCount
	}

	health["loaded_configurations"] = h.configs.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) ListFeeds(c *gin.Context) {
	configs := h.configs.GetConfigs()

	feeds := make([]FeedSummary, 0, len(configs))
	for _, feedConfig := range configs {
		stored, err := h.feedRepo.GetFeed(feedConfig.Name)
		if err != nil {
			slog.Error("Database error", "operation", "get_feed", "feed", feedConfig.Name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		feeds = append(feeds, newFeedSummary(feedConfig, stored))
	}

	c.JSON(http.StatusOK, gin.H{
		"feeds": feeds,
		"total": len(feeds),
	})
}

func (h *Handler) GetFeedEntries(c *gin.Context) {
	feedConfig, stored, ok := h.lookupFeed(c)
	if !ok {
		return
	}

	entries, err := h.entryRepo.GetVisibleEntries(stored.Name, feedConfig.Settings.MaxItems)
	if err != nil {
		slog.Error("Database error", "operation", "get_entries", "feed", stored.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	response := FeedEntriesResponse{
		Feed:    newFeedSummary(feedConfig, stored),
		Entries: make([]EntryResponse, 0, len(entries)),
	}
	for _, entry := range entries {
		response.Entries = append(response.Entries, newEntryResponse(entry))
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetFeedRSS(c *gin.Context) {
	feedConfig, stored, ok := h.lookupFeed(c)
	if !ok {
		return
	}

	entries, err := h.entryRepo.GetVisibleEntries(stored.Name, feedConfig.Settings.MaxItems)
	if err != nil {
		slog.Error("Database error", "operation", "get_entries", "feed", stored.Name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	rss, err := h.generator.Run(*stored, entries)
	if err != nil {
		slog.Error("RSS generation error", "feed", stored.Name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(entries)))
	c.Header("X-Feed-Name", stored.Name)
	c.Header("X-Last-Updated", stored.UpdatedAt.Format(time.RFC3339))

	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}

func (h *Handler) GetEntryShare(c *gin.Context) {
	entry, ok := h.lookupEntry(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, ShareResponse{
		Text:  feed.SharePayload(entry.Title, entry.Link),
		Title: entry.Title,
		Link:  entry.Link,
	})
}

func (h *Handler) GetEntryReader(c *gin.Context) {
	entry, ok := h.lookupEntry(c)
	if !ok {
		return
	}

	if entry.Link == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Entry has no link"})
		return
	}

	article, err := h.extractor.Run(c.Request.Context(), entry.Link)
	if err != nil {
		slog.Warn("Content extraction failed", "feed", entry.FeedName, "position", entry.Position, "url", entry.Link, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to extract article content",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *Handler) APIListBookmarks(c *gin.Context) {
	bookmarks, err := h.bookmarkRepo.GetBookmarks()
	if err != nil {
		slog.Error("Database error", "operation", "get_bookmarks", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	response := make([]BookmarkResponse, 0, len(bookmarks))
	for _, bookmark := range bookmarks {
		response = append(response, newBookmarkResponse(bookmark))
	}

	c.JSON(http.StatusOK, gin.H{
		"bookmarks": response,
		"total":     len(response),
	})
}

func (h *Handler) APIAddBookmark(c *gin.Context) {
	var req AddBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	bookmark := database.Bookmark{
		Title:    req.Title,
		Link:     req.Link,
		Excerpt:  req.Excerpt,
		ImageURL: req.ImageURL,
		FeedName: req.FeedName,
	}

	if req.FeedName != "" && req.Position != nil {
		entry, err := h.entryRepo.GetEntry(req.FeedName, *req.Position)
		if err != nil {
			slog.Error("Database error", "operation", "get_entry", "feed", req.FeedName, "position", *req.Position, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if entry == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
			return
		}
		bookmark.Title = entry.Title
		bookmark.Link = entry.Link
		bookmark.Excerpt = entry.Excerpt
		bookmark.ImageURL = entry.ImageURL
	}

	if bookmark.Link == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bookmark link is required"})
		return
	}

	stored, created, err := h.bookmarkRepo.AddBookmark(bookmark)
	if err != nil {
		slog.Error("Database error", "operation", "add_bookmark", "link", bookmark.Link, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		slog.Info("Bookmark added", "id", stored.ID, "link", stored.Link)
	}

	c.JSON(status, newBookmarkResponse(*stored))
}

func (h *Handler) APIDeleteBookmark(c *gin.Context) {
	id := c.Param("id")

	err := h.bookmarkRepo.DeleteBookmark(id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
		return
	}
	if err != nil {
		slog.Error("Database error", "operation", "delete_bookmark", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) APIGetFeedDetails(c *gin.Context) {
	feedConfig, stored, ok := h.lookupFeed(c)
	if !ok {
		return
	}

	details := gin.H{
		"name":             feedConfig.Name,
		"url":              feedConfig.URL,
		"title":            feedConfig.DisplayTitle(),
		"position":         feedConfig.Position,
		"enabled":          feedConfig.Settings.Enabled,
		"max_items":        feedConfig.Settings.MaxItems,
		"refresh_interval": (time.Duration(feedConfig.Settings.RefreshInterval) * time.Second).String(),
		"timeout":          (time.Duration(feedConfig.Settings.Timeout) * time.Second).String(),
		"filters":          feedConfig.Filters,
	}

	details["database"] = gin.H{
		"feed_type":       stored.FeedType,
		"channel_title":   stored.ChannelTitle,
		"language":        stored.Language,
		"image_url":       stored.ImageURL,
		"last_fetched_at": stored.LastFetchedAt,
		"next_fetch_at":   stored.NextFetchAt,
		"last_error":      stored.LastError,
		"created_at":      stored.CreatedAt,
		"updated_at":      stored.UpdatedAt,
	}

	if stats, err := h.entryRepo.GetEntryStats(stored.Name); err == nil {
		details["entries"] = gin.H{
			"total":    stats.Total,
			"visible":  stats.Visible,
			"filtered": stats.Filtered,
		}
	}

	c.JSON(http.StatusOK, details)
}

// APIReloadFeed rereads the section file, syncs the feed row right away and
// queues a refilter plus a fresh fetch.
func (h *Handler) APIReloadFeed(c *gin.Context) {
	name := c.Param("name")

	feedConfig, err := h.configs.LoadConfig(name)
	if errors.Is(err, os.ErrNotExist) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed configuration not found"})
		return
	}
	if err != nil {
		slog.Error("Error reloading configuration", "feed", name, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Failed to reload configuration",
			"details": err.Error(),
		})
		return
	}

	syncTask := h.factory.SyncFeedConfig(feedConfig)
	syncTask.Start()
	if err := syncTask.Execute(c.Request.Context()); err != nil {
		slog.Error("Error syncing feed config", "feed", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to sync feed configuration",
			"details": err.Error(),
		})
		return
	}

	queued := []tasks.TaskInterface{h.factory.RefilterFeed(feedConfig)}
	if feedConfig.Settings.Enabled {
		queued = append(queued, h.factory.ProcessFeed(feedConfig))
	}

	taskInfo := []gin.H{{"id": syncTask.GetID(), "type": syncTask.GetType(), "status": "completed"}}
	for _, task := range queued {
		if err := h.scheduler.EnqueueTask(task); err != nil {
			slog.Error("Error enqueueing task", "feed", name, "type", string(task.GetType()), "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Failed to enqueue task",
				"details": err.Error(),
			})
			return
		}
		taskInfo = append(taskInfo, gin.H{"id": task.GetID(), "type": task.GetType(), "status": "queued"})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Configuration reloaded and tasks enqueued successfully",
		"feed": gin.H{
			"name":  feedConfig.Name,
			"title": feedConfig.DisplayTitle(),
			"url":   feedConfig.URL,
		},
		"tasks": taskInfo,
	})
}
