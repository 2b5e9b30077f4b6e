package api

import (
	"context"
	"time"

	"github.com/lysyi3m/newsdeck/app/database"
	"github.com/lysyi3m/newsdeck/app/feed"
	"github.com/lysyi3m/newsdeck/app/tasks"
)

type GeneratorInterface interface {
	Run(feed database.Feed, entries []database.Entry) (string, error)
}

type ExtractorInterface interface {
	Run(ctx context.Context, link string) (*feed.Article, error)
}

type ConfigStore interface {
	GetConfig(name string) (*feed.Config, error)
	GetConfigs() []*feed.Config
	GetConfigCount() int
	LoadConfig(name string) (*feed.Config, error)
}

var (
	_ GeneratorInterface = (*feed.Generator)(nil)
	_ ExtractorInterface = (*feed.ContentExtractor)(nil)
	_ ConfigStore        = (*feed.ConfigCache)(nil)
)

type Handler struct {
	configs      ConfigStore
	feedRepo     database.FeedRepository
	entryRepo    database.EntryRepository
	bookmarkRepo database.BookmarkRepository
	generator    GeneratorInterface
	extractor    ExtractorInterface
	factory      *tasks.Factory
	scheduler    tasks.TaskSchedulerInterface
	version      string
}

// Response bodies

type FeedSummary struct {
	Name          string     `json:"name"`
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	Position      int        `json:"position"`
	Enabled       bool       `json:"enabled"`
	FeedType      string     `json:"feed_type,omitempty"`
	EntryCount    int        `json:"entry_count"`
	LastFetchedAt *time.Time `json:"last_fetched_at"`
	NextFetchAt   *time.Time `json:"next_fetch_at"`
	LastError     string     `json:"last_error,omitempty"`
}

type EntryResponse struct {
	Position int     `json:"position"`
	Title    string  `json:"title"`
	Link     string  `json:"link"`
	Excerpt  string  `json:"excerpt"`
	ImageURL *string `json:"image_url"`
}

type FeedEntriesResponse struct {
	Feed    FeedSummary     `json:"feed"`
	Entries []EntryResponse `json:"entries"`
}

type ShareResponse struct {
	Text  string `json:"text"`
	Title string `json:"title"`
	Link  string `json:"link"`
}

type BookmarkResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Excerpt   string    `json:"excerpt"`
	ImageURL  *string   `json:"image_url"`
	FeedName  string    `json:"feed_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AddBookmarkRequest either names a stored entry (feed_name + position) or
// carries the article fields directly.
type AddBookmarkRequest struct {
	FeedName string  `json:"feed_name"`
	Position *int    `json:"position"`
	Title    string  `json:"title"`
	Link     string  `json:"link"`
	Excerpt  string  `json:"excerpt"`
	ImageURL *string `json:"image_url"`
}

func newFeedSummary(config *feed.Config, stored *database.Feed) FeedSummary {
	summary := FeedSummary{
		Name:     config.Name,
		Title:    config.DisplayTitle(),
		URL:      config.URL,
		Position: config.Position,
		Enabled:  config.Settings.Enabled,
	}
	if stored != nil {
		summary.FeedType = stored.FeedType
		summary.EntryCount = stored.EntryCount
		summary.LastFetchedAt = stored.LastFetchedAt
		summary.NextFetchAt = stored.NextFetchAt
		summary.LastError = stored.LastError
	}
	return summary
}

func newEntryResponse(entry database.Entry) EntryResponse {
	return EntryResponse{
		Position: entry.Position,
		Title:    entry.Title,
		Link:     entry.Link,
		Excerpt:  entry.Excerpt,
		ImageURL: entry.ImageURL,
	}
}

func newBookmarkResponse(bookmark database.Bookmark) BookmarkResponse {
	return BookmarkResponse{
		ID:        bookmark.ID,
		Title:     bookmark.Title,
		Link:      bookmark.Link,
		Excerpt:   bookmark.Excerpt,
		ImageURL:  bookmark.ImageURL,
		FeedName:  bookmark.FeedName,
		CreatedAt: bookmark.CreatedAt,
	}
}
