package database

import (
	"time"
)

type FeedRepository interface {
	GetFeed(feedName string) (*Feed, error)
	GetFeeds() ([]Feed, error)
	GetFeedCount() (int, error)

	UpsertFeed(feedName, feedURL, title string, position int) error
	UpdateFeedMetadata(feedName string, metadata FeedMetadata, nextFetch time.Time) error
	RecordFetchFailure(feedName string, reason string, nextFetch time.Time) error
}

type EntryRepository interface {
	GetVisibleEntries(feedName string, limit int) ([]Entry, error)
	GetAllEntries(feedName string) ([]Entry, error)
	GetEntry(feedName string, position int) (*Entry, error)
	GetEntryStats(feedName string) (EntryStats, error)

	ReplaceEntries(feedName string, entries []Entry) error
	UpdateEntryFilterStatus(feedName string, position int, isFiltered bool, reason string) error
}

type BookmarkRepository interface {
	GetBookmarks() ([]Bookmark, error)
	GetBookmark(id string) (*Bookmark, error)
	GetBookmarkCount() (int, error)

	AddBookmark(bookmark Bookmark) (*Bookmark, bool, error)
	DeleteBookmark(id string) error
}

var (
	_ FeedRepository     = (*feedRepository)(nil)
	_ EntryRepository    = (*entryRepository)(nil)
	_ BookmarkRepository = (*bookmarkRepository)(nil)
)
