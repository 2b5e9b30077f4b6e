package database

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

var ErrNotFound = errors.New("record not found")

type Feed struct {
	Name          string // Configuration identifier derived from filename
	URL           string // Source URL from configuration
	Title         string // Section title from configuration
	Position      int
	FeedType      string // rss, atom, json or unknown, as last detected
	ChannelTitle  string // Title announced by the source document
	Language      string
	ImageURL      string
	LastFetchedAt *time.Time
	NextFetchAt   *time.Time
	LastError     string // Empty after a successful fetch
	EntryCount    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FeedMetadata is what a successful fetch learns about the source.
type FeedMetadata struct {
	FeedType     string
	ChannelTitle string
	Language     string
	ImageURL     string
}

type Entry struct {
	FeedName     string
	Position     int
	Title        string
	Link         string
	Excerpt      string
	ImageURL     *string
	IsFiltered   bool
	FilterReason string
	CreatedAt    time.Time
}

type EntryStats struct {
	Total    int
	Visible  int
	Filtered int
}

type Bookmark struct {
	ID        string
	Title     string
	Link      string
	Excerpt   string
	ImageURL  *string
	FeedName  string
	CreatedAt time.Time
}

// BookmarkID derives the bookmark key from the article link.
func BookmarkID(link string) string {
	sum := sha256.Sum256([]byte(link))
	return hex.EncodeToString(sum[:])
}
