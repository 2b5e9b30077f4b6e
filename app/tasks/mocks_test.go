package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lysyi3m/newsdeck/app/database"
	"github.com/lysyi3m/newsdeck/app/feed"
)

type mockFeedRepository struct {
	mu       sync.Mutex
	feeds    map[string]*database.Feed
	metadata map[string]database.FeedMetadata
	failures map[string]string
	upserts  int
}

func newMockFeedRepository() *mockFeedRepository {
	return &mockFeedRepository{
		feeds:    make(map[string]*database.Feed),
		metadata: make(map[string]database.FeedMetadata),
		failures: make(map[string]string),
	}
}

func (m *mockFeedRepository) GetFeed(feedName string) (*database.Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	feed, ok := m.feeds[feedName]
	if !ok {
		return nil, nil
	}
	copied := *feed
	return &copied, nil
}

func (m *mockFeedRepository) GetFeeds() ([]database.Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	feeds := make([]database.Feed, 0, len(m.feeds))
	for _, feed := range m.feeds {
		feeds = append(feeds, *feed)
	}
	return feeds, nil
}

func (m *mockFeedRepository) GetFeedCount() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.feeds), nil
}

func (m *mockFeedRepository) UpsertFeed(feedName, feedURL, title string, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	m.feeds[feedName] = &database.Feed{Name: feedName, URL: feedURL, Title: title, Position: position}
	return nil
}

func (m *mockFeedRepository) UpdateFeedMetadata(feedName string, metadata database.FeedMetadata, nextFetch time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	feed, ok := m.feeds[feedName]
	if !ok {
		return fmt.Errorf("feed '%s': %w", feedName, database.ErrNotFound)
	}
	m.metadata[feedName] = metadata
	feed.LastError = ""
	feed.NextFetchAt = &nextFetch
	return nil
}

func (m *mockFeedRepository) RecordFetchFailure(feedName string, reason string, nextFetch time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	feed, ok := m.feeds[feedName]
	if !ok {
		return fmt.Errorf("feed '%s': %w", feedName, database.ErrNotFound)
	}
	m.failures[feedName] = reason
	feed.LastError = reason
	feed.NextFetchAt = &nextFetch
	return nil
}

type mockEntryRepository struct {
	mu       sync.Mutex
	entries  map[string][]database.Entry
	replaces int
	updates  int

	replaceErr error
}

func newMockEntryRepository() *mockEntryRepository {
	return &mockEntryRepository{entries: make(map[string][]database.Entry)}
}

func (m *mockEntryRepository) GetVisibleEntries(feedName string, limit int) ([]database.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var visible []database.Entry
	for _, entry := range m.entries[feedName] {
		if !entry.IsFiltered {
			visible = append(visible, entry)
		}
	}
	return visible, nil
}

func (m *mockEntryRepository) GetAllEntries(feedName string) ([]database.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]database.Entry(nil), m.entries[feedName]...), nil
}

func (m *mockEntryRepository) GetEntry(feedName string, position int) (*database.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.entries[feedName] {
		if entry.Position == position {
			return &entry, nil
		}
	}
	return nil, nil
}

func (m *mockEntryRepository) GetEntryStats(feedName string) (database.EntryStats, error) {
	return database.EntryStats{}, nil
}

func (m *mockEntryRepository) ReplaceEntries(feedName string, entries []database.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaces++
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.entries[feedName] = append([]database.Entry(nil), entries...)
	return nil
}

func (m *mockEntryRepository) UpdateEntryFilterStatus(feedName string, position int, isFiltered bool, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, entry := range m.entries[feedName] {
		if entry.Position == position {
			m.entries[feedName][i].IsFiltered = isFiltered
			m.entries[feedName][i].FilterReason = reason
			m.updates++
			return nil
		}
	}
	return database.ErrNotFound
}

type stubFetcher struct {
	mu    sync.Mutex
	body  string
	err   error
	calls int
}

func (f *stubFetcher) Fetch(ctx context.Context, url string, timeout time.Duration) (*feed.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &feed.Response{Body: []byte(f.body), ContentType: "application/rss+xml"}, nil
}

type stubConfigs struct {
	configs []*feed.Config
}

func (s *stubConfigs) GetConfigs() []*feed.Config {
	return s.configs
}

func (s *stubConfigs) GetEnabledConfigs() []*feed.Config {
	var enabled []*feed.Config
	for _, c := range s.configs {
		if c.Settings.Enabled {
			enabled = append(enabled, c)
		}
	}
	return enabled
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var (
	_ database.FeedRepository  = (*mockFeedRepository)(nil)
	_ database.EntryRepository = (*mockEntryRepository)(nil)
)
