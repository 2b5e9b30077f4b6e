package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/newsdeck/app/database"
	"github.com/lysyi3m/newsdeck/app/feed"
)

// ProcessFeedTask fetches a section, reduces it to entries and swaps the
// stored snapshot. On failure the previous snapshot stays in place and the
// cause is recorded on the feed.
type ProcessFeedTask struct {
	Task
	FeedConfig *feed.Config
	fetcher    FeedFetcher
	parser     FeedParser
	inspector  FeedInspector
	filterer   ItemFilterer
	feedRepo   database.FeedRepository
	entryRepo  database.EntryRepository
}

func NewProcessFeedTask(feedName string, feedConfig *feed.Config, fetcher FeedFetcher, parser FeedParser, inspector FeedInspector,
	filterer ItemFilterer, feedRepo database.FeedRepository, entryRepo database.EntryRepository) *ProcessFeedTask {
	return &ProcessFeedTask{
		Task:       NewTask(TaskTypeProcessFeed, feedName),
		FeedConfig: feedConfig,
		fetcher:    fetcher,
		parser:     parser,
		inspector:  inspector,
		filterer:   filterer,
		feedRepo:   feedRepo,
		entryRepo:  entryRepo,
	}
}

func (t *ProcessFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.FeedConfig.Settings.Enabled {
		slog.Debug("Feed disabled, skipping", "feed", t.FeedName)
		return nil
	}

	timeout := time.Duration(t.FeedConfig.Settings.Timeout) * time.Second
	resp, err := t.fetcher.Fetch(ctx, t.FeedConfig.URL, timeout)
	if err != nil {
		t.recordFailure(err)
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	metadata, err := t.inspector.Run(resp.Body)
	if err != nil {
		slog.Warn("Failed to inspect feed", "feed", t.FeedName, "error", err)
	}
	if metadata != nil && metadata.FeedType == "atom" {
		slog.Warn("Section serves an Atom document, no <item> entries will be found", "feed", t.FeedName)
	}

	entries, err := t.parser.Run(resp.Body)
	if err != nil {
		t.recordFailure(err)
		return fmt.Errorf("failed to parse feed: %w", err)
	}

	items := feed.NewItems(entries)
	if maxItems := t.FeedConfig.Settings.MaxItems; maxItems > 0 && len(items) > maxItems {
		items = items[:maxItems]
	}

	filtered := t.filterer.Run(items, t.FeedConfig)

	filteredCount := 0
	stored := make([]database.Entry, len(filtered))
	for i, item := range filtered {
		if item.IsFiltered {
			filteredCount++
		}
		stored[i] = database.Entry{
			FeedName:     t.FeedName,
			Position:     item.Position,
			Title:        item.Title,
			Link:         item.Link,
			Excerpt:      item.Excerpt,
			ImageURL:     item.ImageURL,
			IsFiltered:   item.IsFiltered,
			FilterReason: item.FilterReason,
		}
	}

	if err := t.entryRepo.ReplaceEntries(t.FeedName, stored); err != nil {
		t.recordFailure(err)
		return fmt.Errorf("failed to store entries: %w", err)
	}

	if err := t.storeFeedMetadata(metadata); err != nil {
		t.recordFailure(err)
		return fmt.Errorf("failed to store feed metadata: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"feed", t.FeedName,
		"duration", t.GetDuration(),
		"total", len(stored),
		"filtered", filteredCount,
		"visible", len(stored)-filteredCount)

	return nil
}

func (t *ProcessFeedTask) storeFeedMetadata(metadata *feed.Metadata) error {
	var stored database.FeedMetadata
	if metadata != nil {
		stored = database.FeedMetadata{
			FeedType:     metadata.FeedType,
			ChannelTitle: metadata.Title,
			Language:     metadata.Language,
			ImageURL:     metadata.ImageURL,
		}
	}

	return t.feedRepo.UpdateFeedMetadata(t.FeedName, stored, t.nextFetch())
}

func (t *ProcessFeedTask) recordFailure(cause error) {
	reason := cause.Error()
	if errors.Is(cause, feed.ErrMalformed) {
		slog.Warn("Feed document is malformed, keeping previous entries", "feed", t.FeedName, "error", cause)
	}

	if err := t.feedRepo.RecordFetchFailure(t.FeedName, reason, t.nextFetch()); err != nil {
		slog.Error("Failed to record fetch failure", "feed", t.FeedName, "error", err)
	}
}

func (t *ProcessFeedTask) nextFetch() time.Time {
	return time.Now().UTC().Add(time.Duration(t.FeedConfig.Settings.RefreshInterval) * time.Second)
}
