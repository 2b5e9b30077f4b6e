package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/newsdeck/app/database"
	"github.com/lysyi3m/newsdeck/app/feed"
)

// RefilterFeedTask reapplies the current filters to the stored snapshot
// without fetching the section again.
type RefilterFeedTask struct {
	Task
	FeedConfig *feed.Config
	filterer   ItemFilterer
	entryRepo  database.EntryRepository
}

func NewRefilterFeedTask(feedName string, feedConfig *feed.Config, filterer ItemFilterer, entryRepo database.EntryRepository) *RefilterFeedTask {
	return &RefilterFeedTask{
		Task:       NewTask(TaskTypeRefilterFeed, feedName),
		FeedConfig: feedConfig,
		filterer:   filterer,
		entryRepo:  entryRepo,
	}
}

func (t *RefilterFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	stored, err := t.entryRepo.GetAllEntries(t.FeedName)
	if err != nil {
		return fmt.Errorf("failed to get feed entries: %w", err)
	}

	items := make([]feed.Item, len(stored))
	for i, entry := range stored {
		items[i] = feed.Item{
			Entry: feed.Entry{
				Title:    entry.Title,
				Link:     entry.Link,
				Excerpt:  entry.Excerpt,
				ImageURL: entry.ImageURL,
			},
			Position: entry.Position,
		}
	}

	filtered := t.filterer.Run(items, t.FeedConfig)

	updatedCount := 0
	errorCount := 0

	for i, item := range filtered {
		original := stored[i]
		if original.IsFiltered == item.IsFiltered && original.FilterReason == item.FilterReason {
			continue
		}

		err := t.entryRepo.UpdateEntryFilterStatus(t.FeedName, original.Position, item.IsFiltered, item.FilterReason)
		if err != nil {
			slog.Error("Failed to update entry filter status", "feed", t.FeedName, "position", original.Position, "error", err)
			errorCount++
		} else {
			updatedCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"feed", t.FeedName,
		"duration", t.GetDuration(),
		"success", updatedCount,
		"errors", errorCount)

	return nil
}
