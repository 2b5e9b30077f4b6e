package tasks

import (
	"context"
	"testing"

	"github.com/lysyi3m/newsdeck/app/database"
	"github.com/lysyi3m/newsdeck/app/feed"
)

func TestRefilterFeedTask_UpdatesChangedEntries(t *testing.T) {
	factory, _, entryRepo := newTestFactory(&stubFetcher{})
	entryRepo.entries["home"] = []database.Entry{
		{FeedName: "home", Position: 0, Title: "Storm closes schools"},
		{FeedName: "home", Position: 1, Title: "Obituary: John Smith", IsFiltered: false},
		{FeedName: "home", Position: 2, Title: "Sponsored post", IsFiltered: true, FilterReason: "Excluded by title filter: contains 'sponsored'"},
	}

	config := newTestConfig()
	config.Filters = []feed.ConfigFilter{{Field: "title", Excludes: []string{"obituary"}}}

	task := factory.RefilterFeed(config)
	task.Start()
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	entries := entryRepo.entries["home"]
	if entries[0].IsFiltered {
		t.Errorf("Expected first entry to stay visible")
	}
	if !entries[1].IsFiltered {
		t.Errorf("Expected obituary to be filtered")
	}
	if entries[2].IsFiltered {
		t.Errorf("Expected sponsored post to become visible")
	}
	if entryRepo.updates != 2 {
		t.Errorf("Expected 2 updates, got %d", entryRepo.updates)
	}
}

func TestSyncFeedConfigTask_Execute(t *testing.T) {
	factory, feedRepo, _ := newTestFactory(&stubFetcher{})
	config := newTestConfig()
	config.Position = 4

	task := factory.SyncFeedConfig(config)
	if task.GetType() != TaskTypeSyncFeedConfig {
		t.Errorf("Expected type %s, got %s", TaskTypeSyncFeedConfig, task.GetType())
	}
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	feed, _ := feedRepo.GetFeed("home")
	if feed == nil {
		t.Fatal("Expected feed to be registered")
	}
	if feed.Title != "Home" || feed.Position != 4 || feed.URL != config.URL {
		t.Errorf("Unexpected feed: %+v", feed)
	}
}
