package tasks

import (
	"github.com/lysyi3m/newsdeck/app/database"
	"github.com/lysyi3m/newsdeck/app/feed"
)

// Factory builds tasks wired to the shared collaborators.
type Factory struct {
	FeedRepo  database.FeedRepository
	EntryRepo database.EntryRepository
	Fetcher   FeedFetcher
	Parser    FeedParser
	Inspector FeedInspector
	Filterer  ItemFilterer
}

func (f *Factory) SyncFeedConfig(feedConfig *feed.Config) *SyncFeedConfigTask {
	return NewSyncFeedConfigTask(feedConfig.Name, feedConfig, f.FeedRepo)
}

func (f *Factory) ProcessFeed(feedConfig *feed.Config) *ProcessFeedTask {
	return NewProcessFeedTask(feedConfig.Name, feedConfig, f.Fetcher, f.Parser, f.Inspector, f.Filterer, f.FeedRepo, f.EntryRepo)
}

func (f *Factory) RefilterFeed(feedConfig *feed.Config) *RefilterFeedTask {
	return NewRefilterFeedTask(feedConfig.Name, feedConfig, f.Filterer, f.EntryRepo)
}
