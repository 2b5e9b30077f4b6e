package tasks

import (
	"context"
	"time"

	"github.com/lysyi3m/newsdeck/app/feed"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the API to manage background processing.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

type FeedFetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) (*feed.Response, error)
}

type FeedParser interface {
	Run(data []byte) ([]feed.Entry, error)
}

type FeedInspector interface {
	Run(data []byte) (*feed.Metadata, error)
}

type ItemFilterer interface {
	Run(items []feed.Item, config *feed.Config) []feed.Item
}

type ConfigProvider interface {
	GetConfigs() []*feed.Config
	GetEnabledConfigs() []*feed.Config
}

var (
	_ FeedFetcher    = (*feed.Fetcher)(nil)
	_ FeedParser     = (*feed.Parser)(nil)
	_ FeedInspector  = (*feed.Inspector)(nil)
	_ ItemFilterer   = (*feed.Filterer)(nil)
	_ ConfigProvider = (*feed.ConfigCache)(nil)
)
