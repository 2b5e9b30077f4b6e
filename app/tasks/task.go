package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskType names the kind of work a task performs on one section.
type TaskType string

const (
	TaskTypeProcessFeed    TaskType = "process_feed"
	TaskTypeRefilterFeed   TaskType = "refilter_feed"
	TaskTypeSyncFeedConfig TaskType = "sync_feed_config"
)

// Retry budgets. Processing a section goes over the network and may recover
// on a later attempt; refiltering and config sync only touch the local store.
const (
	DefaultMaxRetries = 3
	LocalMaxRetries   = 1
)

var maxRetriesByType = map[TaskType]int{
	TaskTypeProcessFeed:    DefaultMaxRetries,
	TaskTypeRefilterFeed:   LocalMaxRetries,
	TaskTypeSyncFeedConfig: LocalMaxRetries,
}

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetFeedName() string
	GetRetryCount() int
	GetMaxRetries() int
	IncrementRetryCount()
	CanRetry() bool
	Start()
	GetDuration() time.Duration
}

// Task carries the bookkeeping shared by section tasks: identity, the
// section it targets and its retry budget. The scheduler re-enqueues a
// failed task until CanRetry reports false.
type Task struct {
	ID         string
	Type       TaskType
	FeedName   string
	RetryCount int
	MaxRetries int
	StartedAt  *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetFeedName() string {
	return t.FeedName
}

func (t *Task) GetRetryCount() int {
	return t.RetryCount
}

func (t *Task) GetMaxRetries() int {
	return t.MaxRetries
}

func (t *Task) IncrementRetryCount() {
	t.RetryCount++
}

func (t *Task) CanRetry() bool {
	return t.RetryCount < t.MaxRetries
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

// NewTask creates a task for the named section with the retry budget of
// its type.
func NewTask(taskType TaskType, feedName string) Task {
	maxRetries, ok := maxRetriesByType[taskType]
	if !ok {
		maxRetries = DefaultMaxRetries
	}

	return Task{
		ID:         uuid.NewString(),
		Type:       taskType,
		FeedName:   feedName,
		MaxRetries: maxRetries,
	}
}
