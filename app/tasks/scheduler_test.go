package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lysyi3m/newsdeck/app/database"
	"github.com/lysyi3m/newsdeck/app/feed"
)

type countingTask struct {
	Task
	executions atomic.Int32
	failures   int32
	done       chan struct{}
}

func newCountingTask(failures int32) *countingTask {
	return &countingTask{
		Task:     NewTask(TaskTypeProcessFeed, "test"),
		failures: failures,
		done:     make(chan struct{}),
	}
}

func (t *countingTask) Execute(ctx context.Context) error {
	n := t.executions.Add(1)
	if n <= t.failures {
		return errors.New("temporary failure")
	}
	close(t.done)
	return nil
}

func waitFor(t *testing.T, done <-chan struct{}, timeout time.Duration) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("Timed out waiting for task")
	}
}

func TestScheduler_ExecutesEnqueuedTasks(t *testing.T) {
	factory, _, _ := newTestFactory(&stubFetcher{})
	scheduler := NewScheduler(&stubConfigs{}, factory, time.Hour, 2)
	scheduler.Start()
	defer scheduler.Stop()

	task := newCountingTask(0)
	if err := scheduler.EnqueueTask(task); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	waitFor(t, task.done, 2*time.Second)
	if task.executions.Load() != 1 {
		t.Errorf("Expected 1 execution, got %d", task.executions.Load())
	}
}

func TestScheduler_RetriesFailedTasks(t *testing.T) {
	factory, _, _ := newTestFactory(&stubFetcher{})
	scheduler := NewScheduler(&stubConfigs{}, factory, time.Hour, 1)
	scheduler.retryBaseDelay = 10 * time.Millisecond
	scheduler.Start()
	defer scheduler.Stop()

	task := newCountingTask(2)
	scheduler.EnqueueTask(task)

	waitFor(t, task.done, 2*time.Second)
	if task.executions.Load() != 3 {
		t.Errorf("Expected 3 executions, got %d", task.executions.Load())
	}
	if task.GetRetryCount() != 2 {
		t.Errorf("Expected retry count 2, got %d", task.GetRetryCount())
	}
}

func TestScheduler_RetryDelay(t *testing.T) {
	factory, _, _ := newTestFactory(&stubFetcher{})
	scheduler := NewScheduler(&stubConfigs{}, factory, time.Hour, 1)

	expected := map[int]time.Duration{
		1: time.Second,
		2: 2 * time.Second,
		3: 4 * time.Second,
		6: 30 * time.Second,
	}
	for retry, delay := range expected {
		if got := scheduler.retryDelay(retry); got != delay {
			t.Errorf("Retry %d: expected %v, got %v", retry, delay, got)
		}
	}
}

func TestScheduler_EnqueueAfterStop(t *testing.T) {
	factory, _, _ := newTestFactory(&stubFetcher{})
	scheduler := NewScheduler(&stubConfigs{}, factory, time.Hour, 1)
	scheduler.Start()
	scheduler.Stop()

	if err := scheduler.EnqueueTask(newCountingTask(0)); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled after stop, got: %v", err)
	}
}

func TestScheduler_QueueFull(t *testing.T) {
	factory, _, _ := newTestFactory(&stubFetcher{})
	scheduler := NewScheduler(&stubConfigs{}, factory, time.Hour, 1)

	// Not started, so nothing drains the queue
	for i := 0; i < taskQueueSize; i++ {
		if err := scheduler.EnqueueTask(newCountingTask(0)); err != nil {
			t.Fatalf("Unexpected error at %d: %v", i, err)
		}
	}
	if err := scheduler.EnqueueTask(newCountingTask(0)); err == nil {
		t.Error("Expected error when queue is full")
	}
}

func TestScheduler_StartupSyncsAndProcesses(t *testing.T) {
	fetcher := &stubFetcher{body: sectionRSS}
	factory, feedRepo, entryRepo := newTestFactory(fetcher)

	disabled := newTestConfig()
	disabled.Name = "classifieds"
	disabled.Settings.Enabled = false

	configs := &stubConfigs{configs: []*feed.Config{newTestConfig(), disabled}}
	scheduler := NewScheduler(configs, factory, time.Hour, 1)
	scheduler.Start()
	defer scheduler.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		entryRepo.mu.Lock()
		replaces := entryRepo.replaces
		entryRepo.mu.Unlock()
		if replaces > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if count, _ := feedRepo.GetFeedCount(); count != 2 {
		t.Errorf("Expected both sections to be registered, got %d", count)
	}
	if fetcher.callCount() != 1 {
		t.Errorf("Expected only the enabled section to be fetched, got %d fetches", fetcher.callCount())
	}
	entries, _ := entryRepo.GetAllEntries("home")
	if len(entries) != 3 {
		t.Errorf("Expected 3 entries for home, got %d", len(entries))
	}
}

func TestScheduler_EnqueueTasksSkipsNotDue(t *testing.T) {
	factory, feedRepo, _ := newTestFactory(&stubFetcher{})
	config := newTestConfig()
	scheduler := NewScheduler(&stubConfigs{configs: []*feed.Config{config}}, factory, time.Hour, 1)

	feedRepo.UpsertFeed(config.Name, config.URL, config.Title, 0)
	scheduler.enqueueTasks()
	if len(scheduler.taskQueue) != 1 {
		t.Fatalf("Expected due feed to be enqueued, got %d tasks", len(scheduler.taskQueue))
	}
	<-scheduler.taskQueue

	feedRepo.UpdateFeedMetadata(config.Name, database.FeedMetadata{}, time.Now().Add(time.Hour))
	scheduler.enqueueTasks()
	if len(scheduler.taskQueue) != 0 {
		t.Errorf("Expected feed not yet due to be skipped, got %d tasks", len(scheduler.taskQueue))
	}
}
