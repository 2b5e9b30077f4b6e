package tasks

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTask(t *testing.T) {
	task := NewTask(TaskTypeRefilterFeed, "home")

	if _, err := uuid.Parse(task.GetID()); err != nil {
		t.Errorf("Expected UUID task ID, got %s", task.GetID())
	}
	if task.GetFeedName() != "home" {
		t.Errorf("Expected feed name 'home', got %s", task.GetFeedName())
	}
	if task.GetType() != TaskTypeRefilterFeed {
		t.Errorf("Expected type %s, got %s", TaskTypeRefilterFeed, task.GetType())
	}
	other := NewTask(TaskTypeRefilterFeed, "home")
	if other.GetID() == task.GetID() {
		t.Error("Expected unique task IDs")
	}
}

func TestNewTask_RetryBudgetByType(t *testing.T) {
	tests := []struct {
		taskType TaskType
		expected int
	}{
		{TaskTypeProcessFeed, DefaultMaxRetries},
		{TaskTypeRefilterFeed, LocalMaxRetries},
		{TaskTypeSyncFeedConfig, LocalMaxRetries},
		{TaskType("unknown"), DefaultMaxRetries},
	}

	for _, tt := range tests {
		task := NewTask(tt.taskType, "home")
		if got := task.GetMaxRetries(); got != tt.expected {
			t.Errorf("%s: expected max retries %d, got %d", tt.taskType, tt.expected, got)
		}
	}
}

func TestTask_Retries(t *testing.T) {
	task := NewTask(TaskTypeProcessFeed, "home")

	for i := 0; i < DefaultMaxRetries; i++ {
		if !task.CanRetry() {
			t.Fatalf("Expected retry %d to be allowed", i+1)
		}
		task.IncrementRetryCount()
	}
	if task.CanRetry() {
		t.Error("Expected retries to be exhausted")
	}
}

func TestTask_Duration(t *testing.T) {
	task := NewTask(TaskTypeProcessFeed, "home")
	if task.GetDuration() != 0 {
		t.Error("Expected zero duration before start")
	}

	task.Start()
	time.Sleep(5 * time.Millisecond)
	if task.GetDuration() <= 0 {
		t.Error("Expected positive duration after start")
	}
}
