package service

import (
	"context"

	"tasktrack/internal/models"
)

// EventKind discriminates task lifecycle events.
type EventKind string

const (
	EventTaskCreated EventKind = "created"
	EventTaskUpdated EventKind = "updated"
)

// TaskEvent is emitted after a successful task mutation has been
// committed. It carries a snapshot of the task and its owner so
// consumers never re-read the row.
type TaskEvent struct {
	Kind  EventKind
	Task  *models.Task
	Owner *models.User
}

// Notifier consumes task events. Implementations must not block the
// mutation path and must swallow their own failures; a failed
// notification never fails the write that triggered it.
type Notifier interface {
	NotifyTaskSaved(ctx context.Context, event TaskEvent)
}

// NopNotifier discards events.
type NopNotifier struct{}

func (NopNotifier) NotifyTaskSaved(context.Context, TaskEvent) {}
