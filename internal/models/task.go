package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Task status constants
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Priority constants
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// TaskStatuses lists the valid statuses in display order.
var TaskStatuses = []string{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

// Priorities lists the valid priorities in severity order.
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// PriorityRank maps a priority to the severity used for ordering. The
// stored string is a display value; comparisons go through this table.
var PriorityRank = map[string]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

// ValidTaskStatus reports whether s is one of the task status values.
func ValidTaskStatus(s string) bool {
	return s == TaskStatusTodo || s == TaskStatusInProgress || s == TaskStatusDone
}

// ValidPriority reports whether p is one of the priority values.
func ValidPriority(p string) bool {
	_, ok := PriorityRank[p]
	return ok
}

type Task struct {
	ID          uuid.UUID     `db:"id"`
	OwnerID     uuid.UUID     `db:"owner_id"`
	CategoryID  uuid.NullUUID `db:"category_id"`
	Title       string        `db:"title"`
	Description string        `db:"description"`
	Status      string        `db:"status"`
	Priority    string        `db:"priority"`
	DueDate     sql.NullTime  `db:"due_date"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`

	// Tags holds the task's tag names, loaded alongside the row.
	Tags []string `db:"-"`
}