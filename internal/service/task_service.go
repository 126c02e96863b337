// internal/service/task_service.go
package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"tasktrack/internal/models"
	"tasktrack/internal/repository"
)

// Validation messages, field-keyed in the error map.
const (
	msgFieldRequired   = "This field is required."
	msgTitleTooLong    = "Ensure this field has no more than 255 characters."
	msgInvalidChoice   = "%q is not a valid choice."
	msgInvalidCategory = "Invalid category."
)

// TaskService implements the task mutation and query operations. Every
// operation is scoped to the acting user; the owner of a task is set
// from that identity and never from the payload.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	tagRepo      *repository.TagRepository
	userRepo     *repository.UserRepository
	notifier     Notifier
}

func NewTaskService(
	taskRepo *repository.TaskRepository,
	categoryRepo *repository.CategoryRepository,
	tagRepo *repository.TagRepository,
	userRepo *repository.UserRepository,
	notifier Notifier,
) *TaskService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &TaskService{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

// TaskInput carries the fields a client may set on creation. Tags is a
// list of free-text names resolved through the tag normalizer.
type TaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	CategoryID  *uuid.UUID
	Tags        []string
}

// TaskUpdateInput carries a partial update. A nil pointer leaves the
// field untouched; the Set flags distinguish "absent" from "explicitly
// cleared" for the nullable fields, and TagsSet marks a full tag-set
// replacement.
type TaskUpdateInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	DueDateSet  bool
	CategoryID  *uuid.UUID
	CategorySet bool
	Tags        []string
	TagsSet     bool
}

// Create validates the input, applies defaults, force-assigns the owner,
// resolves tags and persists the task, then fires the created event.
func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, input TaskInput) (*models.Task, error) {
	verr := NewValidationError()

	if input.Title == "" {
		verr.Add("title", msgFieldRequired)
	} else if len(input.Title) > 255 {
		verr.Add("title", msgTitleTooLong)
	}
	if input.Description == "" {
		verr.Add("description", msgFieldRequired)
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusTodo
	} else if !models.ValidTaskStatus(status) {
		verr.Add("status", fmt.Sprintf(msgInvalidChoice, status))
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityLow
	} else if !models.ValidPriority(priority) {
		verr.Add("priority", fmt.Sprintf(msgInvalidChoice, priority))
	}

	task := &models.Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
	}

	if input.DueDate != nil {
		task.DueDate = sql.NullTime{Time: normalizeDate(*input.DueDate), Valid: true}
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, ownerID, *input.CategoryID); err != nil {
			if err == repository.ErrNotFound {
				verr.Add("category_id", msgInvalidCategory)
			} else {
				return nil, err
			}
		} else {
			task.CategoryID = uuid.NullUUID{UUID: *input.CategoryID, Valid: true}
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	tagIDs, tagNames, err := s.resolveTags(ctx, input.Tags)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, task, tagIDs); err != nil {
		return nil, err
	}
	task.Tags = tagNames

	s.fireEvent(ctx, EventTaskCreated, task)
	return task, nil
}

// Update applies a partial update to the owner's task. A supplied tag
// list replaces the task's tag set entirely; an omitted one leaves it
// untouched.
func (s *TaskService) Update(ctx context.Context, ownerID, id uuid.UUID, input TaskUpdateInput) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	verr := NewValidationError()

	if input.Title != nil {
		if *input.Title == "" {
			verr.Add("title", msgFieldRequired)
		} else if len(*input.Title) > 255 {
			verr.Add("title", msgTitleTooLong)
		} else {
			task.Title = *input.Title
		}
	}
	if input.Description != nil {
		if *input.Description == "" {
			verr.Add("description", msgFieldRequired)
		} else {
			task.Description = *input.Description
		}
	}
	if input.Status != nil {
		if !models.ValidTaskStatus(*input.Status) {
			verr.Add("status", fmt.Sprintf(msgInvalidChoice, *input.Status))
		} else {
			task.Status = *input.Status
		}
	}
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			verr.Add("priority", fmt.Sprintf(msgInvalidChoice, *input.Priority))
		} else {
			task.Priority = *input.Priority
		}
	}
	if input.DueDateSet {
		if input.DueDate != nil {
			task.DueDate = sql.NullTime{Time: normalizeDate(*input.DueDate), Valid: true}
		} else {
			task.DueDate = sql.NullTime{}
		}
	}
	if input.CategorySet {
		if input.CategoryID != nil {
			if _, err := s.categoryRepo.GetByID(ctx, ownerID, *input.CategoryID); err != nil {
				if err == repository.ErrNotFound {
					verr.Add("category_id", msgInvalidCategory)
				} else {
					return nil, err
				}
			} else {
				task.CategoryID = uuid.NullUUID{UUID: *input.CategoryID, Valid: true}
			}
		} else {
			task.CategoryID = uuid.NullUUID{}
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	var tagIDs []uuid.UUID
	if input.TagsSet {
		ids, names, err := s.resolveTags(ctx, input.Tags)
		if err != nil {
			return nil, err
		}
		tagIDs = ids
		task.Tags = names
	}

	if err := s.taskRepo.Update(ctx, task, tagIDs, input.TagsSet); err != nil {
		return nil, err
	}

	s.fireEvent(ctx, EventTaskUpdated, task)
	return task, nil
}

// Get returns the owner's task.
func (s *TaskService) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	return s.taskRepo.GetByID(ctx, ownerID, id)
}

// List returns one page of the owner's tasks and the total match count.
func (s *TaskService) List(ctx context.Context, ownerID uuid.UUID, filter repository.TaskFilter) ([]*models.Task, int, error) {
	return s.taskRepo.List(ctx, ownerID, filter)
}

// Delete removes the owner's task and its tag associations. The tags
// themselves stay, even when no other task references them.
func (s *TaskService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.taskRepo.Delete(ctx, ownerID, id)
}

// Complete marks the owner's task as done. It goes through the same
// save path as a generic update and so fires the updated event.
func (s *TaskService) Complete(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	task.Status = models.TaskStatusDone
	if err := s.taskRepo.Update(ctx, task, nil, false); err != nil {
		return nil, err
	}

	s.fireEvent(ctx, EventTaskUpdated, task)
	return task, nil
}

// TaskStatistics aggregates the acting user's tasks; buckets with no
// matching tasks are present with a zero count.
type TaskStatistics struct {
	TotalTasks     int            `json:"total_tasks"`
	StatusCounts   map[string]int `json:"status_counts"`
	PriorityCounts map[string]int `json:"priority_counts"`
}

// Statistics computes the owner's task counts by status and priority.
func (s *TaskService) Statistics(ctx context.Context, ownerID uuid.UUID) (*TaskStatistics, error) {
	total, byStatus, byPriority, err := s.taskRepo.Statistics(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &TaskStatistics{
		TotalTasks:     total,
		StatusCounts:   make(map[string]int, len(models.TaskStatuses)),
		PriorityCounts: make(map[string]int, len(models.Priorities)),
	}
	for _, status := range models.TaskStatuses {
		stats.StatusCounts[status] = byStatus[status]
	}
	for _, priority := range models.Priorities {
		stats.PriorityCounts[priority] = byPriority[priority]
	}
	return stats, nil
}

// resolveTags runs names through the tag normalizer and returns the
// canonical IDs plus the deduplicated names, sorted for stable output.
func (s *TaskService) resolveTags(ctx context.Context, names []string) ([]uuid.UUID, []string, error) {
	if len(names) == 0 {
		return nil, []string{}, nil
	}

	tags, err := s.tagRepo.EnsureByNames(ctx, names)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve tags: %w", err)
	}

	ids := make([]uuid.UUID, len(tags))
	resolved := make([]string, len(tags))
	for i, tag := range tags {
		ids[i] = tag.ID
		resolved[i] = tag.Name
	}
	sort.Strings(resolved)
	return ids, resolved, nil
}

// fireEvent hands the event to the notifier with the owner snapshot
// attached. Event delivery problems never surface to the mutation.
func (s *TaskService) fireEvent(ctx context.Context, kind EventKind, task *models.Task) {
	owner, err := s.userRepo.GetByID(ctx, task.OwnerID)
	if err != nil {
		log.Printf("[ERROR] task event %s: load owner %s: %v", kind, task.OwnerID, err)
		return
	}
	s.notifier.NotifyTaskSaved(ctx, TaskEvent{Kind: kind, Task: task, Owner: owner})
}

// normalizeDate truncates a due date to UTC midnight so date equality
// behaves like a calendar date.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
