// internal/repository/task_repository_test.go
package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/models"
)

func createTestTask(t *testing.T, db *sqlx.DB, ownerID uuid.UUID, title, status, priority string) *models.Task {
	task := &models.Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: "description of " + title,
		Status:      status,
		Priority:    priority,
	}
	require.NoError(t, NewTaskRepository(db).Create(context.Background(), task, nil))
	return task
}

func TestTaskRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	category := createTestCategory(t, db, owner.ID, "Work")
	tags, err := NewTagRepository(db).EnsureByNames(ctx, []string{"urgent", "home"})
	require.NoError(t, err)

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	task := &models.Task{
		ID:          uuid.New(),
		OwnerID:     owner.ID,
		CategoryID:  uuid.NullUUID{UUID: category.ID, Valid: true},
		Title:       "Buy milk",
		Description: "Two liters",
		Status:      models.TaskStatusTodo,
		Priority:    models.PriorityHigh,
		DueDate:     dueOn(due),
	}
	require.NoError(t, repo.Create(ctx, task, []uuid.UUID{tags[0].ID, tags[1].ID}))

	got, err := repo.GetByID(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.True(t, got.CategoryID.Valid)
	assert.Equal(t, category.ID, got.CategoryID.UUID)
	require.True(t, got.DueDate.Valid)
	assert.Equal(t, "2026-09-15", got.DueDate.Time.Format("2006-01-02"))
	assert.Equal(t, []string{"home", "urgent"}, got.Tags)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestTaskRepository_OwnershipScoping(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	task := createTestTask(t, db, alice.ID, "Alice task", models.TaskStatusTodo, models.PriorityLow)

	_, err := repo.GetByID(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Delete(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	task.Title = "Hijacked"
	task.OwnerID = bob.ID
	err = repo.Update(ctx, task, nil, false)
	assert.ErrorIs(t, err, ErrNotFound)

	// The row is untouched after the failed cross-user attempts.
	got, err := repo.GetByID(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice task", got.Title)
}

func TestTaskRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	work := createTestCategory(t, db, owner.ID, "Work")

	milk := createTestTask(t, db, owner.ID, "buy milk", models.TaskStatusTodo, models.PriorityHigh)
	createTestTask(t, db, owner.ID, "go to the gym", models.TaskStatusDone, models.PriorityLow)
	createTestTask(t, db, owner.ID, "buy beard oil", models.TaskStatusTodo, models.PriorityLow)
	createTestTask(t, db, other.ID, "buy rope", models.TaskStatusTodo, models.PriorityLow)

	milk.CategoryID = uuid.NullUUID{UUID: work.ID, Valid: true}
	require.NoError(t, repo.Update(ctx, milk, nil, false))

	tests := []struct {
		name       string
		filter     TaskFilter
		wantTitles []string
		wantCount  int
	}{
		{
			name:       "no filter returns only the owner's tasks",
			filter:     TaskFilter{},
			wantTitles: []string{"buy beard oil", "go to the gym", "buy milk"},
			wantCount:  3,
		},
		{
			name:       "status filter",
			filter:     TaskFilter{Status: ptr(models.TaskStatusTodo), Ordering: "title"},
			wantTitles: []string{"buy beard oil", "buy milk"},
			wantCount:  2,
		},
		{
			name:       "priority filter",
			filter:     TaskFilter{Priority: ptr(models.PriorityHigh)},
			wantTitles: []string{"buy milk"},
			wantCount:  1,
		},
		{
			name:       "category filter",
			filter:     TaskFilter{Category: &work.ID},
			wantTitles: []string{"buy milk"},
			wantCount:  1,
		},
		{
			name:       "search matches title case-insensitively",
			filter:     TaskFilter{Search: "BUY", Ordering: "title"},
			wantTitles: []string{"buy beard oil", "buy milk"},
			wantCount:  2,
		},
		{
			name:       "search matches description",
			filter:     TaskFilter{Search: "description of go"},
			wantTitles: []string{"go to the gym"},
			wantCount:  1,
		},
		{
			name:       "combined filters AND together",
			filter:     TaskFilter{Status: ptr(models.TaskStatusTodo), Search: "milk"},
			wantTitles: []string{"buy milk"},
			wantCount:  1,
		},
		{
			name:       "no match",
			filter:     TaskFilter{Search: "nonexistent"},
			wantTitles: []string{},
			wantCount:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, count, err := repo.List(ctx, owner.ID, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, count)
			assert.Equal(t, tt.wantTitles, titles(tasks))
		})
	}
}

func TestTaskRepository_ListOrdering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	createTestTask(t, db, owner.ID, "first low", models.TaskStatusTodo, models.PriorityLow)
	createTestTask(t, db, owner.ID, "the high one", models.TaskStatusTodo, models.PriorityHigh)
	createTestTask(t, db, owner.ID, "the medium one", models.TaskStatusTodo, models.PriorityMedium)
	createTestTask(t, db, owner.ID, "second low", models.TaskStatusTodo, models.PriorityLow)

	tests := []struct {
		name       string
		ordering   string
		wantTitles []string
	}{
		{
			name:       "default is newest first",
			ordering:   "",
			wantTitles: []string{"second low", "the medium one", "the high one", "first low"},
		},
		{
			name:     "priority ascending ranks low before high, newest first within rank",
			ordering: "priority",
			wantTitles: []string{
				"second low", "first low", "the medium one", "the high one",
			},
		},
		{
			name:     "priority descending ranks high before low",
			ordering: "-priority",
			wantTitles: []string{
				"the high one", "the medium one", "second low", "first low",
			},
		},
		{
			name:       "title ascending",
			ordering:   "title",
			wantTitles: []string{"first low", "second low", "the high one", "the medium one"},
		},
		{
			name:       "unknown field falls back to newest first",
			ordering:   "password_hash",
			wantTitles: []string{"second low", "the medium one", "the high one", "first low"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, _, err := repo.List(ctx, owner.ID, TaskFilter{Ordering: tt.ordering})
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitles, titles(tasks))
		})
	}
}

func TestTaskRepository_ListPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	for i := 0; i < 7; i++ {
		createTestTask(t, db, owner.ID, "task", models.TaskStatusTodo, models.PriorityLow)
	}

	page1, count, err := repo.List(ctx, owner.ID, TaskFilter{Page: 1, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.Len(t, page1, 3)

	page3, count, err := repo.List(ctx, owner.ID, TaskFilter{Page: 3, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.Len(t, page3, 1)

	empty, count, err := repo.List(ctx, owner.ID, TaskFilter{Page: 4, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.Empty(t, empty)
}

func TestTaskRepository_UpdateTags(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	tagRepo := NewTagRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	tags, err := tagRepo.EnsureByNames(ctx, []string{"a", "b"})
	require.NoError(t, err)

	task := &models.Task{
		ID:          uuid.New(),
		OwnerID:     owner.ID,
		Title:       "Tagged",
		Description: "d",
		Status:      models.TaskStatusTodo,
		Priority:    models.PriorityLow,
	}
	require.NoError(t, repo.Create(ctx, task, []uuid.UUID{tags[0].ID, tags[1].ID}))

	// Update without tag replacement keeps the existing set.
	task.Title = "Tagged v2"
	require.NoError(t, repo.Update(ctx, task, nil, false))
	got, err := repo.GetByID(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Tags)

	// Replacement swaps the set entirely.
	replacement, err := tagRepo.EnsureByNames(ctx, []string{"c"})
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, task, []uuid.UUID{replacement[0].ID}, true))
	got, err = repo.GetByID(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, got.Tags)

	// Replacement with an empty set clears the associations.
	require.NoError(t, repo.Update(ctx, task, nil, true))
	got, err = repo.GetByID(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	// Orphaned tags stay in the vocabulary.
	all, err := tagRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTaskRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	tagRepo := NewTagRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	tags, err := tagRepo.EnsureByNames(ctx, []string{"keepme"})
	require.NoError(t, err)

	task := &models.Task{
		ID:          uuid.New(),
		OwnerID:     owner.ID,
		Title:       "Doomed",
		Description: "d",
		Status:      models.TaskStatusTodo,
		Priority:    models.PriorityLow,
	}
	require.NoError(t, repo.Create(ctx, task, []uuid.UUID{tags[0].ID}))

	require.NoError(t, repo.Delete(ctx, owner.ID, task.ID))

	_, err = repo.GetByID(ctx, owner.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var links int
	require.NoError(t, db.Get(&links, "SELECT COUNT(*) FROM task_tags"))
	assert.Zero(t, links)

	all, err := tagRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTaskRepository_Statistics(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")

	seed := []struct {
		status   string
		priority string
		n        int
	}{
		{models.TaskStatusTodo, models.PriorityLow, 3},
		{models.TaskStatusTodo, models.PriorityMedium, 2},
		{models.TaskStatusInProgress, models.PriorityMedium, 2},
		{models.TaskStatusInProgress, models.PriorityHigh, 1},
		{models.TaskStatusDone, models.PriorityHigh, 2},
	}
	for _, s := range seed {
		for i := 0; i < s.n; i++ {
			createTestTask(t, db, owner.ID, "task", s.status, s.priority)
		}
	}
	createTestTask(t, db, other.ID, "elsewhere", models.TaskStatusTodo, models.PriorityLow)

	total, byStatus, byPriority, err := repo.Statistics(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, total)
	assert.Equal(t, map[string]int{
		models.TaskStatusTodo:       5,
		models.TaskStatusInProgress: 3,
		models.TaskStatusDone:       2,
	}, byStatus)
	assert.Equal(t, map[string]int{
		models.PriorityLow:    3,
		models.PriorityMedium: 4,
		models.PriorityHigh:   3,
	}, byPriority)
}

func TestTaskRepository_ListDueOn(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	withEmail := createTestUser(t, db, "with@example.com")
	noEmail := createTestUser(t, db, "")

	tomorrow := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	later := tomorrow.AddDate(0, 0, 1)

	dueTodo := &models.Task{
		ID: uuid.New(), OwnerID: withEmail.ID, Title: "due todo",
		Description: "d", Status: models.TaskStatusTodo, Priority: models.PriorityLow,
		DueDate: dueOn(tomorrow),
	}
	dueDone := &models.Task{
		ID: uuid.New(), OwnerID: withEmail.ID, Title: "due but done",
		Description: "d", Status: models.TaskStatusDone, Priority: models.PriorityLow,
		DueDate: dueOn(tomorrow),
	}
	dueLater := &models.Task{
		ID: uuid.New(), OwnerID: withEmail.ID, Title: "due later",
		Description: "d", Status: models.TaskStatusTodo, Priority: models.PriorityLow,
		DueDate: dueOn(later),
	}
	dueNoEmail := &models.Task{
		ID: uuid.New(), OwnerID: noEmail.ID, Title: "due without email",
		Description: "d", Status: models.TaskStatusInProgress, Priority: models.PriorityLow,
		DueDate: dueOn(tomorrow),
	}
	for _, task := range []*models.Task{dueTodo, dueDone, dueLater, dueNoEmail} {
		require.NoError(t, repo.Create(ctx, task, nil))
	}

	due, err := repo.ListDueOn(ctx, tomorrow)
	require.NoError(t, err)
	require.Len(t, due, 2)

	byTitle := make(map[string]DueTask, len(due))
	for _, d := range due {
		byTitle[d.Title] = d
	}
	require.Contains(t, byTitle, "due todo")
	require.Contains(t, byTitle, "due without email")
	assert.Equal(t, withEmail.PhoneNumber, byTitle["due todo"].OwnerPhone)
	assert.True(t, byTitle["due todo"].OwnerEmail.Valid)
	assert.False(t, byTitle["due without email"].OwnerEmail.Valid)
}

func titles(tasks []*models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func ptr(s string) *string {
	return &s
}
