// internal/service/reminder_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/models"
	"tasktrack/internal/repository"
	"tasktrack/pkg/email"
)

func TestReminderService_SendDueTomorrowReminders(t *testing.T) {
	db := setupTestDB(t)
	mock := email.NewMockEmailService()
	svc := NewReminderService(repository.NewTaskRepository(db), mock)
	taskSvc := newTaskServiceForTest(t, db, nil)
	ctx := context.Background()

	withEmail := createTestUser(t, db, "with@example.com")
	noEmail := createTestUser(t, db, "")

	now := time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)
	tomorrow := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	nextWeek := tomorrow.AddDate(0, 0, 6)

	mustCreate := func(ownerID uuid.UUID, title, status string, due *time.Time) {
		_, err := taskSvc.Create(ctx, ownerID, TaskInput{
			Title:       title,
			Description: "d",
			Status:      status,
			DueDate:     due,
		})
		require.NoError(t, err)
	}
	mustCreate(withEmail.ID, "due todo", models.TaskStatusTodo, &tomorrow)
	mustCreate(withEmail.ID, "due in progress", models.TaskStatusInProgress, &tomorrow)
	mustCreate(withEmail.ID, "due but done", models.TaskStatusDone, &tomorrow)
	mustCreate(withEmail.ID, "due next week", models.TaskStatusTodo, &nextWeek)
	mustCreate(withEmail.ID, "no due date", models.TaskStatusTodo, nil)
	mustCreate(noEmail.ID, "owner unreachable", models.TaskStatusTodo, &tomorrow)

	sent, err := svc.SendDueTomorrowReminders(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	emails := mock.GetSentEmails()
	require.Len(t, emails, 2)
	titles := []string{emails[0].Data.Title, emails[1].Data.Title}
	assert.ElementsMatch(t, []string{"due todo", "due in progress"}, titles)
	for _, e := range emails {
		assert.Equal(t, "task_reminder", e.Template)
		assert.Equal(t, "with@example.com", e.To)
		assert.Equal(t, "2026-09-01", e.Data.DueDate)
	}

	// A second sweep re-sends: there is no sent-marker.
	mock.Clear()
	sent, err = svc.SendDueTomorrowReminders(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
}

func TestReminderService_NothingDue(t *testing.T) {
	db := setupTestDB(t)
	mock := email.NewMockEmailService()
	svc := NewReminderService(repository.NewTaskRepository(db), mock)

	sent, err := svc.SendDueTomorrowReminders(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, mock.GetSentEmails())
}
