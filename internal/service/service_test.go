// internal/service/service_test.go
package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/database"
	"tasktrack/internal/models"
	"tasktrack/internal/repository"

	_ "github.com/mattn/go-sqlite3"
)

var phoneSeq int

// Test helpers
func setupTestDB(t *testing.T) *sqlx.DB {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *sqlx.DB, email string) *models.User {
	phoneSeq++
	user := &models.User{
		ID:           uuid.New(),
		PhoneNumber:  fmt.Sprintf("093456%05d", phoneSeq),
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "not-a-real-hash",
	}
	if email != "" {
		user.Email.String = email
		user.Email.Valid = true
	}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), user))
	return user
}

// recordingNotifier captures task events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []TaskEvent
}

func (n *recordingNotifier) NotifyTaskSaved(_ context.Context, event TaskEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []TaskEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]TaskEvent, len(n.events))
	copy(out, n.events)
	return out
}

func newTaskServiceForTest(t *testing.T, db *sqlx.DB, notifier Notifier) *TaskService {
	return NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewTagRepository(db),
		repository.NewUserRepository(db),
		notifier,
	)
}
