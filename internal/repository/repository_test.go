// internal/repository/repository_test.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/database"
	"tasktrack/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

var userSeq int

// Test helpers
func setupTestDB(t *testing.T) *sqlx.DB {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *sqlx.DB, email string) *models.User {
	userSeq++
	user := &models.User{
		ID:           uuid.New(),
		PhoneNumber:  fmt.Sprintf("091234%05d", userSeq),
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "not-a-real-hash",
	}
	if email != "" {
		user.Email.String = email
		user.Email.Valid = true
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func dueOn(day time.Time) sql.NullTime {
	return sql.NullTime{Time: day, Valid: true}
}

func createTestCategory(t *testing.T, db *sqlx.DB, ownerID uuid.UUID, name string) *models.Category {
	category := &models.Category{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    name,
	}
	require.NoError(t, NewCategoryRepository(db).Create(context.Background(), category))
	return category
}
