// internal/repository/user_repository_test.go
package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAlsoCreatesProfile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "user@example.com")

	profile, err := repo.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.UserID)
	assert.False(t, profile.CreatedAt.IsZero())

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM profiles"))
	assert.Equal(t, 1, count)
}

func TestUserRepository_Lookups(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "user@example.com")

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.PhoneNumber, byID.PhoneNumber)

	byPhone, err := repo.GetByPhoneNumber(ctx, user.PhoneNumber)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byPhone.ID)

	_, err = repo.GetByPhoneNumber(ctx, "09999999999")
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := repo.PhoneNumberExists(ctx, user.PhoneNumber)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.PhoneNumberExists(ctx, "09999999999")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.EmailExists(ctx, "user@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.EmailExists(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_HasEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	withEmail := createTestUser(t, db, "with@example.com")
	without := createTestUser(t, db, "")

	got, err := repo.GetByID(ctx, withEmail.ID)
	require.NoError(t, err)
	assert.True(t, got.HasEmail())

	got, err = repo.GetByID(ctx, without.ID)
	require.NoError(t, err)
	assert.False(t, got.HasEmail())
}
