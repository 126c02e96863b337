// internal/service/category_service_test.go
package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/repository"
)

func TestCategoryService_Create(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(repository.NewCategoryRepository(db))
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")

	category, err := svc.Create(ctx, owner.ID, "Work")
	require.NoError(t, err)
	assert.Equal(t, "Work", category.Name)
	assert.Equal(t, owner.ID, category.OwnerID)

	_, err = svc.Create(ctx, owner.ID, "")
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"This field is required."}, verr.Fields["name"])

	_, err = svc.Create(ctx, owner.ID, strings.Repeat("x", 256))
	verr, ok = AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "name")
}

func TestCategoryService_UpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(repository.NewCategoryRepository(db))
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	stranger := createTestUser(t, db, "stranger@example.com")

	category, err := svc.Create(ctx, owner.ID, "Work")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner.ID, category.ID, "Office")
	require.NoError(t, err)
	assert.Equal(t, "Office", updated.Name)

	_, err = svc.Update(ctx, stranger.ID, category.ID, "Stolen")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = svc.Delete(ctx, stranger.ID, category.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, owner.ID, category.ID))
	_, err = svc.Get(ctx, owner.ID, category.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
