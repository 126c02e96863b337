// internal/repository/tag_repository_test.go
package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagRepository_EnsureByNames(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	// Duplicates within one call collapse to a single row.
	tags, err := repo.EnsureByNames(ctx, []string{"urgent", "urgent", "home"})
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "urgent", tags[0].Name)
	assert.Equal(t, "home", tags[1].Name)

	// Resubmitting the same names resolves to the same rows.
	again, err := repo.EnsureByNames(ctx, []string{"home", "urgent"})
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, tags[1].ID, again[0].ID)
	assert.Equal(t, tags[0].ID, again[1].ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTagRepository_EnsureByNames_CaseSensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	tags, err := repo.EnsureByNames(ctx, []string{"Work", "work"})
	require.NoError(t, err)
	assert.Len(t, tags, 2)
	assert.NotEqual(t, tags[0].ID, tags[1].ID)
}

func TestTagRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	tag, err := repo.Create(ctx, "unique")
	require.NoError(t, err)
	assert.Equal(t, "unique", tag.Name)

	_, err = repo.Create(ctx, "unique")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestTagRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	_, err := repo.EnsureByNames(ctx, []string{"zebra", "alpha", "mango"})
	require.NoError(t, err)

	tags, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "alpha", tags[0].Name)
	assert.Equal(t, "mango", tags[1].Name)
	assert.Equal(t, "zebra", tags[2].Name)
}
