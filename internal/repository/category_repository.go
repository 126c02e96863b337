package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tasktrack/internal/models"
)

type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := r.db.Rebind(`INSERT INTO categories (id, owner_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, c.ID, c.OwnerID, c.Name, c.CreatedAt, c.UpdatedAt); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID returns the owner's category or ErrNotFound.
func (r *CategoryRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Category, error) {
	var c models.Category
	query := r.db.Rebind(`SELECT * FROM categories WHERE id = ? AND owner_id = ?`)
	if err := r.db.GetContext(ctx, &c, query, id, ownerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// ListByOwner returns the owner's categories, newest first.
func (r *CategoryRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	query := r.db.Rebind(`SELECT * FROM categories WHERE owner_id = ? ORDER BY created_at DESC`)
	if err := r.db.SelectContext(ctx, &categories, query, ownerID); err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	c.UpdatedAt = time.Now().UTC()

	query := r.db.Rebind(`UPDATE categories SET name = ?, updated_at = ? WHERE id = ? AND owner_id = ?`)
	res, err := r.db.ExecContext(ctx, query, c.Name, c.UpdatedAt, c.ID, c.OwnerID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the owner's category and detaches its tasks; the tasks
// themselves survive with no category.
func (r *CategoryRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	detach := r.db.Rebind(`UPDATE tasks SET category_id = NULL WHERE category_id = ? AND owner_id = ?`)
	if _, err := tx.ExecContext(ctx, detach, id, ownerID); err != nil {
		return rollback(tx, fmt.Errorf("detach tasks: %w", err))
	}

	del := r.db.Rebind(`DELETE FROM categories WHERE id = ? AND owner_id = ?`)
	res, err := tx.ExecContext(ctx, del, id, ownerID)
	if err != nil {
		return rollback(tx, fmt.Errorf("delete category: %w", err))
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return rollback(tx, ErrNotFound)
	}

	return tx.Commit()
}
