package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tasktrack/internal/models"
)

// TagRepository manages the global tag vocabulary. Tags have no owner
// and are matched by exact, case-sensitive name.
type TagRepository struct {
	db *sqlx.DB
}

func NewTagRepository(db *sqlx.DB) *TagRepository {
	return &TagRepository{db: db}
}

// EnsureByNames resolves tag names to canonical rows, creating missing
// ones. Names are deduplicated; resubmitting the same set never creates
// duplicates. Concurrent inserts of the same name converge on a single
// row: the insert tolerates the unique-name conflict and the follow-up
// select fetches whichever row won.
func (r *TagRepository) EnsureByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))

	insert := r.db.Rebind(`INSERT INTO tags (id, name) VALUES (?, ?) ON CONFLICT (name) DO NOTHING`)
	get := r.db.Rebind(`SELECT * FROM tags WHERE name = ?`)

	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		if _, err := r.db.ExecContext(ctx, insert, uuid.New(), name); err != nil {
			return nil, fmt.Errorf("insert tag %q: %w", name, err)
		}

		var tag models.Tag
		if err := r.db.GetContext(ctx, &tag, get, name); err != nil {
			return nil, fmt.Errorf("get tag %q: %w", name, err)
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

// Create inserts a new tag, failing with ErrDuplicate when the name is
// taken.
func (r *TagRepository) Create(ctx context.Context, name string) (*models.Tag, error) {
	tag := models.Tag{ID: uuid.New(), Name: name}

	query := r.db.Rebind(`INSERT INTO tags (id, name) VALUES (?, ?) ON CONFLICT (name) DO NOTHING`)
	res, err := r.db.ExecContext(ctx, query, tag.ID, tag.Name)
	if err != nil {
		return nil, fmt.Errorf("insert tag: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrDuplicate
	}
	return &tag, nil
}

// List returns all tags ordered by name.
func (r *TagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.SelectContext(ctx, &tags, `SELECT * FROM tags ORDER BY name`); err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	return tags, nil
}
