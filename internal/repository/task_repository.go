package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tasktrack/internal/models"
)

type TaskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskFilter narrows and orders a task listing. Absent fields do not
// narrow; filters compose with AND.
type TaskFilter struct {
	Status   *string
	Priority *string
	Category *uuid.UUID
	Search   string
	Ordering string // column name, leading '-' for descending
	Page     int    // 1-based
	PageSize int
}

// orderColumns whitelists the plain columns clients may order by.
// Anything else falls back to the default ordering.
var orderColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"due_date":   "due_date",
	"title":      "title",
}

// priorityRankExpr sorts the priority enum by severity instead of its
// lexical form (low=1, medium=2, high=3).
const priorityRankExpr = "CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 ELSE 0 END"

// Create persists the task row and its tag associations in a single
// transaction.
func (r *TaskRepository) Create(ctx context.Context, t *models.Task, tagIDs []uuid.UUID) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	query := r.db.Rebind(`INSERT INTO tasks
		(id, owner_id, category_id, title, description, status, priority, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, query,
		t.ID, t.OwnerID, t.CategoryID, t.Title, t.Description,
		t.Status, t.Priority, t.DueDate, t.CreatedAt, t.UpdatedAt,
	); err != nil {
		return rollback(tx, fmt.Errorf("insert task: %w", err))
	}

	if err := r.insertTagLinks(ctx, tx, t.ID, tagIDs); err != nil {
		return rollback(tx, err)
	}

	return tx.Commit()
}

// Update persists the task's mutable fields, scoped to the owner. When
// tagIDs is non-nil the task's tag set is replaced entirely; nil leaves
// the existing associations untouched.
func (r *TaskRepository) Update(ctx context.Context, t *models.Task, tagIDs []uuid.UUID, replaceTags bool) error {
	t.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	query := r.db.Rebind(`UPDATE tasks
		SET category_id = ?, title = ?, description = ?, status = ?, priority = ?, due_date = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`)
	res, err := tx.ExecContext(ctx, query,
		t.CategoryID, t.Title, t.Description, t.Status, t.Priority,
		t.DueDate, t.UpdatedAt, t.ID, t.OwnerID,
	)
	if err != nil {
		return rollback(tx, fmt.Errorf("update task: %w", err))
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return rollback(tx, ErrNotFound)
	}

	if replaceTags {
		del := r.db.Rebind(`DELETE FROM task_tags WHERE task_id = ?`)
		if _, err := tx.ExecContext(ctx, del, t.ID); err != nil {
			return rollback(tx, fmt.Errorf("clear task tags: %w", err))
		}
		if err := r.insertTagLinks(ctx, tx, t.ID, tagIDs); err != nil {
			return rollback(tx, err)
		}
	}

	return tx.Commit()
}

func (r *TaskRepository) insertTagLinks(ctx context.Context, tx *sqlx.Tx, taskID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}
	query := r.db.Rebind(`INSERT INTO task_tags (task_id, tag_id) VALUES (?, ?)`)
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, query, taskID, tagID); err != nil {
			return fmt.Errorf("link tag: %w", err)
		}
	}
	return nil
}

// GetByID returns the owner's task with its tag names loaded.
func (r *TaskRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	var t models.Task
	query := r.db.Rebind(`SELECT * FROM tasks WHERE id = ? AND owner_id = ?`)
	if err := r.db.GetContext(ctx, &t, query, id, ownerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	if err := r.loadTags(ctx, []*models.Task{&t}); err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes the owner's task; the join rows go with it, tag rows
// stay.
func (r *TaskRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	// The join table cascade is handled here explicitly so the delete
	// does not depend on foreign keys being enforced (SQLite has them
	// off by default).
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	check := r.db.Rebind(`DELETE FROM tasks WHERE id = ? AND owner_id = ?`)
	res, err := tx.ExecContext(ctx, check, id, ownerID)
	if err != nil {
		return rollback(tx, fmt.Errorf("delete task: %w", err))
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return rollback(tx, ErrNotFound)
	}

	del := r.db.Rebind(`DELETE FROM task_tags WHERE task_id = ?`)
	if _, err := tx.ExecContext(ctx, del, id); err != nil {
		return rollback(tx, fmt.Errorf("delete task tags: %w", err))
	}

	return tx.Commit()
}

// List returns one page of the owner's tasks plus the total match count.
func (r *TaskRepository) List(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]*models.Task, int, error) {
	where := []string{"owner_id = ?"}
	args := []interface{}{ownerID}

	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Priority != nil {
		where = append(where, "priority = ?")
		args = append(args, *filter.Priority)
	}
	if filter.Category != nil {
		where = append(where, "category_id = ?")
		args = append(args, *filter.Category)
	}
	if filter.Search != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)")
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		args = append(args, pattern, pattern)
	}

	whereClause := strings.Join(where, " AND ")

	// Total count before pagination
	var total int
	countQuery := r.db.Rebind("SELECT COUNT(*) FROM tasks WHERE " + whereClause)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	query := "SELECT * FROM tasks WHERE " + whereClause +
		" ORDER BY " + orderClause(filter.Ordering)

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	var tasks []*models.Task
	if err := r.db.SelectContext(ctx, &tasks, r.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("query tasks: %w", err)
	}

	if err := r.loadTags(ctx, tasks); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// orderClause maps the client ordering parameter to a SQL ORDER BY body.
// Priority orders by severity rank with a descending creation-time
// tie-break; unknown fields fall back to the default.
func orderClause(ordering string) string {
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")

	if field == "priority" {
		if desc {
			return priorityRankExpr + " DESC, created_at DESC"
		}
		return priorityRankExpr + " ASC, created_at DESC"
	}

	if col, ok := orderColumns[field]; ok {
		if desc {
			return col + " DESC"
		}
		return col + " ASC"
	}

	return "created_at DESC"
}

// ListAllByOwner returns every task of the owner, newest first. Used by
// the CSV export.
func (r *TaskRepository) ListAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Task, error) {
	var tasks []*models.Task
	query := r.db.Rebind(`SELECT * FROM tasks WHERE owner_id = ? ORDER BY created_at DESC`)
	if err := r.db.SelectContext(ctx, &tasks, query, ownerID); err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	if err := r.loadTags(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// DueTask pairs a task with its owner for the reminder sweep.
type DueTask struct {
	models.Task
	OwnerPhone     string         `db:"owner_phone"`
	OwnerEmail     sql.NullString `db:"owner_email"`
	OwnerFirstName string         `db:"owner_first_name"`
	OwnerLastName  string         `db:"owner_last_name"`
}

// ListDueOn returns all unfinished tasks across every user whose due
// date equals the given day.
func (r *TaskRepository) ListDueOn(ctx context.Context, day time.Time) ([]DueTask, error) {
	var due []DueTask
	query := r.db.Rebind(`SELECT t.*,
			u.phone_number AS owner_phone,
			u.email AS owner_email,
			u.first_name AS owner_first_name,
			u.last_name AS owner_last_name
		FROM tasks t
		JOIN users u ON u.id = t.owner_id
		WHERE t.due_date = ? AND t.status IN (?, ?)`)
	err := r.db.SelectContext(ctx, &due, query, day,
		models.TaskStatusTodo, models.TaskStatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("query due tasks: %w", err)
	}
	return due, nil
}

// Statistics returns the owner's total task count and the raw per-status
// and per-priority counts. Buckets with no rows are absent from the maps;
// the service layer zero-fills them.
func (r *TaskRepository) Statistics(ctx context.Context, ownerID uuid.UUID) (total int, byStatus, byPriority map[string]int, err error) {
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM tasks WHERE owner_id = ?`)
	if err = r.db.GetContext(ctx, &total, countQuery, ownerID); err != nil {
		return 0, nil, nil, fmt.Errorf("count tasks: %w", err)
	}

	byStatus, err = r.countsBy(ctx, "status", ownerID)
	if err != nil {
		return 0, nil, nil, err
	}
	byPriority, err = r.countsBy(ctx, "priority", ownerID)
	if err != nil {
		return 0, nil, nil, err
	}
	return total, byStatus, byPriority, nil
}

func (r *TaskRepository) countsBy(ctx context.Context, column string, ownerID uuid.UUID) (map[string]int, error) {
	// column is one of the fixed identifiers "status"/"priority", never
	// client input.
	rows, err := r.db.QueryxContext(ctx,
		r.db.Rebind("SELECT "+column+", COUNT(*) FROM tasks WHERE owner_id = ? GROUP BY "+column),
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("count by %s: %w", column, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var value string
		var n int
		if err := rows.Scan(&value, &n); err != nil {
			return nil, fmt.Errorf("scan %s count: %w", column, err)
		}
		counts[value] = n
	}
	return counts, rows.Err()
}

// loadTags attaches tag names to the given tasks with one query.
func (r *TaskRepository) loadTags(ctx context.Context, tasks []*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(tasks))
	byID := make(map[uuid.UUID]*models.Task, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
		byID[t.ID] = t
		t.Tags = []string{}
	}

	query, args, err := sqlx.In(`SELECT tt.task_id, tg.name
		FROM task_tags tt
		JOIN tags tg ON tg.id = tt.tag_id
		WHERE tt.task_id IN (?)
		ORDER BY tg.name`, ids)
	if err != nil {
		return fmt.Errorf("build tag query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("query task tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID uuid.UUID
		var name string
		if err := rows.Scan(&taskID, &name); err != nil {
			return fmt.Errorf("scan task tag: %w", err)
		}
		if t, ok := byID[taskID]; ok {
			t.Tags = append(t.Tags, name)
		}
	}
	return rows.Err()
}
