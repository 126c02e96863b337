package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema is written in the portable subset shared by PostgreSQL and
// SQLite: IDs are text UUIDs and enum restrictions are CHECK constraints,
// so production and the in-memory test database run the same statements.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		phone_number VARCHAR(11) NOT NULL UNIQUE,
		email VARCHAR(255) UNIQUE,
		first_name VARCHAR(100) NOT NULL DEFAULT '',
		last_name VARCHAR(100) NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		bio TEXT,
		avatar_url TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id TEXT PRIMARY KEY,
		name VARCHAR(50) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'todo'
			CHECK (status IN ('todo', 'in_progress', 'done')),
		priority VARCHAR(10) NOT NULL DEFAULT 'low'
			CHECK (priority IN ('low', 'medium', 'high')),
		due_date DATE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS task_tags (
		task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		tag_id TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (task_id, tag_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_priority ON tasks(priority)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_owner ON categories(owner_id)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}
	return nil
}
