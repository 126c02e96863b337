// Package repository implements owner-scoped data access over sqlx.
//
// Every method that reads or writes a Category or Task takes the owning
// user's ID and applies the ownership predicate inside the query itself,
// so callers cannot forget it. A row that exists but belongs to another
// owner is indistinguishable from a missing row: both return ErrNotFound.
package repository

import (
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotFound is returned when a row is absent or owned by a
	// different user.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert hits a uniqueness
	// constraint.
	ErrDuplicate = errors.New("already exists")
)

// rollback rolls tx back and folds any rollback error into err.
func rollback(tx *sqlx.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = errors.Join(err, rerr)
	}
	return err
}
