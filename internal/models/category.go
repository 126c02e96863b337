package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `db:"id"`
	OwnerID   uuid.UUID `db:"owner_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Tag names form a global namespace shared across all users; names are
// case-sensitive and matched exactly.
type Tag struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
}
