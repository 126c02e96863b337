package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID      `db:"id"`
	PhoneNumber  string         `db:"phone_number"`
	Email        sql.NullString `db:"email"`
	FirstName    string         `db:"first_name"`
	LastName     string         `db:"last_name"`
	PasswordHash string         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// HasEmail reports whether the user has an email address on file.
func (u *User) HasEmail() bool {
	return u.Email.Valid && u.Email.String != ""
}

// Profile is created exactly once alongside its user at registration.
type Profile struct {
	ID        uuid.UUID      `db:"id"`
	UserID    uuid.UUID      `db:"user_id"`
	Bio       sql.NullString `db:"bio"`
	AvatarURL sql.NullString `db:"avatar_url"`
	CreatedAt time.Time      `db:"created_at"`
}
