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

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and its profile in one transaction. The
// profile is created exactly once, here, and cascades with the user.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	insertUser := r.db.Rebind(`INSERT INTO users
		(id, phone_number, email, first_name, last_name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, insertUser,
		u.ID, u.PhoneNumber, u.Email, u.FirstName, u.LastName,
		u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	); err != nil {
		return rollback(tx, fmt.Errorf("insert user: %w", err))
	}

	insertProfile := r.db.Rebind(`INSERT INTO profiles (id, user_id, created_at) VALUES (?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, insertProfile, uuid.New(), u.ID, now); err != nil {
		return rollback(tx, fmt.Errorf("insert profile: %w", err))
	}

	return tx.Commit()
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	query := r.db.Rebind(`SELECT * FROM users WHERE id = ?`)
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*models.User, error) {
	var u models.User
	query := r.db.Rebind(`SELECT * FROM users WHERE phone_number = ?`)
	if err := r.db.GetContext(ctx, &u, query, phoneNumber); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by phone: %w", err)
	}
	return &u, nil
}

// PhoneNumberExists reports whether a user is already registered with
// the phone number.
func (r *UserRepository) PhoneNumberExists(ctx context.Context, phoneNumber string) (bool, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM users WHERE phone_number = ?`)
	if err := r.db.GetContext(ctx, &count, query, phoneNumber); err != nil {
		return false, fmt.Errorf("check phone number: %w", err)
	}
	return count > 0, nil
}

// EmailExists reports whether a user already has the email address.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM users WHERE email = ?`)
	if err := r.db.GetContext(ctx, &count, query, email); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	query := r.db.Rebind(`SELECT * FROM profiles WHERE user_id = ?`)
	if err := r.db.GetContext(ctx, &p, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}
