// Tiendat | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Tiendat2703/bleen-private/internal/core"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (user_id, passcode_hash, email, full_name, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)`

	_, err := r.db.ExecContext(
		ctx,
		query,
		u.UserID,
		u.PasscodeHash,
		u.Email,
		u.FullName,
		u.Phone,
	)
	if err != nil {
		if core.UniqueConstraintName(err) == "users_email_key" {
			return fmt.Errorf("create user: %w", ErrEmailTaken)
		}
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, userID string) (*User, error) {
	query := `
		SELECT user_id, passcode_hash, email, full_name, phone, is_active,
		       created_at, updated_at
		FROM users
		WHERE user_id = $1`

	var u User
	if err := r.db.GetContext(ctx, &u, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get user %s: %w", userID, core.ErrNotFound)
		}
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}

	return &u, nil
}

func (r *Repository) List(ctx context.Context) ([]User, error) {
	query := `
		SELECT user_id, passcode_hash, email, full_name, phone, is_active,
		       created_at, updated_at
		FROM users
		ORDER BY created_at DESC`

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

func (r *Repository) UpdatePasscodeHash(
	ctx context.Context,
	userID, hash string,
) error {
	query := `
		UPDATE users
		SET passcode_hash = $2, updated_at = now()
		WHERE user_id = $1`

	res, err := r.db.ExecContext(ctx, query, userID, hash)
	if err != nil {
		return fmt.Errorf("update passcode: %w", err)
	}

	return requireRowAffected(res, userID)
}

func (r *Repository) UpdateProfile(
	ctx context.Context,
	userID string,
	fullName, phone *string,
) error {
	query := `
		UPDATE users
		SET full_name = $2, phone = $3, updated_at = now()
		WHERE user_id = $1`

	res, err := r.db.ExecContext(ctx, query, userID, fullName, phone)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	return requireRowAffected(res, userID)
}

func (r *Repository) SetActive(
	ctx context.Context,
	userID string,
	active bool,
) error {
	query := `
		UPDATE users
		SET is_active = $2, updated_at = now()
		WHERE user_id = $1`

	res, err := r.db.ExecContext(ctx, query, userID, active)
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}

	return requireRowAffected(res, userID)
}

// Delete removes the user row. Media, posts and beneficiaries go with it via
// ON DELETE CASCADE; blob cleanup is the service's job.
func (r *Repository) Delete(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(
		ctx,
		`DELETE FROM users WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return requireRowAffected(res, userID)
}

func requireRowAffected(res sql.Result, userID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", userID, core.ErrNotFound)
	}
	return nil
}
