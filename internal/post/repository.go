// Tiendat | 2026
// repository.go

package post

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Tiendat2703/bleen-private/internal/core"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Get(ctx context.Context, userID string) (*Post, error) {
	query := `
		SELECT id, user_id, content, created_at, updated_at
		FROM posts
		WHERE user_id = $1`

	var p Post
	if err := r.db.GetContext(ctx, &p, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get post: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &p, nil
}

// Upsert writes the singleton post, editing in place when one exists. The
// row id and created_at survive edits; only content and updated_at move.
func (r *Repository) Upsert(
	ctx context.Context,
	userID, content string,
) (*Post, bool, error) {
	query := `
		INSERT INTO posts (id, user_id, content)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			content    = EXCLUDED.content,
			updated_at = now()
		RETURNING id, user_id, content, created_at, updated_at,
		          (xmax = 0) AS inserted`

	var row struct {
		Post
		Inserted bool `db:"inserted"`
	}
	err := r.db.GetContext(ctx, &row, query, uuid.New(), userID, content)
	if err != nil {
		return nil, false, fmt.Errorf("upsert post: %w", err)
	}

	return &row.Post, row.Inserted, nil
}

func (r *Repository) Delete(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(
		ctx,
		`DELETE FROM posts WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("post for %s: %w", userID, core.ErrNotFound)
	}

	return nil
}
