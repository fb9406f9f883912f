// Tiendat | 2026
// repository.go

package photo

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

// Insert stores an image row. The partial unique index on (user_id,
// position) turns a concurrent grab of the same slot into
// core.ErrDuplicateKey, so callers never need a lock.
func (r *Repository) Insert(ctx context.Context, img *Image) error {
	query := `
		INSERT INTO user_images
			(id, user_id, image_url, image_path, file_name, file_size,
			 mime_type, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		img.ID,
		img.UserID,
		img.ImageURL,
		img.ImagePath,
		img.FileName,
		img.FileSize,
		img.MimeType,
		img.Position,
	).Scan(&img.CreatedAt)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("insert image: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("insert image: %w", err)
	}

	return nil
}

func (r *Repository) ListByUser(
	ctx context.Context,
	userID string,
	opts ListOptions,
) ([]Image, error) {
	orderBy := `position NULLS LAST, created_at DESC`
	if opts.SortBy == "createdAt" {
		orderBy = `created_at DESC`
	}

	query := `
		SELECT id, user_id, image_url, image_path, file_name, file_size,
		       mime_type, position, created_at
		FROM user_images
		WHERE user_id = $1
		ORDER BY ` + orderBy + `
		LIMIT $2 OFFSET $3`

	images := []Image{}
	err := r.db.SelectContext(ctx, &images, query, userID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	return images, nil
}

func (r *Repository) GetByID(
	ctx context.Context,
	userID string,
	id uuid.UUID,
) (*Image, error) {
	query := `
		SELECT id, user_id, image_url, image_path, file_name, file_size,
		       mime_type, position, created_at
		FROM user_images
		WHERE user_id = $1 AND id = $2`

	var img Image
	if err := r.db.GetContext(ctx, &img, query, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get image %s: %w", id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("get image %s: %w", id, err)
	}

	return &img, nil
}

// TakenPositions returns which of the given slots are already occupied.
func (r *Repository) TakenPositions(
	ctx context.Context,
	userID string,
	positions []int,
) (map[int]bool, error) {
	taken := make(map[int]bool)
	if len(positions) == 0 {
		return taken, nil
	}

	query, args, err := sqlx.In(`
		SELECT position
		FROM user_images
		WHERE user_id = ? AND position IN (?)`, userID, positions)
	if err != nil {
		return nil, fmt.Errorf("build taken positions query: %w", err)
	}

	var rows []int
	query = r.db.Rebind(query)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("taken positions: %w", err)
	}

	for _, p := range rows {
		taken[p] = true
	}

	return taken, nil
}

// UpdatePosition moves an image to a new slot or unplaces it with nil.
func (r *Repository) UpdatePosition(
	ctx context.Context,
	userID string,
	id uuid.UUID,
	position *int,
) error {
	query := `
		UPDATE user_images
		SET position = $3
		WHERE user_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, userID, id, position)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("update position: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update position: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("image %s: %w", id, core.ErrNotFound)
	}

	return nil
}

func (r *Repository) Delete(
	ctx context.Context,
	userID string,
	id uuid.UUID,
) error {
	res, err := r.db.ExecContext(
		ctx,
		`DELETE FROM user_images WHERE user_id = $1 AND id = $2`,
		userID,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("image %s: %w", id, core.ErrNotFound)
	}

	return nil
}

func (r *Repository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.GetContext(
		ctx,
		&count,
		`SELECT COUNT(*) FROM user_images WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("count images: %w", err)
	}
	return count, nil
}
