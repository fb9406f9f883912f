// Tiendat | 2026
// repository.go

package media

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

func (r *Repository) Get(
	ctx context.Context,
	kind Kind,
	userID string,
) (*Media, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, %s AS url, %s AS path, file_name, file_size,
		       mime_type, created_at, updated_at
		FROM %s
		WHERE user_id = $1`, kind.urlCol, kind.pathCol, kind.table)

	var m Media
	if err := r.db.GetContext(ctx, &m, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get %s: %w", kind.name, core.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s: %w", kind.name, err)
	}

	return &m, nil
}

// Upsert inserts the singleton or replaces it in place. The unique index on
// user_id makes this a single atomic statement; two concurrent uploads
// resolve to last-write-wins instead of a duplicate. inserted reports
// whether a new row was created.
func (r *Repository) Upsert(
	ctx context.Context,
	kind Kind,
	m *Media,
) (inserted bool, err error) {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s
			(id, user_id, %[2]s, %[3]s, file_name, file_size, mime_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			%[2]s      = EXCLUDED.%[2]s,
			%[3]s      = EXCLUDED.%[3]s,
			file_name  = EXCLUDED.file_name,
			file_size  = EXCLUDED.file_size,
			mime_type  = EXCLUDED.mime_type,
			updated_at = now()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`,
		kind.table, kind.urlCol, kind.pathCol)

	row := r.db.QueryRowxContext(
		ctx,
		query,
		m.ID,
		m.UserID,
		m.URL,
		m.Path,
		m.FileName,
		m.FileSize,
		m.MimeType,
	)
	if err := row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt, &inserted); err != nil {
		return false, fmt.Errorf("upsert %s: %w", kind.name, err)
	}

	return inserted, nil
}

func (r *Repository) Delete(
	ctx context.Context,
	kind Kind,
	userID string,
) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, kind.table)

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind.name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s for %s: %w", kind.name, userID, core.ErrNotFound)
	}

	return nil
}
