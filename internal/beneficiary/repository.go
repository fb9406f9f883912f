// Tiendat | 2026
// repository.go

package beneficiary

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

func (r *Repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]Beneficiary, error) {
	query := `
		SELECT id, user_id, beneficiary_type, full_name, relationship,
		       phone, email, avatar_url, avatar_path, created_at, updated_at
		FROM beneficiaries
		WHERE user_id = $1
		ORDER BY beneficiary_type`

	out := []Beneficiary{}
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, fmt.Errorf("list beneficiaries: %w", err)
	}

	return out, nil
}

// Upsert fills or edits one slot. The (user_id, beneficiary_type) unique
// constraint makes this atomic, and the avatar columns are deliberately left
// alone so editing contact details never drops a previously uploaded photo.
func (r *Repository) Upsert(
	ctx context.Context,
	b *Beneficiary,
) (inserted bool, err error) {
	query := `
		INSERT INTO beneficiaries
			(id, user_id, beneficiary_type, full_name, relationship,
			 phone, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, beneficiary_type) DO UPDATE SET
			full_name    = EXCLUDED.full_name,
			relationship = EXCLUDED.relationship,
			phone        = EXCLUDED.phone,
			email        = EXCLUDED.email,
			updated_at   = now()
		RETURNING id, avatar_url, avatar_path, created_at, updated_at,
		          (xmax = 0) AS inserted`

	row := r.db.QueryRowxContext(
		ctx,
		query,
		b.ID,
		b.UserID,
		b.Type,
		b.FullName,
		b.Relationship,
		b.Phone,
		b.Email,
	)
	err = row.Scan(
		&b.ID,
		&b.AvatarURL,
		&b.AvatarPath,
		&b.CreatedAt,
		&b.UpdatedAt,
		&inserted,
	)
	if err != nil {
		return false, fmt.Errorf("upsert beneficiary: %w", err)
	}

	return inserted, nil
}

func (r *Repository) Get(
	ctx context.Context,
	userID string,
	slot SlotType,
) (*Beneficiary, error) {
	query := `
		SELECT id, user_id, beneficiary_type, full_name, relationship,
		       phone, email, avatar_url, avatar_path, created_at, updated_at
		FROM beneficiaries
		WHERE user_id = $1 AND beneficiary_type = $2`

	var b Beneficiary
	if err := r.db.GetContext(ctx, &b, query, userID, slot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get %s beneficiary: %w", slot, core.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s beneficiary: %w", slot, err)
	}

	return &b, nil
}

func (r *Repository) SetAvatar(
	ctx context.Context,
	userID string,
	slot SlotType,
	avatarURL, avatarPath string,
) error {
	query := `
		UPDATE beneficiaries
		SET avatar_url = $3, avatar_path = $4, updated_at = now()
		WHERE user_id = $1 AND beneficiary_type = $2`

	res, err := r.db.ExecContext(ctx, query, userID, slot, avatarURL, avatarPath)
	if err != nil {
		return fmt.Errorf("set avatar: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s beneficiary: %w", slot, core.ErrNotFound)
	}

	return nil
}

func (r *Repository) Delete(
	ctx context.Context,
	userID string,
	slot SlotType,
) error {
	res, err := r.db.ExecContext(
		ctx,
		`DELETE FROM beneficiaries
		 WHERE user_id = $1 AND beneficiary_type = $2`,
		userID,
		slot,
	)
	if err != nil {
		return fmt.Errorf("delete beneficiary: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s beneficiary: %w", slot, core.ErrNotFound)
	}

	return nil
}
