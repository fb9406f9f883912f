// Tiendat | 2026
// repository.go

package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, e Event) error {
	var metadata any
	if len(e.Metadata) > 0 {
		raw, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("marshal audit metadata: %w", err)
		}
		metadata = raw
	}

	query := `
		INSERT INTO audit_events
			(actor, actor_role, action, target_user, detail,
			 ip_address, user_agent, metadata, occurred_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''),
		        NULLIF($6, ''), NULLIF($7, ''), $8, $9)`

	_, err := r.db.ExecContext(
		ctx,
		query,
		e.Actor,
		e.ActorRole,
		e.Action,
		e.TargetUser,
		e.Detail,
		e.IPAddress,
		e.UserAgent,
		metadata,
		e.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}

	return nil
}
