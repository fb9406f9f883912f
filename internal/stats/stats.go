// Tiendat | 2026
// stats.go

// Package stats aggregates what a keepsake currently holds, for dashboards
// and the admin overview.
package stats

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Tiendat2703/bleen-private/internal/core"
)

type Counts struct {
	Images        int   `db:"images"`
	PositionsUsed int   `db:"positions_used"`
	HasVideo      bool  `db:"has_video"`
	HasVoice      bool  `db:"has_voice"`
	HasPost       bool  `db:"has_post"`
	Beneficiaries int   `db:"beneficiaries"`
	MediaBytes    int64 `db:"media_bytes"`
}

type Overview struct {
	UserID        string      `json:"userId"`
	Images        ImageStats  `json:"images"`
	Video         Presence    `json:"video"`
	Voice         Presence    `json:"voice"`
	Post          Presence    `json:"post"`
	Beneficiaries SlotStats   `json:"beneficiaries"`
	Summary       SummaryLine `json:"summary"`
}

type ImageStats struct {
	Count         int `json:"count"`
	PositionsUsed int `json:"positionsUsed"`
	PositionsFree int `json:"positionsFree"`
}

type Presence struct {
	Exists bool `json:"exists"`
}

type SlotStats struct {
	Count int `json:"count"`
}

type SummaryLine struct {
	TotalItems   int   `json:"totalItems"`
	StorageBytes int64 `json:"storageBytes"`
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Counts gathers everything in one round trip; the per-table subqueries all
// hit the user_id indexes.
func (r *Repository) Counts(ctx context.Context, userID string) (*Counts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM user_images WHERE user_id = $1)
				AS images,
			(SELECT COUNT(*) FROM user_images
			 WHERE user_id = $1 AND position IS NOT NULL)
				AS positions_used,
			EXISTS (SELECT 1 FROM user_videos WHERE user_id = $1)
				AS has_video,
			EXISTS (SELECT 1 FROM user_voices WHERE user_id = $1)
				AS has_voice,
			EXISTS (SELECT 1 FROM posts WHERE user_id = $1)
				AS has_post,
			(SELECT COUNT(*) FROM beneficiaries WHERE user_id = $1)
				AS beneficiaries,
			COALESCE(
				(SELECT SUM(file_size) FROM user_images WHERE user_id = $1), 0
			) +
			COALESCE(
				(SELECT SUM(file_size) FROM user_videos WHERE user_id = $1), 0
			) +
			COALESCE(
				(SELECT SUM(file_size) FROM user_voices WHERE user_id = $1), 0
			) AS media_bytes`

	var c Counts
	if err := r.db.GetContext(ctx, &c, query, userID); err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}

	return &c, nil
}

type StatsRepository interface {
	Counts(ctx context.Context, userID string) (*Counts, error)
}

type Service struct {
	repo StatsRepository
}

func NewService(repo StatsRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Overview(ctx context.Context, userID string) (*Overview, error) {
	c, err := s.repo.Counts(ctx, userID)
	if err != nil {
		return nil, core.UpstreamError(err)
	}

	total := c.Images + c.Beneficiaries
	if c.HasVideo {
		total++
	}
	if c.HasVoice {
		total++
	}
	if c.HasPost {
		total++
	}

	return &Overview{
		UserID: userID,
		Images: ImageStats{
			Count:         c.Images,
			PositionsUsed: c.PositionsUsed,
			PositionsFree: 20 - c.PositionsUsed,
		},
		Video:         Presence{Exists: c.HasVideo},
		Voice:         Presence{Exists: c.HasVoice},
		Post:          Presence{Exists: c.HasPost},
		Beneficiaries: SlotStats{Count: c.Beneficiaries},
		Summary: SummaryLine{
			TotalItems:   total,
			StorageBytes: c.MediaBytes,
		},
	}, nil
}
