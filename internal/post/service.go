// Tiendat | 2026
// service.go

package post

import (
	"context"
	"errors"
	"strings"

	"github.com/Tiendat2703/bleen-private/internal/audit"
	"github.com/Tiendat2703/bleen-private/internal/core"
	"github.com/Tiendat2703/bleen-private/internal/identity"
)

const maxContentLength = 5000

type PostRepository interface {
	Get(ctx context.Context, userID string) (*Post, error)
	Upsert(ctx context.Context, userID, content string) (*Post, bool, error)
	Delete(ctx context.Context, userID string) error
}

type UpsertResult struct {
	Post     *Post `json:"post"`
	IsUpdate bool  `json:"isUpdate"`
}

type Service struct {
	repo    PostRepository
	auditor audit.Recorder
}

func NewService(repo PostRepository, auditor audit.Recorder) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func (s *Service) Get(ctx context.Context, userID string) (*Post, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		// Never having written a post is a normal state; render it as a
		// 200 with a null body rather than a 404.
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		return nil, core.UpstreamError(err)
	}
	return p, nil
}

// Upsert writes the message, trimming surrounding whitespace first. Empty
// or oversized content is rejected before touching the database.
func (s *Service) Upsert(
	ctx context.Context,
	caller identity.Identity,
	userID, content string,
) (*UpsertResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, core.ValidationError("content cannot be empty")
	}
	if len(content) > maxContentLength {
		return nil, core.ValidationError("content cannot exceed 5000 characters")
	}

	p, inserted, err := s.repo.Upsert(ctx, userID, content)
	if err != nil {
		return nil, core.UpstreamError(err)
	}

	s.auditor.Record(ctx, audit.Event{
		Actor:      caller.Subject(),
		ActorRole:  string(caller.Role()),
		Action:     "post.upsert",
		TargetUser: userID,
	})

	return &UpsertResult{Post: p, IsUpdate: !inserted}, nil
}

func (s *Service) Delete(
	ctx context.Context,
	caller identity.Identity,
	userID string,
) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("post")
		}
		return core.UpstreamError(err)
	}

	s.auditor.Record(ctx, audit.Event{
		Actor:      caller.Subject(),
		ActorRole:  string(caller.Role()),
		Action:     "post.delete",
		TargetUser: userID,
	})

	return nil
}
