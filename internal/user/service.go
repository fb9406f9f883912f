// Tiendat | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Tiendat2703/bleen-private/internal/audit"
	"github.com/Tiendat2703/bleen-private/internal/config"
	"github.com/Tiendat2703/bleen-private/internal/core"
	"github.com/Tiendat2703/bleen-private/internal/identity"
	"github.com/Tiendat2703/bleen-private/internal/storage"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, userID string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdatePasscodeHash(ctx context.Context, userID, hash string) error
	UpdateProfile(ctx context.Context, userID string, fullName, phone *string) error
	SetActive(ctx context.Context, userID string, active bool) error
	Delete(ctx context.Context, userID string) error
}

type Service struct {
	repo       UserRepository
	blobs      storage.BlobStore
	storageCfg config.StorageConfig
	auditor    audit.Recorder
	logger     *slog.Logger
}

func NewService(
	repo UserRepository,
	blobs storage.BlobStore,
	storageCfg config.StorageConfig,
	auditor audit.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:       repo,
		blobs:      blobs,
		storageCfg: storageCfg,
		auditor:    auditor,
		logger:     logger,
	}
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("user")
		}
		return nil, core.UpstreamError(err)
	}

	return u, nil
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	caller identity.Identity,
	userID string,
	req UpdateProfileRequest,
) (*User, error) {
	fullName := &req.FullName
	var phone *string
	if req.Phone != "" {
		phone = &req.Phone
	}

	if err := s.repo.UpdateProfile(ctx, userID, fullName, phone); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("user")
		}
		return nil, core.UpstreamError(err)
	}

	s.auditor.Record(ctx, audit.Event{
		Actor:      caller.Subject(),
		ActorRole:  string(caller.Role()),
		Action:     "user.update_profile",
		TargetUser: userID,
	})

	return s.GetProfile(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, core.UpstreamError(err)
	}
	return users, nil
}

// SetActive toggles whether the user can unlock their keepsake. Deactivated
// users keep their data; passcode verification refuses them until
// reactivated.
func (s *Service) SetActive(
	ctx context.Context,
	caller identity.Identity,
	userID string,
	active bool,
) error {
	if err := s.repo.SetActive(ctx, userID, active); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("user")
		}
		return core.UpstreamError(err)
	}

	action := "user.deactivate"
	if active {
		action = "user.reactivate"
	}

	s.auditor.Record(ctx, audit.Event{
		Actor:      caller.Subject(),
		ActorRole:  string(caller.Role()),
		Action:     action,
		TargetUser: userID,
	})

	return nil
}

// DeleteUser removes the row, letting the cascade take the media rows, posts
// and beneficiaries, then purges the user's blob prefix in every bucket.
// Blob purge failures are logged but do not resurrect the user.
func (s *Service) DeleteUser(
	ctx context.Context,
	caller identity.Identity,
	userID string,
) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("user")
		}
		return core.UpstreamError(err)
	}

	prefix := storage.UserPrefix(userID)
	buckets := []string{
		s.storageCfg.PhotoBucket,
		s.storageCfg.VideoBucket,
		s.storageCfg.VoiceBucket,
	}
	for _, bucket := range buckets {
		if err := s.blobs.DeletePrefix(ctx, bucket, prefix); err != nil {
			s.logger.Error("blob purge failed",
				"user_id", userID, "bucket", bucket, "error", err)
		}
	}

	s.auditor.Record(ctx, audit.Event{
		Actor:      caller.Subject(),
		ActorRole:  string(caller.Role()),
		Action:     "user.delete",
		TargetUser: userID,
		Detail:     fmt.Sprintf("purged prefix %s", prefix),
		Metadata: map[string]any{
			"buckets": buckets,
		},
	})

	return nil
}
