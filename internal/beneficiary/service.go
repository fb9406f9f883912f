// Tiendat | 2026
// service.go

package beneficiary

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Tiendat2703/bleen-private/internal/audit"
	"github.com/Tiendat2703/bleen-private/internal/core"
	"github.com/Tiendat2703/bleen-private/internal/identity"
	"github.com/Tiendat2703/bleen-private/internal/storage"
)

type BeneficiaryRepository interface {
	ListByUser(ctx context.Context, userID string) ([]Beneficiary, error)
	Get(ctx context.Context, userID string, slot SlotType) (*Beneficiary, error)
	Upsert(ctx context.Context, b *Beneficiary) (bool, error)
	SetAvatar(
		ctx context.Context,
		userID string,
		slot SlotType,
		avatarURL, avatarPath string,
	) error
	Delete(ctx context.Context, userID string, slot SlotType) error
}

type AvatarUpload struct {
	FileName    string
	Size        int64
	ContentType string
	Body        io.Reader
}

var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type UpsertResult struct {
	Beneficiary *Beneficiary `json:"beneficiary"`
	IsUpdate    bool         `json:"isUpdate"`
}

type Service struct {
	repo     BeneficiaryRepository
	blobs    storage.BlobStore
	bucket   string
	maxBytes int64
	auditor  audit.Recorder
	logger   *slog.Logger
}

func NewService(
	repo BeneficiaryRepository,
	blobs storage.BlobStore,
	bucket string,
	maxBytes int64,
	auditor audit.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		blobs:    blobs,
		bucket:   bucket,
		maxBytes: maxBytes,
		auditor:  auditor,
		logger:   logger,
	}
}

// Slots returns both positions, null where empty.
func (s *Service) Slots(ctx context.Context, userID string) (*SlotsResponse, error) {
	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, core.UpstreamError(err)
	}

	resp := &SlotsResponse{}
	for i := range all {
		switch all[i].Type {
		case SlotPrimary:
			resp.Primary = &all[i]
		case SlotSecondary:
			resp.Secondary = &all[i]
		}
	}

	return resp, nil
}

func (s *Service) Upsert(
	ctx context.Context,
	caller identity.Identity,
	userID string,
	slot SlotType,
	req UpsertRequest,
) (*UpsertResult, error) {
	b := &Beneficiary{
		ID:       uuid.New(),
		UserID:   userID,
		Type:     slot,
		FullName: req.FullName,
	}
	if req.Relationship != "" {
		b.Relationship = &req.Relationship
	}
	if req.Phone != "" {
		b.Phone = &req.Phone
	}
	if req.Email != "" {
		b.Email = &req.Email
	}

	inserted, err := s.repo.Upsert(ctx, b)
	if err != nil {
		return nil, core.UpstreamError(err)
	}

	s.auditor.Record(ctx, audit.Event{
		Actor:      caller.Subject(),
		ActorRole:  string(caller.Role()),
		Action:     "beneficiary.upsert_" + string(slot),
		TargetUser: userID,
	})

	return &UpsertResult{Beneficiary: b, IsUpdate: !inserted}, nil
}

// UploadAvatar attaches a photo to an existing slot. The slot must be
// filled first; an avatar with no contact behind it means nothing.
func (s *Service) UploadAvatar(
	ctx context.Context,
	caller identity.Identity,
	userID string,
	slot SlotType,
	up AvatarUpload,
) (*Beneficiary, error) {
	if !allowedAvatarTypes[up.ContentType] {
		return nil, core.ValidationError(
			"unsupported avatar type, use jpeg, png or webp",
		)
	}
	if up.Size <= 0 || up.Size > s.maxBytes {
		return nil, core.ValidationError("avatar file is empty or too large")
	}

	existing, err := s.repo.Get(ctx, userID, slot)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError(string(slot) + " beneficiary")
		}
		return nil, core.UpstreamError(err)
	}

	objectName := storage.ObjectName(up.FileName)
	key := storage.AvatarKey(userID, objectName)

	if err := s.blobs.Put(ctx, s.bucket, key, up.Body, up.Size, up.ContentType); err != nil {
		return nil, core.UpstreamError(err)
	}

	url := s.blobs.PublicURL(s.bucket, key)
	if err := s.repo.SetAvatar(ctx, userID, slot, url, key); err != nil {
		if delErr := s.blobs.Delete(ctx, s.bucket, key); delErr != nil {
			s.logger.Warn("orphaned avatar cleanup failed",
				"key", key, "error", delErr)
		}
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError(string(slot) + " beneficiary")
		}
		return nil, core.UpstreamError(err)
	}

	if existing.AvatarPath != nil && *existing.AvatarPath != key {
		if err := s.blobs.Delete(ctx, s.bucket, *existing.AvatarPath); err != nil {
			s.logger.Warn("replaced avatar cleanup failed",
				"key", *existing.AvatarPath, "error", err)
		}
	}

	s.auditor.Record(ctx, audit.Event{
		Actor:      caller.Subject(),
		ActorRole:  string(caller.Role()),
		Action:     "beneficiary.upload_avatar",
		TargetUser: userID,
		Detail:     string(slot),
	})

	return s.getOrUpstream(ctx, userID, slot)
}

func (s *Service) getOrUpstream(
	ctx context.Context,
	userID string,
	slot SlotType,
) (*Beneficiary, error) {
	b, err := s.repo.Get(ctx, userID, slot)
	if err != nil {
		return nil, core.UpstreamError(err)
	}
	return b, nil
}

func (s *Service) Delete(
	ctx context.Context,
	caller identity.Identity,
	userID string,
	slot SlotType,
) error {
	b, err := s.repo.Get(ctx, userID, slot)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError(string(slot) + " beneficiary")
		}
		return core.UpstreamError(err)
	}

	if err := s.repo.Delete(ctx, userID, slot); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError(string(slot) + " beneficiary")
		}
		return core.UpstreamError(err)
	}

	if b.AvatarPath != nil {
		if err := s.blobs.Delete(ctx, s.bucket, *b.AvatarPath); err != nil {
			s.logger.Warn("avatar cleanup failed",
				"key", *b.AvatarPath, "error", err)
		}
	}

	s.auditor.Record(ctx, audit.Event{
		Actor:      caller.Subject(),
		ActorRole:  string(caller.Role()),
		Action:     "beneficiary.delete_" + string(slot),
		TargetUser: userID,
	})

	return nil
}
