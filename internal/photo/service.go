// Tiendat | 2026
// service.go

package photo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Tiendat2703/bleen-private/internal/audit"
	"github.com/Tiendat2703/bleen-private/internal/core"
	"github.com/Tiendat2703/bleen-private/internal/identity"
	"github.com/Tiendat2703/bleen-private/internal/storage"
)

type ImageRepository interface {
	Insert(ctx context.Context, img *Image) error
	ListByUser(ctx context.Context, userID string, opts ListOptions) ([]Image, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*Image, error)
	TakenPositions(
		ctx context.Context,
		userID string,
		positions []int,
	) (map[int]bool, error)
	UpdatePosition(
		ctx context.Context,
		userID string,
		id uuid.UUID,
		position *int,
	) error
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

// Upload is one file pulled out of a multipart request.
type Upload struct {
	FileName    string
	Size        int64
	ContentType string
	Body        io.Reader
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type Service struct {
	repo     ImageRepository
	blobs    storage.BlobStore
	bucket   string
	maxBytes int64
	maxBatch int
	auditor  audit.Recorder
	logger   *slog.Logger
}

func NewService(
	repo ImageRepository,
	blobs storage.BlobStore,
	bucket string,
	maxBytes int64,
	maxBatch int,
	auditor audit.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		blobs:    blobs,
		bucket:   bucket,
		maxBytes: maxBytes,
		maxBatch: maxBatch,
		auditor:  auditor,
		logger:   logger,
	}
}

func (s *Service) validateUpload(up Upload) error {
	if !allowedImageTypes[up.ContentType] {
		return core.ValidationError(
			"unsupported image type, use jpeg, png, gif or webp",
		)
	}
	if up.Size <= 0 || up.Size > s.maxBytes {
		return core.ValidationError(fmt.Sprintf(
			"image must be between 1 byte and %d MB",
			s.maxBytes/(1024*1024),
		))
	}
	return nil
}

// Upload stores one photo, optionally into a display slot. A slot taken by
// a concurrent upload surfaces as 409 via the unique index; the orphaned
// blob is removed best-effort.
func (s *Service) Upload(
	ctx context.Context,
	caller identity.Identity,
	userID string,
	up Upload,
	position *int,
) (*Image, error) {
	if err := identity.ValidatePosition(position); err != nil {
		return nil, core.ValidationError(err.Error())
	}
	if err := s.validateUpload(up); err != nil {
		return nil, err
	}

	if position != nil {
		taken, err := s.repo.TakenPositions(ctx, userID, []int{*position})
		if err != nil {
			return nil, core.UpstreamError(err)
		}
		if taken[*position] {
			return nil, core.ConflictError(
				fmt.Sprintf("position %d is already taken", *position),
			)
		}
	}

	img, err := s.store(ctx, userID, up, position)
	if err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, audit.Event{
		Actor:      caller.Subject(),
		ActorRole:  string(caller.Role()),
		Action:     "photo.upload",
		TargetUser: userID,
		Detail:     img.FileName,
	})

	return img, nil
}

func (s *Service) store(
	ctx context.Context,
	userID string,
	up Upload,
	position *int,
) (*Image, error) {
	objectName := storage.ObjectName(up.FileName)
	key := storage.ImageKey(userID, objectName)

	err := s.blobs.Put(ctx, s.bucket, key, up.Body, up.Size, up.ContentType)
	if err != nil {
		return nil, core.UpstreamError(err)
	}

	img := &Image{
		ID:        uuid.New(),
		UserID:    userID,
		ImageURL:  s.blobs.PublicURL(s.bucket, key),
		ImagePath: key,
		FileName:  up.FileName,
		FileSize:  up.Size,
		MimeType:  up.ContentType,
		Position:  position,
	}

	if err := s.repo.Insert(ctx, img); err != nil {
		s.cleanupBlob(ctx, key)

		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.ConflictError("position is already taken")
		}
		return nil, core.UpstreamError(err)
	}

	return img, nil
}

func (s *Service) cleanupBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, s.bucket, key); err != nil {
		s.logger.Warn("orphaned blob cleanup failed", "key", key, "error", err)
	}
}

// BatchUpload validates the whole request up front: a duplicate position
// inside the request is 400, an occupied slot is 409, and nothing is stored
// in either case. After that, files succeed or fail individually.
func (s *Service) BatchUpload(
	ctx context.Context,
	caller identity.Identity,
	userID string,
	files []Upload,
	positions []*int,
) (*BatchResult, error) {
	if len(files) == 0 {
		return nil, core.ValidationError("no files supplied")
	}
	if len(files) > s.maxBatch {
		return nil, core.ValidationError(fmt.Sprintf(
			"at most %d files per batch",
			s.maxBatch,
		))
	}
	if len(positions) > 0 && len(positions) != len(files) {
		return nil, core.ValidationError(
			"positions must match files one to one",
		)
	}

	requested := make([]int, 0, len(positions))
	seen := make(map[int]bool)
	for _, p := range positions {
		if p == nil {
			continue
		}
		if err := identity.ValidatePosition(p); err != nil {
			return nil, core.ValidationError(err.Error())
		}
		if seen[*p] {
			return nil, core.ValidationError(fmt.Sprintf(
				"position %d appears more than once",
				*p,
			))
		}
		seen[*p] = true
		requested = append(requested, *p)
	}

	if len(requested) > 0 {
		taken, err := s.repo.TakenPositions(ctx, userID, requested)
		if err != nil {
			return nil, core.UpstreamError(err)
		}
		for _, p := range requested {
			if taken[p] {
				return nil, core.ConflictError(
					fmt.Sprintf("position %d is already taken", p),
				)
			}
		}
	}

	result := &BatchResult{Uploaded: make([]Image, 0, len(files))}

	for i, up := range files {
		var position *int
		if len(positions) > 0 {
			position = positions[i]
		}

		if err := s.validateUpload(up); err != nil {
			result.Failed = append(result.Failed, BatchFailed{
				FileName: up.FileName,
				Reason:   messageOf(err),
			})
			continue
		}

		img, err := s.store(ctx, userID, up, position)
		if err != nil {
			result.Failed = append(result.Failed, BatchFailed{
				FileName: up.FileName,
				Reason:   messageOf(err),
			})
			continue
		}

		result.Uploaded = append(result.Uploaded, *img)
	}

	s.auditor.Record(ctx, audit.Event{
		Actor:      caller.Subject(),
		ActorRole:  string(caller.Role()),
		Action:     "photo.batch_upload",
		TargetUser: userID,
		Detail: fmt.Sprintf(
			"%d uploaded, %d failed",
			len(result.Uploaded),
			len(result.Failed),
		),
		Metadata: map[string]any{
			"uploaded": len(result.Uploaded),
			"failed":   len(result.Failed),
		},
	})

	return result, nil
}

func messageOf(err error) string {
	var appErr *core.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "upload failed"
}

func (s *Service) Get(
	ctx context.Context,
	userID string,
	id uuid.UUID,
) (*Image, error) {
	img, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("image")
		}
		return nil, core.UpstreamError(err)
	}
	return img, nil
}

const (
	defaultListLimit = 100
	maxListLimit     = 100
)

// List pages through a user's photos. Total always counts the whole
// collection, not the returned page.
func (s *Service) List(
	ctx context.Context,
	userID string,
	opts ListOptions,
) (*ListResponse, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	if opts.Limit > maxListLimit {
		opts.Limit = maxListLimit
	}
	if opts.Offset < 0 {
		return nil, core.ValidationError("offset must not be negative")
	}
	switch opts.SortBy {
	case "", "position":
		opts.SortBy = "position"
	case "createdAt":
	default:
		return nil, core.ValidationError(
			"sortBy must be position or createdAt",
		)
	}

	images, err := s.repo.ListByUser(ctx, userID, opts)
	if err != nil {
		return nil, core.UpstreamError(err)
	}

	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, core.UpstreamError(err)
	}

	return &ListResponse{
		Images: images,
		Total:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	}, nil
}

// SetPosition moves a photo to a new slot, or unplaces it when position is
// nil. A taken slot is 409.
func (s *Service) SetPosition(
	ctx context.Context,
	caller identity.Identity,
	userID string,
	id uuid.UUID,
	position *int,
) (*Image, error) {
	if err := identity.ValidatePosition(position); err != nil {
		return nil, core.ValidationError(err.Error())
	}

	if err := s.repo.UpdatePosition(ctx, userID, id, position); err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			return nil, core.NotFoundError("image")
		case errors.Is(err, core.ErrDuplicateKey):
			return nil, core.ConflictError("position is already taken")
		default:
			return nil, core.UpstreamError(err)
		}
	}

	img, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, core.UpstreamError(err)
	}

	s.auditor.Record(ctx, audit.Event{
		Actor:      caller.Subject(),
		ActorRole:  string(caller.Role()),
		Action:     "photo.set_position",
		TargetUser: userID,
	})

	return img, nil
}

// Delete removes the row first, then the blob. A blob that refuses to die
// is logged and left for the lifecycle policy; the photo is gone either way.
func (s *Service) Delete(
	ctx context.Context,
	caller identity.Identity,
	userID string,
	id uuid.UUID,
) error {
	img, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("image")
		}
		return core.UpstreamError(err)
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("image")
		}
		return core.UpstreamError(err)
	}

	s.cleanupBlob(ctx, img.ImagePath)

	s.auditor.Record(ctx, audit.Event{
		Actor:      caller.Subject(),
		ActorRole:  string(caller.Role()),
		Action:     "photo.delete",
		TargetUser: userID,
		Detail:     img.FileName,
	})

	return nil
}
