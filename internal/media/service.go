// Tiendat | 2026
// service.go

package media

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

type MediaRepository interface {
	Get(ctx context.Context, kind Kind, userID string) (*Media, error)
	Upsert(ctx context.Context, kind Kind, m *Media) (bool, error)
	Delete(ctx context.Context, kind Kind, userID string) error
}

type Upload struct {
	FileName    string
	Size        int64
	ContentType string
	Body        io.Reader
}

var allowedVideoTypes = map[string]bool{
	"video/mp4":       true,
	"video/quicktime": true,
	"video/webm":      true,
}

var allowedVoiceTypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/mp4":   true,
	"audio/wav":   true,
	"audio/webm":  true,
	"audio/ogg":   true,
	"audio/m4a":   true,
	"audio/x-m4a": true,
}

// UpsertResult says whether the upload created the singleton or replaced an
// existing one, which decides between 201 and 200 at the edge.
type UpsertResult struct {
	Media    *Media `json:"media"`
	IsUpdate bool   `json:"isUpdate"`
}

type kindParams struct {
	bucket   string
	maxBytes int64
	allowed  map[string]bool
	keyFn    func(userID, objectName string) string
}

type Service struct {
	repo    MediaRepository
	blobs   storage.BlobStore
	params  map[string]kindParams
	auditor audit.Recorder
	logger  *slog.Logger
}

func NewService(
	repo MediaRepository,
	blobs storage.BlobStore,
	videoBucket string,
	voiceBucket string,
	maxVideoBytes int64,
	maxVoiceBytes int64,
	auditor audit.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:  repo,
		blobs: blobs,
		params: map[string]kindParams{
			KindVideo.name: {
				bucket:   videoBucket,
				maxBytes: maxVideoBytes,
				allowed:  allowedVideoTypes,
				keyFn:    storage.VideoKey,
			},
			KindVoice.name: {
				bucket:   voiceBucket,
				maxBytes: maxVoiceBytes,
				allowed:  allowedVoiceTypes,
				keyFn:    storage.VoiceKey,
			},
		},
		auditor: auditor,
		logger:  logger,
	}
}

func (s *Service) Get(
	ctx context.Context,
	kind Kind,
	userID string,
) (*Media, error) {
	m, err := s.repo.Get(ctx, kind, userID)
	if err != nil {
		// An empty singleton slot is a normal state, not an error. The
		// handler renders it as a 200 with a null body.
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		return nil, core.UpstreamError(err)
	}
	return m, nil
}

// Upsert replaces the user's singleton recording. The new blob goes up
// first, then the row flips to it atomically, then the old blob is removed
// best-effort. A crash between the last two steps leaks a blob, never a
// broken row.
func (s *Service) Upsert(
	ctx context.Context,
	caller identity.Identity,
	kind Kind,
	userID string,
	up Upload,
) (*UpsertResult, error) {
	p := s.params[kind.name]

	if !p.allowed[up.ContentType] {
		return nil, core.ValidationError(
			fmt.Sprintf("unsupported %s type %q", kind.name, up.ContentType),
		)
	}
	if up.Size <= 0 || up.Size > p.maxBytes {
		return nil, core.ValidationError(fmt.Sprintf(
			"%s must be between 1 byte and %d MB",
			kind.name,
			p.maxBytes/(1024*1024),
		))
	}

	var oldPath string
	if existing, err := s.repo.Get(ctx, kind, userID); err == nil {
		oldPath = existing.Path
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, core.UpstreamError(err)
	}

	objectName := storage.ObjectName(up.FileName)
	key := p.keyFn(userID, objectName)

	if err := s.blobs.Put(ctx, p.bucket, key, up.Body, up.Size, up.ContentType); err != nil {
		return nil, core.UpstreamError(err)
	}

	m := &Media{
		ID:       uuid.New(),
		UserID:   userID,
		URL:      s.blobs.PublicURL(p.bucket, key),
		Path:     key,
		FileName: up.FileName,
		FileSize: up.Size,
		MimeType: up.ContentType,
	}

	inserted, err := s.repo.Upsert(ctx, kind, m)
	if err != nil {
		if delErr := s.blobs.Delete(ctx, p.bucket, key); delErr != nil {
			s.logger.Warn("orphaned blob cleanup failed",
				"key", key, "error", delErr)
		}
		return nil, core.UpstreamError(err)
	}

	if oldPath != "" && oldPath != key {
		if err := s.blobs.Delete(ctx, p.bucket, oldPath); err != nil {
			s.logger.Warn("replaced blob cleanup failed",
				"key", oldPath, "error", err)
		}
	}

	s.auditor.Record(ctx, audit.Event{
		Actor:      caller.Subject(),
		ActorRole:  string(caller.Role()),
		Action:     "media.upsert_" + kind.name,
		TargetUser: userID,
		Detail:     up.FileName,
	})

	return &UpsertResult{Media: m, IsUpdate: !inserted}, nil
}

func (s *Service) Delete(
	ctx context.Context,
	caller identity.Identity,
	kind Kind,
	userID string,
) error {
	m, err := s.repo.Get(ctx, kind, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError(kind.name)
		}
		return core.UpstreamError(err)
	}

	if err := s.repo.Delete(ctx, kind, userID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError(kind.name)
		}
		return core.UpstreamError(err)
	}

	p := s.params[kind.name]
	if err := s.blobs.Delete(ctx, p.bucket, m.Path); err != nil {
		s.logger.Warn("blob cleanup failed", "key", m.Path, "error", err)
	}

	s.auditor.Record(ctx, audit.Event{
		Actor:      caller.Subject(),
		ActorRole:  string(caller.Role()),
		Action:     "media.delete_" + kind.name,
		TargetUser: userID,
	})

	return nil
}
