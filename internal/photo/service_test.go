// Tiendat | 2026
// service_test.go

package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiendat2703/bleen-private/internal/audit"
	"github.com/Tiendat2703/bleen-private/internal/core"
	"github.com/Tiendat2703/bleen-private/internal/identity"
)

type fakeRepo struct {
	images    map[uuid.UUID]*Image
	insertErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{images: make(map[uuid.UUID]*Image)}
}

func (f *fakeRepo) Insert(_ context.Context, img *Image) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if img.Position != nil {
		for _, existing := range f.images {
			if existing.UserID == img.UserID &&
				existing.Position != nil &&
				*existing.Position == *img.Position {
				return core.ErrDuplicateKey
			}
		}
	}
	cp := *img
	f.images[img.ID] = &cp
	return nil
}

func (f *fakeRepo) ListByUser(
	_ context.Context,
	userID string,
	opts ListOptions,
) ([]Image, error) {
	out := []Image{}
	for _, img := range f.images {
		if img.UserID == userID {
			out = append(out, *img)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if opts.SortBy == "position" {
			switch {
			case a.Position != nil && b.Position != nil:
				return *a.Position < *b.Position
			case a.Position != nil:
				return true
			case b.Position != nil:
				return false
			}
		}
		return a.FileName < b.FileName
	})

	if opts.Offset >= len(out) {
		return []Image{}, nil
	}
	out = out[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (f *fakeRepo) CountByUser(_ context.Context, userID string) (int, error) {
	n := 0
	for _, img := range f.images {
		if img.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) GetByID(
	_ context.Context,
	userID string,
	id uuid.UUID,
) (*Image, error) {
	img, ok := f.images[id]
	if !ok || img.UserID != userID {
		return nil, core.ErrNotFound
	}
	cp := *img
	return &cp, nil
}

func (f *fakeRepo) TakenPositions(
	_ context.Context,
	userID string,
	positions []int,
) (map[int]bool, error) {
	taken := make(map[int]bool)
	for _, img := range f.images {
		if img.UserID != userID || img.Position == nil {
			continue
		}
		for _, p := range positions {
			if *img.Position == p {
				taken[p] = true
			}
		}
	}
	return taken, nil
}

func (f *fakeRepo) UpdatePosition(
	_ context.Context,
	userID string,
	id uuid.UUID,
	position *int,
) error {
	img, ok := f.images[id]
	if !ok || img.UserID != userID {
		return core.ErrNotFound
	}
	if position != nil {
		for otherID, other := range f.images {
			if otherID != id && other.UserID == userID &&
				other.Position != nil && *other.Position == *position {
				return core.ErrDuplicateKey
			}
		}
	}
	img.Position = position
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, userID string, id uuid.UUID) error {
	img, ok := f.images[id]
	if !ok || img.UserID != userID {
		return core.ErrNotFound
	}
	delete(f.images, id)
	return nil
}

type fakeBlobStore struct {
	objects map[string]int64
	putErr  error
	delErr  error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string]int64)}
}

func (f *fakeBlobStore) Put(
	_ context.Context,
	bucket, key string,
	_ io.Reader,
	size int64,
	_ string,
) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[bucket+"/"+key] = size
	return nil
}

func (f *fakeBlobStore) Delete(_ context.Context, bucket, key string) error {
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.objects, bucket+"/"+key)
	return nil
}

func (f *fakeBlobStore) DeletePrefix(_ context.Context, _, _ string) error {
	return nil
}

func (f *fakeBlobStore) PublicURL(bucket, key string) string {
	return "https://cdn.test/" + bucket + "/" + key
}

type nopAuditor struct{}

func (nopAuditor) Record(context.Context, audit.Event) {}

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeBlobStore) {
	t.Helper()

	repo := newFakeRepo()
	blobs := newFakeBlobStore()
	svc := NewService(
		repo,
		blobs,
		"user-photos",
		5*1024*1024,
		10,
		nopAuditor{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	return svc, repo, blobs
}

func jpegUpload(name string, size int64) Upload {
	return Upload{
		FileName:    name,
		Size:        size,
		ContentType: "image/jpeg",
		Body:        bytes.NewReader(make([]byte, 0)),
	}
}

func intPtr(v int) *int { return &v }

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Status
}

var owner = identity.New("user_1_1", identity.RoleUser)

func TestUpload(t *testing.T) {
	t.Run("stores blob and row", func(t *testing.T) {
		svc, repo, blobs := newTestService(t)

		img, err := svc.Upload(
			context.Background(),
			owner,
			"user_1_1",
			jpegUpload("family.jpg", 1024),
			intPtr(3),
		)
		require.NoError(t, err)

		assert.Equal(t, "user_1_1", img.UserID)
		assert.Equal(t, 3, *img.Position)
		assert.Contains(t, img.ImageURL, "user-photos")
		assert.Len(t, repo.images, 1)
		assert.Len(t, blobs.objects, 1)
	})

	t.Run("rejects bad mime type", func(t *testing.T) {
		svc, _, blobs := newTestService(t)

		_, err := svc.Upload(context.Background(), owner, "user_1_1", Upload{
			FileName:    "doc.pdf",
			Size:        1024,
			ContentType: "application/pdf",
			Body:        bytes.NewReader(nil),
		}, nil)

		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		assert.Empty(t, blobs.objects)
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Upload(
			context.Background(),
			owner,
			"user_1_1",
			jpegUpload("huge.jpg", 6*1024*1024),
			nil,
		)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("rejects position out of range", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Upload(
			context.Background(),
			owner,
			"user_1_1",
			jpegUpload("a.jpg", 100),
			intPtr(21),
		)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("taken position is 409", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Upload(
			context.Background(),
			owner,
			"user_1_1",
			jpegUpload("a.jpg", 100),
			intPtr(5),
		)
		require.NoError(t, err)

		_, err = svc.Upload(
			context.Background(),
			owner,
			"user_1_1",
			jpegUpload("b.jpg", 100),
			intPtr(5),
		)
		assert.Equal(t, http.StatusConflict, statusOf(t, err))
	})

	t.Run("lost insert race cleans the blob and reports 409", func(t *testing.T) {
		svc, repo, blobs := newTestService(t)
		repo.insertErr = core.ErrDuplicateKey

		_, err := svc.Upload(
			context.Background(),
			owner,
			"user_1_1",
			jpegUpload("a.jpg", 100),
			intPtr(5),
		)

		assert.Equal(t, http.StatusConflict, statusOf(t, err))
		assert.Empty(t, blobs.objects)
	})
}

func TestBatchUpload(t *testing.T) {
	t.Run("uploads all files with positions", func(t *testing.T) {
		svc, repo, _ := newTestService(t)

		result, err := svc.BatchUpload(
			context.Background(),
			owner,
			"user_1_1",
			[]Upload{jpegUpload("a.jpg", 100), jpegUpload("b.jpg", 100)},
			[]*int{intPtr(1), intPtr(2)},
		)
		require.NoError(t, err)

		assert.Len(t, result.Uploaded, 2)
		assert.Empty(t, result.Failed)
		assert.Len(t, repo.images, 2)
	})

	t.Run("duplicate position in request is 400, nothing stored", func(t *testing.T) {
		svc, repo, blobs := newTestService(t)

		_, err := svc.BatchUpload(
			context.Background(),
			owner,
			"user_1_1",
			[]Upload{jpegUpload("a.jpg", 100), jpegUpload("b.jpg", 100)},
			[]*int{intPtr(4), intPtr(4)},
		)

		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		assert.Empty(t, repo.images)
		assert.Empty(t, blobs.objects)
	})

	t.Run("occupied position is 409, nothing stored", func(t *testing.T) {
		svc, repo, _ := newTestService(t)

		_, err := svc.Upload(
			context.Background(),
			owner,
			"user_1_1",
			jpegUpload("first.jpg", 100),
			intPtr(2),
		)
		require.NoError(t, err)

		_, err = svc.BatchUpload(
			context.Background(),
			owner,
			"user_1_1",
			[]Upload{jpegUpload("a.jpg", 100), jpegUpload("b.jpg", 100)},
			[]*int{intPtr(1), intPtr(2)},
		)

		assert.Equal(t, http.StatusConflict, statusOf(t, err))
		assert.Len(t, repo.images, 1)
	})

	t.Run("one bad file does not sink the rest", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		result, err := svc.BatchUpload(
			context.Background(),
			owner,
			"user_1_1",
			[]Upload{
				jpegUpload("good.jpg", 100),
				{
					FileName:    "bad.exe",
					Size:        100,
					ContentType: "application/octet-stream",
					Body:        bytes.NewReader(nil),
				},
			},
			nil,
		)
		require.NoError(t, err)

		assert.Len(t, result.Uploaded, 1)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, "bad.exe", result.Failed[0].FileName)
	})

	t.Run("too many files is 400", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		files := make([]Upload, 11)
		for i := range files {
			files[i] = jpegUpload("a.jpg", 100)
		}

		_, err := svc.BatchUpload(context.Background(), owner, "user_1_1", files, nil)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("mismatched positions length is 400", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.BatchUpload(
			context.Background(),
			owner,
			"user_1_1",
			[]Upload{jpegUpload("a.jpg", 100), jpegUpload("b.jpg", 100)},
			[]*int{intPtr(1)},
		)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})
}

func TestGet(t *testing.T) {
	t.Run("returns the stored photo", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		img, err := svc.Upload(
			context.Background(), owner, "user_1_1", jpegUpload("a.jpg", 100), intPtr(4))
		require.NoError(t, err)

		got, err := svc.Get(context.Background(), "user_1_1", img.ID)
		require.NoError(t, err)
		assert.Equal(t, img.ID, got.ID)
		assert.Equal(t, 4, *got.Position)
	})

	t.Run("foreign user cannot see it", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		img, err := svc.Upload(
			context.Background(), owner, "user_1_1", jpegUpload("a.jpg", 100), nil)
		require.NoError(t, err)

		_, err = svc.Get(context.Background(), "user_2_2", img.ID)
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})
}

func TestList(t *testing.T) {
	seed := func(t *testing.T, svc *Service) {
		t.Helper()
		for i := 1; i <= 5; i++ {
			_, err := svc.Upload(
				context.Background(),
				owner,
				"user_1_1",
				jpegUpload(fmt.Sprintf("p%d.jpg", i), 100),
				intPtr(i),
			)
			require.NoError(t, err)
		}
	}

	t.Run("defaults return everything in slot order", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		seed(t, svc)

		resp, err := svc.List(context.Background(), "user_1_1", ListOptions{})
		require.NoError(t, err)

		assert.Len(t, resp.Images, 5)
		assert.Equal(t, 5, resp.Total)
		assert.Equal(t, 100, resp.Limit)
		assert.Equal(t, 1, *resp.Images[0].Position)
	})

	t.Run("limit and offset page, total counts the collection", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		seed(t, svc)

		resp, err := svc.List(context.Background(), "user_1_1", ListOptions{
			Limit:  2,
			Offset: 2,
		})
		require.NoError(t, err)

		require.Len(t, resp.Images, 2)
		assert.Equal(t, 5, resp.Total)
		assert.Equal(t, 2, resp.Limit)
		assert.Equal(t, 2, resp.Offset)
		assert.Equal(t, 3, *resp.Images[0].Position)
	})

	t.Run("unknown sortBy is 400", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.List(context.Background(), "user_1_1", ListOptions{
			SortBy: "fileSize",
		})
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("negative offset is 400", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.List(context.Background(), "user_1_1", ListOptions{
			Offset: -1,
		})
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})
}

func TestSetPosition(t *testing.T) {
	t.Run("moves to a free slot", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		img, err := svc.Upload(
			context.Background(),
			owner,
			"user_1_1",
			jpegUpload("a.jpg", 100),
			intPtr(1),
		)
		require.NoError(t, err)

		moved, err := svc.SetPosition(
			context.Background(),
			owner,
			"user_1_1",
			img.ID,
			intPtr(7),
		)
		require.NoError(t, err)
		assert.Equal(t, 7, *moved.Position)
	})

	t.Run("moving to a taken slot is 409", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		first, err := svc.Upload(
			context.Background(), owner, "user_1_1", jpegUpload("a.jpg", 100), intPtr(1))
		require.NoError(t, err)
		_, err = svc.Upload(
			context.Background(), owner, "user_1_1", jpegUpload("b.jpg", 100), intPtr(2))
		require.NoError(t, err)

		_, err = svc.SetPosition(
			context.Background(), owner, "user_1_1", first.ID, intPtr(2))
		assert.Equal(t, http.StatusConflict, statusOf(t, err))
	})

	t.Run("nil position unplaces", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		img, err := svc.Upload(
			context.Background(), owner, "user_1_1", jpegUpload("a.jpg", 100), intPtr(1))
		require.NoError(t, err)

		moved, err := svc.SetPosition(
			context.Background(), owner, "user_1_1", img.ID, nil)
		require.NoError(t, err)
		assert.Nil(t, moved.Position)
	})
}

func TestDelete(t *testing.T) {
	t.Run("removes row and blob", func(t *testing.T) {
		svc, repo, blobs := newTestService(t)

		img, err := svc.Upload(
			context.Background(), owner, "user_1_1", jpegUpload("a.jpg", 100), nil)
		require.NoError(t, err)

		require.NoError(t, svc.Delete(context.Background(), owner, "user_1_1", img.ID))

		assert.Empty(t, repo.images)
		assert.Empty(t, blobs.objects)
	})

	t.Run("stubborn blob does not fail the delete", func(t *testing.T) {
		svc, repo, blobs := newTestService(t)

		img, err := svc.Upload(
			context.Background(), owner, "user_1_1", jpegUpload("a.jpg", 100), nil)
		require.NoError(t, err)

		blobs.delErr = errors.New("storage down")

		assert.NoError(t, svc.Delete(context.Background(), owner, "user_1_1", img.ID))
		assert.Empty(t, repo.images)
	})

	t.Run("unknown image is 404", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		err := svc.Delete(context.Background(), owner, "user_1_1", uuid.New())
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})
}
