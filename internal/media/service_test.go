// Tiendat | 2026
// service_test.go

package media

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiendat2703/bleen-private/internal/audit"
	"github.com/Tiendat2703/bleen-private/internal/core"
	"github.com/Tiendat2703/bleen-private/internal/identity"
)

type fakeRepo struct {
	rows map[string]*Media // kind name + user id
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]*Media)}
}

func (f *fakeRepo) key(kind Kind, userID string) string {
	return kind.name + ":" + userID
}

func (f *fakeRepo) Get(_ context.Context, kind Kind, userID string) (*Media, error) {
	m, ok := f.rows[f.key(kind, userID)]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeRepo) Upsert(_ context.Context, kind Kind, m *Media) (bool, error) {
	k := f.key(kind, m.UserID)
	existing, ok := f.rows[k]
	if ok {
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
	}
	cp := *m
	f.rows[k] = &cp
	return !ok, nil
}

func (f *fakeRepo) Delete(_ context.Context, kind Kind, userID string) error {
	k := f.key(kind, userID)
	if _, ok := f.rows[k]; !ok {
		return core.ErrNotFound
	}
	delete(f.rows, k)
	return nil
}

type fakeBlobStore struct {
	objects map[string]bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string]bool)}
}

func (f *fakeBlobStore) Put(
	_ context.Context,
	bucket, key string,
	_ io.Reader,
	_ int64,
	_ string,
) error {
	f.objects[bucket+"/"+key] = true
	return nil
}

func (f *fakeBlobStore) Delete(_ context.Context, bucket, key string) error {
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
		"user-videos",
		"user-voices",
		100*1024*1024,
		20*1024*1024,
		nopAuditor{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	return svc, repo, blobs
}

func mp4Upload(name string, size int64) Upload {
	return Upload{
		FileName:    name,
		Size:        size,
		ContentType: "video/mp4",
		Body:        bytes.NewReader(nil),
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Status
}

var owner = identity.New("user_1_1", identity.RoleUser)

func TestUpsertVideo(t *testing.T) {
	t.Run("first upload is an insert", func(t *testing.T) {
		svc, _, blobs := newTestService(t)

		result, err := svc.Upsert(
			context.Background(),
			owner,
			KindVideo,
			"user_1_1",
			mp4Upload("memory.mp4", 1024),
		)
		require.NoError(t, err)

		assert.False(t, result.IsUpdate)
		assert.NotEqual(t, uuid.Nil, result.Media.ID)
		assert.Len(t, blobs.objects, 1)
	})

	t.Run("second upload replaces in place and removes the old blob", func(t *testing.T) {
		svc, repo, blobs := newTestService(t)

		first, err := svc.Upsert(
			context.Background(), owner, KindVideo, "user_1_1",
			mp4Upload("old.mp4", 1024))
		require.NoError(t, err)

		second, err := svc.Upsert(
			context.Background(), owner, KindVideo, "user_1_1",
			mp4Upload("new.mp4", 2048))
		require.NoError(t, err)

		assert.True(t, second.IsUpdate)
		assert.Equal(t, first.Media.ID, second.Media.ID)
		assert.Len(t, repo.rows, 1)
		assert.Len(t, blobs.objects, 1)
		assert.False(t, blobs.objects["user-videos/"+first.Media.Path])
	})

	t.Run("rejects non-video mime", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Upsert(context.Background(), owner, KindVideo, "user_1_1", Upload{
			FileName:    "a.gif",
			Size:        100,
			ContentType: "image/gif",
			Body:        bytes.NewReader(nil),
		})
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("rejects oversized video", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Upsert(
			context.Background(), owner, KindVideo, "user_1_1",
			mp4Upload("big.mp4", 101*1024*1024))
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})
}

func TestUpsertVoice(t *testing.T) {
	t.Run("voice and video are independent singletons", func(t *testing.T) {
		svc, repo, _ := newTestService(t)

		_, err := svc.Upsert(
			context.Background(), owner, KindVideo, "user_1_1",
			mp4Upload("v.mp4", 1024))
		require.NoError(t, err)

		_, err = svc.Upsert(context.Background(), owner, KindVoice, "user_1_1", Upload{
			FileName:    "greeting.mp3",
			Size:        1024,
			ContentType: "audio/mpeg",
			Body:        bytes.NewReader(nil),
		})
		require.NoError(t, err)

		assert.Len(t, repo.rows, 2)
	})

	t.Run("voice size limit is its own", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Upsert(context.Background(), owner, KindVoice, "user_1_1", Upload{
			FileName:    "long.mp3",
			Size:        21 * 1024 * 1024,
			ContentType: "audio/mpeg",
			Body:        bytes.NewReader(nil),
		})
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})
}

func TestGet(t *testing.T) {
	t.Run("empty slot is nil, not an error", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		m, err := svc.Get(context.Background(), KindVideo, "user_1_1")
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("returns the stored singleton", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Upsert(
			context.Background(), owner, KindVideo, "user_1_1",
			mp4Upload("v.mp4", 1024))
		require.NoError(t, err)

		m, err := svc.Get(context.Background(), KindVideo, "user_1_1")
		require.NoError(t, err)
		assert.Equal(t, "v.mp4", m.FileName)
	})
}

func TestDeleteMedia(t *testing.T) {
	t.Run("removes row and blob", func(t *testing.T) {
		svc, repo, blobs := newTestService(t)

		_, err := svc.Upsert(
			context.Background(), owner, KindVideo, "user_1_1",
			mp4Upload("v.mp4", 1024))
		require.NoError(t, err)

		require.NoError(t, svc.Delete(context.Background(), owner, KindVideo, "user_1_1"))

		assert.Empty(t, repo.rows)
		assert.Empty(t, blobs.objects)
	})

	t.Run("missing singleton is 404", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		err := svc.Delete(context.Background(), owner, KindVoice, "user_1_1")
		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})
}
