// Tiendat | 2026
// blob.go

// Package storage abstracts the object store that holds user media.
package storage

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"path"
	"regexp"
	"strings"
	"time"
)

// BlobStore is the object-store surface the media services need. Keys are
// bucket-relative paths like users/<id>/images/<name>.
type BlobStore interface {
	Put(
		ctx context.Context,
		bucket, key string,
		body io.Reader,
		size int64,
		contentType string,
	) error
	Delete(ctx context.Context, bucket, key string) error
	DeletePrefix(ctx context.Context, bucket, prefix string) error
	PublicURL(bucket, key string) string
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// ObjectName builds a collision-resistant object name from the original
// upload filename, keeping the extension and capping the whole thing at 100
// characters.
func ObjectName(originalName string) string {
	ext := strings.ToLower(path.Ext(originalName))
	base := strings.TrimSuffix(path.Base(originalName), path.Ext(originalName))

	safe := unsafeNameChars.ReplaceAllString(base, "_")
	if strings.Trim(safe, "._-") == "" {
		safe = "file"
	}

	//nolint:gosec // G404: the suffix disambiguates same-millisecond uploads
	name := fmt.Sprintf(
		"%d_%d_%s",
		time.Now().UnixMilli(),
		rand.IntN(1_000_000),
		safe,
	)

	if len(name)+len(ext) > 100 {
		name = name[:100-len(ext)]
	}

	return name + ext
}

func ImageKey(userID, objectName string) string {
	return fmt.Sprintf("users/%s/images/%s", userID, objectName)
}

func VideoKey(userID, objectName string) string {
	return fmt.Sprintf("users/%s/videos/%s", userID, objectName)
}

func VoiceKey(userID, objectName string) string {
	return fmt.Sprintf("users/%s/voices/%s", userID, objectName)
}

func AvatarKey(userID, objectName string) string {
	return fmt.Sprintf("users/%s/avatars/%s", userID, objectName)
}

// UserPrefix is the root of everything one user owns inside a bucket.
func UserPrefix(userID string) string {
	return fmt.Sprintf("users/%s/", userID)
}
