// Tiendat | 2026
// handler_test.go

package photo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiendat2703/bleen-private/internal/core"
	"github.com/Tiendat2703/bleen-private/internal/identity"
	"github.com/Tiendat2703/bleen-private/internal/middleware"
)

type staticVerifier struct {
	id identity.Identity
}

func (v staticVerifier) VerifyAccessToken(
	_ context.Context,
	_ string,
) (identity.Identity, error) {
	return v.id, nil
}

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	svc := NewService(
		newFakeRepo(),
		newFakeBlobStore(),
		"user-photos",
		5*1024*1024,
		10,
		nopAuditor{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	handler := NewHandler(svc, 32*1024*1024)

	verifier := staticVerifier{id: identity.New("user_1_1", identity.RoleUser)}

	r := chi.NewRouter()
	r.Route("/api/photos/{userId}", func(r chi.Router) {
		r.Use(middleware.Authenticator(verifier))
		r.Use(middleware.RequireOwner("userId"))
		r.Post("/batch", handler.BatchUpload)
	})

	return r
}

func batchBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, contentType := range files {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition",
			`form-data; name="images"; filename="`+name+`"`)
		hdr.Set("Content-Type", contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte("data"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestBatchUploadEnvelope(t *testing.T) {
	t.Run("all files stored is 201 with success true", func(t *testing.T) {
		router := newTestRouter(t)

		body, contentType := batchBody(t, map[string]string{
			"a.jpg": "image/jpeg",
			"b.jpg": "image/jpeg",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/photos/user_1_1/batch", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer whatever")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp core.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
	})

	t.Run("partial failure is success false", func(t *testing.T) {
		router := newTestRouter(t)

		body, contentType := batchBody(t, map[string]string{
			"a.jpg":   "image/jpeg",
			"b.jpg":   "image/jpeg",
			"doc.pdf": "application/pdf",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/photos/user_1_1/batch", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer whatever")

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp core.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)

		payload, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		var result BatchResult
		require.NoError(t, json.Unmarshal(payload, &result))

		assert.Len(t, result.Uploaded, 2)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, "doc.pdf", result.Failed[0].FileName)
	})
}
