// Tiendat | 2026
// handler.go

package photo

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Tiendat2703/bleen-private/internal/core"
	"github.com/Tiendat2703/bleen-private/internal/middleware"
)

type Handler struct {
	service      *Service
	maxFormBytes int64
}

func NewHandler(service *Service, maxFormBytes int64) *Handler {
	return &Handler{service: service, maxFormBytes: maxFormBytes}
}

func uploadFromHeader(fh *multipart.FileHeader) (Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return Upload{}, nil, err
	}

	contentType := fh.Header.Get("Content-Type")

	return Upload{
		FileName:    fh.Filename,
		Size:        fh.Size,
		ContentType: contentType,
		Body:        f,
	}, func() { _ = f.Close() }, nil //nolint:errcheck // read-only close
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetTargetUser(r.Context())
	if !ok {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}
	caller, _ := middleware.GetIdentity(r.Context())

	if err := r.ParseMultipartForm(h.maxFormBytes); err != nil {
		core.JSONError(w, core.ValidationError("invalid multipart form"))
		return
	}

	_, fh, err := r.FormFile("image")
	if err != nil {
		core.JSONError(w, core.ValidationError("image file is required"))
		return
	}

	var position *int
	if raw := r.FormValue("position"); raw != "" {
		p, convErr := strconv.Atoi(raw)
		if convErr != nil {
			core.JSONError(w, core.ValidationError("position must be a number"))
			return
		}
		position = &p
	}

	up, closeFn, err := uploadFromHeader(fh)
	if err != nil {
		core.JSONError(w, core.UpstreamError(err))
		return
	}
	defer closeFn()

	img, err := h.service.Upload(r.Context(), caller, userID, up, position)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, "photo uploaded", img)
}

func (h *Handler) BatchUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetTargetUser(r.Context())
	if !ok {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}
	caller, _ := middleware.GetIdentity(r.Context())

	if err := r.ParseMultipartForm(h.maxFormBytes); err != nil {
		core.JSONError(w, core.ValidationError("invalid multipart form"))
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["images"]) == 0 {
		core.JSONError(w, core.ValidationError("at least one image is required"))
		return
	}
	headers := r.MultipartForm.File["images"]

	var positions []*int
	if raw := r.FormValue("positions"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &positions); err != nil {
			core.JSONError(w, core.ValidationError(
				"positions must be a JSON array, e.g. [1,2,null]",
			))
			return
		}
	}

	files := make([]Upload, 0, len(headers))
	closers := make([]func(), 0, len(headers))
	defer func() {
		for _, c := range closers {
			c()
		}
	}()

	for _, fh := range headers {
		up, closeFn, err := uploadFromHeader(fh)
		if err != nil {
			core.JSONError(w, core.UpstreamError(err))
			return
		}
		files = append(files, up)
		closers = append(closers, closeFn)
	}

	result, err := h.service.BatchUpload(r.Context(), caller, userID, files, positions)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	// Success only when every file landed. Partial batches report 200 with
	// success false so clients notice the failed entries.
	if len(result.Failed) > 0 {
		core.WriteJSON(w, http.StatusOK, core.Response{
			Success: false,
			Message: "some uploads failed",
			Data:    result,
		})
		return
	}

	core.Created(w, "batch upload finished", result)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetTargetUser(r.Context())
	if !ok {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}

	opts := ListOptions{SortBy: r.URL.Query().Get("sortBy")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			core.JSONError(w, core.ValidationError("limit must be a number"))
			return
		}
		opts.Limit = n
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			core.JSONError(w, core.ValidationError("offset must be a number"))
			return
		}
		opts.Offset = n
	}

	resp, err := h.service.List(r.Context(), userID, opts)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "photos retrieved", resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetTargetUser(r.Context())
	if !ok {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}

	imageID, err := uuid.Parse(chi.URLParam(r, "imageId"))
	if err != nil {
		core.JSONError(w, core.ValidationError("invalid image id"))
		return
	}

	img, err := h.service.Get(r.Context(), userID, imageID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "photo retrieved", img)
}

func (h *Handler) SetPosition(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetTargetUser(r.Context())
	if !ok {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}
	caller, _ := middleware.GetIdentity(r.Context())

	imageID, err := uuid.Parse(chi.URLParam(r, "imageId"))
	if err != nil {
		core.JSONError(w, core.ValidationError("invalid image id"))
		return
	}

	var req UpdatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.JSONError(w, core.ValidationError("invalid request body"))
		return
	}

	img, err := h.service.SetPosition(r.Context(), caller, userID, imageID, req.Position)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "position updated", img)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetTargetUser(r.Context())
	if !ok {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}
	caller, _ := middleware.GetIdentity(r.Context())

	imageID, err := uuid.Parse(chi.URLParam(r, "imageId"))
	if err != nil {
		core.JSONError(w, core.ValidationError("invalid image id"))
		return
	}

	if err := h.service.Delete(r.Context(), caller, userID, imageID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "photo deleted", DeleteResponse{ID: imageID})
}
