// Tiendat | 2026
// handler.go

package media

import (
	"net/http"

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

func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, KindVideo)
}

func (h *Handler) GetVoice(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, KindVoice)
}

func (h *Handler) UpsertVideo(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, KindVideo, "video")
}

func (h *Handler) UpsertVoice(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, KindVoice, "voice")
}

func (h *Handler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, KindVideo)
}

func (h *Handler) DeleteVoice(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, KindVoice)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, kind Kind) {
	userID, ok := middleware.GetTargetUser(r.Context())
	if !ok {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}

	m, err := h.service.Get(r.Context(), kind, userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, kind.Name()+" retrieved", m)
}

func (h *Handler) upsert(
	w http.ResponseWriter,
	r *http.Request,
	kind Kind,
	field string,
) {
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

	f, fh, err := r.FormFile(field)
	if err != nil {
		core.JSONError(w, core.ValidationError(field+" file is required"))
		return
	}
	defer f.Close() //nolint:errcheck // read-only close

	up := Upload{
		FileName:    fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}

	result, err := h.service.Upsert(r.Context(), caller, kind, userID, up)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if result.IsUpdate {
		core.OK(w, kind.Name()+" replaced", result)
		return
	}
	core.Created(w, kind.Name()+" uploaded", result)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, kind Kind) {
	userID, ok := middleware.GetTargetUser(r.Context())
	if !ok {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}
	caller, _ := middleware.GetIdentity(r.Context())

	if err := h.service.Delete(r.Context(), caller, kind, userID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, kind.Name()+" deleted", nil)
}
