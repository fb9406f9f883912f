// Tiendat | 2026
// handler.go

package beneficiary

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Tiendat2703/bleen-private/internal/core"
	"github.com/Tiendat2703/bleen-private/internal/middleware"
)

type Handler struct {
	service      *Service
	validate     *validator.Validate
	maxFormBytes int64
}

func NewHandler(
	service *Service,
	validate *validator.Validate,
	maxFormBytes int64,
) *Handler {
	return &Handler{
		service:      service,
		validate:     validate,
		maxFormBytes: maxFormBytes,
	}
}

func slotFromPath(r *http.Request) (SlotType, bool) {
	return ParseSlotType(chi.URLParam(r, "slot"))
}

func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetTargetUser(r.Context())
	if !ok {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}

	resp, err := h.service.Slots(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "beneficiaries retrieved", resp)
}

func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetTargetUser(r.Context())
	if !ok {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}
	caller, _ := middleware.GetIdentity(r.Context())

	slot, ok := slotFromPath(r)
	if !ok {
		core.JSONError(w, core.ValidationError(
			"slot must be 'primary' or 'secondary'",
		))
		return
	}

	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.JSONError(w, core.ValidationError("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		core.JSONError(w, core.ValidationError(core.FormatValidationError(err)))
		return
	}

	result, err := h.service.Upsert(r.Context(), caller, userID, slot, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if result.IsUpdate {
		core.OK(w, "beneficiary updated", result)
		return
	}
	core.Created(w, "beneficiary added", result)
}

func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetTargetUser(r.Context())
	if !ok {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}
	caller, _ := middleware.GetIdentity(r.Context())

	slot, ok := slotFromPath(r)
	if !ok {
		core.JSONError(w, core.ValidationError(
			"slot must be 'primary' or 'secondary'",
		))
		return
	}

	if err := r.ParseMultipartForm(h.maxFormBytes); err != nil {
		core.JSONError(w, core.ValidationError("invalid multipart form"))
		return
	}

	f, fh, err := r.FormFile("avatar")
	if err != nil {
		core.JSONError(w, core.ValidationError("avatar file is required"))
		return
	}
	defer f.Close() //nolint:errcheck // read-only close

	up := AvatarUpload{
		FileName:    fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}

	b, err := h.service.UploadAvatar(r.Context(), caller, userID, slot, up)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "avatar uploaded", b)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetTargetUser(r.Context())
	if !ok {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}
	caller, _ := middleware.GetIdentity(r.Context())

	slot, ok := slotFromPath(r)
	if !ok {
		core.JSONError(w, core.ValidationError(
			"slot must be 'primary' or 'secondary'",
		))
		return
	}

	if err := h.service.Delete(r.Context(), caller, userID, slot); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "beneficiary deleted", nil)
}
