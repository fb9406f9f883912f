// Tiendat | 2026
// handler.go

package post

import (
	"encoding/json"
	"net/http"

	"github.com/Tiendat2703/bleen-private/internal/core"
	"github.com/Tiendat2703/bleen-private/internal/middleware"
)

type UpsertRequest struct {
	Content string `json:"content"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetTargetUser(r.Context())
	if !ok {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}

	p, err := h.service.Get(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "post retrieved", p)
}

func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetTargetUser(r.Context())
	if !ok {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}
	caller, _ := middleware.GetIdentity(r.Context())

	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.JSONError(w, core.ValidationError("invalid request body"))
		return
	}

	result, err := h.service.Upsert(r.Context(), caller, userID, req.Content)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if result.IsUpdate {
		core.OK(w, "post updated", result)
		return
	}
	core.Created(w, "post created", result)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetTargetUser(r.Context())
	if !ok {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}
	caller, _ := middleware.GetIdentity(r.Context())

	if err := h.service.Delete(r.Context(), caller, userID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "post deleted", nil)
}
