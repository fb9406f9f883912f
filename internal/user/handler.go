// Tiendat | 2026
// handler.go

package user

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Tiendat2703/bleen-private/internal/core"
	"github.com/Tiendat2703/bleen-private/internal/identity"
	"github.com/Tiendat2703/bleen-private/internal/middleware"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service, validate *validator.Validate) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetTargetUser(r.Context())
	if !ok {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}

	u, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "profile retrieved", toUserResponse(u))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetTargetUser(r.Context())
	if !ok {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}

	caller, _ := middleware.GetIdentity(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.JSONError(w, core.ValidationError("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.JSONError(w, core.ValidationError(core.FormatValidationError(err)))
		return
	}

	u, err := h.service.UpdateProfile(r.Context(), caller, userID, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "profile updated", toUserResponse(u))
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListAll(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	resp := ListResponse{
		Users: make([]UserResponse, 0, len(users)),
		Total: len(users),
	}
	for i := range users {
		resp.Users = append(resp.Users, toUserResponse(&users[i]))
	}

	core.OK(w, "users retrieved", resp)
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *Handler) Reactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	userID, err := identity.ValidateUserID(chi.URLParam(r, "userId"))
	if err != nil {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}

	caller, _ := middleware.GetIdentity(r.Context())

	if err := h.service.SetActive(r.Context(), caller, userID, active); err != nil {
		core.JSONError(w, err)
		return
	}

	if active {
		core.OK(w, "user reactivated", nil)
		return
	}
	core.OK(w, "user deactivated", nil)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := identity.ValidateUserID(chi.URLParam(r, "userId"))
	if err != nil {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}

	caller, _ := middleware.GetIdentity(r.Context())

	if err := h.service.DeleteUser(r.Context(), caller, userID); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "user deleted", nil)
}
