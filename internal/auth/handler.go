// Tiendat | 2026
// handler.go

package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Tiendat2703/bleen-private/internal/core"
	"github.com/Tiendat2703/bleen-private/internal/middleware"
	"github.com/Tiendat2703/bleen-private/internal/user"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service, validate *validator.Validate) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.JSONError(w, core.ValidationError("invalid request body"))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		core.JSONError(w, core.ValidationError(core.FormatValidationError(err)))
		return false
	}
	return true
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.AdminLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "login successful", resp)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetIdentity(r.Context())

	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	u, err := h.service.Register(r.Context(), caller, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, "user registered", registerResponse(u))
}

func (h *Handler) VerifyPasscode(w http.ResponseWriter, r *http.Request) {
	var req VerifyPasscodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.VerifyPasscode(r.Context(), req.UserID, req.Passcode)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "passcode verified", resp)
}

func (h *Handler) ChangePasscode(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetIdentity(r.Context())

	userID, ok := middleware.GetTargetUser(r.Context())
	if !ok {
		core.JSONError(w, core.ValidationError("invalid user id"))
		return
	}

	var req ChangePasscodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.service.ChangePasscode(
		r.Context(),
		caller,
		userID,
		req.OldPasscode,
		req.NewPasscode,
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "passcode changed", nil)
}

func (h *Handler) ResetPasscode(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetIdentity(r.Context())

	var req ResetPasscodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.service.ResetPasscode(r.Context(), caller, req.UserID, req.NewPasscode)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, "passcode reset", nil)
}

func registerResponse(u *user.User) RegisterResponse {
	return RegisterResponse{
		UserID:   u.UserID,
		Email:    u.Email,
		FullName: u.FullName,
		Phone:    u.Phone,
	}
}
