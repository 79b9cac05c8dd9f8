// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/parcel-land/parcel-api/internal/core"
	"github.com/parcel-land/parcel-api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/profile", middleware.RequirePrincipal(h.GetProfile))
		r.Post("/profile", middleware.RequirePrincipal(h.UpdateProfile))
	})
}

func (h *Handler) GetProfile(
	w http.ResponseWriter,
	r *http.Request,
	p middleware.Principal,
) {
	user, err := h.service.GetProfile(r.Context(), p.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProfileResponse(user))
}

func (h *Handler) UpdateProfile(
	w http.ResponseWriter,
	r *http.Request,
	p middleware.Principal,
) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid JSON body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}
	if err := req.Validate(); err != nil {
		core.JSONError(w, err)
		return
	}

	if _, err := h.service.UpdateProfile(r.Context(), p.UserID, req); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.ServerError(w, err, "Failed to update profile")
		return
	}

	core.Ack(w)
}
