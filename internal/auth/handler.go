// AngelaMos | 2026
// handler.go

package auth

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

// RegisterRoutes mounts the account routes. authLimit throttles the
// credential endpoints separately from the global limiter.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, authLimit func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimit)
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/logout", middleware.RequirePrincipal(h.Logout))
			r.Get("/session", middleware.RequirePrincipal(h.Session))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/security", middleware.RequirePrincipal(h.ChangePassword))
	})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid JSON body")
		return
	}

	req.Normalize()
	if err := req.Validate(h.validator); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.service.Signup(r.Context(), req); err != nil {
		if core.IsAppError(err) {
			core.JSONError(w, err)
			return
		}
		core.ServerError(w, err, "Failed to create account")
		return
	}

	core.Created(w, core.MessageResponse{Message: "Account created successfully"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid JSON body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.Unauthorized(w, "invalid email or password")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, p middleware.Principal) {
	if err := h.service.Logout(r.Context(), p); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Ack(w)
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request, p middleware.Principal) {
	resp, err := h.service.CurrentSession(r.Context(), p)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request, p middleware.Principal) {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid JSON body")
		return
	}

	if err := h.service.ChangePassword(r.Context(), p.UserID, req); err != nil {
		switch {
		case core.IsAppError(err):
			core.JSONError(w, err)
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "user")
		default:
			core.ServerError(w, err, "Failed to update password")
		}
		return
	}

	core.Ack(w)
}
