// AngelaMos | 2026
// handler.go

package savedsearch

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

func (h *Handler) RegisterRoutes(r chi.Router, authenticator func(http.Handler) http.Handler) {
	r.Route("/saved-searches", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", middleware.RequirePrincipal(h.List))
		r.Post("/", middleware.RequirePrincipal(h.Create))
		r.Patch("/{id}", middleware.RequirePrincipal(h.Update))
		r.Delete("/{id}", middleware.RequirePrincipal(h.Delete))
		r.Get("/{id}/listings", middleware.RequirePrincipal(h.Listings))
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, p middleware.Principal) {
	searches, err := h.service.List(r.Context(), p.UserID)
	if err != nil {
		core.ServerError(w, err, "Failed to fetch saved searches")
		return
	}

	core.OK(w, searches)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, p middleware.Principal) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid JSON body")
		return
	}

	if err := req.Normalize(); err != nil {
		core.JSONError(w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	search, err := h.service.Create(r.Context(), p.UserID, req)
	if err != nil {
		core.ServerError(w, err, "Failed to save search")
		return
	}

	core.Created(w, search)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, p middleware.Principal) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Invalid JSON body")
		return
	}

	if err := req.Normalize(); err != nil {
		core.JSONError(w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	search, err := h.service.Update(r.Context(), p.UserID, chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, err, "Failed to update saved search")
		return
	}

	core.OK(w, search)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, p middleware.Principal) {
	if err := h.service.Delete(r.Context(), p.UserID, chi.URLParam(r, "id")); err != nil {
		h.fail(w, err, "Failed to delete saved search")
		return
	}

	core.Ack(w)
}

func (h *Handler) Listings(w http.ResponseWriter, r *http.Request, p middleware.Principal) {
	listings, err := h.service.Listings(r.Context(), p.UserID, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err, "Failed to fetch listings")
		return
	}

	core.OK(w, listings)
}

func (h *Handler) fail(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "saved search")
		return
	}
	core.ServerError(w, err, message)
}
