// AngelaMos | 2026
// handler.go

package favorite

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parcel-land/parcel-api/internal/core"
	"github.com/parcel-land/parcel-api/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router, authenticator func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/favorites", middleware.RequirePrincipal(h.List))
		r.Post("/favorites", middleware.RequirePrincipal(h.Toggle))
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, p middleware.Principal) {
	listings, err := h.service.List(r.Context(), p.UserID)
	if err != nil {
		core.ServerError(w, err, "Failed to fetch favorites")
		return
	}

	core.OK(w, listings)
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request, p middleware.Principal) {
	var req ToggleRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		core.BadRequest(w, "Invalid JSON body")
		return
	}

	ids := ParseListingIDs(req.LandListingIDs)
	if len(ids) == 0 {
		core.BadRequest(w, "landListingIds array required")
		return
	}

	if err := h.service.Toggle(r.Context(), p.UserID, ids); err != nil {
		core.ServerError(w, err, "Failed to save favorites")
		return
	}

	core.Ack(w)
}
