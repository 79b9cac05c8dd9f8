// AngelaMos | 2026
// handler.go

package listing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/parcel-land/parcel-api/internal/core"
	"github.com/parcel-land/parcel-api/internal/middleware"
)

const fetchFailed = "Failed to fetch listings"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public listing routes. optionalAuth attaches a
// principal when one is presented so results can be favorite-annotated.
func (h *Handler) RegisterRoutes(r chi.Router, optionalAuth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)

		r.Get("/near-by", middleware.WithOptionalPrincipal(h.NearBy))
		r.Get("/land-activity", middleware.WithOptionalPrincipal(h.LandActivity))
		r.Get("/land-location-search", middleware.WithOptionalPrincipal(h.LocationSearch))
		r.Get("/listings/{id}", middleware.WithOptionalPrincipal(h.Get))
		r.Get("/listings/{id}/similar", middleware.WithOptionalPrincipal(h.Similar))
	})
}

func (h *Handler) NearBy(w http.ResponseWriter, r *http.Request, p *middleware.Principal) {
	f := FilterFromQuery(r.URL.Query(), TypeIsPropertyType)

	listings, err := h.service.NearBy(r.Context(), f, viewerID(p))
	if err != nil {
		core.ServerError(w, err, fetchFailed)
		return
	}

	core.OK(w, listings)
}

func (h *Handler) LandActivity(w http.ResponseWriter, r *http.Request, p *middleware.Principal) {
	f := FilterFromQuery(r.URL.Query(), TypeIsActivity)
	h.search(w, r, f, p)
}

func (h *Handler) LocationSearch(w http.ResponseWriter, r *http.Request, p *middleware.Principal) {
	f := FilterFromQuery(r.URL.Query(), TypeIsPropertyType)
	h.search(w, r, f, p)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, f Filter, p *middleware.Principal) {
	listings, err := h.service.Search(r.Context(), f, viewerID(p))
	if err != nil {
		core.ServerError(w, err, fetchFailed)
		return
	}

	core.OK(w, listings)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, p *middleware.Principal) {
	id, ok := ParseID(chi.URLParam(r, "id"))
	if !ok {
		core.NotFound(w, "listing")
		return
	}

	listing, err := h.service.Get(r.Context(), id, viewerID(p))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "listing")
			return
		}
		core.ServerError(w, err, "Failed to fetch listing")
		return
	}

	core.OK(w, listing)
}

func (h *Handler) Similar(w http.ResponseWriter, r *http.Request, p *middleware.Principal) {
	id, ok := ParseID(chi.URLParam(r, "id"))
	if !ok {
		core.NotFound(w, "listing")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	listings, err := h.service.Similar(r.Context(), id, limit, viewerID(p))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "listing")
			return
		}
		core.ServerError(w, err, fetchFailed)
		return
	}

	core.OK(w, listings)
}

// ParseID accepts positive base-10 listing ids.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func viewerID(p *middleware.Principal) string {
	if p == nil {
		return ""
	}
	return p.UserID
}
