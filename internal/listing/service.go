// AngelaMos | 2026
// service.go

package listing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/parcel-land/parcel-api/internal/config"
	"github.com/parcel-land/parcel-api/internal/core"
)

const maxSimilarLimit = 24

// FavoriteLookup reports which of ids the user has favorited.
type FavoriteLookup interface {
	FavoriteIDs(ctx context.Context, userID string, ids []int64) (map[int64]struct{}, error)
}

type Service struct {
	repo      Repository
	favorites FavoriteLookup
	limits    config.ListingConfig
}

func NewService(repo Repository, favorites FavoriteLookup, limits config.ListingConfig) *Service {
	return &Service{
		repo:      repo,
		favorites: favorites,
		limits:    limits,
	}
}

// Search runs f capped at the search limit and annotates favorites for
// viewerID (empty for anonymous callers).
func (s *Service) Search(ctx context.Context, f Filter, viewerID string) ([]Listing, error) {
	return s.search(ctx, "listing.Search", f, s.limits.SearchLimit, viewerID)
}

// NearBy is Search with the smaller teaser cap when no criteria are set.
func (s *Service) NearBy(ctx context.Context, f Filter, viewerID string) ([]Listing, error) {
	limit := s.limits.SearchLimit
	if f.IsEmpty() {
		limit = s.limits.TeaserLimit
	}
	return s.search(ctx, "listing.NearBy", f, limit, viewerID)
}

func (s *Service) search(
	ctx context.Context,
	spanName string,
	f Filter,
	limit int,
	viewerID string,
) (_ []Listing, err error) {
	ctx, span := core.StartSpan(ctx, spanName, filterAttributes(f, limit)...)
	defer func() { core.EndSpan(span, err) }()

	listings, err := s.repo.Search(ctx, f, limit)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("listing.results", len(listings)))

	if err := s.Annotate(ctx, viewerID, listings); err != nil {
		return nil, err
	}

	return listings, nil
}

func (s *Service) Get(ctx context.Context, id int64, viewerID string) (*Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	one := []Listing{*listing}
	if err := s.Annotate(ctx, viewerID, one); err != nil {
		return nil, err
	}

	return &one[0], nil
}

// Similar returns up to limit semantic neighbours of id. limit <= 0 picks
// the configured default.
func (s *Service) Similar(
	ctx context.Context,
	id int64,
	limit int,
	viewerID string,
) (_ []Listing, err error) {
	if limit <= 0 {
		limit = s.limits.SimilarLimit
	}
	limit = min(limit, maxSimilarLimit)

	ctx, span := core.StartSpan(ctx, "listing.Similar",
		attribute.Int64("listing.id", id),
		attribute.Int("listing.limit", limit),
	)
	defer func() { core.EndSpan(span, err) }()

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	listings, err := s.repo.Similar(ctx, id, limit)
	if err != nil {
		return nil, err
	}

	if err := s.Annotate(ctx, viewerID, listings); err != nil {
		return nil, err
	}

	return listings, nil
}

// Annotate sets IsFavorite on each listing with a single lookup.
func (s *Service) Annotate(ctx context.Context, viewerID string, listings []Listing) error {
	if viewerID == "" || len(listings) == 0 || s.favorites == nil {
		return nil
	}

	ids := make([]int64, len(listings))
	for i := range listings {
		ids[i] = listings[i].ID
	}

	favored, err := s.favorites.FavoriteIDs(ctx, viewerID, ids)
	if err != nil {
		return fmt.Errorf("annotate favorites: %w", err)
	}

	for i := range listings {
		_, listings[i].IsFavorite = favored[listings[i].ID]
	}

	return nil
}

func filterAttributes(f Filter, limit int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.Int("listing.limit", limit),
		attribute.Bool("listing.filtered", !f.IsEmpty()),
	}
	if len(f.PropertyTypes) > 0 {
		attrs = append(attrs, attribute.StringSlice("listing.property_types", f.PropertyTypes))
	}
	if len(f.Activities) > 0 {
		attrs = append(attrs, attribute.StringSlice("listing.activities", f.Activities))
	}
	if f.Location != "" {
		attrs = append(attrs, attribute.String("listing.location", f.Location))
	}
	return attrs
}
