// AngelaMos | 2026
// service.go

package favorite

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/parcel-land/parcel-api/internal/core"
	"github.com/parcel-land/parcel-api/internal/listing"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Toggle adds every id the user has not favorited and removes every id
// they have. It never reports which way each id went.
func (s *Service) Toggle(ctx context.Context, userID string, listingIDs []int64) (err error) {
	if len(listingIDs) == 0 {
		return fmt.Errorf("toggle favorites: %w", core.ErrInvalidInput)
	}

	ctx, span := core.StartSpan(ctx, "favorite.Toggle",
		attribute.Int("favorite.ids", len(listingIDs)),
	)
	defer func() { core.EndSpan(span, err) }()

	return s.repo.Toggle(ctx, userID, listingIDs)
}

// List returns the user's favorited listings, most recently favorited first.
func (s *Service) List(ctx context.Context, userID string) ([]listing.Listing, error) {
	listings, err := s.repo.ListListings(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range listings {
		listings[i].IsFavorite = true
	}

	return listings, nil
}

// FavoriteIDs lets the listing service annotate search results.
func (s *Service) FavoriteIDs(
	ctx context.Context,
	userID string,
	listingIDs []int64,
) (map[int64]struct{}, error) {
	return s.repo.FavoriteIDs(ctx, userID, listingIDs)
}

var _ listing.FavoriteLookup = (*Service)(nil)
