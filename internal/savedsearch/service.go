// AngelaMos | 2026
// service.go

package savedsearch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/parcel-land/parcel-api/internal/core"
	"github.com/parcel-land/parcel-api/internal/listing"
)

// ListingSearcher runs a composed listing query for a viewer.
type ListingSearcher interface {
	Search(ctx context.Context, f listing.Filter, viewerID string) ([]listing.Listing, error)
}

type Service struct {
	repo     Repository
	listings ListingSearcher
}

func NewService(repo Repository, listings ListingSearcher) *Service {
	return &Service{repo: repo, listings: listings}
}

func (s *Service) List(ctx context.Context, userID string) ([]SavedSearch, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateRequest,
) (*SavedSearch, error) {
	search := req.toSavedSearch(userID)
	search.ID = uuid.New().String()

	if err := s.repo.Create(ctx, search); err != nil {
		return nil, err
	}

	return search, nil
}

func (s *Service) Update(
	ctx context.Context,
	userID, id string,
	req UpdateRequest,
) (*SavedSearch, error) {
	if !validID(id) {
		return nil, fmt.Errorf("update saved search: %w", core.ErrNotFound)
	}
	return s.repo.Update(ctx, userID, id, req.Name, req.Frequency)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return fmt.Errorf("delete saved search: %w", core.ErrNotFound)
	}
	return s.repo.Delete(ctx, userID, id)
}

// Listings reruns the saved criteria through the listing search.
func (s *Service) Listings(ctx context.Context, userID, id string) ([]listing.Listing, error) {
	if !validID(id) {
		return nil, fmt.Errorf("run saved search: %w", core.ErrNotFound)
	}

	search, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	return s.listings.Search(ctx, search.Filter(), userID)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
