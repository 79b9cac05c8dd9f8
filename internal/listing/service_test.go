// AngelaMos | 2026
// service_test.go

package listing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcel-land/parcel-api/internal/config"
	"github.com/parcel-land/parcel-api/internal/core"
)

// stubRepo returns listings with descending ids, honouring the cap the
// way the SQL LIMIT does.
type stubRepo struct {
	total      int
	err        error
	lastFilter Filter
	lastLimit  int
	embedded   map[int64]bool
}

func (r *stubRepo) rows(n int) []Listing {
	out := make([]Listing, 0, n)
	for id := r.total; id > 0 && len(out) < n; id-- {
		out = append(out, Listing{ID: int64(id)})
	}
	return out
}

func (r *stubRepo) Search(_ context.Context, f Filter, limit int) ([]Listing, error) {
	r.lastFilter, r.lastLimit = f, limit
	if r.err != nil {
		return nil, r.err
	}
	return r.rows(limit), nil
}

func (r *stubRepo) GetByID(_ context.Context, id int64) (*Listing, error) {
	if id > int64(r.total) {
		return nil, fmt.Errorf("get listing: %w", core.ErrNotFound)
	}
	return &Listing{ID: id}, nil
}

func (r *stubRepo) Similar(_ context.Context, id int64, limit int) ([]Listing, error) {
	r.lastLimit = limit
	if !r.embedded[id] {
		return []Listing{}, nil
	}
	var out []Listing
	for _, l := range r.rows(limit + 1) {
		if l.ID != id && len(out) < limit {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *stubRepo) UpsertEmbedding(context.Context, int64, pgvector.Vector) error { return nil }

type stubFavorites struct {
	byUser map[string][]int64
	calls  int
}

func (f *stubFavorites) FavoriteIDs(_ context.Context, userID string, ids []int64) (map[int64]struct{}, error) {
	f.calls++
	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make(map[int64]struct{})
	for _, id := range f.byUser[userID] {
		if _, ok := wanted[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

var testLimits = config.ListingConfig{SearchLimit: 100, TeaserLimit: 6, SimilarLimit: 6}

func TestNearByTeaserCap(t *testing.T) {
	repo := &stubRepo{total: 500}
	svc := NewService(repo, nil, testLimits)
	ctx := context.Background()

	got, err := svc.NearBy(ctx, Filter{}, "")
	require.NoError(t, err)
	assert.Len(t, got, 6)
	assert.Equal(t, int64(500), got[0].ID)

	got, err = svc.NearBy(ctx, Filter{PropertyTypes: []string{"Farm"}}, "")
	require.NoError(t, err)
	assert.Len(t, got, 100)
}

func TestSearchNeverExceedsCap(t *testing.T) {
	repo := &stubRepo{total: 1000}
	svc := NewService(repo, nil, testLimits)

	got, err := svc.Search(context.Background(), Filter{}, "")
	require.NoError(t, err)
	assert.Len(t, got, 100)
	assert.Equal(t, 100, repo.lastLimit)
}

func TestSearchAnnotatesFavorites(t *testing.T) {
	favs := &stubFavorites{byUser: map[string][]int64{"u-1": {3, 9999}}}
	svc := NewService(&stubRepo{total: 5}, favs, testLimits)
	ctx := context.Background()

	got, err := svc.Search(ctx, Filter{}, "u-1")
	require.NoError(t, err)
	require.Len(t, got, 5)
	for _, l := range got {
		assert.Equal(t, l.ID == 3, l.IsFavorite, "listing %d", l.ID)
	}
	assert.Equal(t, 1, favs.calls)

	got, err = svc.Search(ctx, Filter{}, "")
	require.NoError(t, err)
	for _, l := range got {
		assert.False(t, l.IsFavorite)
	}
	assert.Equal(t, 1, favs.calls)
}

func TestSearchPropagatesRepositoryError(t *testing.T) {
	svc := NewService(&stubRepo{err: errors.New("boom")}, nil, testLimits)

	_, err := svc.Search(context.Background(), Filter{}, "")
	assert.Error(t, err)
}

func TestSimilar(t *testing.T) {
	repo := &stubRepo{total: 50, embedded: map[int64]bool{10: true}}
	svc := NewService(repo, nil, testLimits)
	ctx := context.Background()

	got, err := svc.Similar(ctx, 10, 0, "")
	require.NoError(t, err)
	assert.Len(t, got, 6)
	for _, l := range got {
		assert.NotEqual(t, int64(10), l.ID)
	}

	_, err = svc.Similar(ctx, 10, 500, "")
	require.NoError(t, err)
	assert.Equal(t, maxSimilarLimit, repo.lastLimit)

	got, err = svc.Similar(ctx, 11, 3, "")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = svc.Similar(ctx, 999, 3, "")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
