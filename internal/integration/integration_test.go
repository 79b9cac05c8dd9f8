//go:build integration

// AngelaMos | 2026
// integration_test.go

package integration_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/parcel-land/parcel-api/internal/auth"
	"github.com/parcel-land/parcel-api/internal/config"
	"github.com/parcel-land/parcel-api/internal/core"
	"github.com/parcel-land/parcel-api/internal/favorite"
	"github.com/parcel-land/parcel-api/internal/listing"
	"github.com/parcel-land/parcel-api/internal/savedsearch"
	"github.com/parcel-land/parcel-api/internal/user"
)

var testDB *sqlx.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"pgvector/pgvector:pg16",
		postgres.WithDatabase("parcel"),
		postgres.WithUsername("parcel"),
		postgres.WithPassword("parcel"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90*time.Second)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start postgres: %v\n", err)
		os.Exit(1)
	}

	code := run(ctx, m, pg)

	if err := pg.Terminate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "terminate postgres: %v\n", err)
	}
	os.Exit(code)
}

func run(ctx context.Context, m *testing.M, pg *postgres.PostgresContainer) int {
	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "connection string: %v\n", err)
		return 1
	}

	db, err := core.NewDatabase(ctx, config.DatabaseConfig{URL: dsn, MaxOpenConns: 10, MaxIdleConns: 2})
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		return 1
	}
	defer db.Close() //nolint:errcheck // container is discarded

	if _, err := core.Migrate(ctx, db.DB, slog.Default()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		return 1
	}

	testDB = db.DB
	return m.Run()
}

func createUser(t *testing.T, email string) string {
	t.Helper()
	svc := user.NewService(user.NewRepository(testDB))
	info, err := svc.Create(context.Background(), auth.NewAccount{
		FirstName:    "Dana",
		LastName:     "Reyes",
		Email:        email,
		PasswordHash: "$argon2id$placeholder",
		Role:         "investor",
	})
	require.NoError(t, err)
	return info.ID
}

type seedListing struct {
	title      string
	city       string
	state      string
	price      float64
	acres      float64
	types      []string
	activities []string
}

func insertListing(t *testing.T, l seedListing) int64 {
	t.Helper()
	var id int64
	err := testDB.QueryRowxContext(context.Background(), `
		INSERT INTO land_listings (title, city, state_abbreviation, price, acres, property_type, activities)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		l.title, l.city, l.state, l.price, l.acres, pq.Array(l.types), pq.Array(l.activities),
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestMigrateIsIdempotent(t *testing.T) {
	applied, err := core.Migrate(context.Background(), testDB, slog.Default())
	require.NoError(t, err)
	assert.Zero(t, applied)
}

func TestDuplicateEmailMapsToDuplicateKey(t *testing.T) {
	email := uuid.NewString() + "@example.com"
	createUser(t, email)

	svc := user.NewService(user.NewRepository(testDB))
	_, err := svc.Create(context.Background(), auth.NewAccount{
		FirstName: "B", LastName: "C", Email: email, PasswordHash: "x",
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)

	exists, err := svc.EmailExists(context.Background(), email)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFavoriteToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	userID := createUser(t, uuid.NewString()+"@example.com")
	a := insertListing(t, seedListing{title: "North 40", city: "Bozeman", state: "MT", price: 100000, acres: 40})
	b := insertListing(t, seedListing{title: "Creek lot", city: "Helena", state: "MT", price: 50000, acres: 5})

	svc := favorite.NewService(favorite.NewRepository(testDB))

	require.NoError(t, svc.Toggle(ctx, userID, []int64{a, b, 999_999_999}))
	ids, err := svc.FavoriteIDs(ctx, userID, []int64{a, b})
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	require.NoError(t, svc.Toggle(ctx, userID, []int64{a}))
	favs, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, b, favs[0].ID)
	assert.True(t, favs[0].IsFavorite)

	require.NoError(t, svc.Toggle(ctx, userID, []int64{b}))
	favs, err = svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestListingSearchFiltersAndAnnotates(t *testing.T) {
	ctx := context.Background()
	tag := uuid.NewString()[:8]
	userID := createUser(t, uuid.NewString()+"@example.com")

	ranch := insertListing(t, seedListing{
		title: "Ranch " + tag, city: "Austin_" + tag, state: "TX",
		price: 400000, acres: 120,
		types: []string{"Ranch", tag}, activities: []string{"Hunting"},
	})
	insertListing(t, seedListing{
		title: "Farm " + tag, city: "Waco", state: "TX",
		price: 90000, acres: 15,
		types: []string{"Farm", tag}, activities: []string{"Fishing"},
	})

	favorites := favorite.NewService(favorite.NewRepository(testDB))
	require.NoError(t, favorites.Toggle(ctx, userID, []int64{ranch}))

	svc := listing.NewService(listing.NewRepository(testDB), favorites, config.ListingConfig{
		SearchLimit: 100, TeaserLimit: 6, SimilarLimit: 6,
	})

	minAcres := 50.0
	got, err := svc.Search(ctx, listing.Filter{
		PropertyTypes: []string{tag},
		Activities:    []string{"Hunting"},
		MinAcres:      &minAcres,
		Location:      "austin_" + tag,
	}, userID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ranch, got[0].ID)
	assert.True(t, got[0].IsFavorite)
	assert.InDelta(t, 400000, *got[0].Price, 0.001)

	got, err = svc.Search(ctx, listing.Filter{PropertyTypes: []string{tag}}, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Greater(t, got[0].ID, got[1].ID)
	assert.False(t, got[0].IsFavorite)

	got, err = svc.Search(ctx, listing.Filter{Location: "austin%" + tag}, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNearByTeaserCap(t *testing.T) {
	ctx := context.Background()
	for i := range 8 {
		insertListing(t, seedListing{title: fmt.Sprintf("Teaser %d", i), city: "Boise", state: "ID", price: 1, acres: 1})
	}

	svc := listing.NewService(listing.NewRepository(testDB), nil, config.ListingConfig{
		SearchLimit: 100, TeaserLimit: 6, SimilarLimit: 6,
	})

	got, err := svc.NearBy(ctx, listing.Filter{}, "")
	require.NoError(t, err)
	assert.Len(t, got, 6)
}

func embedding(hot int) pgvector.Vector {
	v := make([]float32, listing.EmbeddingDimensions)
	v[hot] = 1
	v[hot+1] = 0.5
	return pgvector.NewVector(v)
}

func TestSimilarListings(t *testing.T) {
	ctx := context.Background()
	repo := listing.NewRepository(testDB)

	src := insertListing(t, seedListing{title: "Source", city: "Moab", state: "UT", price: 1, acres: 1})
	near := insertListing(t, seedListing{title: "Near", city: "Moab", state: "UT", price: 1, acres: 1})
	far := insertListing(t, seedListing{title: "Far", city: "Moab", state: "UT", price: 1, acres: 1})
	bare := insertListing(t, seedListing{title: "Bare", city: "Moab", state: "UT", price: 1, acres: 1})

	require.NoError(t, repo.UpsertEmbedding(ctx, src, embedding(0)))
	require.NoError(t, repo.UpsertEmbedding(ctx, near, embedding(0)))
	require.NoError(t, repo.UpsertEmbedding(ctx, far, embedding(400)))
	require.NoError(t, repo.UpsertEmbedding(ctx, near, embedding(1)))

	got, err := repo.Similar(ctx, src, 24)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, near, got[0].ID)
	for _, l := range got {
		assert.NotEqual(t, src, l.ID)
	}

	got, err = repo.Similar(ctx, bare, 6)
	require.NoError(t, err)
	assert.Empty(t, got)

	err = repo.UpsertEmbedding(ctx, src, pgvector.NewVector([]float32{1, 2, 3}))
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestSavedSearchRepository(t *testing.T) {
	ctx := context.Background()
	userID := createUser(t, uuid.NewString()+"@example.com")
	repo := savedsearch.NewRepository(testDB)

	maxPrice := 250000.5
	s := &savedsearch.SavedSearch{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       "Hunting",
		Frequency:  savedsearch.FrequencyWeekly,
		MaxPrice:   &maxPrice,
		Activities: []string{"Hunting"},
	}
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.Get(ctx, userID, s.ID)
	require.NoError(t, err)
	assert.InDelta(t, maxPrice, *got.MaxPrice, 0.001)
	assert.Equal(t, []string{"Hunting"}, []string(got.Activities))
	assert.Nil(t, got.MinPrice)

	freq := savedsearch.FrequencyDaily
	updated, err := repo.Update(ctx, userID, s.ID, nil, &freq)
	require.NoError(t, err)
	assert.Equal(t, "Hunting", updated.Name)
	assert.Equal(t, freq, updated.Frequency)

	_, err = repo.Update(ctx, uuid.NewString(), s.ID, nil, &freq)
	assert.ErrorIs(t, err, core.ErrNotFound)

	list, err := repo.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, userID, s.ID))
	assert.ErrorIs(t, repo.Delete(ctx, userID, s.ID), core.ErrNotFound)
}
