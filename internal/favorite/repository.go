// AngelaMos | 2026
// repository.go

package favorite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/parcel-land/parcel-api/internal/core"
	"github.com/parcel-land/parcel-api/internal/listing"
)

type Repository interface {
	Toggle(ctx context.Context, userID string, listingIDs []int64) error
	FavoriteIDs(ctx context.Context, userID string, listingIDs []int64) (map[int64]struct{}, error)
	ListListings(ctx context.Context, userID string) ([]listing.Listing, error)
}

// Database is the pool the repository runs on; *sqlx.DB satisfies it.
type Database interface {
	core.DBTX
	core.TxBeginner
}

type repository struct {
	db Database
}

func NewRepository(db Database) Repository {
	return &repository{db: db}
}

// toggleQuery flips membership for every submitted id in one statement.
// Rows that exist are deleted; the rest are inserted if the listing exists.
const toggleQuery = `
	WITH input AS (
		SELECT DISTINCT unnest($2::bigint[]) AS id
	),
	removed AS (
		DELETE FROM favorites f
		USING input i
		WHERE f.user_id = $1::uuid AND f.land_listing_id = i.id
		RETURNING f.land_listing_id
	)
	INSERT INTO favorites (user_id, land_listing_id)
	SELECT $1::uuid, i.id
	FROM input i
	JOIN land_listings l ON l.id = i.id
	WHERE i.id NOT IN (SELECT land_listing_id FROM removed)
	ON CONFLICT (user_id, land_listing_id) DO NOTHING`

func (r *repository) Toggle(ctx context.Context, userID string, listingIDs []int64) error {
	if len(listingIDs) == 0 {
		return nil
	}

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		// Serializes toggles per user so two requests cannot both read
		// the same pre-toggle state.
		if _, err := tx.ExecContext(ctx,
			`SELECT pg_advisory_xact_lock(hashtext($1::text))`, userID,
		); err != nil {
			return fmt.Errorf("lock favorites: %w", err)
		}

		if _, err := tx.ExecContext(ctx, toggleQuery, userID, pq.Array(listingIDs)); err != nil {
			return fmt.Errorf("toggle favorites: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("toggle favorites: %w", err)
	}

	return nil
}

func (r *repository) FavoriteIDs(
	ctx context.Context,
	userID string,
	listingIDs []int64,
) (map[int64]struct{}, error) {
	out := make(map[int64]struct{})
	if len(listingIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT land_listing_id
		FROM favorites
		WHERE user_id = $1::uuid AND land_listing_id = ANY($2::bigint[])`

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, userID, pq.Array(listingIDs)); err != nil {
		return nil, fmt.Errorf("favorite ids: %w", err)
	}

	for _, id := range ids {
		out[id] = struct{}{}
	}

	return out, nil
}

func (r *repository) ListListings(ctx context.Context, userID string) ([]listing.Listing, error) {
	query := `
		SELECT ` + listing.Columns("l") + `
		FROM favorites f
		JOIN land_listings l ON l.id = f.land_listing_id
		WHERE f.user_id = $1::uuid
		ORDER BY f.created_at DESC, l.id DESC`

	listings := []listing.Listing{}
	if err := r.db.SelectContext(ctx, &listings, query, userID); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	return listings, nil
}
