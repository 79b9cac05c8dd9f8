// AngelaMos | 2026
// repository.go

package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/parcel-land/parcel-api/internal/core"
)

type Repository interface {
	Search(ctx context.Context, f Filter, limit int) ([]Listing, error)
	GetByID(ctx context.Context, id int64) (*Listing, error)
	Similar(ctx context.Context, id int64, limit int) ([]Listing, error)
	UpsertEmbedding(ctx context.Context, listingID int64, vec pgvector.Vector) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Search(ctx context.Context, f Filter, limit int) ([]Listing, error) {
	query, args := BuildSearchQuery(f, limit)

	listings := []Listing{}
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}

	return listings, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Listing, error) {
	query := `SELECT ` + Columns("l") + ` FROM land_listings l WHERE l.id = $1`

	var listing Listing
	err := r.db.GetContext(ctx, &listing, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get listing: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}

	return &listing, nil
}

// Similar orders other embedded listings by cosine distance to id's
// embedding. A listing without an embedding has no neighbours.
func (r *repository) Similar(ctx context.Context, id int64, limit int) ([]Listing, error) {
	query := `
		WITH source AS (
			SELECT embedding FROM land_listing_embeddings WHERE listing_id = $1
		)
		SELECT ` + Columns("l") + `
		FROM source s
		JOIN land_listing_embeddings e ON e.listing_id <> $1
		JOIN land_listings l ON l.id = e.listing_id
		ORDER BY e.embedding <=> s.embedding, l.id DESC
		LIMIT $2`

	listings := []Listing{}
	if err := r.db.SelectContext(ctx, &listings, query, id, limit); err != nil {
		return nil, fmt.Errorf("similar listings: %w", err)
	}

	return listings, nil
}

func (r *repository) UpsertEmbedding(
	ctx context.Context,
	listingID int64,
	vec pgvector.Vector,
) error {
	if n := len(vec.Slice()); n != EmbeddingDimensions {
		return fmt.Errorf(
			"upsert embedding: got %d dimensions, want %d: %w",
			n, EmbeddingDimensions, core.ErrInvalidInput,
		)
	}

	query := `
		INSERT INTO land_listing_embeddings (listing_id, embedding)
		VALUES ($1, $2)
		ON CONFLICT (listing_id)
		DO UPDATE SET embedding = EXCLUDED.embedding, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, listingID, vec); err != nil {
		return fmt.Errorf("upsert embedding: %w", err)
	}

	return nil
}
