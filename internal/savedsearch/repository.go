// AngelaMos | 2026
// repository.go

package savedsearch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/parcel-land/parcel-api/internal/core"
)

type Repository interface {
	List(ctx context.Context, userID string) ([]SavedSearch, error)
	Get(ctx context.Context, userID, id string) (*SavedSearch, error)
	Create(ctx context.Context, s *SavedSearch) error
	Update(ctx context.Context, userID, id string, name, frequency *string) (*SavedSearch, error)
	Delete(ctx context.Context, userID, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const savedSearchColumns = `id, user_id, name, frequency,
	min_price::float8 AS min_price, max_price::float8 AS max_price,
	min_acres::float8 AS min_acres, max_acres::float8 AS max_acres,
	location, prompt, property_type, land_type, activities,
	created_at, updated_at`

func (r *repository) List(ctx context.Context, userID string) ([]SavedSearch, error) {
	query := `SELECT ` + savedSearchColumns + `
		FROM saved_searches
		WHERE user_id = $1
		ORDER BY created_at DESC, id`

	searches := []SavedSearch{}
	if err := r.db.SelectContext(ctx, &searches, query, userID); err != nil {
		return nil, fmt.Errorf("list saved searches: %w", err)
	}

	return searches, nil
}

func (r *repository) Get(ctx context.Context, userID, id string) (*SavedSearch, error) {
	query := `SELECT ` + savedSearchColumns + `
		FROM saved_searches
		WHERE id = $1 AND user_id = $2`

	var s SavedSearch
	err := r.db.GetContext(ctx, &s, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get saved search: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get saved search: %w", err)
	}

	return &s, nil
}

func (r *repository) Create(ctx context.Context, s *SavedSearch) error {
	query := `
		INSERT INTO saved_searches (
			id, user_id, name, frequency,
			min_price, max_price, min_acres, max_acres,
			location, prompt, property_type, land_type, activities
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID,
		s.UserID,
		s.Name,
		s.Frequency,
		s.MinPrice,
		s.MaxPrice,
		s.MinAcres,
		s.MaxAcres,
		s.Location,
		s.Prompt,
		s.PropertyType,
		s.LandType,
		s.Activities,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create saved search: %w", err)
	}

	return nil
}

func (r *repository) Update(
	ctx context.Context,
	userID, id string,
	name, frequency *string,
) (*SavedSearch, error) {
	query := `
		UPDATE saved_searches
		SET name = COALESCE($3, name),
			frequency = COALESCE($4, frequency),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + savedSearchColumns

	var s SavedSearch
	err := r.db.GetContext(ctx, &s, query, id, userID, name, frequency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update saved search: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update saved search: %w", err)
	}

	return &s, nil
}

func (r *repository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM saved_searches WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete saved search: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete saved search: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete saved search: %w", core.ErrNotFound)
	}

	return nil
}
