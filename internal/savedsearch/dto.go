// AngelaMos | 2026
// dto.go

package savedsearch

import (
	"strings"

	"github.com/parcel-land/parcel-api/internal/core"
)

type CreateRequest struct {
	Name         string   `json:"name"         validate:"required,max=120"`
	Frequency    string   `json:"frequency"`
	MinPrice     *float64 `json:"minPrice"     validate:"omitempty,gte=0"`
	MaxPrice     *float64 `json:"maxPrice"     validate:"omitempty,gte=0"`
	MinAcres     *float64 `json:"minAcres"     validate:"omitempty,gte=0"`
	MaxAcres     *float64 `json:"maxAcres"     validate:"omitempty,gte=0"`
	Location     *string  `json:"location"     validate:"omitempty,max=200"`
	Prompt       *string  `json:"prompt"       validate:"omitempty,max=2000"`
	PropertyType *string  `json:"propertyType" validate:"omitempty,max=100"`
	LandType     *string  `json:"landType"     validate:"omitempty,max=100"`
	Activities   []string `json:"activities"   validate:"omitempty,max=50,dive,max=100"`
}

// Normalize trims free text and checks the cross-field rules the tags
// cannot express.
func (r *CreateRequest) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)

	freq, ok := NormalizeFrequency(r.Frequency)
	if !ok {
		return core.ValidationError("Unknown frequency: " + r.Frequency)
	}
	r.Frequency = freq

	if outOfOrder(r.MinPrice, r.MaxPrice) {
		return core.ValidationError("Minimum price cannot exceed maximum price")
	}
	if outOfOrder(r.MinAcres, r.MaxAcres) {
		return core.ValidationError("Minimum acres cannot exceed maximum acres")
	}

	return nil
}

func outOfOrder(lo, hi *float64) bool {
	return lo != nil && hi != nil && *lo > *hi
}

func (r CreateRequest) toSavedSearch(userID string) *SavedSearch {
	return &SavedSearch{
		UserID:       userID,
		Name:         r.Name,
		Frequency:    r.Frequency,
		MinPrice:     r.MinPrice,
		MaxPrice:     r.MaxPrice,
		MinAcres:     r.MinAcres,
		MaxAcres:     r.MaxAcres,
		Location:     blankToNil(r.Location),
		Prompt:       blankToNil(r.Prompt),
		PropertyType: blankToNil(r.PropertyType),
		LandType:     blankToNil(r.LandType),
		Activities:   r.Activities,
	}
}

type UpdateRequest struct {
	Name      *string `json:"name"      validate:"omitempty,max=120"`
	Frequency *string `json:"frequency"`
}

func (r *UpdateRequest) Normalize() error {
	if r.Name == nil && r.Frequency == nil {
		return core.ValidationError("name or frequency is required")
	}

	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return core.ValidationError("name cannot be empty")
		}
		r.Name = &name
	}

	if r.Frequency != nil {
		freq, ok := NormalizeFrequency(*r.Frequency)
		if !ok {
			return core.ValidationError("Unknown frequency: " + *r.Frequency)
		}
		r.Frequency = &freq
	}

	return nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
