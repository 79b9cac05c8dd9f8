// AngelaMos | 2026
// entity.go

package savedsearch

import (
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/parcel-land/parcel-api/internal/listing"
)

const (
	FrequencyInstant = "instant"
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyNone    = "none"
)

var frequencies = map[string]struct{}{
	FrequencyInstant: {},
	FrequencyDaily:   {},
	FrequencyWeekly:  {},
	FrequencyMonthly: {},
	FrequencyNone:    {},
}

// NormalizeFrequency lowercases raw and reports whether it names a known
// alert cadence. Blank input selects weekly.
func NormalizeFrequency(raw string) (string, bool) {
	f := strings.ToLower(strings.TrimSpace(raw))
	if f == "" {
		return FrequencyWeekly, true
	}
	_, ok := frequencies[f]
	return f, ok
}

type SavedSearch struct {
	ID           string         `db:"id"            json:"id"`
	UserID       string         `db:"user_id"       json:"-"`
	Name         string         `db:"name"          json:"name"`
	Frequency    string         `db:"frequency"     json:"frequency"`
	MinPrice     *float64       `db:"min_price"     json:"minPrice"`
	MaxPrice     *float64       `db:"max_price"     json:"maxPrice"`
	MinAcres     *float64       `db:"min_acres"     json:"minAcres"`
	MaxAcres     *float64       `db:"max_acres"     json:"maxAcres"`
	Location     *string        `db:"location"      json:"location"`
	Prompt       *string        `db:"prompt"        json:"prompt"`
	PropertyType *string        `db:"property_type" json:"propertyType"`
	LandType     *string        `db:"land_type"     json:"landType"`
	Activities   pq.StringArray `db:"activities"    json:"activities"`
	CreatedAt    time.Time      `db:"created_at"    json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at"    json:"updatedAt"`
}

// Filter translates the stored criteria into a listing query. Property
// and land type both constrain the listing's property_type array. Prompt
// is kept for display only.
func (s SavedSearch) Filter() listing.Filter {
	f := listing.Filter{
		MinPrice: s.MinPrice,
		MaxPrice: s.MaxPrice,
		MinAcres: s.MinAcres,
		MaxAcres: s.MaxAcres,
	}

	for _, t := range []*string{s.PropertyType, s.LandType} {
		if t != nil && strings.TrimSpace(*t) != "" {
			f.PropertyTypes = append(f.PropertyTypes, strings.TrimSpace(*t))
		}
	}

	for _, a := range s.Activities {
		if a = strings.TrimSpace(a); a != "" {
			f.Activities = append(f.Activities, a)
		}
	}

	if s.Location != nil {
		f.Location = strings.TrimSpace(*s.Location)
	}

	return f
}
