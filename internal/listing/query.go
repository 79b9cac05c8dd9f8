// AngelaMos | 2026
// query.go

package listing

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// columns is the projection shared by every listing query. Numeric money
// and acreage columns are cast so they scan into float64.
var columns = []string{
	"id", "url", "title",
	"price::float8 AS price", "acres::float8 AS acres",
	"latitude", "longitude",
	"address1", "address2", "city", "state_abbreviation", "state_name", "zip", "county",
	"baths", "beds", "property_type", "external_link", "listing_date",
	"description", "directions", "activities", "property_amenities", "photos",
	"property_media_data", "broker_url", "broker_contact_name", "broker_email",
	"broker_phone_numbers", "broker_company_address1", "broker_company_address2",
	"broker_company_name", "broker_company_city", "broker_company_state",
	"broker_company_zip", "broker_description", "broker_external_link",
	"created_at", "updated_at",
}

// Columns renders the listing projection qualified by alias.
func Columns(alias string) string {
	qualified := make([]string, len(columns))
	for i, c := range columns {
		if alias == "" {
			qualified[i] = c
			continue
		}
		if name, as, found := strings.Cut(c, "::"); found {
			qualified[i] = alias + "." + name + "::" + as
			continue
		}
		qualified[i] = alias + "." + c
	}
	return strings.Join(qualified, ", ")
}

// Filter is the normalized set of listing search criteria. Zero values
// impose no constraint.
type Filter struct {
	PropertyTypes []string
	Activities    []string
	MinPrice      *float64
	MaxPrice      *float64
	MinAcres      *float64
	MaxAcres      *float64
	Location      string
}

func (f Filter) IsEmpty() bool {
	return len(f.PropertyTypes) == 0 &&
		len(f.Activities) == 0 &&
		f.MinPrice == nil && f.MaxPrice == nil &&
		f.MinAcres == nil && f.MaxAcres == nil &&
		f.Location == ""
}

// TypeTarget selects which array column the `type` parameter filters.
type TypeTarget int

const (
	TypeIsPropertyType TypeTarget = iota
	TypeIsActivity
)

// FilterFromQuery reads type, location and the four numeric bounds.
func FilterFromQuery(q url.Values, target TypeTarget) Filter {
	f := Filter{
		MinPrice: ParseBound(q.Get("minPrice")),
		MaxPrice: ParseBound(q.Get("maxPrice")),
		MinAcres: ParseBound(q.Get("minAcres")),
		MaxAcres: ParseBound(q.Get("maxAcres")),
		Location: strings.TrimSpace(q.Get("location")),
	}

	if t := strings.TrimSpace(q.Get("type")); t != "" {
		if target == TypeIsActivity {
			f.Activities = []string{t}
		} else {
			f.PropertyTypes = []string{t}
		}
	}

	return f
}

// ParseBound turns loosely formatted user input such as "$200,000" into a
// non-negative number. Anything unparseable, negative or non-finite is
// reported as absent rather than as an error.
func ParseBound(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	// A minus anywhere ahead of the first digit marks a negative value.
	if firstDigit := strings.IndexFunc(raw, isDigit); firstDigit < 0 ||
		strings.Contains(raw[:firstDigit], "-") {
		return nil
	}

	cleaned := strings.Map(func(r rune) rune {
		if isDigit(r) || r == '.' {
			return r
		}
		return -1
	}, raw)

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}

	return &v
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// BuildSearchQuery composes a parameterized, newest-first, capped listing
// query. Every condition is AND-combined.
func BuildSearchQuery(f Filter, limit int) (string, []any) {
	var conditions []string
	var args []any

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(f.PropertyTypes) > 0 {
		conditions = append(conditions,
			"l.property_type @> "+next(pq.StringArray(f.PropertyTypes))+"::text[]")
	}
	if len(f.Activities) > 0 {
		conditions = append(conditions,
			"l.activities @> "+next(pq.StringArray(f.Activities))+"::text[]")
	}
	if f.MinPrice != nil {
		conditions = append(conditions, "l.price >= "+next(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conditions = append(conditions, "l.price <= "+next(*f.MaxPrice))
	}
	if f.MinAcres != nil {
		conditions = append(conditions, "l.acres >= "+next(*f.MinAcres))
	}
	if f.MaxAcres != nil {
		conditions = append(conditions, "l.acres <= "+next(*f.MaxAcres))
	}
	if f.Location != "" {
		p := next("%" + escapeLike(f.Location) + "%")
		conditions = append(conditions, "("+strings.Join([]string{
			"l.city ILIKE " + p,
			"(l.city || ', ' || l.state_abbreviation) ILIKE " + p,
			"(l.county || ', ' || l.state_abbreviation) ILIKE " + p,
			"l.state_abbreviation ILIKE " + p,
			"l.state_name ILIKE " + p,
			"l.county ILIKE " + p,
		}, " OR ")+")")
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(Columns("l"))
	b.WriteString(" FROM land_listings l")
	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}
	b.WriteString(" ORDER BY l.id DESC LIMIT ")
	b.WriteString(next(limit))

	return b.String(), args
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
