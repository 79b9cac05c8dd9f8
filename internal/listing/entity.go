// AngelaMos | 2026
// entity.go

package listing

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions matches the vector(768) column.
const EmbeddingDimensions = 768

type Listing struct {
	ID                    int64          `db:"id"                      json:"id"`
	URL                   *string        `db:"url"                     json:"url"`
	Title                 *string        `db:"title"                   json:"title"`
	Price                 *float64       `db:"price"                   json:"price"`
	Acres                 *float64       `db:"acres"                   json:"acres"`
	Latitude              *float64       `db:"latitude"                json:"latitude"`
	Longitude             *float64       `db:"longitude"               json:"longitude"`
	Address1              *string        `db:"address1"                json:"address1"`
	Address2              *string        `db:"address2"                json:"address2"`
	City                  *string        `db:"city"                    json:"city"`
	StateAbbreviation     *string        `db:"state_abbreviation"      json:"stateAbbreviation"`
	StateName             *string        `db:"state_name"              json:"stateName"`
	Zip                   *string        `db:"zip"                     json:"zip"`
	County                *string        `db:"county"                  json:"county"`
	Baths                 *int32         `db:"baths"                   json:"baths"`
	Beds                  *int32         `db:"beds"                    json:"beds"`
	PropertyType          pq.StringArray `db:"property_type"           json:"propertyType"`
	ExternalLink          *string        `db:"external_link"           json:"externalLink"`
	ListingDate           *time.Time     `db:"listing_date"            json:"listingDate"`
	Description           pq.StringArray `db:"description"             json:"description"`
	Directions            pq.StringArray `db:"directions"              json:"directions"`
	Activities            pq.StringArray `db:"activities"              json:"activities"`
	PropertyAmenities     RawJSON        `db:"property_amenities"      json:"propertyAmenities"`
	Photos                pq.StringArray `db:"photos"                  json:"photos"`
	PropertyMediaData     RawJSON        `db:"property_media_data"     json:"propertyMediaData"`
	BrokerURL             *string        `db:"broker_url"              json:"brokerUrl"`
	BrokerContactName     *string        `db:"broker_contact_name"     json:"brokerContactName"`
	BrokerEmail           *string        `db:"broker_email"            json:"brokerEmail"`
	BrokerPhoneNumbers    RawJSON        `db:"broker_phone_numbers"    json:"brokerPhoneNumbers"`
	BrokerCompanyAddress1 *string        `db:"broker_company_address1" json:"brokerCompanyAddress1"`
	BrokerCompanyAddress2 *string        `db:"broker_company_address2" json:"brokerCompanyAddress2"`
	BrokerCompanyName     *string        `db:"broker_company_name"     json:"brokerCompanyName"`
	BrokerCompanyCity     *string        `db:"broker_company_city"     json:"brokerCompanyCity"`
	BrokerCompanyState    *string        `db:"broker_company_state"    json:"brokerCompanyState"`
	BrokerCompanyZip      *string        `db:"broker_company_zip"      json:"brokerCompanyZip"`
	BrokerDescription     pq.StringArray `db:"broker_description"      json:"brokerDescription"`
	BrokerExternalLink    *string        `db:"broker_external_link"    json:"brokerExternalLink"`
	CreatedAt             time.Time      `db:"created_at"              json:"createdAt"`
	UpdatedAt             time.Time      `db:"updated_at"              json:"updatedAt"`

	IsFavorite bool `db:"-" json:"isFavorite"`
}

// Embedding is the semantic vector stored for one listing.
type Embedding struct {
	ListingID int64           `db:"listing_id"`
	Vector    pgvector.Vector `db:"embedding"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// RawJSON carries a jsonb column through to the response untouched.
type RawJSON json.RawMessage

func (j *RawJSON) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = RawJSON(v)
	default:
		return fmt.Errorf("scan jsonb: unsupported type %T", src)
	}
	return nil
}

func (j RawJSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

func (j RawJSON) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(j)) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *RawJSON) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*j = nil
		return nil
	}
	*j = append((*j)[:0], data...)
	return nil
}
