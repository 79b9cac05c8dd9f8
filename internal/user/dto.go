// AngelaMos | 2026
// dto.go

package user

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/parcel-land/parcel-api/internal/core"
)

const (
	maxPhoneLength    = 40
	maxLocationLength = 200
)

// UpdateProfileRequest is the settings form body. Phone and Location are
// three-state: absent leaves the column alone, null or "" clears it. Email
// is accepted for form compatibility and never applied.
type UpdateProfileRequest struct {
	FullName *string      `json:"fullName" validate:"omitempty,max=200"`
	Email    *string      `json:"email"`
	Phone    OptionalText `json:"phone"`
	Location OptionalText `json:"location"`
}

// Validate checks the fields the struct tags cannot reach.
func (r UpdateProfileRequest) Validate() error {
	if len(r.Phone.String()) > maxPhoneLength {
		return core.ValidationError("Phone must be at most 40 characters")
	}
	if len(r.Location.String()) > maxLocationLength {
		return core.ValidationError("Location must be at most 200 characters")
	}
	return nil
}

// OptionalText records whether a JSON field was present at all, so an
// explicit null can be told apart from an omitted field.
type OptionalText struct {
	Set   bool
	Value *string
}

// Text is a present, non-null value.
func Text(s string) OptionalText {
	return OptionalText{Set: true, Value: &s}
}

// Null is a present null.
func Null() OptionalText {
	return OptionalText{Set: true}
}

func (o *OptionalText) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

func (o OptionalText) String() string {
	if o.Value == nil {
		return ""
	}
	return *o.Value
}

type ProfileResponse struct {
	ID                 string    `json:"id"`
	FullName           string    `json:"fullName"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	Email              string    `json:"email"`
	Phone              *string   `json:"phone"`
	Location           *string   `json:"location"`
	Role               string    `json:"role"`
	SubscriptionStatus string    `json:"subscriptionStatus"`
	CreatedAt          time.Time `json:"createdAt"`
}

// SplitFullName splits at the first space. A missing half is stored as a
// single space, matching rows written by the legacy service. ok is false
// for a blank name.
func SplitFullName(fullName string) (first, last string, ok bool) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return "", "", false
	}

	first, last, _ = strings.Cut(fullName, " ")
	last = strings.TrimSpace(last)
	if last == "" {
		last = " "
	}

	return first, last, true
}

// nullableText maps "" to NULL.
func nullableText(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func ToProfileResponse(u *User) ProfileResponse {
	return ProfileResponse{
		ID:                 u.ID,
		FullName:           u.FullName(),
		FirstName:          strings.TrimSpace(u.FirstName),
		LastName:           strings.TrimSpace(u.LastName),
		Email:              u.Email,
		Phone:              u.Phone,
		Location:           u.Location,
		Role:               u.Role,
		SubscriptionStatus: u.SubscriptionStatus,
		CreatedAt:          u.CreatedAt,
	}
}
