// AngelaMos | 2026
// dto.go

package auth

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/parcel-land/parcel-api/internal/core"
)

const MinPasswordLength = 8

type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// Normalize trims the names and email and lowercases the email. Role is
// left as sent.
func (r *SignupRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r SignupRequest) Validate(v *validator.Validate) error {
	if r.FirstName == "" || r.LastName == "" || r.Email == "" || strings.TrimSpace(r.Password) == "" {
		return core.ValidationError("First name, last name, email and password are required")
	}
	if err := v.Var(r.Email, "email,max=255"); err != nil {
		return core.ValidationError("A valid email address is required")
	}
	if len(r.Password) > 128 {
		return core.ValidationError("Password must be at most 128 characters")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate applies the password policy in the order the settings page
// reports failures.
func (r ChangePasswordRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.CurrentPassword) == "":
		return core.ValidationError("Current password is required")
	case strings.TrimSpace(r.NewPassword) == "":
		return core.ValidationError("New password is required")
	case r.NewPassword != r.ConfirmPassword:
		return core.ValidationError("New password and confirmation do not match")
	case len(strings.TrimSpace(r.NewPassword)) < MinPasswordLength:
		return core.ValidationError("New password must be at least 8 characters")
	}
	return nil
}

type UserResponse struct {
	ID                 string `json:"id"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	SubscriptionStatus string `json:"subscriptionStatus"`
}

type SessionResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type CurrentSessionResponse struct {
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

func toUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		FirstName:          strings.TrimSpace(u.FirstName),
		LastName:           strings.TrimSpace(u.LastName),
		Email:              u.Email,
		Role:               u.Role,
		SubscriptionStatus: u.Subscription,
	}
}
