// AngelaMos | 2026
// entity.go

package user

import (
	"strings"
	"time"
)

type User struct {
	ID                 string    `db:"id"`
	FirstName          string    `db:"first_name"`
	LastName           string    `db:"last_name"`
	Email              string    `db:"email"`
	PasswordHash       string    `db:"password"`
	Phone              *string   `db:"phone"`
	Location           *string   `db:"location"`
	Role               string    `db:"role"`
	DomainLink         *string   `db:"domain_link"`
	SubscriptionStatus string    `db:"subscription_status"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// FullName joins the stored halves the way the settings form shows them.
func (u *User) FullName() string {
	first := strings.TrimSpace(u.FirstName)
	last := strings.TrimSpace(u.LastName)
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

const (
	RoleBuyer    = "buyer"
	RoleInvestor = "investor"
)

const (
	SubscriptionFree    = "free"
	SubscriptionPremium = "premium"
)

// NormalizeRole maps anything outside the public signup roles to buyer.
// Matching is exact.
func NormalizeRole(role string) string {
	switch role {
	case RoleInvestor:
		return RoleInvestor
	default:
		return RoleBuyer
	}
}
