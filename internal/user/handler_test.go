// AngelaMos | 2026
// handler_test.go

package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcel-land/parcel-api/internal/middleware"
)

// asUser stands in for the token middleware.
func asUser(id string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id != "" {
				r = r.WithContext(middleware.WithPrincipal(r.Context(), &middleware.Principal{UserID: id}))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newRouter(repo Repository, userID string) chi.Router {
	r := chi.NewRouter()
	NewHandler(NewService(repo)).RegisterRoutes(r, asUser(userID))
	return r
}

func TestProfileRoutes(t *testing.T) {
	repo := newMemoryRepo(&User{
		ID:                 "u-1",
		FirstName:          "Ada",
		LastName:           "Lovelace",
		Email:              "ada@example.com",
		Role:               RoleBuyer,
		SubscriptionStatus: SubscriptionFree,
	})
	router := newRouter(repo, "u-1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/profile",
		strings.NewReader(`{"fullName":"Grace Hopper","phone":"555-0199"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var profile ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "Grace Hopper", profile.FullName)
	assert.Equal(t, "555-0199", *profile.Phone)
	assert.Nil(t, profile.Location)
}

func TestUpdateProfileErrors(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		body   string
		status int
		msg    string
	}{
		{"bad json", "u-1", `{"fullName":`, http.StatusBadRequest, "Invalid JSON body"},
		{"anonymous", "", `{}`, http.StatusUnauthorized, "Unauthorized"},
		{"missing user", "ghost", `{"fullName":"A B"}`, http.StatusNotFound, "User not found"},
		{"phone too long", "u-1", `{"phone":"` + strings.Repeat("5", 41) + `"}`, http.StatusBadRequest, "Phone must be at most 40 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(newMemoryRepo(&User{ID: "u-1"}), tt.userID)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/profile", strings.NewReader(tt.body)))

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.msg)
		})
	}
}

func TestUpdateProfileNullClearsFields(t *testing.T) {
	repo := newMemoryRepo(&User{
		ID:        "u-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Phone:     strPtr("555-0100"),
		Location:  strPtr("Austin"),
	})
	router := newRouter(repo, "u-1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/profile",
		strings.NewReader(`{"phone":null,"location":null}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var profile ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Nil(t, profile.Phone)
	assert.Nil(t, profile.Location)
	assert.Equal(t, "Ada Lovelace", profile.FullName)
}
