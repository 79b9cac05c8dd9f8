// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcel-land/parcel-api/internal/core"
)

type stubVerifier struct {
	principals map[string]*Principal
	err        error
}

func (s stubVerifier) VerifyAccessToken(_ context.Context, token string) (*Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	if p, ok := s.principals[token]; ok {
		return p, nil
	}
	return nil, core.ErrTokenInvalid
}

func newVerifier() stubVerifier {
	return stubVerifier{principals: map[string]*Principal{
		"good": {UserID: "u-1", Role: "buyer", Subscription: "free"},
	}}
}

func request(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, ExtractToken(req), tt.header)
	}
}

func TestAuthenticatorRejectsMissingAndBadTokens(t *testing.T) {
	h := Authenticator(newVerifier())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, request(""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Unauthorized"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, request("forged"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_INVALID")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, request("good"))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestAuthenticatorMapsRevokedTokens(t *testing.T) {
	h := Authenticator(stubVerifier{err: core.ErrTokenRevoked})(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, request("any"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOKEN_REVOKED")
}

func TestRequirePrincipal(t *testing.T) {
	var got Principal
	handler := RequirePrincipal(func(w http.ResponseWriter, _ *http.Request, p Principal) {
		got = p
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request(""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	OptionalAuth(newVerifier())(handler).ServeHTTP(rec, request("good"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "u-1", got.UserID)
}

func TestOptionalAuthPassesAnonymousThrough(t *testing.T) {
	var seen []*Principal
	handler := OptionalAuth(newVerifier())(WithOptionalPrincipal(
		func(w http.ResponseWriter, _ *http.Request, p *Principal) {
			seen = append(seen, p)
			w.WriteHeader(http.StatusOK)
		},
	))

	for _, token := range []string{"", "forged", "good"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, request(token))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	require.Len(t, seen, 3)
	assert.Nil(t, seen[0])
	assert.Nil(t, seen[1])
	require.NotNil(t, seen[2])
	assert.Equal(t, "u-1", seen[2].UserID)
}
