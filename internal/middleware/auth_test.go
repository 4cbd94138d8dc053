package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anikasharma/recipe-share/backend/internal/auth"
)

func TestRequireAuthMissingHeader(t *testing.T) {
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	handler := RequireAuth(tokens)(next)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Contains(t, rr.Body.String(), "authentication required")
	require.False(t, called, "downstream handler must not run without a token")
}

func TestRequireAuthNonBearerScheme(t *testing.T) {
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	handler := RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("downstream handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwdw==")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	handler := RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("downstream handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Contains(t, rr.Body.String(), "invalid token")
}

func TestRequireAuthExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	expiredIssuer := auth.NewTokenService(secret, -time.Minute)
	tok, err := expiredIssuer.Issue("u1", "alice")
	require.NoError(t, err)

	tokens := auth.NewTokenService(secret, time.Hour)
	handler := RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("downstream handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Contains(t, rr.Body.String(), "token expired")
}

func TestRequireAuthAttachesClaims(t *testing.T) {
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	tok, err := tokens.Issue("user-42", "alice")
	require.NoError(t, err)

	var got *auth.Claims
	handler := RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = auth.ClaimsFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	require.Equal(t, "user-42", got.UserID)
	require.Equal(t, "alice", got.Username)
}

func TestClaimsFromWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Nil(t, auth.ClaimsFrom(req.Context()))
}
