package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anikasharma/recipe-share/backend/internal/models"
	"github.com/anikasharma/recipe-share/backend/internal/store"
)

// fakeUserStore is an in-memory UserStore for handler tests.
type fakeUserStore struct {
	users  map[string]*models.User // keyed by username
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, username, hashedPw string) (*models.User, error) {
	if _, ok := f.users[username]; ok {
		return nil, store.ErrDuplicateUsername
	}
	f.nextID++
	u := &models.User{
		ID:        fmt.Sprintf("user-%d", f.nextID),
		Username:  username,
		Password:  hashedPw,
		CreatedAt: time.Now(),
	}
	f.users[username] = u
	return u, nil
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func postJSON(t *testing.T, h http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(b))
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func TestRegister(t *testing.T) {
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	h := NewHandler(newFakeUserStore(), tokens)

	rr := postJSON(t, h.Register, models.RegisterRequest{Username: "alice", Password: "secret1"})
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "user registered", resp["message"])
	require.NotEmpty(t, resp["userId"])
}

func TestRegisterMissingFields(t *testing.T) {
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	h := NewHandler(newFakeUserStore(), tokens)

	rr := postJSON(t, h.Register, models.RegisterRequest{Username: "alice"})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = postJSON(t, h.Register, models.RegisterRequest{Password: "secret1"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegisterWeakPassword(t *testing.T) {
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	h := NewHandler(newFakeUserStore(), tokens)

	rr := postJSON(t, h.Register, models.RegisterRequest{Username: "alice", Password: "short"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "at least 6 characters")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	h := NewHandler(newFakeUserStore(), tokens)

	rr := postJSON(t, h.Register, models.RegisterRequest{Username: "alice", Password: "secret1"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = postJSON(t, h.Register, models.RegisterRequest{Username: "alice", Password: "different-pw"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "username already taken")
}

func TestRegisterThenLogin(t *testing.T) {
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	h := NewHandler(newFakeUserStore(), tokens)

	rr := postJSON(t, h.Register, models.RegisterRequest{Username: "alice", Password: "secret1"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = postJSON(t, h.Login, models.LoginRequest{Username: "alice", Password: "secret1"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "alice", resp.User.Username)
	require.NotEmpty(t, resp.User.ID)

	claims, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, resp.User.ID, claims.UserID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	h := NewHandler(newFakeUserStore(), tokens)

	rr := postJSON(t, h.Register, models.RegisterRequest{Username: "alice", Password: "secret1"})
	require.Equal(t, http.StatusCreated, rr.Code)

	wrongPw := postJSON(t, h.Login, models.LoginRequest{Username: "alice", Password: "wrong-password"})
	unknownUser := postJSON(t, h.Login, models.LoginRequest{Username: "nobody", Password: "secret1"})

	require.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	require.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	require.Equal(t, wrongPw.Body.String(), unknownUser.Body.String())
}

func TestMe(t *testing.T) {
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	users := newFakeUserStore()
	h := NewHandler(users, tokens)

	u, err := users.CreateUser(context.Background(), "alice", "hashed-pw")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithClaims(req.Context(), &Claims{UserID: u.ID, Username: "alice"}))
	rr := httptest.NewRecorder()
	h.Me(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got models.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, "alice", got.Username)
	require.NotContains(t, rr.Body.String(), "hashed-pw", "password hash must never serialize")
}

func TestMeWithoutClaims(t *testing.T) {
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	h := NewHandler(newFakeUserStore(), tokens)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.Me(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMeUnknownUser(t *testing.T) {
	tokens := NewTokenService([]byte("test-secret"), time.Hour)
	h := NewHandler(newFakeUserStore(), tokens)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithClaims(req.Context(), &Claims{UserID: "gone", Username: "ghost"}))
	rr := httptest.NewRecorder()
	h.Me(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}
