package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gspotify/config"
	"gspotify/core/auth"
	"gspotify/model"
	"gspotify/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	repository.UserRepository
	user *model.User
}

func (s *stubUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, nil
}

func newAuthFixture(t *testing.T, user *model.User) (*APIHandler, *auth.TokenIssuer) {
	t.Helper()
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	h := NewAPIHandler(Repositories{Users: &stubUserRepo{user: user}}, nil, nil, tokens, &config.Config{})
	return h, tokens
}

func callProtected(h *APIHandler, authHeader string) *httptest.ResponseRecorder {
	handler := h.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		respondJSON(w, http.StatusOK, map[string]interface{}{"user_id": claims.UserID, "role": claims.Role})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	user := &model.User{ID: 5, Username: "alice", Role: model.RoleUser, IsActive: true}
	h, tokens := newAuthFixture(t, user)

	token, err := tokens.GenerateToken(5, "alice", model.RoleUser)
	require.NoError(t, err)

	rec := callProtected(h, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id": 5, "role": "user"}`, rec.Body.String())
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	h, _ := newAuthFixture(t, nil)

	rec := callProtected(h, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	h, _ := newAuthFixture(t, nil)

	rec := callProtected(h, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	h, _ := newAuthFixture(t, nil)

	rec := callProtected(h, "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsDisabledAccount(t *testing.T) {
	user := &model.User{ID: 5, Username: "alice", Role: model.RoleUser, IsActive: false}
	h, tokens := newAuthFixture(t, user)

	token, err := tokens.GenerateToken(5, "alice", model.RoleUser)
	require.NoError(t, err)

	rec := callProtected(h, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// A role change lands on the next request even if the token still carries the
// old role.
func TestAuthMiddlewareUsesDatabaseRole(t *testing.T) {
	user := &model.User{ID: 5, Username: "alice", Role: model.RoleAdmin, IsActive: true}
	h, tokens := newAuthFixture(t, user)

	token, err := tokens.GenerateToken(5, "alice", model.RoleUser)
	require.NoError(t, err)

	rec := callProtected(h, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id": 5, "role": "admin"}`, rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	user := &model.User{ID: 5, Username: "alice", Role: model.RoleUser, IsActive: true}
	h, tokens := newAuthFixture(t, user)

	token, err := tokens.GenerateToken(5, "alice", model.RoleUser)
	require.NoError(t, err)

	handler := h.AuthMiddleware(h.requireRole(model.RoleAdmin, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, nil)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
