package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-product-api/internal/model"
	"go-product-api/internal/token"
)

func authTestService(t *testing.T) *token.Service {
	t.Helper()
	svc, err := token.NewService("test-secret", time.Hour)
	require.NoError(t, err)
	return svc
}

func protectedHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "alice", claims.Username)
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(authTestService(t))
	handler := mw.RequireAuth(protectedHandler(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/profile", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "INVALID_TOKEN", body.Error)
}

func TestRequireAuth_MalformedToken(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(authTestService(t))
	handler := mw.RequireAuth(protectedHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	t.Parallel()

	svc := authTestService(t)
	signed, err := svc.Issue(model.User{ID: 1, Username: "alice", Email: "alice@x.com"})
	require.NoError(t, err)

	mw := NewAuthMiddleware(svc)
	handler := mw.RequireAuth(protectedHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	svc, err := token.NewService("test-secret", time.Nanosecond)
	require.NoError(t, err)

	signed, err := svc.Issue(model.User{ID: 1, Username: "alice"})
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	mw := NewAuthMiddleware(svc)
	handler := mw.RequireAuth(protectedHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "TOKEN_EXPIRED", body.Error)
}
