package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/repository"
	"rwa-backend/internal/server/authctx"
)

const testSecret = "middleware-secret"

func signToken(t *testing.T, userID int64, tokenType string, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        strconv.FormatInt(userID, 10),
		"token_type": tokenType,
		"exp":        exp.Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func seededStore(t *testing.T) (*repository.MemoryStore, domain.User) {
	t.Helper()
	store := repository.NewMemoryStore()
	u, err := store.CreateUser(context.Background(), repository.NewUser{
		PhoneNumber: "9000000002",
		Name:        "Ravi",
		FlatNumber:  "A-101",
		Role:        domain.RoleResident,
		IsActive:    true,
	}, nil)
	require.NoError(t, err)
	return store, *u
}

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	store, user := seededStore(t)
	var got *authctx.CurrentUser
	h := AuthMiddleware(testSecret, store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = authctx.FromContext(r.Context())
	}))

	t.Run("missing token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(h, "").Code)
	})
	t.Run("refresh token is not accepted", func(t *testing.T) {
		rec := serve(h, signToken(t, user.ID, "refresh", time.Now().Add(time.Hour)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("expired", func(t *testing.T) {
		rec := serve(h, signToken(t, user.ID, "access", time.Now().Add(-time.Minute)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("unknown user", func(t *testing.T) {
		rec := serve(h, signToken(t, 999, "access", time.Now().Add(time.Hour)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("valid", func(t *testing.T) {
		got = nil
		rec := serve(h, signToken(t, user.ID, "access", time.Now().Add(time.Hour)))
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "A-101", got.FlatNumber)
		assert.Equal(t, domain.RoleResident, got.Role)
	})
	t.Run("deactivated after issue", func(t *testing.T) {
		off := false
		_, err := store.UpdateUser(context.Background(), user.ID, repository.UserUpdate{IsActive: &off})
		require.NoError(t, err)
		rec := serve(h, signToken(t, user.ID, "access", time.Now().Add(time.Hour)))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":403`)
	})
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := RequireRole(domain.RoleAdmin, domain.RoleWatchman)(ok)

	run := func(u *authctx.CurrentUser) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if u != nil {
			req = req.WithContext(authctx.WithCurrentUser(req.Context(), *u))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, run(nil))
	assert.Equal(t, http.StatusForbidden, run(&authctx.CurrentUser{ID: 1, Role: domain.RoleResident}))
	assert.Equal(t, http.StatusNoContent, run(&authctx.CurrentUser{ID: 2, Role: domain.RoleWatchman}))
	assert.Equal(t, http.StatusNoContent, run(&authctx.CurrentUser{ID: 3, Role: domain.RoleAdmin}))
}

func TestLoggerMiddleware_RecordsStatus(t *testing.T) {
	logger, buf := captureLogger()
	h := NewLoggerMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/brew", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), "status=418")
	assert.Contains(t, buf.String(), "route=unmatched")
}
