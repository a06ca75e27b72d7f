package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"rwa-backend/internal/domain"
	"rwa-backend/internal/repository"
	"rwa-backend/internal/server/authctx"
	"rwa-backend/internal/service"
)

// AuthMiddleware validates the bearer access token, loads the user it names and
// sets it as the current user. Deactivated users are rejected.
func AuthMiddleware(secret string, users repository.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			claims, err := service.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			user, err := users.GetUser(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					writeAuthError(w, http.StatusUnauthorized, "invalid subject")
					return
				}
				writeAuthError(w, http.StatusInternalServerError, "failed to load user")
				return
			}
			if !user.IsActive {
				writeAuthError(w, http.StatusForbidden, "user is inactive")
				return
			}
			ctx := authctx.WithCurrentUser(r.Context(), authctx.CurrentUser{
				ID:         user.ID,
				Phone:      user.PhoneNumber,
				Role:       user.Role,
				FlatNumber: user.FlatNumber,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole ensures the user has one of the allowed roles.
func RequireRole(roles ...domain.UserRole) func(http.Handler) http.Handler {
	allowed := make(map[domain.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := authctx.FromContext(r.Context())
			if u == nil {
				writeAuthError(w, http.StatusForbidden, "forbidden")
				return
			}
			if len(allowed) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := allowed[u.Role]; !ok {
				writeAuthError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"status":"error","message":"` + message + `","data":null,"error":{"code":` +
		strconv.Itoa(status) + `,"status":"` + http.StatusText(status) + `"}}`))
}
