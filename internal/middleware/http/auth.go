package middleware_http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"chemmarket/internal/model"
	"chemmarket/internal/service"
)

type contextKey string

const userContextKey contextKey = "authenticatedUser"

// AccessTokenCookie is the cookie browsers carry between requests. A bearer
// header takes precedence when both are present.
const AccessTokenCookie = "accessToken"

// UserFromContext returns the account the auth middleware resolved, or nil on
// unauthenticated routes.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	message := "Authentication required"
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
		if svcErr.Kind == service.KindForbidden {
			status = http.StatusForbidden
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// RequireAuth resolves the access token to an account and puts it on the
// request context. Revoked tokens and suspended accounts are rejected here.
func RequireAuth(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				writeAuthError(w, service.Unauthorized("Authentication required"))
				return
			}
			user, err := auth.UserByAccessToken(r.Context(), token)
			if err != nil {
				writeAuthError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin runs after RequireAuth and rejects non-admin accounts.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil || user.Role != model.RoleAdmin {
			writeAuthError(w, service.Forbidden("Admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
