package middleware

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"quillfeed/internal/httputil"
	"quillfeed/internal/model"
	"quillfeed/internal/service"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// currentUserKey is the context key for the authenticated identity
	currentUserKey contextKey = "current_user"
)

// Session reads the session cookie and, when it holds a valid token, puts
// the identity into the request context. Anonymous requests pass through
// untouched; every route runs under this middleware.
func Session(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				// Expired or tampered cookie: treat the request as anonymous.
				next.ServeHTTP(w, r)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			userIDFloat, ok := claims["user_id"].(float64)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			username, ok := claims["username"].(string)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user := model.SessionUser{ID: int64(userIDFloat), Username: username}
			ctx := context.WithValue(r.Context(), currentUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin redirects anonymous requests to the login page, preserving
// the originally requested path so the user returns after authenticating.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r.Context()); !ok {
			httputil.RedirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser extracts the authenticated identity from the request context.
// The boolean is false for anonymous requests.
func CurrentUser(ctx context.Context) (model.SessionUser, bool) {
	user, ok := ctx.Value(currentUserKey).(model.SessionUser)
	return user, ok
}

// WithUser returns a context carrying the identity. Used by tests to
// simulate an authenticated request without a signed cookie.
func WithUser(ctx context.Context, user model.SessionUser) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}
