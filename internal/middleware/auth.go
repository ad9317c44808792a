// Package middleware provides HTTP middleware for DJ authentication,
// rate limiting, client IP resolution, and request context management.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dancefloor/backend/internal/logging"
	"github.com/dancefloor/backend/internal/services"
)

type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
)

// BearerToken returns the token from an "Authorization: Bearer <token>"
// header. ok is false when the header is absent; a present but malformed
// header yields ok true with an empty token.
func BearerToken(r *http.Request) (token string, ok bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", true
	}
	return parts[1], true
}

// Authenticate validates a bearer token when one is sent and adds the claims
// to the request context. Requests without an Authorization header pass
// through anonymously; attendees never authenticate. A malformed or invalid
// token is rejected with 401 rather than silently downgraded.
func Authenticate(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, present := BearerToken(r)
			if !present {
				next.ServeHTTP(w, r)
				return
			}
			if token == "" {
				logging.LogSecurityEvent(r.Context(), logging.SecurityEventInvalidAuthFmt, "invalid authorization header format")
				http.Error(w, `{"error":"invalid authorization header format"}`, http.StatusUnauthorized)
				return
			}

			claims, err := authService.ValidateToken(token)
			if err != nil {
				logging.LogSecurityEvent(r.Context(), logging.SecurityEventInvalidJWT, "invalid or expired token")
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			ctx = logging.WithDJ(ctx, claims.DJID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireDJ restricts a route to authenticated DJs. Must be used after
// Authenticate. Returns 401 when no valid token was presented.
func RequireDJ(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetClaims(r.Context()) == nil {
			logging.LogSecurityEvent(r.Context(), logging.SecurityEventMissingAuth, "dj authentication required")
			http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClaims retrieves the JWT claims from the request context.
// Returns nil if no claims are present (e.g., an attendee request).
func GetClaims(ctx context.Context) *services.Claims {
	claims, _ := ctx.Value(ClaimsKey).(*services.Claims)
	return claims
}

// GetPrincipal returns the authenticated DJ, or the zero Principal.
func GetPrincipal(ctx context.Context) services.Principal {
	if claims := GetClaims(ctx); claims != nil {
		return claims.Principal()
	}
	return services.Principal{}
}
