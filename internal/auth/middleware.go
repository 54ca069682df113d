package auth

import (
	"context"
	"fmt"
	"net/http"
)

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	userEmailKey contextKey = "user_email"
	tokenKey     contextKey = "token_claims"
)

// Middleware verifies the bearer token on every request and rejects tokens
// found on the denylist. Verified identity lands in the request context.
func Middleware(secret string, denylist *Denylist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken, err := ExtractTokenFromRequest(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			claims, err := VerifyToken(secret, rawToken)
			if err != nil {
				http.Error(w, fmt.Sprintf("invalid token: %v", err), http.StatusUnauthorized)
				return
			}

			if denylist != nil && claims.TokenID != "" {
				revoked, err := denylist.IsRevoked(r.Context(), claims.TokenID)
				if err != nil {
					http.Error(w, "could not verify token state", http.StatusInternalServerError)
					return
				}
				if revoked {
					http.Error(w, ErrTokenRevoked.Error(), http.StatusUnauthorized)
					return
				}
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, userEmailKey, claims.Email)
			ctx = context.WithValue(ctx, tokenKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID extracts the authenticated user's ID from a request context.
func UserID(ctx context.Context) string {
	if uid, ok := ctx.Value(userIDKey).(string); ok {
		return uid
	}
	return ""
}

// UserEmail extracts the authenticated user's email from a request context.
func UserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(userEmailKey).(string); ok {
		return email
	}
	return ""
}

// TokenClaims extracts the full verified claims from a request context.
func TokenClaims(ctx context.Context) *Claims {
	if claims, ok := ctx.Value(tokenKey).(*Claims); ok {
		return claims
	}
	return nil
}
