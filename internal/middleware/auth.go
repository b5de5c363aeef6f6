// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"shop/internal/models"
	"shop/internal/token"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// ClaimsKey is the context key for verified token claims.
	ClaimsKey contextKey = "claims"
)

// TokenVerifier checks a raw bearer token and returns its claims.
type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

// Authenticate verifies the bearer token, when one is present, stores its
// claims in the request context and tags the request logger with user_id. Downstream handlers can access them via
// ClaimsFromCtx(). This middleware does NOT enforce authentication: a
// missing or invalid token leaves the request anonymous.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				zerolog.Ctx(r.Context()).Debug().Err(err).Msg("bearer token rejected")
				next.ServeHTTP(w, r)
				return
			}

			logger := zerolog.Ctx(r.Context()).With().Int("user_id", claims.UserID()).Logger()
			ctx := context.WithValue(logger.WithContext(r.Context()), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole answers 401 for anonymous requests and 403 for authenticated
// requests whose role is not one of roles. Must be applied after
// Authenticate in the middleware chain.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromCtx(r.Context())
			if claims == nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="shop"`)
				writeMessage(w, http.StatusUnauthorized, "Authentication required.")
				return
			}
			if !slices.Contains(roles, claims.Role) {
				writeMessage(w, http.StatusForbidden, "Forbidden.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromCtx extracts the verified token claims from the request context.
// Returns nil if the request is anonymous.
func ClaimsFromCtx(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(ClaimsKey).(*token.Claims)
	return claims
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "bearer") {
		return "", false
	}
	return fields[1], true
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
