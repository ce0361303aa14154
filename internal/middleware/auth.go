// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

type ctxKey string

const identityKey ctxKey = "identity"

// Identity is the caller extracted from the request. Authentication itself
// happens in the fronting auth layer; this service only checks the shared
// bearer token and trusts the identity headers that layer sets.
type Identity struct {
	UserID   string
	OrgID    string
	DeviceID string
}

// BearerAuth rejects requests that do not carry the configured bearer token,
// then stores the caller identity from the X-User-ID, X-Org-ID and
// X-Device-ID headers in the request context. X-User-ID is mandatory.
func BearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				http.Error(w, "invalid or missing bearer token", http.StatusUnauthorized)
				return
			}

			id := Identity{
				UserID:   r.Header.Get("X-User-ID"),
				OrgID:    r.Header.Get("X-Org-ID"),
				DeviceID: r.Header.Get("X-Device-ID"),
			}
			if id.UserID == "" {
				http.Error(w, "missing user identity", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentityFromContext extracts the caller identity stored by BearerAuth.
// Returns the zero Identity if not present.
func GetIdentityFromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(identityKey).(Identity); ok {
		return id
	}
	return Identity{}
}
