package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"aura-backend/internal/auth"
	"aura-backend/internal/transport"
)

// AccessCookie carries the access token for browser clients.
const AccessCookie = "aura_access"

type identityKey struct{}

// RequireAuth admits requests carrying the static admin key (X-Admin-Key), or an
// access token as a Bearer header or the access cookie. Any role in roles is
// accepted; no roles means any authenticated user.
func RequireAuth(adminKey string, manager *auth.Manager, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey == "" && manager == nil {
				transport.WriteError(w, http.StatusServiceUnavailable, "Authentication is not configured")
				return
			}

			if key := r.Header.Get("X-Admin-Key"); adminKey != "" && key != "" &&
				subtle.ConstantTimeCompare([]byte(key), []byte(adminKey)) == 1 {
				ctx := context.WithValue(r.Context(), identityKey{}, auth.Identity{UserID: "api-key", Role: "admin"})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if manager != nil {
				if token := accessToken(r); token != "" {
					claims, err := manager.ParseAs(token, auth.TokenAccess)
					if err == nil && roleAllowed(claims.Role, roles) {
						ctx := context.WithValue(r.Context(), identityKey{}, claims.Identity())
						next.ServeHTTP(w, r.WithContext(ctx))
						return
					}
					if err == nil {
						transport.WriteError(w, http.StatusForbidden, "Forbidden")
						return
					}
				}
			}

			transport.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		})
	}
}

func accessToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if c, err := r.Cookie(AccessCookie); err == nil {
		return c.Value
	}
	return ""
}

func roleAllowed(role string, roles []string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// IdentityFromContext returns the caller admitted by RequireAuth.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(auth.Identity)
	return id, ok
}
