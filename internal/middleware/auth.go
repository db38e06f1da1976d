package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vaughan-dsouza/IdGo/internal/models"
	"github.com/vaughan-dsouza/IdGo/internal/token"
	"github.com/vaughan-dsouza/IdGo/internal/utils"
)

// context key
type ctxKey string

const ctxClaimsKey ctxKey = "claims"

// ClaimsFrom returns the verified token claims attached by Authenticate, if any.
func ClaimsFrom(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(ctxClaimsKey).(*token.Claims)
	return claims, ok
}

// Authenticate verifies the bearer token on inbound requests. A missing or
// malformed Authorization header is 401; a token that fails verification
// (bad signature or expired, indistinguishable to the caller) is 403.
func Authenticate(tokens *token.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			auth := r.Header.Get("Authorization")
			if auth == "" {
				utils.JSONError(w, http.StatusUnauthorized, "access denied: no token provided")
				return
			}

			parts := strings.SplitN(auth, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				utils.JSONError(w, http.StatusUnauthorized, "access denied: no token provided")
				return
			}

			tokenStr := strings.TrimSpace(parts[1])
			if tokenStr == "" {
				utils.JSONError(w, http.StatusUnauthorized, "access denied: no token provided")
				return
			}

			claims, err := tokens.Verify(tokenStr)
			if err != nil {
				utils.JSONError(w, http.StatusForbidden, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole allows the request through only when the authenticated identity
// carries exactly the given role. No identity, or any other role, is 403 --
// there is no hierarchy between roles.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims, ok := ClaimsFrom(r.Context())
			if !ok || claims.Role != role {
				utils.JSONError(w, http.StatusForbidden, "access denied: insufficient privileges")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
