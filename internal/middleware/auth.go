// Package middleware provides the HTTP pipeline stages applied ahead of
// handlers: authentication, role guards, CORS, and rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/medbridge/insurance-api/internal/domain/user"
	"github.com/medbridge/insurance-api/internal/errors"
	"github.com/medbridge/insurance-api/internal/httputil"
	"github.com/medbridge/insurance-api/pkg/logger"
)

type contextKey string

const userContextKey contextKey = "current_user"

// Authenticator resolves a bearer token to an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (user.User, error)
}

// AuthMiddleware authenticates requests and places the caller in the
// request context. Deactivated users are rejected here, before any
// authorization decision runs.
type AuthMiddleware struct {
	auth Authenticator
	log  *logger.Logger
}

// NewAuthMiddleware creates the authentication middleware.
func NewAuthMiddleware(auth Authenticator, log *logger.Logger) *AuthMiddleware {
	if log == nil {
		log = logger.NewDefault("middleware")
	}
	return &AuthMiddleware{auth: auth, log: log}
}

// Handler returns the middleware handler.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.WriteServiceError(w, errors.Unauthorized("authorization token is missing"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.WriteServiceError(w, errors.Unauthorized("invalid authorization header format"))
			return
		}

		u, err := m.auth.Authenticate(r.Context(), parts[1])
		if err != nil {
			m.log.WithError(err).WithFields(map[string]any{
				"path":   r.URL.Path,
				"method": r.Method,
			}).Warn("authentication failed")
			httputil.WriteServiceError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// CurrentUser extracts the authenticated user from the context.
func CurrentUser(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(userContextKey).(user.User)
	return u, ok
}

// RequireRoles returns a guard that rejects callers outside the allowed
// roles with 403. It must run after the authentication middleware.
func RequireRoles(roles ...user.Role) func(http.Handler) http.Handler {
	allowed := make(map[user.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r.Context())
			if !ok {
				httputil.WriteServiceError(w, errors.Unauthorized("authentication required"))
				return
			}
			if !allowed[u.Role] {
				httputil.WriteServiceError(w, errors.Forbidden("insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
