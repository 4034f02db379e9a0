package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/acpt/jobboard-api/internal/api/metrics"
	"github.com/acpt/jobboard-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	ClaimsKey   = "claims"
	UserIDKey   = "user_id"
	UsernameKey = "username"
	RoleKey     = "role"
)

// Auth verifies the token carried in the Authorization header and injects
// its claims into the context. The header value is the token itself, with
// no scheme prefix.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get(echo.HeaderAuthorization)
			if token == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			claims, ok := verifier.Verify(token)
			if !ok {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()

			c.Set(ClaimsKey, claims)
			c.Set(UserIDKey, claims.IdentityID)
			c.Set(UsernameKey, claims.Username)
			c.Set(RoleKey, string(claims.Role))

			return next(c)
		}
	}
}
