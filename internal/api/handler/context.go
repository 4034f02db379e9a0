package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/acpt/jobboard-api/internal/api/middleware"
	"github.com/acpt/jobboard-api/internal/core/domain"
	"github.com/acpt/jobboard-api/internal/core/ports"
)

// ctxClaims extracts the claims injected by the Auth middleware. Their
// absence means the route was mounted without it.
func ctxClaims(c echo.Context) (*ports.TokenClaims, error) {
	claims, ok := c.Get(middleware.ClaimsKey).(*ports.TokenClaims)
	if !ok || claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

// parseID reads a positive identity id.
func parseID(raw string) (int64, error) {
	if raw == "" {
		return 0, domain.Invalid("id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("id must be a positive integer")
	}
	return id, nil
}
