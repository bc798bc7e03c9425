package middleware

import (
	"crypto/subtle"
	"strings"

	"application-portal/internal/apperr"

	"github.com/labstack/echo/v4"
)

// APIKeyAuth guards the application endpoints with the shared-secret key.
// The key may arrive as X-API-Key or as a bearer token.
func APIKeyAuth(expectedKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get("X-API-Key")
			if key == "" {
				auth := c.Request().Header.Get("Authorization")
				if strings.HasPrefix(auth, "Bearer ") {
					key = strings.TrimPrefix(auth, "Bearer ")
				}
			}

			if key == "" {
				return apperr.Auth("API key required")
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(expectedKey)) != 1 {
				return apperr.Forbidden("invalid API key")
			}

			return next(c)
		}
	}
}
