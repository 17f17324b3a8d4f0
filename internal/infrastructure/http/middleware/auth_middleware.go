package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	appjwt "github.com/cicero-foco/cicero/pkg/jwt"
)

// AdminAuth returns an Echo middleware that validates the admin bearer token
// and sets "admin_subject" into the Echo context. Pipeline trigger endpoints
// sit behind this.
func AdminAuth(manager *appjwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization token")
			}

			claims, err := manager.ValidateToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			if claims.Role != appjwt.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}

			c.Set("admin_subject", claims.Subject)

			return next(c)
		}
	}
}

func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	// Try cookie as fallback
	if cookie, err := c.Cookie("admin_token"); err == nil {
		return cookie.Value
	}

	return ""
}
