package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	httpHandlers "github.com/taskboard/core/internal/adapters/http"
	"github.com/taskboard/core/internal/application/services"
)

// authMiddleware resolves the caller from the session cookie. The token
// claims are trusted as-is; the user record is not re-fetched.
func (s *Server) authMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(s.config.JWT.CookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			caller := authService.ResolveCaller(cookie.Value)
			if caller == nil {
				s.logger.LogSecurityEvent("invalid_token", "", c.RealIP(), map[string]interface{}{
					"endpoint": c.Request().URL.Path,
				})
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			httpHandlers.SetCaller(c, caller)

			return next(c)
		}
	}
}
