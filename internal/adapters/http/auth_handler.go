package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/core/internal/infrastructure/config"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// AuthHandler handles registration, login, logout and session lookup
type AuthHandler struct {
	authService ports.AuthService
	jwtConfig   config.JWTConfig
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService ports.AuthService, jwtConfig config.JWTConfig, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtConfig:   jwtConfig,
		logger:      logger,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Username and password are required")
	}

	if _, err := h.authService.Register(c.Request().Context(), req); err != nil {
		h.logger.Warnw("Registration failed", "error", err, "username", req.Username)
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, ports.MessageResponse{Message: "Registration successful"})
}

// Login handles POST /auth/login and sets the session cookie
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Username and password are required")
	}

	result, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		h.logger.Warnw("Login failed", "error", err, "username", req.Username)
		return httpError(err)
	}

	c.SetCookie(h.sessionCookie(result.Token, h.jwtConfig.ExpiresIn))

	return c.JSON(http.StatusOK, map[string]*ports.Identity{"user": result.User})
}

// Logout handles POST /auth/logout by expiring the session cookie
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessionCookie("", -1))

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Logged out"})
}

// Me handles GET /auth/me. A missing or invalid session yields a null user
// with 200, not an error.
func (h *AuthHandler) Me(c echo.Context) error {
	var caller *ports.Identity
	if cookie, err := c.Cookie(h.jwtConfig.CookieName); err == nil {
		caller = h.authService.ResolveCaller(cookie.Value)
	}

	return c.JSON(http.StatusOK, map[string]*ports.Identity{"user": caller})
}

// sessionCookie builds the HTTP-only session cookie. A non-positive ttl
// expires it immediately (Max-Age=0 on the wire).
func (h *AuthHandler) sessionCookie(token string, ttl time.Duration) *http.Cookie {
	maxAge := int(ttl.Seconds())
	if ttl <= 0 {
		maxAge = -1
	}

	return &http.Cookie{
		Name:     h.jwtConfig.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}
