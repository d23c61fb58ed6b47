package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

// callerContextKey is where the auth middleware stores the resolved caller.
const callerContextKey = "caller"

// CallerFromContext returns the identity the auth middleware resolved, or
// nil when the request carries no session.
func CallerFromContext(c echo.Context) *ports.Identity {
	caller, ok := c.Get(callerContextKey).(*ports.Identity)
	if !ok {
		return nil
	}
	return caller
}

// SetCaller stores the resolved identity on the request context.
func SetCaller(c echo.Context, caller *ports.Identity) {
	c.Set(callerContextKey, caller)
}

// httpError maps service errors to HTTP status codes. Not-found and
// forbidden are reported distinctly; validation failures carry their own
// message.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, entities.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
	case errors.Is(err, entities.ErrBoardNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Board not found")
	case errors.Is(err, entities.ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	case errors.Is(err, entities.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	case errors.Is(err, entities.ErrUsernameTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, entities.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, entities.ErrStorageUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Storage unavailable")
	case isValidationError(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		entities.ErrUsernameTooShort,
		entities.ErrPasswordTooShort,
		entities.ErrNameRequired,
		entities.ErrTitleRequired,
		entities.ErrInvalidStatus,
		entities.ErrInvalidPriority,
		entities.ErrInvalidDueDate,
		entities.ErrInvalidID,
		entities.ErrEmptyReorder,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
