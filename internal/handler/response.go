package handler

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/logging"
)

// SessionKey is the echo context key holding the request's *auth.Session.
const SessionKey = "session"

// MessageResponse is the body of a successful command.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func success(message string) MessageResponse {
	return MessageResponse{Success: true, Message: message}
}

// CurrentSession returns the session resolved by the gate, or nil.
func CurrentSession(c echo.Context) *auth.Session {
	session, _ := c.Get(SessionKey).(*auth.Session)
	return session
}

// fail converts err into an HTTP error with the {success, message} body.
// Infrastructure failures are logged with detail and reported generically.
func fail(c echo.Context, log logging.Logger, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.Internal {
		log.Error(c.Request().Context(), "request failed",
			"error", err,
			"method", c.Request().Method,
			"path", c.Path(),
		)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToResponse())
}

// bindAndValidate binds the request body into req and validates it.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.NewValidationError(err)
	}
	if err := c.Validate(req); err != nil {
		return apperrors.NewValidationError(err)
	}
	return nil
}
