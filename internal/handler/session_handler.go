package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "storefront/internal/errors"
	"storefront/internal/logging"
)

// SessionHandler exposes the current session.
type SessionHandler struct {
	log logging.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(log logging.Logger) *SessionHandler {
	return &SessionHandler{log: log}
}

// GetSession godoc
// @Summary Get the logged in user
// @Tags session
// @Produce json
// @Success 200 {object} auth.Session
// @Failure 401 {object} errors.Response
// @Router /session [get]
func (h *SessionHandler) GetSession(c echo.Context) error {
	session := CurrentSession(c)
	if session == nil {
		return fail(c, h.log, apperrors.ErrNotAuthenticated)
	}
	return c.JSON(http.StatusOK, session)
}
