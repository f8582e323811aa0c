package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/logging"
	"storefront/internal/service"
)

// InterestHandler handles the logged in user's interests.
type InterestHandler struct {
	interestService service.InterestService
	log             logging.Logger
}

// NewInterestHandler creates a new interest handler.
func NewInterestHandler(interestService service.InterestService, log logging.Logger) *InterestHandler {
	return &InterestHandler{interestService: interestService, log: log}
}

// SaveInterestsRequest replaces the user's interests.
type SaveInterestsRequest struct {
	CategoryIDs []string `json:"categoryIds" validate:"required,dive,required"`
}

// GetInterests godoc
// @Summary List the user's interests
// @Tags interests
// @Produce json
// @Success 200 {array} service.Interest
// @Failure 401 {object} errors.Response
// @Router /interests [get]
func (h *InterestHandler) GetInterests(c echo.Context) error {
	interests, err := h.interestService.GetUserInterests(c.Request().Context(), CurrentSession(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, interests)
}

// SaveInterests godoc
// @Summary Replace the user's interests
// @Tags interests
// @Accept json
// @Produce json
// @Param request body SaveInterestsRequest true "Category ids"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Router /interests [put]
func (h *InterestHandler) SaveInterests(c echo.Context) error {
	var req SaveInterestsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	if err := h.interestService.SaveInterests(c.Request().Context(), CurrentSession(c), req.CategoryIDs); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, success("Interests saved successfully"))
}
