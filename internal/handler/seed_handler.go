package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "storefront/internal/errors"
	"storefront/internal/logging"
	"storefront/internal/service"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	seeder *service.CategorySeeder
	log    logging.Logger
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(seeder *service.CategorySeeder, log logging.Logger) *SeedHandler {
	return &SeedHandler{seeder: seeder, log: log}
}

// SeedCategoriesResponse represents the seed response.
type SeedCategoriesResponse struct {
	Message string `json:"message"`
	Created int64  `json:"created"`
}

// SeedCategories godoc
// @Summary Seed generated categories
// @Tags seed
// @Produce json
// @Param count query int false "Number of names to generate" default(100)
// @Success 200 {object} SeedCategoriesResponse
// @Failure 400 {object} errors.Response
// @Router /seed/categories [post]
func (h *SeedHandler) SeedCategories(c echo.Context) error {
	count := service.DefaultSeedCount
	if err := echo.QueryParamsBinder(c).Int("count", &count).BindError(); err != nil {
		return fail(c, h.log, apperrors.NewValidationError(err))
	}
	if count <= 0 || count > service.MaxSeedCount {
		return fail(c, h.log, &apperrors.ValidationError{Fields: map[string]string{"count": "out of range"}})
	}

	created, err := h.seeder.Seed(c.Request().Context(), count)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, SeedCategoriesResponse{
		Message: "Categories seeded successfully",
		Created: created,
	})
}
