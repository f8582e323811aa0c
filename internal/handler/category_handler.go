package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "storefront/internal/errors"
	"storefront/internal/logging"
	"storefront/internal/service"
)

// CategoryHandler serves the category catalog.
type CategoryHandler struct {
	catalogService service.CatalogService
	log            logging.Logger
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(catalogService service.CatalogService, log logging.Logger) *CategoryHandler {
	return &CategoryHandler{catalogService: catalogService, log: log}
}

// CategoriesResponse is one page of the catalog.
type CategoriesResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	*service.CategoryPage
}

// GetCategories godoc
// @Summary List categories by name, one page at a time
// @Tags categories
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(6)
// @Success 200 {object} CategoriesResponse
// @Failure 400 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Router /categories [get]
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	page, pageSize := 1, service.DefaultPageSize
	err := echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("pageSize", &pageSize).
		BindError()
	if err != nil {
		return fail(c, h.log, apperrors.NewValidationError(err))
	}

	result, err := h.catalogService.GetCategories(c.Request().Context(), page, pageSize)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, CategoriesResponse{
		Success:      true,
		Message:      "Fetch Successful",
		CategoryPage: result,
	})
}
