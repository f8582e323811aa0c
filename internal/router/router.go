package router

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/logging"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Session  *handler.SessionHandler
	Category *handler.CategoryHandler
	Interest *handler.InterestHandler
	Seed     *handler.SeedHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, log logging.Logger, gate *Gate, h Handlers) {
	e.Pre(gate.RedirectIfAuthenticated)
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(log))
	e.Use(middleware.Recover())

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", h.Auth.Signup)
	api.POST("/auth/verify", h.Auth.Verify)
	api.POST("/auth/resend", h.Auth.Resend)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout)

	if !cfg.IsProduction() && h.Seed != nil {
		api.POST("/seed/categories", h.Seed.SeedCategories)
	}

	// Session routes
	secured := api.Group("", gate.Middleware())
	secured.GET("/session", h.Session.GetSession)
	secured.GET("/categories", h.Category.GetCategories)
	secured.GET("/interests", h.Interest.GetInterests)
	secured.PUT("/interests", h.Interest.SaveInterests)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator that reports fields by their json name.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var _ echo.Validator = (*CustomValidator)(nil)
