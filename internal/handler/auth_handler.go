package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/auth"
	"storefront/internal/logging"
	"storefront/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	sessions    *auth.SessionManager
	log         logging.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessions *auth.SessionManager, log logging.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, log: log}
}

// SignupRequest represents a user signup request.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=8"`
}

// VerifyRequest represents a verification code submission.
type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=8"`
}

// ResendRequest asks for a new verification code.
type ResendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Signup godoc
// @Summary Sign up and receive a verification code by email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} errors.Response
// @Failure 409 {object} errors.Response
// @Failure 502 {object} errors.Response
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	if err := h.authService.Signup(c.Request().Context(), req.Email, req.Name, req.Password); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, success("Check your email for the verification code"))
}

// Verify godoc
// @Summary Verify an email address
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Email and code"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.Response
// @Failure 429 {object} errors.Response
// @Router /auth/verify [post]
func (h *AuthHandler) Verify(c echo.Context) error {
	var req VerifyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	if err := h.authService.VerifyCode(c.Request().Context(), req.Email, req.Code); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, success("Verification successful"))
}

// Resend godoc
// @Summary Send a new verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResendRequest true "Email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.Response
// @Failure 404 {object} errors.Response
// @Failure 409 {object} errors.Response
// @Failure 502 {object} errors.Response
// @Router /auth/resend [post]
func (h *AuthHandler) Resend(c echo.Context) error {
	var req ResendRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	if err := h.authService.ResendCode(c.Request().Context(), req.Email); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, success("Check your email for the verification code"))
}

// Login godoc
// @Summary Log in and receive the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.Response
// @Failure 401 {object} errors.Response
// @Failure 403 {object} errors.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, h.log, err)
	}

	c.SetCookie(h.sessions.Cookie(res.Token, res.ExpiresAt))
	return c.JSON(http.StatusOK, success("You are logged in now"))
}

// Logout godoc
// @Summary Log out by clearing the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.RevokeCookie())
	return c.JSON(http.StatusOK, success("You are logged out now"))
}
