package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront/internal/service"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	authService    service.AuthService
	sessionService service.SessionService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessionService service.SessionService) *AuthHandler {
	return &AuthHandler{authService: authService, sessionService: sessionService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// TokenRequest is the login form. It binds from JSON or an urlencoded form.
type TokenRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// TokenResponse carries a session token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates the user and a business profile, then mails a verification link.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} Envelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /registration [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, strings.ToLower(req.Email), req.Password)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, http.StatusCreated, fmt.Sprintf(
		"Hello %s, thanks for choosing our services. Please check your email inbox and click on the link to confirm your registration.",
		user.Username,
	))
}

// Token godoc
// @Summary Issue a session token
// @Tags auth
// @Accept x-www-form-urlencoded
// @Accept json
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req TokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.authService.IssueToken(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Logout godoc
// @Summary Revoke the presented session token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, err := CurrentToken(c)
	if err != nil {
		return fail(c, err)
	}

	if err := h.sessionService.Revoke(c.Request().Context(), token); err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "logged out")
}
