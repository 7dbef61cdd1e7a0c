package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/service"
	"storefront/internal/view"
)

// VerificationHandler serves the link mailed at registration.
type VerificationHandler struct {
	verification service.VerificationService
}

// NewVerificationHandler creates a verification handler.
func NewVerificationHandler(verification service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verification: verification}
}

// Verify godoc
// @Summary Redeem an email verification link
// @Tags auth
// @Produce html
// @Param token query string true "Verification token"
// @Success 200 {string} string "verification page"
// @Failure 401 {string} string "verification page"
// @Router /verification [get]
func (h *VerificationHandler) Verify(c echo.Context) error {
	redemption, err := h.verification.Redeem(c.Request().Context(), c.QueryParam("token"))
	if err != nil {
		return fail(c, err)
	}

	page := view.VerificationPage{
		Success: redemption.Outcome.Succeeded(),
		Message: redemption.Outcome.Message(),
	}
	if redemption.User != nil {
		page.Username = redemption.User.Username
	}

	status := http.StatusOK
	if !page.Success {
		status = http.StatusUnauthorized
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}
	return c.Render(status, "verification.html", page)
}
