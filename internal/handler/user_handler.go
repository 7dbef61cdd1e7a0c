package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// joinedDateLayout renders join dates as e.g. "Mar 07 2024".
const joinedDateLayout = "Jan 02 2006"

// UserHandler serves the authenticated user's profile.
type UserHandler struct{}

// NewUserHandler creates a user handler.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// ProfileResponse is the public view of the current user.
type ProfileResponse struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Verified   bool   `json:"verified"`
	JoinedDate string `json:"joined_date"`
}

// Me godoc
// @Summary Current user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope{data=ProfileResponse}
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, http.StatusOK, ProfileResponse{
		Username:   user.Username,
		Email:      user.Email,
		Verified:   user.IsVerified,
		JoinedDate: user.JoinDate.Format(joinedDateLayout),
	})
}
