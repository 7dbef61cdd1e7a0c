package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "storefront/internal/errors"
	"storefront/internal/logger"
	"storefront/internal/model"
)

// UserContextKey is where the session middleware stores the resolved *model.User.
const UserContextKey = "user"

// TokenContextKey is where the session middleware stores the raw bearer token it resolved.
const TokenContextKey = "session_token"

// Envelope is the success body shared by every JSON endpoint.
type Envelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
}

func ok(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{Status: "ok", Data: data})
}

// fail converts a service error into the standard error body. 401s carry the bearer challenge.
func fail(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}
	if httpErr.StatusCode >= http.StatusInternalServerError {
		logger.WithModule("http").Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: message,
		Code:  "VALIDATION_ERROR",
	})
}

// bindAndValidate binds the request body into req and runs the echo validator over it.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	return nil
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid " + name)
	}
	return uint(id), nil
}

// CurrentUser returns the user the session middleware resolved for this request.
func CurrentUser(c echo.Context) (*model.User, error) {
	user, found := c.Get(UserContextKey).(*model.User)
	if !found || user == nil {
		return nil, apperrors.Unauthorized("not authenticated", errors.New("no user in context"))
	}
	return user, nil
}

// CurrentToken returns the bearer token the session middleware resolved.
func CurrentToken(c echo.Context) (string, error) {
	token, found := c.Get(TokenContextKey).(string)
	if !found || token == "" {
		return "", apperrors.Unauthorized("not authenticated", errors.New("no token in context"))
	}
	return token, nil
}
