package router

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "storefront/internal/errors"
	"storefront/internal/handler"
	"storefront/internal/service"
)

// SessionAuth extracts the bearer token and resolves it to a user, stored under
// handler.UserContextKey; the raw token goes under handler.TokenContextKey. Token failures answer 401 with a Bearer challenge.
func SessionAuth(sessions service.SessionService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.UserContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			user, err := sessions.Resolve(c.Request().Context(), token)
			if err != nil && !errors.Is(err, apperrors.ErrUnauthorized) {
				return nil, &resolveError{err: err}
			}
			if err == nil {
				c.Set(handler.TokenContextKey, token)
			}
			return user, err
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var internal *resolveError
			if errors.As(err, &internal) {
				resp := apperrors.MapErrorToHTTP(internal.err)
				return echo.NewHTTPError(resp.StatusCode, resp.ToErrorResponse())
			}

			message := "not authenticated"
			if errors.Is(err, apperrors.ErrUnauthorized) {
				message = apperrors.MapErrorToHTTP(err).Message
			}
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: message,
				Code:  "UNAUTHORIZED",
			})
		},
	})
}

// resolveError marks a store failure during resolution so it is not reported as a 401.
type resolveError struct {
	err error
}

func (e *resolveError) Error() string { return e.err.Error() }

func (e *resolveError) Unwrap() error { return e.err }
