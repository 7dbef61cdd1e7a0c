package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthorized is returned for bad credentials and invalid, expired, revoked or missing tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidToken is returned when a token is malformed, wrongly signed or of the wrong kind.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a token's lifetime has elapsed.
	ErrExpiredToken = errors.New("token expired")
	// ErrUserExists is returned when the username or email is already registered.
	ErrUserExists = errors.New("username or email already exists")
	// ErrConflict is returned when a unique field such as a product or business name is taken.
	ErrConflict = errors.New("record already exists")
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller does not own the record.
	ErrForbidden = errors.New("not authenticated to perform this action")
	// ErrInvalidPrice is returned when a product price is not positive.
	ErrInvalidPrice = errors.New("original price must be greater than zero")
	// ErrFileExtension is returned when an upload has a disallowed extension.
	ErrFileExtension = errors.New("file extension not allowed")
	// ErrValidation is returned when request input fails validation.
	ErrValidation = errors.New("validation failed")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors are matched with errors.Is;
// anything unrecognised becomes a 500 without leaking the cause.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, unauthorizedMessage(err), "UNAUTHORIZED")
	case errors.Is(err, ErrExpiredToken):
		return NewHTTPError(http.StatusUnauthorized, ErrExpiredToken.Error(), "TOKEN_EXPIRED")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidToken.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrUserExists):
		return NewHTTPError(http.StatusConflict, ErrUserExists.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, ErrConflict.Error(), "CONFLICT")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, ErrNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrInvalidPrice):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidPrice.Error(), "INVALID_PRICE")
	case errors.Is(err, ErrFileExtension):
		return NewHTTPError(http.StatusBadRequest, ErrFileExtension.Error(), "FILE_EXTENSION_NOT_ALLOWED")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// Unauthorized wraps ErrUnauthorized with a caller-facing message, keeping cause for errors.Is.
func Unauthorized(message string, cause error) error {
	return &unauthorizedError{message: message, cause: cause}
}

type unauthorizedError struct {
	message string
	cause   error
}

func (e *unauthorizedError) Error() string { return e.message }

func (e *unauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

func (e *unauthorizedError) Unwrap() error { return e.cause }

func unauthorizedMessage(err error) string {
	var ue *unauthorizedError
	if errors.As(err, &ue) {
		return ue.message
	}
	return ErrUnauthorized.Error()
}
