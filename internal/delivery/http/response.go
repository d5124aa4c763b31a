package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"brokersim/internal/domain"
)

// Response represents a standardized API response
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// SuccessResponse sends a success response
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

// CreatedResponse sends a 201 Created response
func CreatedResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Status: "success",
		Data:   data,
	})
}

// ErrorResponse sends an error response
func ErrorResponse(c echo.Context, statusCode int, message string, err interface{}) error {
	return c.JSON(statusCode, Response{
		Status:  "error",
		Message: message,
		Error:   err,
	})
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusBadRequest, message, nil)
}

// UnauthorizedResponse sends a 401 Unauthorized response
func UnauthorizedResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusUnauthorized, message, nil)
}

// NotFoundResponse sends a 404 Not Found response
func NotFoundResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusNotFound, message, nil)
}

// InternalServerErrorResponse sends a 500 Internal Server Error response
func InternalServerErrorResponse(c echo.Context, message string, err error) error {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	return ErrorResponse(c, http.StatusInternalServerError, message, errMsg)
}

// DomainErrorResponse maps a domain error to its HTTP status and message.
// Anything outside the recoverable taxonomy is reported as a 500.
func DomainErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrUnknownSymbol),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientShares),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrPasswordMismatch):
		return BadRequestResponse(c, userMessage(err))
	case errors.Is(err, domain.ErrInvalidCredentials):
		return UnauthorizedResponse(c, userMessage(err))
	case errors.Is(err, domain.ErrUsernameTaken):
		return ErrorResponse(c, http.StatusConflict, userMessage(err), nil)
	case errors.Is(err, domain.ErrQuoteUnavailable):
		return ErrorResponse(c, http.StatusBadGateway, userMessage(err), nil)
	case errors.Is(err, domain.ErrUserNotFound):
		return NotFoundResponse(c, userMessage(err))
	default:
		return InternalServerErrorResponse(c, "Internal server error", err)
	}
}

// userMessage strips wrapping context so API clients see only the stable
// sentinel text.
func userMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrInvalidQuantity,
		domain.ErrUnknownSymbol,
		domain.ErrInsufficientFunds,
		domain.ErrInsufficientShares,
		domain.ErrWeakPassword,
		domain.ErrPasswordMismatch,
		domain.ErrInvalidCredentials,
		domain.ErrUsernameTaken,
		domain.ErrQuoteUnavailable,
		domain.ErrUserNotFound,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
