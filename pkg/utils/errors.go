package pkg

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AppError is the single error envelope returned by the API: {"error": "..."}.
type AppError struct {
	Code    int         `json:"-"`
	Message string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Predefined errors
var (
	ErrUnauthorized = &AppError{
		Code:    http.StatusUnauthorized,
		Message: "Unauthorized: missing session",
	}

	ErrForbidden = &AppError{
		Code:    http.StatusForbidden,
		Message: "Forbidden",
	}

	ErrNotFound = &AppError{
		Code:    http.StatusNotFound,
		Message: "Not found",
	}

	ErrValidationFailed = &AppError{
		Code:    http.StatusBadRequest,
		Message: "Validation failed",
	}

	ErrInternalServer = &AppError{
		Code:    http.StatusInternalServerError,
		Message: "Internal server error",
	}
)

func NewAppError(code int, message string, details ...interface{}) *AppError {
	err := &AppError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// CustomHTTPErrorHandler handles errors across the application
func CustomHTTPErrorHandler(err error, c echo.Context) {
	var appErr *AppError
	var he *echo.HTTPError

	if errors.As(err, &appErr) {
		appErr = &AppError{Code: appErr.Code, Message: appErr.Message, Details: appErr.Details}
	} else if errors.As(err, &he) {
		appErr = &AppError{
			Code:    he.Code,
			Message: fmt.Sprintf("%v", he.Message),
		}
	} else {
		appErr = &AppError{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		}
	}

	entry := WithFields(map[string]interface{}{
		"error":  err.Error(),
		"code":   appErr.Code,
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	})
	if appErr.Code >= http.StatusInternalServerError {
		entry.Error("HTTP Error")
	} else {
		entry.Warn("HTTP Error")
	}

	// Don't expose internal error details
	if appErr.Code == http.StatusInternalServerError {
		appErr.Details = nil
	}

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(appErr.Code)
		return
	}
	_ = c.JSON(appErr.Code, appErr)
}

