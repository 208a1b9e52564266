package error

import (
	"errors"
	"net/http"

	"github.com/deskpulse/deskpulse/internal/domain"
)

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrBadRequest     = &AppError{Code: "BAD_REQUEST", Message: "Bad request", Status: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Not found", Status: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "Internal server error", Status: http.StatusInternalServerError}
)

func NewBadRequest(message string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: message, Status: http.StatusBadRequest}
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: message, Status: http.StatusNotFound}
}

func NewInternalServer(message string) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: message, Status: http.StatusInternalServerError}
}

// MapError converts an error returned by a use case into the HTTP-facing
// AppError. Not-found and validation domain errors keep their own message;
// anything else is a 500 carrying the full error text, so configuration and
// upstream failures stay diagnosable from the response.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var domainErr *domain.DomainError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if errors.As(err, &domainErr) {
			return NewNotFound(domainErr.Message)
		}
		return NewNotFound(err.Error())
	case errors.Is(err, domain.ErrValidation):
		if errors.As(err, &domainErr) {
			return NewBadRequest(domainErr.Message)
		}
		return NewBadRequest(err.Error())
	default:
		return NewInternalServer(err.Error())
	}
}
