package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type ServiceErrorType string

const (
	ErrNotFound      ServiceErrorType = "NOT_FOUND"
	ErrForbidden     ServiceErrorType = "FORBIDDEN"
	ErrConflict      ServiceErrorType = "CONFLICT"
	ErrBadRequest    ServiceErrorType = "BAD_REQUEST"
	ErrUnauthorized  ServiceErrorType = "UNAUTHORIZED"
	ErrDatabaseError ServiceErrorType = "DATABASE_ERROR"
)

type ServiceError struct {
	Message string           `json:"message"`
	Code    ServiceErrorType `json:"code"`
	Details error            `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%s [%s]: %v", e.Message, e.Code, e.Details)
	}
	return fmt.Sprintf("%s [%s]", e.Message, e.Code)
}

func (e *ServiceError) Unwrap() error {
	return e.Details
}

func NewServiceError(message string, code ServiceErrorType, details error) *ServiceError {
	return &ServiceError{
		Message: message,
		Code:    code,
		Details: details,
	}
}

func notFound(message string) *ServiceError {
	return NewServiceError(message, ErrNotFound, nil)
}

func forbidden(message string) *ServiceError {
	return NewServiceError(message, ErrForbidden, nil)
}

func conflict(message string) *ServiceError {
	return NewServiceError(message, ErrConflict, nil)
}

func badRequest(message string) *ServiceError {
	return NewServiceError(message, ErrBadRequest, nil)
}

// storeError classifies an error coming back from a repository. Missing
// rows become NotFound with notFoundMsg, unique index violations become
// Conflict with conflictMsg, anything else is a DATABASE_ERROR.
func storeError(err error, notFoundMsg, conflictMsg string) error {
	var serr *ServiceError
	switch {
	case errors.As(err, &serr):
		return serr
	case errors.Is(err, gorm.ErrRecordNotFound) && notFoundMsg != "":
		return NewServiceError(notFoundMsg, ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey) && conflictMsg != "":
		return NewServiceError(conflictMsg, ErrConflict, err)
	default:
		return NewServiceError("database operation failed", ErrDatabaseError, err)
	}
}

// Helper functions for error checking
func IsServiceError(err error) bool {
	var serr *ServiceError
	return errors.As(err, &serr)
}

func GetServiceErrorCode(err error) ServiceErrorType {
	var serr *ServiceError
	if errors.As(err, &serr) {
		return serr.Code
	}
	return ""
}
