package service

import (
	"errors"

	"github.com/bioweb/backend/internal/repository"
	"github.com/bioweb/backend/internal/validation"
)

var (
	// ErrNotFound and ErrConflict are the repository sentinels, re-exported
	// so callers of this package need not import repository.
	ErrNotFound = repository.ErrNotFound
	ErrConflict = repository.ErrConflict

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrCategoryInUse      = errors.New("cannot delete a category that still has articles")
	ErrInvalidCategory    = errors.New("category does not exist")
)

// UploadRejectedError carries a reason that is safe to show to the client.
type UploadRejectedError struct {
	Reason string
}

func (e *UploadRejectedError) Error() string { return e.Reason }

func rejectUpload(reason string) error {
	return &UploadRejectedError{Reason: reason}
}

// fieldError builds a single-field validation error.
func fieldError(field, message string) error {
	return validation.NewRequestValidationError(validation.FieldError{Field: field, Message: message})
}
