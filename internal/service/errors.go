package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateAppeal    = errors.New("appeal already filed")
	ErrInvalidParent      = errors.New("parent appeal is not a first appeal")
)

// TooEarlyError rejects a first appeal filed before the cooling period
// has elapsed and carries the earliest eligible date for the caller.
type TooEarlyError struct {
	EligibleOn time.Time
}

func (e *TooEarlyError) Error() string {
	return fmt.Sprintf("first appeal cannot be filed before %s", e.EligibleOn.Format("2006-01-02"))
}

// ValidationError is a field-level rejection of bad or missing input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
