package usecase

import (
	"errors"

	"github.com/leadflow/crm-directory/internal/entity"
)

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodePersistFailed = "PERSIST_FAILED"
	CodeSeedFailed    = "SEED_FAILED"
)

// DomainError is a rule violation the caller can act on.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is an infrastructure failure (storage, seeding).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func notFound(err error, id string) *DomainError {
	return &DomainError{Code: CodeNotFound, Message: err.Error() + ": " + id, Err: err}
}

func invalid(err error, detail string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: err.Error() + ": " + detail, Err: err}
}

func conflict(err error, id string) *DomainError {
	return &DomainError{Code: CodeConflict, Message: err.Error() + ": " + id, Err: err}
}

// IsNotFound reports whether err signals a missing employee or lead.
func IsNotFound(err error) bool {
	return errors.Is(err, entity.ErrEmployeeNotFound) || errors.Is(err, entity.ErrLeadNotFound)
}
