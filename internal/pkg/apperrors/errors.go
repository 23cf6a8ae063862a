package apperrors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrValidation = errors.New("validation failed")

	ErrAlreadyExists = errors.New("resource already exists")

	ErrDatabase = errors.New("database error")

	ErrInternalServer = errors.New("internal server error")

	ErrUnauthorized = errors.New("unauthorized")

	ErrIngestion = errors.New("ingestion failed")

	ErrMissingReference = errors.New("referenced resource does not exist")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(field, message string) error {
	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Field: field, Message: message})
}

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WrapDatabaseError classifies driver errors so callers can match on the
// sentinel values with errors.Is.
func WrapDatabaseError(cause error, message string) error {
	if errors.Is(cause, pgx.ErrNoRows) {
		return &AppError{Code: "NOT_FOUND", Message: message, Cause: fmt.Errorf("%w: %w", ErrNotFound, cause)}
	}

	var pgErr *pgconn.PgError
	if errors.As(cause, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &AppError{Code: "ALREADY_EXISTS", Message: message, Cause: fmt.Errorf("%w: %w", ErrAlreadyExists, cause)}
		case pgForeignKeyViolation:
			return &AppError{Code: "MISSING_REFERENCE", Message: message, Cause: fmt.Errorf("%w: %w", ErrMissingReference, cause)}
		}
	}

	return &AppError{
		Code:    "DB_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrDatabase, cause),
	}
}
