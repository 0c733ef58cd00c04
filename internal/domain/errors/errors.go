// Package errors defines the failure taxonomy of the registration domain.
// Every failure carries a discriminant code and a human readable message;
// mapping codes to transport statuses is the delivery layer's job.
package errors

import (
	"signup/internal/errors"
)

// Discriminants reported by the registration domain.
const (
	CodeDuplicateEmail       = "DUPLICATE_EMAIL"
	CodeInvalidEmailFormat   = "INVALID_EMAIL_FORMAT"
	CodePersistenceFailure   = "PERSISTENCE_FAILURE"
	CodeTokenIssuanceFailure = "TOKEN_ISSUANCE_FAILURE"
	CodePasswordHashFailure  = "PASSWORD_HASH_FAILURE"
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodeInvalidInput         = "INVALID_INPUT"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	ErrorCode() string // Discriminant
	Message() string   // User-facing message
	Details() string   // Optional diagnostic detail
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(errorCode, message, details string) *BaseError {
	return &BaseError{
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

func (e *BaseError) Message() string {
	return e.message
}

func (e *BaseError) Details() string {
	return e.details
}

// WithDetails returns a copy of e carrying details. The copy still matches e
// through errors.Is.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Is matches any BaseError with the same discriminant, so copies made by
// WithDetails compare equal to the predefined values below.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// Predefined error types
var (
	ErrDuplicateEmail = NewBaseError(
		CodeDuplicateEmail,
		"El correo ya registrado",
		"",
	)

	ErrInvalidEmailFormat = NewBaseError(
		CodeInvalidEmailFormat,
		"formato incorrecto",
		"",
	)

	ErrPersistenceFailure = NewBaseError(
		CodePersistenceFailure,
		"no fue posible registrar el usuario",
		"",
	)

	ErrTokenIssuanceFailure = NewBaseError(
		CodeTokenIssuanceFailure,
		"no fue posible generar el token",
		"",
	)

	ErrPasswordHashFailure = NewBaseError(
		CodePasswordHashFailure,
		"no fue posible procesar la contraseña",
		"",
	)

	ErrValidationFailed = NewBaseError(
		CodeValidationFailed,
		"datos de entrada inválidos",
		"",
	)

	ErrInvalidInput = NewBaseError(
		CodeInvalidInput,
		"cuerpo de la solicitud inválido",
		"",
	)
)

// Code extracts the discriminant of err, or "" when err is not an AppError.
func Code(err error) string {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.ErrorCode()
	}

	return ""
}
