package errors

import "fmt"

type ErrorCode string

const (
	// Generic
	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrForbidden      ErrorCode = "FORBIDDEN"
	ErrUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"

	// Input / state
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData ErrorCode = "INVALID_REQUEST_DATA"
	ErrInvalidOperation   ErrorCode = "INVALID_OPERATION"

	// Auth / token
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"

	// Storage
	ErrCreateFailed ErrorCode = "CREATE_FAILED"
	ErrGetFailed    ErrorCode = "GET_FAILED"
	ErrUpdateFailed ErrorCode = "UPDATE_FAILED"
	ErrDeleteFailed ErrorCode = "DELETE_FAILED"
)

// AppError is the application-level error carried from services to controllers
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
