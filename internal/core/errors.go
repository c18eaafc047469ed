// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrForbidden     = errors.New("forbidden")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("conflict")
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrLimitReached  = errors.New("limit reached")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenRevoked  = errors.New("token revoked")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrInternalError = errors.New("internal error")
)

// AppError is an error that carries the message and status shown to callers.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func ValidationError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, "VALIDATION_ERROR")
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		fmt.Sprintf("%s not found", capitalize(resource)),
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "Not authorized"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func LimitReachedError(message string) *AppError {
	return NewAppError(ErrLimitReached, message, http.StatusForbidden, "LIMIT_REACHED")
}

func ConflictError(message string) *AppError {
	return NewAppError(ErrConflict, message, http.StatusConflict, "CONFLICT")
}

func DuplicateError(field string) *AppError {
	return ConflictError(fmt.Sprintf("%s already exists", capitalize(field)))
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func InternalError(err error) *AppError {
	return NewAppError(
		err,
		"Internal server error",
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(ErrTokenExpired, "Token has expired", http.StatusUnauthorized, "TOKEN_EXPIRED")
}

func TokenRevokedError() *AppError {
	return NewAppError(ErrTokenRevoked, "Token has been revoked", http.StatusUnauthorized, "TOKEN_REVOKED")
}

func TokenInvalidError() *AppError {
	return NewAppError(ErrTokenInvalid, "Invalid or expired token", http.StatusUnauthorized, "TOKEN_INVALID")
}

// ToAppError maps bare sentinels to their HTTP form. Unknown errors become
// InternalError so their text never reaches the caller.
func ToAppError(err error) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewAppError(err, "Resource not found", http.StatusNotFound, "NOT_FOUND")
	case errors.Is(err, ErrForbidden):
		return NewAppError(err, "Not authorized", http.StatusForbidden, "FORBIDDEN")
	case errors.Is(err, ErrUnauthorized):
		return NewAppError(err, "Authentication required", http.StatusUnauthorized, "UNAUTHORIZED")
	case errors.Is(err, ErrInvalidInput):
		return NewAppError(err, "Invalid input", http.StatusBadRequest, "VALIDATION_ERROR")
	case errors.Is(err, ErrLimitReached):
		return NewAppError(err, "Limit reached", http.StatusForbidden, "LIMIT_REACHED")
	case errors.Is(err, ErrDuplicateKey), errors.Is(err, ErrConflict):
		return NewAppError(err, "Resource already exists", http.StatusConflict, "CONFLICT")
	case errors.Is(err, ErrTokenExpired):
		return TokenExpiredError()
	case errors.Is(err, ErrTokenRevoked):
		return TokenRevokedError()
	case errors.Is(err, ErrTokenInvalid):
		return TokenInvalidError()
	default:
		return InternalError(err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
