package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same code, so wrapped copies of a
// sentinel still satisfy errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func New(code, message string, cause ...error) *AppError {
	var c error
	if len(cause) > 0 {
		c = cause[0]
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   c,
	}
}

var (
	ErrConfigNotFound = &AppError{Code: "CONFIG_001", Message: "configuration not found"}
	ErrConfigInvalid  = &AppError{Code: "CONFIG_002", Message: "invalid configuration"}

	ErrLLMDisabled    = &AppError{Code: "LLM_001", Message: "language model disabled"}
	ErrLLMUnavailable = &AppError{Code: "LLM_002", Message: "language model unavailable"}
	ErrRateLimited    = &AppError{Code: "LLM_003", Message: "rate limit exceeded"}
	ErrLLMResponse    = &AppError{Code: "LLM_004", Message: "invalid language model response"}

	ErrStoreOpen  = &AppError{Code: "STORE_001", Message: "failed to open store"}
	ErrStoreWrite = &AppError{Code: "STORE_002", Message: "failed to write record"}
	ErrStoreRead  = &AppError{Code: "STORE_003", Message: "failed to read record"}

	ErrChannelNotConfigured = &AppError{Code: "CHAN_001", Message: "channel not configured"}
	ErrChannelUnavailable   = &AppError{Code: "CHAN_002", Message: "channel unavailable"}

	ErrUnauthorized = &AppError{Code: "AUTH_001", Message: "unauthorized"}
	ErrForbidden    = &AppError{Code: "AUTH_002", Message: "forbidden"}

	ErrNotFound   = &AppError{Code: "GEN_001", Message: "resource not found"}
	ErrBadRequest = &AppError{Code: "GEN_002", Message: "bad request"}
	ErrInternal   = &AppError{Code: "GEN_003", Message: "internal error"}
)

func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is mirrors the standard library so callers need only one errors import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case stderrors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, ErrBadRequest), stderrors.Is(err, ErrConfigInvalid):
		return http.StatusBadRequest
	case stderrors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case stderrors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case stderrors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case stderrors.Is(err, ErrLLMUnavailable), stderrors.Is(err, ErrLLMDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
