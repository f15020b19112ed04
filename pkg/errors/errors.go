package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
)

// ErrorCode classifies admission and delivery failures.
type ErrorCode string

const (
	ErrCodeInvalidKey        ErrorCode = "INVALID_KEY"
	ErrCodeNoCredential      ErrorCode = "NO_CREDENTIAL"
	ErrCodeInvalidCredential ErrorCode = "INVALID_CREDENTIAL"
	ErrCodeIdentityMismatch  ErrorCode = "IDENTITY_MISMATCH"
	ErrCodeNotCreator        ErrorCode = "NOT_CREATOR"
	ErrCodeStreamNotLive     ErrorCode = "STREAM_NOT_LIVE"
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeRateLimit         ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// AppError is an application error with a classification code and the
// WebSocket close code sent to a rejected client.
type AppError struct {
	Code      ErrorCode
	Message   string
	CloseCode int
	Cause     error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAdmissionError builds a connection-rejection error. Admission
// failures always close with policy violation (1008) per the handshake
// contract: the client must reconnect and re-authenticate.
func NewAdmissionError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		CloseCode: websocket.ClosePolicyViolation,
	}
}

func WrapError(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		CloseCode: websocket.ClosePolicyViolation,
		Cause:     err,
	}
}

func NewInvalidKeyError(message string) *AppError {
	return NewAdmissionError(ErrCodeInvalidKey, message)
}

func NewNoCredentialError() *AppError {
	return NewAdmissionError(ErrCodeNoCredential, "no authentication token")
}

func NewInvalidCredentialError() *AppError {
	return NewAdmissionError(ErrCodeInvalidCredential, "invalid token")
}

func NewIdentityMismatchError() *AppError {
	return NewAdmissionError(ErrCodeIdentityMismatch, "unauthorized")
}

func NewInternalError(message string) *AppError {
	return &AppError{
		Code:      ErrCodeInternal,
		Message:   message,
		CloseCode: websocket.CloseInternalServerErr,
	}
}

func NewInvalidInputError(message string) *AppError {
	return NewAdmissionError(ErrCodeInvalidKey, message)
}

// HTTPStatus maps the error code to a status for the REST surface.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidKey:
		return http.StatusBadRequest
	case ErrCodeNoCredential, ErrCodeInvalidCredential:
		return http.StatusUnauthorized
	case ErrCodeIdentityMismatch, ErrCodeNotCreator:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeStreamNotLive:
		return http.StatusConflict
	case ErrCodeRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// GetAppError extracts an AppError from an error chain, or nil.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
