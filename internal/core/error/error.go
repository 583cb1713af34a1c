package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "An unknown error occurred."
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
)

// Kind classifies a failure for callers that render or react to it.
type Kind string

const (
	// KindValidation is bad input, detected locally or rejected by a service.
	KindValidation Kind = "validation"
	// KindNetwork means no response reached the caller.
	KindNetwork Kind = "network"
	// KindServer means the service responded with a failure or an unusable body.
	KindServer Kind = "server"
	// KindInternal covers everything else.
	KindInternal Kind = "internal"
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
	Kind    Kind
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
		Kind:    KindInternal,
	}
}

// Validation reports input that must not be (or was not) accepted.
func Validation(message string) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Message: message,
		Kind:    KindValidation,
	}
}

// Network reports a request that never produced a response.
func Network(err error, message string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Kind:    KindNetwork,
	}
}

// Server reports a failure returned by a reachable service. 4xx statuses are
// classified as validation failures since the service rejected the input.
func Server(err error, status int, message string) *AppError {
	kind := KindServer
	if status >= 400 && status < 500 {
		kind = KindValidation
	}
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
		Kind:    kind,
	}
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}

// KindOf returns the failure kind carried by err, KindInternal when unknown.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != "" {
		return appErr.Kind
	}
	return KindInternal
}

// UserMessage returns the text that may be shown to a user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return SystemErrorMessage
}
