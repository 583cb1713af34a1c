// Package async tracks the lifecycle of remote calls issued by the weather
// store and the orchestrators.
package async

import errx "github.com/fasal-sarthi-core/client/internal/core/error"

type Status string

const (
	Idle      Status = "idle"
	Pending   Status = "pending"
	Succeeded Status = "succeeded"
	Failed    Status = "failed"
)

// State is an immutable view of one tracked operation. Result is set only
// when Succeeded, ErrorMessage only when Failed.
type State[T any] struct {
	Status       Status    `json:"status"`
	Result       *T        `json:"result,omitempty"`
	ErrorMessage string    `json:"error,omitempty"`
	ErrorKind    errx.Kind `json:"error_kind,omitempty"`
}

func idle[T any]() State[T] {
	return State[T]{Status: Idle}
}

func pending[T any]() State[T] {
	return State[T]{Status: Pending}
}

func succeeded[T any](v T) State[T] {
	return State[T]{Status: Succeeded, Result: &v}
}

func failed[T any](kind errx.Kind, msg string) State[T] {
	if msg == "" {
		msg = errx.SystemErrorMessage
	}
	if kind == "" {
		kind = errx.KindInternal
	}
	return State[T]{Status: Failed, ErrorMessage: msg, ErrorKind: kind}
}

// Value returns the result when the operation succeeded.
func (s State[T]) Value() (T, bool) {
	if s.Status != Succeeded || s.Result == nil {
		var zero T
		return zero, false
	}
	return *s.Result, true
}

func (s State[T]) IsPending() bool {
	return s.Status == Pending
}

// Valid reports whether result and error agree with the status.
func (s State[T]) Valid() bool {
	switch s.Status {
	case Succeeded:
		return s.Result != nil && s.ErrorMessage == ""
	case Failed:
		return s.Result == nil && s.ErrorMessage != ""
	case Idle, Pending:
		return s.Result == nil && s.ErrorMessage == ""
	default:
		return false
	}
}
