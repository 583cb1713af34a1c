package async

import errx "github.com/fasal-sarthi-core/client/internal/core/error"

// Token identifies one issued call within a Slot.
type Token uint64

// Slot is a single tracked operation guarded by token-discard: every call
// issued through Begin gets a fresh token, and only a settlement carrying
// the latest token is applied. Slot is not safe for concurrent use; the
// owner serialises access with its own lock.
type Slot[T any] struct {
	token Token
	state State[T]
}

// Begin issues a new call and moves the slot to Pending, dropping any
// previous result or error.
func (s *Slot[T]) Begin() Token {
	s.token++
	s.state = pending[T]()
	return s.token
}

// Current reports whether tok is the latest issued token.
func (s *Slot[T]) Current(tok Token) bool {
	return tok == s.token
}

// Latest returns the most recently issued token.
func (s *Slot[T]) Latest() Token {
	return s.token
}

// Succeed applies a successful settlement. It returns false and leaves the
// slot untouched when tok is stale.
func (s *Slot[T]) Succeed(tok Token, v T) bool {
	if !s.Current(tok) || s.state.Status != Pending {
		return false
	}
	s.state = succeeded(v)
	return true
}

// Fail applies a failed settlement using the error's kind and user message.
func (s *Slot[T]) Fail(tok Token, err error) bool {
	return s.FailWith(tok, errx.KindOf(err), errx.UserMessage(err))
}

// FailWith is Fail with an explicit kind and message.
func (s *Slot[T]) FailWith(tok Token, kind errx.Kind, msg string) bool {
	if !s.Current(tok) || s.state.Status != Pending {
		return false
	}
	s.state = failed[T](kind, msg)
	return true
}

// Reject fails the slot without a call ever being issued. Any in-flight
// call is invalidated.
func (s *Slot[T]) Reject(err error) {
	s.token++
	s.state = failed[T](errx.KindOf(err), errx.UserMessage(err))
}

// Reset returns the slot to Idle and invalidates any in-flight call.
func (s *Slot[T]) Reset() {
	s.token++
	s.state = idle[T]()
}

func (s *Slot[T]) State() State[T] {
	if s.state.Status == "" {
		return idle[T]()
	}
	return s.state
}
