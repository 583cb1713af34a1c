package orchestrators

import (
	"context"
	"sync"

	"github.com/fasal-sarthi-core/client/internal/advisory/async"
	errx "github.com/fasal-sarthi-core/client/internal/core/error"
	logx "github.com/fasal-sarthi-core/client/pkg/logger"
)

// SingleSnapshot is the state of a one-stage orchestrator.
type SingleSnapshot[T any] struct {
	Version uint64         `json:"version"`
	State   async.State[T] `json:"state"`
}

func (s SingleSnapshot[T]) SnapshotVersion() uint64 { return s.Version }

// Single is a Chain without a dependent stage.
type Single[T any] struct {
	name string

	mu      sync.Mutex
	slot    async.Slot[T]
	version uint64

	hub *async.Hub[SingleSnapshot[T]]
}

func NewSingle[T any](name string) *Single[T] {
	return &Single[T]{name: name, hub: async.NewHub[SingleSnapshot[T]]()}
}

func (s *Single[T]) Snapshot() SingleSnapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Single[T]) Subscribe() (<-chan SingleSnapshot[T], func()) {
	return s.hub.Subscribe()
}

func (s *Single[T]) Reject(err error) SingleSnapshot[T] {
	s.mu.Lock()
	s.slot.Reject(err)
	snap := s.commitLocked()
	s.mu.Unlock()

	logx.Debug().Str("orchestrator", s.name).Str("error", errx.UserMessage(err)).Msg("input rejected")
	s.hub.Publish(snap)
	return snap
}

func (s *Single[T]) Run(ctx context.Context, call func(context.Context) (T, error)) SingleSnapshot[T] {
	s.mu.Lock()
	tok := s.slot.Begin()
	snap := s.commitLocked()
	s.mu.Unlock()
	s.hub.Publish(snap)

	result, err := call(ctx)

	s.mu.Lock()
	var applied bool
	if err != nil {
		applied = s.slot.Fail(tok, err)
	} else {
		applied = s.slot.Succeed(tok, result)
	}
	if !applied {
		logx.Debug().Str("orchestrator", s.name).Uint64("token", uint64(tok)).Msg("discarding stale settlement")
		snap = s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	snap = s.commitLocked()
	s.mu.Unlock()
	s.hub.Publish(snap)
	return snap
}

func (s *Single[T]) Clear() SingleSnapshot[T] {
	s.mu.Lock()
	s.slot.Reset()
	snap := s.commitLocked()
	s.mu.Unlock()
	s.hub.Publish(snap)
	return snap
}

func (s *Single[T]) commitLocked() SingleSnapshot[T] {
	s.version++
	return s.snapshotLocked()
}

func (s *Single[T]) snapshotLocked() SingleSnapshot[T] {
	return SingleSnapshot[T]{Version: s.version, State: s.slot.State()}
}
