// Package orchestrators coordinates a primary advisory request with an
// optional, user-triggered dependent request.
package orchestrators

import (
	"context"
	"sync"

	"github.com/fasal-sarthi-core/client/internal/advisory/async"
	errx "github.com/fasal-sarthi-core/client/internal/core/error"
	logx "github.com/fasal-sarthi-core/client/pkg/logger"
)

type Phase string

const (
	PhaseEmpty              Phase = "empty"
	PhasePrimaryPending     Phase = "primary_pending"
	PhasePrimarySucceeded   Phase = "primary_succeeded"
	PhasePrimaryFailed      Phase = "primary_failed"
	PhaseSecondaryPending   Phase = "secondary_pending"
	PhaseSecondarySucceeded Phase = "secondary_succeeded"
	PhaseSecondaryFailed    Phase = "secondary_failed"
)

// ChainSnapshot is the state of both stages at one instant.
type ChainSnapshot[P, S any] struct {
	Version   uint64         `json:"version"`
	Primary   async.State[P] `json:"primary"`
	Secondary async.State[S] `json:"secondary"`
}

func (s ChainSnapshot[P, S]) SnapshotVersion() uint64 { return s.Version }

func (s ChainSnapshot[P, S]) Phase() Phase {
	switch s.Secondary.Status {
	case async.Pending:
		return PhaseSecondaryPending
	case async.Succeeded:
		return PhaseSecondarySucceeded
	case async.Failed:
		return PhaseSecondaryFailed
	}
	switch s.Primary.Status {
	case async.Pending:
		return PhasePrimaryPending
	case async.Succeeded:
		return PhasePrimarySucceeded
	case async.Failed:
		return PhasePrimaryFailed
	}
	return PhaseEmpty
}

// Chain runs a primary call and, on request, a secondary call that consumes
// the primary result. Each stage has its own token so that a settlement
// issued before the latest Begin, Reset or Reject is dropped.
type Chain[P, S any] struct {
	name string

	mu        sync.Mutex
	primary   async.Slot[P]
	secondary async.Slot[S]
	version   uint64

	hub *async.Hub[ChainSnapshot[P, S]]
}

func NewChain[P, S any](name string) *Chain[P, S] {
	return &Chain[P, S]{
		name: name,
		hub:  async.NewHub[ChainSnapshot[P, S]](),
	}
}

func (c *Chain[P, S]) Snapshot() ChainSnapshot[P, S] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Chain[P, S]) Subscribe() (<-chan ChainSnapshot[P, S], func()) {
	return c.hub.Subscribe()
}

// Reject records a failure detected before any call was issued. The whole
// chain is reset so an earlier result never sits next to the new error.
func (c *Chain[P, S]) Reject(err error) ChainSnapshot[P, S] {
	c.mu.Lock()
	c.primary.Reject(err)
	c.secondary.Reset()
	snap := c.commitLocked()
	c.mu.Unlock()

	logx.Debug().Str("orchestrator", c.name).Str("error", errx.UserMessage(err)).Msg("input rejected")
	c.hub.Publish(snap)
	return snap
}

// RunPrimary resets both stages, marks the primary pending and blocks until
// call settles.
func (c *Chain[P, S]) RunPrimary(ctx context.Context, call func(context.Context) (P, error)) ChainSnapshot[P, S] {
	c.mu.Lock()
	tok := c.primary.Begin()
	c.secondary.Reset()
	snap := c.commitLocked()
	c.mu.Unlock()
	c.hub.Publish(snap)

	result, err := call(ctx)

	c.mu.Lock()
	var applied bool
	if err != nil {
		applied = c.primary.Fail(tok, err)
	} else {
		applied = c.primary.Succeed(tok, result)
	}
	return c.settleLocked(applied, "primary", uint64(tok))
}

// RunSecondary issues the dependent call with the current primary result.
// It fails with a validation error, leaving the chain untouched, unless the
// primary stage has succeeded.
func (c *Chain[P, S]) RunSecondary(ctx context.Context, call func(context.Context, P) (S, error)) (ChainSnapshot[P, S], error) {
	c.mu.Lock()
	input, ok := c.primary.State().Value()
	if !ok {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, errNoPrimaryResult
	}
	tok := c.secondary.Begin()
	snap := c.commitLocked()
	c.mu.Unlock()
	c.hub.Publish(snap)

	result, err := call(ctx, input)

	c.mu.Lock()
	var applied bool
	if err != nil {
		applied = c.secondary.Fail(tok, err)
	} else {
		applied = c.secondary.Succeed(tok, result)
	}
	return c.settleLocked(applied, "secondary", uint64(tok)), nil
}

// Clear returns the chain to Empty; in-flight settlements are discarded.
func (c *Chain[P, S]) Clear() ChainSnapshot[P, S] {
	c.mu.Lock()
	c.primary.Reset()
	c.secondary.Reset()
	snap := c.commitLocked()
	c.mu.Unlock()
	c.hub.Publish(snap)
	return snap
}

// settleLocked must be entered with c.mu held and releases it.
func (c *Chain[P, S]) settleLocked(applied bool, stage string, tok uint64) ChainSnapshot[P, S] {
	if !applied {
		logx.Debug().
			Str("orchestrator", c.name).
			Str("stage", stage).
			Uint64("token", tok).
			Msg("discarding stale settlement")
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	snap := c.commitLocked()
	c.mu.Unlock()
	c.hub.Publish(snap)
	return snap
}

func (c *Chain[P, S]) commitLocked() ChainSnapshot[P, S] {
	c.version++
	return c.snapshotLocked()
}

func (c *Chain[P, S]) snapshotLocked() ChainSnapshot[P, S] {
	return ChainSnapshot[P, S]{
		Version:   c.version,
		Primary:   c.primary.State(),
		Secondary: c.secondary.State(),
	}
}

var errNoPrimaryResult = errx.Validation("Submit a request first; there is no result to follow up on yet.")
