// Package optimistic models a boolean flag that is flipped locally before the
// remote write confirms. Every optimistically-updated flag goes through the
// same confirmed -> pending -> confirmed|reverted transition, so the rollback
// contract holds uniformly instead of living in ad hoc set/catch/reset code.
package optimistic

import (
	"context"
	"errors"
	"sync"
)

type State int

const (
	StateConfirmed State = iota
	StatePending
)

var ErrTogglePending = errors.New("toggle_pending")

// Flag is a boolean whose transitions are committed through a caller-supplied
// remote write.
type Flag struct {
	mu    sync.Mutex
	value bool
	state State
}

func NewFlag(initial bool) *Flag {
	return &Flag{value: initial, state: StateConfirmed}
}

// Value returns the current local value, including an unconfirmed pending one.
func (f *Flag) Value() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// State reports whether a commit is in flight.
func (f *Flag) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Set replaces the confirmed value without a commit, used when hydrating
// state from the store.
func (f *Flag) Set(value bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = value
	f.state = StateConfirmed
}

// Toggle flips the value locally, then runs commit with the new value. On
// commit failure the previous value is restored and the error returned; the
// flag is never left in the optimistic state after a reported failure.
// A second toggle while one is pending fails with ErrTogglePending.
func (f *Flag) Toggle(ctx context.Context, commit func(ctx context.Context, next bool) error) (bool, error) {
	f.mu.Lock()
	if f.state == StatePending {
		f.mu.Unlock()
		return f.value, ErrTogglePending
	}
	previous := f.value
	next := !previous
	f.value = next
	f.state = StatePending
	f.mu.Unlock()

	err := commit(ctx, next)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.value = previous
		f.state = StateConfirmed
		return previous, err
	}
	f.state = StateConfirmed
	return next, nil
}
