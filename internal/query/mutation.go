package query

import (
	"context"
	"errors"
	"sync"
)

// ErrMutationPending is returned when Mutate is called on a mutation that
// has not finished its previous call.
var ErrMutationPending = errors.New("mutation already in progress")

type MutationState[R any] struct {
	Status Status
	Data   R
	Err    error
}

func (s MutationState[R]) IsPending() bool { return s.Status == StatusLoading }

// Mutation is a write against the server. It is never retried. On success
// every key prefix in Invalidates is invalidated before Mutate returns, so a
// read that follows sees fresh data.
type Mutation[P, R any] struct {
	c           *Client
	fn          func(context.Context, P) (R, error)
	invalidates []Key

	mu       sync.Mutex
	state    MutationState[R]
	onChange func(MutationState[R])
}

func NewMutation[P, R any](c *Client, fn func(context.Context, P) (R, error), invalidates ...Key) *Mutation[P, R] {
	return &Mutation[P, R]{c: c, fn: fn, invalidates: invalidates}
}

// OnChange registers fn to receive every state the mutation moves to. fn
// runs on the goroutine calling Mutate.
func (m *Mutation[P, R]) OnChange(fn func(MutationState[R])) *Mutation[P, R] {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()

	return m
}

func (m *Mutation[P, R]) Mutate(ctx context.Context, params P) (R, error) {
	var zero R

	m.mu.Lock()
	if m.state.Status == StatusLoading {
		m.mu.Unlock()
		return zero, ErrMutationPending
	}

	pending := MutationState[R]{Status: StatusLoading}
	m.state = pending
	notify := m.onChange
	m.mu.Unlock()

	if notify != nil {
		notify(pending)
	}

	res, err := m.fn(ctx, params)

	if err != nil {
		m.set(MutationState[R]{Status: StatusError, Err: err})
		return zero, err
	}

	for _, k := range m.invalidates {
		m.c.Invalidate(k)
	}

	m.set(MutationState[R]{Status: StatusSuccess, Data: res})

	return res, nil
}

func (m *Mutation[P, R]) set(st MutationState[R]) {
	m.mu.Lock()
	m.state = st
	fn := m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn(st)
	}
}

func (m *Mutation[P, R]) State() MutationState[R] {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Reset returns a settled mutation to idle, e.g. when its form is reopened.
func (m *Mutation[P, R]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status != StatusLoading {
		m.state = MutationState[R]{}
	}
}
