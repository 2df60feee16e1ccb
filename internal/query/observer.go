package query

import (
	"context"
	"sync"
	"time"
)

// Query binds a key to the function that loads it and its caching rules.
type Query[T any] struct {
	Key Key
	Fn  func(ctx context.Context) (T, error)
	// StaleTime is how long a result is served without refetching. Zero
	// makes every mount and key change refetch.
	StaleTime time.Duration
	// Retry overrides the client's policy when set.
	Retry RetryPolicy
	// KeepPreviousData shows the last key's data as a placeholder while a
	// new key loads for the first time.
	KeepPreviousData bool
}

// Fetch returns the cached result when fresh and loads it otherwise.
func (q Query[T]) Fetch(ctx context.Context, c *Client) (T, error) {
	return Fetch(ctx, c, q.Key, q.StaleTime, q.Retry, q.Fn)
}

// State returns the cached snapshot without fetching.
func (q Query[T]) State(c *Client) State[T] {
	return GetState[T](c, q.Key, q.StaleTime)
}

// Observer keeps one view attached to a Query. While mounted it refetches in
// the background whenever its slot is stale or invalidated, and reports every
// change of its slot through onChange.
type Observer[T any] struct {
	c        *Client
	onChange func(State[T])

	mu      sync.Mutex
	q       Query[T]
	last    T
	hasLast bool
	ctx     context.Context
	cancel  context.CancelFunc
	unsub   func()
}

func NewObserver[T any](c *Client, q Query[T], onChange func(State[T])) *Observer[T] {
	if onChange == nil {
		onChange = func(State[T]) {}
	}

	return &Observer[T]{c: c, q: q, onChange: onChange}
}

// Mount starts observing and refetches in the background when the cached
// slot is stale. It returns the state as of mounting.
func (o *Observer[T]) Mount(ctx context.Context) State[T] {
	o.mu.Lock()
	if o.cancel != nil {
		o.mu.Unlock()
		return o.State()
	}

	o.ctx, o.cancel = context.WithCancel(ctx)
	o.mu.Unlock()

	unsub := o.c.Subscribe(o.handle)

	o.mu.Lock()
	o.unsub = unsub
	o.mu.Unlock()

	st := o.State()
	if st.Stale && !st.Fetching {
		o.background()
	}

	return st
}

// Unmount stops observing. Fetches in flight still complete into the cache.
func (o *Observer[T]) Unmount() {
	o.mu.Lock()
	cancel, unsub := o.cancel, o.unsub
	o.cancel, o.unsub = nil, nil
	o.mu.Unlock()

	if unsub != nil {
		unsub()
	}

	if cancel != nil {
		cancel()
	}
}

func (o *Observer[T]) mounted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.cancel != nil
}

// SetQuery switches the observer to q, e.g. the next page of a list, and
// fetches it when stale.
func (o *Observer[T]) SetQuery(q Query[T]) {
	o.mu.Lock()
	changed := !o.q.Key.Equal(q.Key)
	o.q = q
	o.mu.Unlock()

	if !changed {
		return
	}

	st := o.State()
	o.onChange(st)

	if o.mounted() && st.Stale && !st.Fetching {
		o.background()
	}
}

// Query returns the query currently observed.
func (o *Observer[T]) Query() Query[T] {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.q
}

// State is the snapshot of the observed slot, with the previous key's data
// substituted while the current key has none and KeepPreviousData is set.
func (o *Observer[T]) State() State[T] {
	o.mu.Lock()
	q := o.q
	o.mu.Unlock()

	st := GetState[T](o.c, q.Key, q.StaleTime)

	o.mu.Lock()
	defer o.mu.Unlock()

	if st.HasData {
		o.last, o.hasLast = st.Data, true
		return st
	}

	if q.KeepPreviousData && o.hasLast {
		st.Data = o.last
		st.HasData = true
		st.Placeholder = true

		if st.Status != StatusError {
			st.Status = StatusSuccess
		}
	}

	return st
}

// Refetch loads the observed key now, regardless of staleness.
func (o *Observer[T]) Refetch(ctx context.Context) (T, error) {
	q := o.Query()
	return refetch(ctx, o.c, q.Key, q.Retry, q.Fn)
}

func (o *Observer[T]) background() {
	o.mu.Lock()
	ctx, q := o.ctx, o.q
	o.mu.Unlock()

	if ctx == nil || ctx.Err() != nil {
		return
	}

	go func() {
		// Failures land in the slot's state and reach onChange from there.
		_, _ = refetch(ctx, o.c, q.Key, q.Retry, q.Fn)
	}()
}

func (o *Observer[T]) handle(ev Event) {
	switch ev.Type {
	case EventCleared:
		o.mu.Lock()
		var zero T
		o.last, o.hasLast = zero, false
		o.mu.Unlock()

		o.onChange(o.State())
	case EventInvalidated:
		if ev.Key.Equal(o.Query().Key) {
			o.onChange(o.State())
			o.background()
		}
	case EventUpdated:
		if ev.Key.Equal(o.Query().Key) {
			o.onChange(o.State())
		}
	}
}
