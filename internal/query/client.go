package query

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// EventType says what happened to a cache slot.
type EventType int

const (
	// EventUpdated follows any change to a slot's state.
	EventUpdated EventType = iota
	// EventInvalidated asks mounted readers of the slot to refetch.
	EventInvalidated
	// EventCleared is sent once, with a nil Key, when the whole cache is dropped.
	EventCleared
)

type Event struct {
	Type EventType
	Key  Key
}

type entry struct {
	key          Key
	data         any
	hasData      bool
	err          error
	failureCount int
	updatedAt    time.Time
	fetching     bool
	invalidated  bool
	// version is bumped on invalidation so a fetch started afterwards does
	// not join one started before.
	version uint64
}

// Client is an in-memory cache of server responses keyed by Key. It dedupes
// concurrent fetches of one key, retries failures per a RetryPolicy and lets
// mutations invalidate whole key prefixes. It is safe for concurrent use.
type Client struct {
	mu      sync.Mutex
	entries map[string]*entry
	// epoch is bumped by Clear; fetches that started before it are discarded.
	epoch uint64

	group singleflight.Group

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int

	retry RetryPolicy
	delay func(failureCount int) time.Duration
	now   func() time.Time
	log   *slog.Logger
}

type Option func(*Client)

// WithRetry sets the policy for queries that do not declare their own.
func WithRetry(p RetryPolicy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

func WithRetryDelay(fn func(failureCount int) time.Duration) Option {
	return func(c *Client) {
		c.delay = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		entries: make(map[string]*entry),
		subs:    make(map[int]func(Event)),
		retry:   DefaultRetry,
		delay:   ExponentialDelay,
		now:     time.Now,
		log:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Subscribe registers fn for every cache event. fn runs on the goroutine
// that changed the cache and must not block. The returned func removes it.
func (c *Client) Subscribe(fn func(Event)) func() {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

func (c *Client) notify(ev Event) {
	c.subMu.Lock()
	fns := make([]func(Event), 0, len(c.subs))

	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Invalidate marks every slot under prefix as stale, so the next read
// refetches, and notifies mounted readers. It returns the number of slots hit.
func (c *Client) Invalidate(prefix Key) int {
	c.mu.Lock()

	var hit []Key

	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			e.invalidated = true
			e.version++
			hit = append(hit, e.key)
		}
	}
	c.mu.Unlock()

	c.log.Debug("query cache invalidated", "prefix", prefix.String(), "entries", len(hit))

	for _, k := range hit {
		c.notify(Event{Type: EventInvalidated, Key: k})
	}

	return len(hit)
}

// Clear drops every slot. Results of fetches still in flight are discarded.
func (c *Client) Clear() {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]*entry)
	c.epoch++
	c.mu.Unlock()

	c.log.Debug("query cache cleared", "entries", n)

	c.notify(Event{Type: EventCleared})
}

// Keys lists the slots currently held.
func (c *Client) Keys() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]Key, 0, len(c.entries))
	for _, e := range c.entries {
		keys = append(keys, e.key)
	}

	return keys
}

func (c *Client) entryLocked(key Key) *entry {
	s := key.String()

	e, ok := c.entries[s]
	if !ok {
		e = &entry{key: key}
		c.entries[s] = e
	}

	return e
}

func (c *Client) freshLocked(e *entry, staleTime time.Duration) bool {
	return e.hasData && !e.invalidated && c.now().Sub(e.updatedAt) < staleTime
}

// GetState returns the current snapshot of key without fetching.
func GetState[T any](c *Client, key Key, staleTime time.Duration) State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return State[T]{Status: StatusIdle, Stale: true}
	}

	return stateOf[T](e, !c.freshLocked(e, staleTime))
}

func stateOf[T any](e *entry, stale bool) State[T] {
	st := State[T]{
		Err:          e.err,
		FailureCount: e.failureCount,
		UpdatedAt:    e.updatedAt,
		Fetching:     e.fetching,
		Stale:        stale,
	}

	if v, ok := e.data.(T); ok && e.hasData {
		st.Data = v
		st.HasData = true
	}

	switch {
	case e.err != nil:
		st.Status = StatusError
	case e.fetching:
		st.Status = StatusLoading
	case st.HasData:
		st.Status = StatusSuccess
	default:
		st.Status = StatusIdle
	}

	return st
}

// SetData stores v under key as a fresh successful result.
func SetData[T any](c *Client, key Key, v T) {
	c.mu.Lock()
	e := c.entryLocked(key)
	e.data = v
	e.hasData = true
	e.err = nil
	e.failureCount = 0
	e.invalidated = false
	e.updatedAt = c.now()
	c.mu.Unlock()

	c.notify(Event{Type: EventUpdated, Key: key})
}

// Fetch returns the cached value of key when it is younger than staleTime
// and not invalidated, and otherwise calls fn. Concurrent fetches of one key
// share a single call. fn runs detached from ctx cancellation so a caller
// giving up does not fail the others; ctx still bounds how long this caller waits.
func Fetch[T any](ctx context.Context, c *Client, key Key, staleTime time.Duration, retry RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	e := c.entryLocked(key)
	fresh, data := c.freshLocked(e, staleTime), e.data
	c.mu.Unlock()

	if v, ok := data.(T); ok && fresh {
		return v, nil
	}

	return refetch(ctx, c, key, retry, fn)
}

func refetch[T any](ctx context.Context, c *Client, key Key, retry RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	if retry == nil {
		retry = c.retry
	}

	c.mu.Lock()
	e := c.entryLocked(key)
	epoch := c.epoch
	version := e.version
	c.mu.Unlock()

	flightKey := key.String() + "#" + strconv.FormatUint(epoch, 10) + "." + strconv.FormatUint(version, 10)

	ch := c.group.DoChan(flightKey, func() (any, error) {
		return c.run(context.WithoutCancel(ctx), key, epoch, version, retry, func(ctx context.Context) (any, error) {
			v, err := fn(ctx)
			return v, err
		})
	})

	var zero T

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}

		v, _ := res.Val.(T)

		return v, nil
	}
}

func (c *Client) run(ctx context.Context, key Key, epoch, version uint64, retry RetryPolicy, fn func(context.Context) (any, error)) (any, error) {
	c.update(key, epoch, func(e *entry) {
		e.fetching = true
	})

	log := c.log.With("key", key.String())

	for failures := 0; ; failures++ {
		v, err := fn(ctx)
		if err == nil {
			c.update(key, epoch, func(e *entry) {
				e.data = v
				e.hasData = true
				e.err = nil
				e.failureCount = 0
				e.fetching = false
				e.updatedAt = c.now()

				if e.version == version {
					e.invalidated = false
				}
			})

			return v, nil
		}

		c.update(key, epoch, func(e *entry) {
			e.failureCount = failures + 1
		})

		if !retry(failures, err) {
			log.Debug("query failed", "attempts", failures+1, "error", err)

			c.update(key, epoch, func(e *entry) {
				e.err = err
				e.fetching = false
			})

			return nil, err
		}

		d := c.delay(failures)
		log.Debug("query failed, retrying", "attempt", failures+1, "delay", d, "error", err)

		if err := sleep(ctx, d); err != nil {
			c.update(key, epoch, func(e *entry) {
				e.err = err
				e.fetching = false
			})

			return nil, err
		}
	}
}

// update applies fn to key's slot unless the cache was cleared since epoch.
func (c *Client) update(key Key, epoch uint64, fn func(e *entry)) {
	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return
	}

	fn(c.entryLocked(key))
	c.mu.Unlock()

	c.notify(Event{Type: EventUpdated, Key: key})
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
