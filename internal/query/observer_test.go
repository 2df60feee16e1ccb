package query_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/expensify/internal/query"
)

// recorder collects the states an observer reports.
type recorder[T any] struct {
	mu     sync.Mutex
	states []query.State[T]
}

func (r *recorder[T]) record(st query.State[T]) {
	r.mu.Lock()
	r.states = append(r.states, st)
	r.mu.Unlock()
}

func (r *recorder[T]) last() query.State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.states) == 0 {
		return query.State[T]{}
	}

	return r.states[len(r.states)-1]
}

func pageQuery(page int, calls *atomic.Int32, gate <-chan struct{}) query.Query[string] {
	return query.Query[string]{
		Key: query.Key{"transactions", page},
		Fn: func(context.Context) (string, error) {
			calls.Add(1)

			if gate != nil {
				<-gate
			}

			return "page-" + strconv.Itoa(page), nil
		},
		KeepPreviousData: true,
	}
}

func TestObserver_MountFetches(t *testing.T) {
	c, _ := newClient(t)

	var calls atomic.Int32

	rec := &recorder[string]{}
	obs := query.NewObserver(c, pageQuery(1, &calls, nil), rec.record)

	st := obs.Mount(context.Background())
	defer obs.Unmount()

	assert.False(t, st.HasData)

	require.Eventually(t, func() bool {
		return rec.last().Status == query.StatusSuccess
	}, time.Second, time.Millisecond)

	assert.Equal(t, "page-1", obs.State().Data)
	assert.Equal(t, int32(1), calls.Load())
}

func TestObserver_FreshDataIsNotRefetched(t *testing.T) {
	c, _ := newClient(t)
	query.SetData(c, query.Key{"categories"}, []string{"Food"})

	var calls atomic.Int32

	obs := query.NewObserver(c, query.Query[[]string]{
		Key:       query.Key{"categories"},
		StaleTime: 10 * time.Minute,
		Fn: func(context.Context) ([]string, error) {
			calls.Add(1)
			return nil, nil
		},
	}, nil)

	st := obs.Mount(context.Background())
	defer obs.Unmount()

	assert.Equal(t, []string{"Food"}, st.Data)

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestObserver_KeepPreviousData(t *testing.T) {
	c, _ := newClient(t)

	var calls atomic.Int32

	rec := &recorder[string]{}
	obs := query.NewObserver(c, pageQuery(1, &calls, nil), rec.record)

	obs.Mount(context.Background())
	defer obs.Unmount()

	require.Eventually(t, func() bool { return obs.State().HasData }, time.Second, time.Millisecond)

	gate := make(chan struct{})
	obs.SetQuery(pageQuery(2, &calls, gate))

	st := obs.State()
	assert.True(t, st.Placeholder)
	assert.Equal(t, "page-1", st.Data, "the previous page stays visible while the next one loads")
	assert.Equal(t, query.StatusSuccess, st.Status)

	close(gate)

	require.Eventually(t, func() bool {
		st := obs.State()
		return !st.Placeholder && st.Data == "page-2"
	}, time.Second, time.Millisecond)
}

func TestObserver_InvalidationRefetches(t *testing.T) {
	c, _ := newClient(t)

	var calls atomic.Int32

	// One token per fetch lets the test hold the refetch in flight.
	gate := make(chan struct{}, 1)
	gate <- struct{}{}

	obs := query.NewObserver(c, pageQuery(1, &calls, gate), nil)
	obs.Mount(context.Background())

	require.Eventually(t, func() bool { return calls.Load() == 1 && obs.State().HasData }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return obs.State().Status == query.StatusSuccess }, time.Second, time.Millisecond)

	c.Invalidate(query.Key{"transactions"})

	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, time.Millisecond)

	st := obs.State()
	assert.Equal(t, query.StatusLoading, st.Status)
	assert.True(t, st.Fetching)
	assert.True(t, st.HasData, "data stays readable while refetching")
	assert.Equal(t, "page-1", st.Data)
	assert.False(t, st.Placeholder)

	gate <- struct{}{}

	require.Eventually(t, func() bool {
		st := obs.State()
		return calls.Load() == 2 && st.Status == query.StatusSuccess && !st.Fetching
	}, time.Second, time.Millisecond)

	obs.Unmount()
	c.Invalidate(query.Key{"transactions"})

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(2), calls.Load(), "unmounted observers do not refetch")
}

func TestObserver_ErrorKeepsData(t *testing.T) {
	c, _ := newClient(t)
	query.SetData(c, query.Key{"categories"}, "cached")

	obs := query.NewObserver(c, query.Query[string]{
		Key:   query.Key{"categories"},
		Retry: query.NoRetry,
		Fn: func(context.Context) (string, error) {
			return "", errors.New("offline")
		},
	}, nil)

	_, err := obs.Refetch(context.Background())
	require.Error(t, err)

	st := obs.State()
	assert.Equal(t, query.StatusError, st.Status)
	assert.True(t, st.HasData)
	assert.Equal(t, "cached", st.Data)
}

func TestObserver_Cleared(t *testing.T) {
	c, _ := newClient(t)

	var calls atomic.Int32

	obs := query.NewObserver(c, pageQuery(1, &calls, nil), nil)
	obs.Mount(context.Background())
	defer obs.Unmount()

	require.Eventually(t, func() bool { return obs.State().HasData }, time.Second, time.Millisecond)

	c.Clear()

	st := obs.State()
	assert.False(t, st.HasData)
	assert.Equal(t, query.StatusIdle, st.Status)
}
