package query_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/expensify/internal/apiclient"
	"github.com/MrJamesThe3rd/expensify/internal/logger"
	"github.com/MrJamesThe3rd/expensify/internal/query"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClient(t *testing.T) (*query.Client, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}

	c := query.New(
		query.WithClock(clock.Now),
		query.WithRetryDelay(func(int) time.Duration { return 0 }),
		query.WithLogger(logger.Discard()),
	)

	return c, clock
}

// counter returns a fetch func yielding successive call counts.
func counter(calls *atomic.Int32) func(context.Context) (int, error) {
	return func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}
}

func TestFetch_StaleTime(t *testing.T) {
	c, clock := newClient(t)
	ctx := context.Background()
	key := query.Key{"categories"}

	var calls atomic.Int32

	v, err := query.Fetch(ctx, c, key, 10*time.Minute, nil, counter(&calls))
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	clock.Advance(9 * time.Minute)

	v, err = query.Fetch(ctx, c, key, 10*time.Minute, nil, counter(&calls))
	require.NoError(t, err)
	assert.Equal(t, 1, v, "fresh data is served from cache")

	clock.Advance(time.Minute)

	v, err = query.Fetch(ctx, c, key, 10*time.Minute, nil, counter(&calls))
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	st := query.GetState[int](c, key, 10*time.Minute)
	assert.Equal(t, query.StatusSuccess, st.Status)
	assert.False(t, st.Stale)
	assert.Equal(t, clock.Now(), st.UpdatedAt)
}

func TestFetch_ZeroStaleTimeAlwaysRefetches(t *testing.T) {
	c, _ := newClient(t)
	key := query.Key{"transactions", 1}

	var calls atomic.Int32

	for range 3 {
		_, err := query.Fetch(context.Background(), c, key, 0, nil, counter(&calls))
		require.NoError(t, err)
	}

	assert.Equal(t, int32(3), calls.Load())
}

func TestFetch_Retry(t *testing.T) {
	tests := []struct {
		name      string
		retry     query.RetryPolicy
		err       error
		wantCalls int32
	}{
		{name: "TransientRetriedTwice", err: &apiclient.StatusError{StatusCode: http.StatusBadGateway}, wantCalls: 3},
		{name: "UnauthorizedNeverRetried", err: &apiclient.StatusError{StatusCode: http.StatusUnauthorized}, wantCalls: 1},
		{name: "NotFoundNeverRetried", err: &apiclient.StatusError{StatusCode: http.StatusNotFound}, wantCalls: 1},
		{name: "QueryPolicyOverrides", retry: query.NoRetry, err: errors.New("offline"), wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newClient(t)
			key := query.Key{"auth", "me"}

			var calls atomic.Int32

			_, err := query.Fetch(context.Background(), c, key, 0, tt.retry, func(context.Context) (string, error) {
				calls.Add(1)
				return "", tt.err
			})

			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.wantCalls, calls.Load())

			st := query.GetState[string](c, key, 0)
			assert.Equal(t, query.StatusError, st.Status)
			assert.Equal(t, int(tt.wantCalls), st.FailureCount)
			assert.False(t, st.Fetching)
		})
	}
}

func TestFetch_RecoversAfterRetry(t *testing.T) {
	c, _ := newClient(t)

	var calls atomic.Int32

	v, err := query.Fetch(context.Background(), c, query.Key{"categories"}, 0, nil, func(context.Context) (string, error) {
		if calls.Add(1) < 3 {
			return "", errors.New("flaky")
		}

		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", v)

	st := query.GetState[string](c, query.Key{"categories"}, 0)
	assert.Equal(t, query.StatusSuccess, st.Status)
	assert.NoError(t, st.Err)
	assert.Zero(t, st.FailureCount)
}

func TestFetch_Dedupes(t *testing.T) {
	c, _ := newClient(t)
	key := query.Key{"transactions", 1}

	var calls atomic.Int32

	started := make(chan struct{})
	release := make(chan struct{})

	fn := func(context.Context) (int, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release

		return 7, nil
	}

	var wg sync.WaitGroup

	results := make([]int, 5)

	wg.Add(1)

	go func() {
		defer wg.Done()

		results[0], _ = query.Fetch(context.Background(), c, key, 0, nil, fn)
	}()

	<-started

	for i := 1; i < len(results); i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i], _ = query.Fetch(context.Background(), c, key, 0, nil, fn)
		}()
	}

	require.Eventually(t, func() bool {
		return query.GetState[int](c, key, 0).Fetching
	}, time.Second, time.Millisecond)

	// Give the joiners a moment to reach the shared call before releasing it.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []int{7, 7, 7, 7, 7}, results)
}

func TestFetch_CallerCancellation(t *testing.T) {
	c, _ := newClient(t)
	key := query.Key{"categories"}
	release := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := query.Fetch(ctx, c, key, 0, nil, func(context.Context) (string, error) {
		<-release
		return "late", nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	close(release)

	assert.Eventually(t, func() bool {
		return query.GetState[string](c, key, 0).Data == "late"
	}, time.Second, time.Millisecond, "the shared call still fills the cache")
}

func TestClient_Invalidate(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	var txCalls, catCalls atomic.Int32

	for _, page := range []int{1, 2} {
		_, err := query.Fetch(ctx, c, query.Key{"transactions", page}, time.Hour, nil, counter(&txCalls))
		require.NoError(t, err)
	}

	_, err := query.Fetch(ctx, c, query.Key{"categories"}, time.Hour, nil, counter(&catCalls))
	require.NoError(t, err)

	var events []query.Event

	unsub := c.Subscribe(func(ev query.Event) {
		if ev.Type == query.EventInvalidated {
			events = append(events, ev)
		}
	})
	defer unsub()

	assert.Equal(t, 2, c.Invalidate(query.Key{"transactions"}))
	assert.Len(t, events, 2)

	for _, page := range []int{1, 2} {
		st := query.GetState[int](c, query.Key{"transactions", page}, time.Hour)
		assert.True(t, st.Stale)
		assert.True(t, st.HasData, "invalidation keeps data visible until the refetch lands")

		_, err := query.Fetch(ctx, c, query.Key{"transactions", page}, time.Hour, nil, counter(&txCalls))
		require.NoError(t, err)
	}

	_, err = query.Fetch(ctx, c, query.Key{"categories"}, time.Hour, nil, counter(&catCalls))
	require.NoError(t, err)

	assert.Equal(t, int32(4), txCalls.Load())
	assert.Equal(t, int32(1), catCalls.Load())
}

func TestClient_InvalidateDuringFetch(t *testing.T) {
	c, _ := newClient(t)
	key := query.Key{"categories"}
	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_, _ = query.Fetch(context.Background(), c, key, time.Hour, nil, func(context.Context) (string, error) {
			close(started)
			<-release

			return "before", nil
		})
	}()

	<-started
	c.Invalidate(key)
	close(release)

	require.Eventually(t, func() bool {
		return query.GetState[string](c, key, time.Hour).HasData
	}, time.Second, time.Millisecond)

	assert.True(t, query.GetState[string](c, key, time.Hour).Stale, "a result started before invalidation stays stale")

	v, err := query.Fetch(context.Background(), c, key, time.Hour, nil, func(context.Context) (string, error) {
		return "after", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "after", v)
}

func TestClient_Clear(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	_, err := query.Fetch(ctx, c, query.Key{"auth", "me"}, time.Hour, nil, func(context.Context) (string, error) {
		return "ada", nil
	})
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)

		_, _ = query.Fetch(ctx, c, query.Key{"categories"}, time.Hour, nil, func(context.Context) (string, error) {
			close(started)
			<-release

			return "stale", nil
		})
	}()

	<-started
	c.Clear()
	close(release)
	<-done

	assert.Empty(t, c.Keys(), "results of fetches started before Clear are discarded")
	assert.Equal(t, query.StatusIdle, query.GetState[string](c, query.Key{"auth", "me"}, time.Hour).Status)
}

func TestSetData(t *testing.T) {
	c, _ := newClient(t)

	query.SetData(c, query.Key{"auth", "me"}, "ada")

	v, err := query.Fetch(context.Background(), c, query.Key{"auth", "me"}, time.Minute, nil, func(context.Context) (string, error) {
		return "", errors.New("should not be called")
	})
	require.NoError(t, err)
	assert.Equal(t, "ada", v)
}
