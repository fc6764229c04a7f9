package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	cache := New()
	var calls int32
	fetch := countingFetch(&calls, `[{"id":1}]`)

	for i := 0; i < 3; i++ {
		data, err := cache.Read(ctx, K("products"), fetch)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":1}]`, string(data))
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "fresh reads must not refetch")

	require.NoError(t, cache.Invalidate(ctx, K("products")))
	entry, ok, err := cache.Get(ctx, K("products"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, entry.Stale, "invalidate marks stale without refetching")
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	_, err = cache.Read(ctx, K("products"), fetch)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls), "read after invalidate must refetch")
}

func TestInvalidateMatchesByPrefix(t *testing.T) {
	ctx := context.Background()
	cache := New()
	var calls int32
	fetch := countingFetch(&calls, `{}`)

	for _, key := range []Key{K("purchases"), K("purchases", "12"), K("products")} {
		_, err := cache.Read(ctx, key, fetch)
		require.NoError(t, err)
	}
	require.NoError(t, cache.Invalidate(ctx, K("purchases")))

	stale := func(key Key) bool {
		entry, ok, err := cache.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		return entry.Stale
	}
	assert.True(t, stale(K("purchases")))
	assert.True(t, stale(K("purchases", "12")))
	assert.False(t, stale(K("products")))
}

func TestConcurrentReadsShareOneFetch(t *testing.T) {
	ctx := context.Background()
	cache := New()
	var calls int32
	release := make(chan struct{})
	fetch := func(context.Context) (json.RawMessage, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return json.RawMessage(`[1,2,3]`), nil
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, err := cache.Read(ctx, K("categories"), fetch)
			if err == nil {
				results[i] = string(data)
			}
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for _, got := range results {
		assert.Equal(t, `[1,2,3]`, got)
	}
}

func TestFetchInvalidatedMidFlightIsNotCachedFresh(t *testing.T) {
	ctx := context.Background()
	cache := New()
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	fetch := func(context.Context) (json.RawMessage, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			close(started)
			<-release
			return json.RawMessage(`"before"`), nil
		}
		return json.RawMessage(`"after"`), nil
	}

	done := make(chan json.RawMessage)
	go func() {
		data, _ := cache.Read(ctx, K("stock_transfers"), fetch)
		done <- data
	}()

	<-started
	require.NoError(t, cache.Invalidate(ctx, K("stock_transfers")))
	close(release)

	assert.Equal(t, `"before"`, string(<-done), "in-flight caller still receives its response")

	_, ok, err := cache.Get(ctx, K("stock_transfers"))
	require.NoError(t, err)
	assert.False(t, ok, "raced response must not be stored")

	data, err := cache.Read(ctx, K("stock_transfers"), fetch)
	require.NoError(t, err)
	assert.Equal(t, `"after"`, string(data))
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestRefetchBypassesFreshEntry(t *testing.T) {
	ctx := context.Background()
	cache := New()
	var calls int32
	fetch := countingFetch(&calls, `{"ok":true}`)

	_, err := cache.Read(ctx, K("dashboard", "summary"), fetch)
	require.NoError(t, err)
	_, err = cache.Refetch(ctx, K("dashboard", "summary"), fetch)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))

	entry, ok, err := cache.Get(ctx, K("dashboard", "summary"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, entry.Stale)
}

func TestFetchErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	cache := New()
	boom := errors.New("500: boom")

	_, err := cache.Read(ctx, K("suppliers"), func(context.Context) (json.RawMessage, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	_, ok, err := cache.Get(ctx, K("suppliers"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStaleAfterAgesEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := New(WithStaleAfter(time.Minute), WithClock(func() time.Time { return now }))
	var calls int32
	fetch := countingFetch(&calls, `[]`)

	_, err := cache.Read(ctx, K("movements"), fetch)
	require.NoError(t, err)
	now = now.Add(30 * time.Second)
	_, err = cache.Read(ctx, K("movements"), fetch)
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	now = now.Add(time.Minute)
	_, err = cache.Read(ctx, K("movements"), fetch)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestSetStoresFreshValue(t *testing.T) {
	ctx := context.Background()
	cache := New()
	require.NoError(t, cache.Set(ctx, K("categories"), json.RawMessage(`[{"id":9}]`)))

	data, err := cache.Read(ctx, K("categories"), func(context.Context) (json.RawMessage, error) {
		t.Fatalf("fresh value from Set must not trigger a fetch")
		return nil, nil
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":9}]`, string(data))
}

func TestRemoveDropsEntries(t *testing.T) {
	ctx := context.Background()
	cache := New()
	require.NoError(t, cache.Set(ctx, K("purchases", "4"), json.RawMessage(`{}`)))
	require.NoError(t, cache.Remove(ctx, K("purchases", "4")))

	_, ok, err := cache.Get(ctx, K("purchases", "4"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubscribeReceivesEventsUnderPrefix(t *testing.T) {
	ctx := context.Background()
	cache := New()
	events, cancel := cache.Subscribe(K("business_locations"))
	defer cancel()

	require.NoError(t, cache.Set(ctx, K("business_locations", "3"), json.RawMessage(`{}`)))
	require.NoError(t, cache.Set(ctx, K("products"), json.RawMessage(`[]`)))
	require.NoError(t, cache.Invalidate(ctx, K("business_locations")))

	first := <-events
	assert.Equal(t, EventUpdated, first.Type)
	assert.Equal(t, "business_locations:3", first.Key.String())

	seen := map[string]EventType{}
	for len(seen) < 2 {
		select {
		case evt := <-events:
			seen[evt.Key.String()] = evt.Type
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for invalidation events, got %v", seen)
		}
	}
	assert.Equal(t, EventInvalidated, seen["business_locations"])
	assert.Equal(t, EventInvalidated, seen["business_locations:3"])

	cancel()
	_, open := <-events
	assert.False(t, open, "cancel closes the channel")
}

func TestInvalidateCombinesStoreErrors(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: NewMemoryStore(), staleErr: errors.New("store down")}
	cache := New(WithStore(store))
	require.NoError(t, cache.Set(ctx, K("products"), json.RawMessage(`[]`)))
	require.NoError(t, cache.Set(ctx, K("products", "1"), json.RawMessage(`{}`)))

	err := cache.Invalidate(ctx, K("products"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store down")
}

func TestReadJSONDecodes(t *testing.T) {
	type product struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	cache := New()
	got, err := ReadJSON[[]product](context.Background(), cache, K("products"), func(context.Context) (json.RawMessage, error) {
		return json.RawMessage(`[{"id":1,"name":"Rice"}]`), nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rice", got[0].Name)
}

func TestKeyHelpers(t *testing.T) {
	key := K("dashboard", "summary")
	assert.Equal(t, "dashboard:summary", key.String())
	assert.Equal(t, "dashboard", key.Resource())
	assert.True(t, key.HasPrefix(K("dashboard")))
	assert.True(t, key.HasPrefix(K()))
	assert.False(t, K("dashboard").HasPrefix(key))
	assert.False(t, K("dash").HasPrefix(K("dashboard")))
}

func countingFetch(calls *int32, body string) FetchFunc {
	return func(context.Context) (json.RawMessage, error) {
		atomic.AddInt32(calls, 1)
		return json.RawMessage(body), nil
	}
}

type failingStore struct {
	*MemoryStore
	staleErr error
}

func (f *failingStore) MarkStale(context.Context, string) error {
	return f.staleErr
}

func (f *failingStore) MarkStalePrefix(context.Context, string) ([]string, error) {
	return nil, f.staleErr
}
