package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"sync/atomic"
	"testing"
	"time"

	pkgredis "github.com/angelmondragon/warehouse-console/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCopiesData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	data := json.RawMessage(`{"a":1}`)
	require.NoError(t, store.Save(ctx, "k", Entry{Data: data}))
	data[2] = 'b'

	entry, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(entry.Data))

	_, err = store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.MarkStale(ctx, "missing"))
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	store := NewRedisStore(client)
	fetchedAt := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, "purchases:3", Entry{Data: json.RawMessage(`{"id":3}`), FetchedAt: fetchedAt}))
	_, stored := client.data["wc:query:purchases:3"]
	assert.True(t, stored, "entries are namespaced under wc:query")

	require.NoError(t, store.MarkStale(ctx, "purchases:3"))
	entry, err := store.Load(ctx, "purchases:3")
	require.NoError(t, err)
	assert.True(t, entry.Stale)
	assert.True(t, entry.FetchedAt.Equal(fetchedAt))
	assert.JSONEq(t, `{"id":3}`, string(entry.Data))

	require.NoError(t, store.Delete(ctx, "purchases:3"))
	_, err = store.Load(ctx, "purchases:3")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.MarkStale(ctx, "purchases:3"))
}

func TestMemoryStoreMarkStalePrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for _, name := range []string{"purchases", "purchases:12", "purchases_archive", "products"} {
		require.NoError(t, store.Save(ctx, name, Entry{Data: json.RawMessage(`{}`)}))
	}

	marked, err := store.MarkStalePrefix(ctx, "purchases")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"purchases", "purchases:12"}, marked)

	entry, err := store.Load(ctx, "purchases_archive")
	require.NoError(t, err)
	assert.False(t, entry.Stale, "a shared leading substring is not a key prefix")
}

func TestRedisStoreMarkStalePrefix(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	store := NewRedisStore(client)
	for _, name := range []string{"purchases", "purchases:12", "purchases_archive", "products"} {
		require.NoError(t, store.Save(ctx, name, Entry{Data: json.RawMessage(`{}`)}))
	}

	marked, err := store.MarkStalePrefix(ctx, "purchases")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"purchases", "purchases:12"}, marked)

	for name, stale := range map[string]bool{"purchases": true, "purchases:12": true, "purchases_archive": false, "products": false} {
		entry, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, stale, entry.Stale, name)
	}

	all, err := store.MarkStalePrefix(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestInvalidateReachesEntriesWrittenByAnotherReplica(t *testing.T) {
	ctx := context.Background()
	shared := newFakeRedis()
	writer := New(WithStore(NewRedisStore(shared)))
	reader := New(WithStore(NewRedisStore(shared)))
	var calls int32
	fetch := countingFetch(&calls, `{"id":12}`)

	_, err := writer.Read(ctx, K("purchases", "12"), fetch)
	require.NoError(t, err)
	_, err = reader.Read(ctx, K("purchases", "12"), fetch)
	require.NoError(t, err)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls), "second replica is served from the shared store")

	events, cancel := reader.Subscribe(K("purchases"))
	defer cancel()
	require.NoError(t, reader.Invalidate(ctx, K("purchases")))
	var keys []string
	for len(events) > 0 {
		evt := <-events
		assert.Equal(t, EventInvalidated, evt.Type)
		keys = append(keys, evt.Key.String())
	}
	assert.Contains(t, keys, "purchases:12")

	_, err = reader.Read(ctx, K("purchases", "12"), fetch)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestRedisStoreSurfacesErrors(t *testing.T) {
	client := newFakeRedis()
	client.err = errors.New("connection reset")
	store := NewRedisStore(client)

	_, err := store.Load(context.Background(), "products")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestCacheOverRedisStore(t *testing.T) {
	ctx := context.Background()
	cache := New(WithStore(NewRedisStore(newFakeRedis())))
	var calls int32
	fetch := countingFetch(&calls, `[{"id":1}]`)

	_, err := cache.Read(ctx, K("products"), fetch)
	require.NoError(t, err)
	_, err = cache.Read(ctx, K("products"), fetch)
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls)

	require.NoError(t, cache.Invalidate(ctx, K("products")))
	_, err = cache.Read(ctx, K("products"), fetch)
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls)
}

type fakeRedis struct {
	data map[string][]byte
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Get(_ context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.data[key]
	if !ok {
		return nil, pkgredis.ErrNotFound
	}
	return v, nil
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.data[key] = append([]byte(nil), value.([]byte)...)
	return nil
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeRedis) Ping(context.Context) error {
	return f.err
}

func (f *fakeRedis) Keys(_ context.Context, pattern string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var keys []string
	for key := range f.data {
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (f *fakeRedis) QueryKey(key string) string {
	return (&pkgredis.Client{}).QueryKey(key)
}
