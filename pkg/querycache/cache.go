package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/angelmondragon/warehouse-console/pkg/logger"
	"github.com/angelmondragon/warehouse-console/pkg/metrics"
	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"
)

const subscriberBuffer = 16

// FetchFunc loads the current server value for a key.
type FetchFunc func(ctx context.Context) (json.RawMessage, error)

type EventType string

const (
	EventUpdated     EventType = "updated"
	EventInvalidated EventType = "invalidated"
)

type Event struct {
	Key  Key
	Type EventType
}

type Option func(*Cache)

func WithStore(store Store) Option {
	return func(c *Cache) {
		if store != nil {
			c.store = store
		}
	}
}

func WithLogger(logg *logger.Logger) Option {
	return func(c *Cache) {
		if logg != nil {
			c.logger = logg
		}
	}
}

func WithMetrics(m *metrics.CacheMetrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// WithStaleAfter ages entries out after d. Zero keeps them fresh until invalidated.
func WithStaleAfter(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.staleAfter = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// Cache holds the last fetched value per key. Invalidation only marks entries
// stale; the next Read fetches again.
//
// Each key carries a generation that Invalidate and Set advance. A fetch commits
// its result only if the generation it started under is still current, so a
// response that raced with an invalidation is handed to its own callers but never
// cached as fresh.
type Cache struct {
	store      Store
	logger     *logger.Logger
	metrics    *metrics.CacheMetrics
	staleAfter time.Duration
	now        func() time.Time

	group singleflight.Group

	mu          sync.Mutex
	keys        map[string]Key
	generations map[string]uint64

	subMu   sync.Mutex
	subs    map[uint64]*subscription
	nextSub uint64
}

type subscription struct {
	prefix Key
	ch     chan Event
}

func New(opts ...Option) *Cache {
	c := &Cache{
		store:       NewMemoryStore(),
		logger:      logger.Nop(),
		now:         time.Now,
		keys:        make(map[string]Key),
		generations: make(map[string]uint64),
		subs:        make(map[uint64]*subscription),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get returns the cached entry for key regardless of freshness.
func (c *Cache) Get(ctx context.Context, key Key) (Entry, bool, error) {
	entry, err := c.store.Load(ctx, key.String())
	if errors.Is(err, ErrNotFound) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

// Set stores data as the fresh value for key. Fetches already in flight for
// the key will not overwrite it.
func (c *Cache) Set(ctx context.Context, key Key, data json.RawMessage) error {
	c.mu.Lock()
	name := c.track(key)
	c.generations[name]++
	err := c.store.Save(ctx, name, Entry{Data: data, FetchedAt: c.now()})
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	c.publish(Event{Key: key, Type: EventUpdated})
	return nil
}

// Read returns the cached value while it is fresh and fetches otherwise.
// Concurrent reads of the same key share a single fetch.
func (c *Cache) Read(ctx context.Context, key Key, fetch FetchFunc) (json.RawMessage, error) {
	name := key.String()
	entry, err := c.store.Load(ctx, name)
	switch {
	case err == nil && c.fresh(entry):
		c.metrics.IncHit(key.Resource())
		c.logger.Debug(c.logger.WithCacheKey(ctx, name), "query cache hit")
		return entry.Data, nil
	case err != nil && !errors.Is(err, ErrNotFound):
		c.logger.Warn(c.logger.WithCacheKey(ctx, name), fmt.Sprintf("query cache load failed: %v", err))
	}
	c.metrics.IncMiss(key.Resource())
	return c.fetch(ctx, key, fetch)
}

// Refetch always goes to the backend and awaits the result. A fetch for the
// same key that started after the latest invalidation is joined instead.
func (c *Cache) Refetch(ctx context.Context, key Key, fetch FetchFunc) (json.RawMessage, error) {
	c.metrics.IncMiss(key.Resource())
	return c.fetch(ctx, key, fetch)
}

func (c *Cache) fetch(ctx context.Context, key Key, fetch FetchFunc) (json.RawMessage, error) {
	c.mu.Lock()
	name := c.track(key)
	gen := c.generations[name]
	c.mu.Unlock()

	flight := name + "#" + strconv.FormatUint(gen, 10)
	v, err, _ := c.group.Do(flight, func() (any, error) {
		data, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.commit(ctx, key, name, gen, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(json.RawMessage), nil
}

func (c *Cache) commit(ctx context.Context, key Key, name string, gen uint64, data json.RawMessage) {
	c.mu.Lock()
	if c.generations[name] != gen {
		c.mu.Unlock()
		c.logger.Debug(c.logger.WithCacheKey(ctx, name), "query cache discarded result invalidated mid-flight")
		return
	}
	err := c.store.Save(ctx, name, Entry{Data: data, FetchedAt: c.now()})
	c.mu.Unlock()
	if err != nil {
		c.logger.Warn(c.logger.WithCacheKey(ctx, name), fmt.Sprintf("query cache save failed: %v", err))
		return
	}
	c.publish(Event{Key: key, Type: EventUpdated})
}

// Invalidate marks every key under any of the given prefixes stale. That
// covers keys this process fetched and keys other processes wrote to a shared
// store. It does not refetch.
func (c *Cache) Invalidate(ctx context.Context, prefixes ...Key) error {
	var (
		errs    error
		matched []Key
	)
	c.mu.Lock()
	names := make(map[string]struct{})
	for _, prefix := range prefixes {
		// The prefix itself is tracked so a fetch already in flight for it
		// cannot mark it fresh.
		c.track(prefix)
		stored, err := c.store.MarkStalePrefix(ctx, prefix.String())
		errs = multierr.Append(errs, err)
		for _, name := range stored {
			names[name] = struct{}{}
		}
	}
	for name, key := range c.keys {
		if matchesAny(key, prefixes) {
			names[name] = struct{}{}
		}
	}
	for name := range names {
		c.generations[name]++
		key, ok := c.keys[name]
		if !ok {
			key = ParseKey(name)
		}
		matched = append(matched, key)
	}
	c.mu.Unlock()

	for _, key := range matched {
		c.metrics.IncInvalidation(key.Resource())
		c.publish(Event{Key: key, Type: EventInvalidated})
	}
	if errs != nil {
		return fmt.Errorf("invalidate: %w", errs)
	}
	return nil
}

// Remove drops the given keys outright, e.g. after the record was deleted.
func (c *Cache) Remove(ctx context.Context, keys ...Key) error {
	var errs error
	c.mu.Lock()
	for _, key := range keys {
		name := key.String()
		c.generations[name]++
		delete(c.keys, name)
		errs = multierr.Append(errs, c.store.Delete(ctx, name))
	}
	c.mu.Unlock()
	for _, key := range keys {
		c.publish(Event{Key: key, Type: EventInvalidated})
	}
	return errs
}

// Subscribe delivers events for key and every key beneath it. Slow subscribers
// miss events rather than blocking writers. Call cancel to release the channel.
func (c *Cache) Subscribe(key Key) (<-chan Event, func()) {
	sub := &subscription{prefix: append(Key(nil), key...), ch: make(chan Event, subscriberBuffer)}

	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = sub
	c.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

func (c *Cache) publish(evt Event) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, sub := range c.subs {
		if !evt.Key.HasPrefix(sub.prefix) {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
		}
	}
}

func (c *Cache) fresh(entry Entry) bool {
	if entry.Stale {
		return false
	}
	if c.staleAfter == 0 {
		return true
	}
	return c.now().Sub(entry.FetchedAt) < c.staleAfter
}

// track must be called with c.mu held.
func (c *Cache) track(key Key) string {
	name := key.String()
	if _, ok := c.keys[name]; !ok {
		c.keys[name] = append(Key(nil), key...)
	}
	return name
}

func matchesAny(key Key, prefixes []Key) bool {
	for _, prefix := range prefixes {
		if key.HasPrefix(prefix) {
			return true
		}
	}
	return false
}

// ReadJSON reads key through the cache and decodes it into T.
func ReadJSON[T any](ctx context.Context, c *Cache, key Key, fetch FetchFunc) (T, error) {
	var out T
	raw, err := c.Read(ctx, key, fetch)
	if err != nil {
		return out, err
	}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return out, nil
}
