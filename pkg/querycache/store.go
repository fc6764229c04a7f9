package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	pkgredis "github.com/angelmondragon/warehouse-console/pkg/redis"
	"go.uber.org/multierr"
)

// ErrNotFound is returned by Store.Load for keys that were never saved.
var ErrNotFound = errors.New("query cache entry not found")

// Entry is the last successful fetch for a key.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetched_at"`
	Stale     bool            `json:"stale"`
}

// Store persists entries by their flattened key string.
type Store interface {
	Load(ctx context.Context, key string) (Entry, error)
	Save(ctx context.Context, key string, entry Entry) error
	// MarkStale is a no-op for missing keys.
	MarkStale(ctx context.Context, key string) error
	// MarkStalePrefix marks every stored key at or beneath prefix stale,
	// including keys written by other processes sharing the store, and
	// returns their names.
	MarkStalePrefix(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}

type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (m *MemoryStore) Load(_ context.Context, key string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	entry.Data = append(json.RawMessage(nil), entry.Data...)
	return entry, nil
}

func (m *MemoryStore) Save(_ context.Context, key string, entry Entry) error {
	entry.Data = append(json.RawMessage(nil), entry.Data...)
	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) MarkStale(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.entries[key]; ok {
		entry.Stale = true
		m.entries[key] = entry
	}
	return nil
}

func (m *MemoryStore) MarkStalePrefix(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var marked []string
	for name, entry := range m.entries {
		if !coversName(name, prefix) {
			continue
		}
		entry.Stale = true
		m.entries[name] = entry
		marked = append(marked, name)
	}
	return marked, nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Ping satisfies the readiness probe.
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

type redisClient interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Keys(ctx context.Context, pattern string) ([]string, error)
	QueryKey(key string) string
}

// RedisStore shares cached entries between console replicas.
type RedisStore struct {
	client redisClient
}

func NewRedisStore(client redisClient) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Load(ctx context.Context, key string) (Entry, error) {
	raw, err := r.client.Get(ctx, r.client.QueryKey(key))
	if errors.Is(err, pkgredis.ErrNotFound) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("load %s: %w", key, err)
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return entry, nil
}

func (r *RedisStore) Save(ctx context.Context, key string, entry Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.client.Set(ctx, r.client.QueryKey(key), payload, 0); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) MarkStale(ctx context.Context, key string) error {
	entry, err := r.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	entry.Stale = true
	return r.Save(ctx, key, entry)
}

func (r *RedisStore) MarkStalePrefix(ctx context.Context, prefix string) ([]string, error) {
	namespace := r.client.QueryKey("") + ":"
	patterns := []string{namespace + "*"}
	if prefix != "" {
		base := r.client.QueryKey(escapeGlob(prefix))
		patterns = []string{base, base + ":*"}
	}

	var (
		marked []string
		errs   error
	)
	for _, pattern := range patterns {
		found, err := r.client.Keys(ctx, pattern)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("list %s: %w", pattern, err))
			continue
		}
		for _, full := range found {
			name := strings.TrimPrefix(full, namespace)
			if err := r.MarkStale(ctx, name); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			marked = append(marked, name)
		}
	}
	return marked, errs
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.client.QueryKey(key)); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, ch := range s {
		switch ch {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(ch)
	}
	return b.String()
}
