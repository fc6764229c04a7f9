package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/angelmondragon/warehouse-console/pkg/apiclient"
	"github.com/angelmondragon/warehouse-console/pkg/querycache"
)

// Query is a list or summary read that can be refetched after a mutation.
type Query struct {
	Key   querycache.Key
	Fetch querycache.FetchFunc
}

// GetQuery reads path with a plain GET.
func GetQuery(client *apiclient.Client, key querycache.Key, path string) Query {
	return Query{
		Key: key,
		Fetch: func(ctx context.Context) (json.RawMessage, error) {
			return client.Raw(ctx, http.MethodGet, path, nil)
		},
	}
}

// Registry tracks the queries each entity service exposes.
type Registry struct {
	mu      sync.RWMutex
	queries []Query
}

func NewRegistry(queries ...Query) *Registry {
	registry := &Registry{}
	for _, q := range queries {
		registry.Register(q)
	}
	return registry
}

// Register adds q, replacing an earlier query with the same key.
func (r *Registry) Register(q Query) {
	if q.Fetch == nil || len(q.Key) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.queries {
		if existing.Key.String() == q.Key.String() {
			r.queries[i] = q
			return
		}
	}
	r.queries = append(r.queries, q)
}

// Under returns the registered queries whose keys fall under any prefix,
// in registration order.
func (r *Registry) Under(prefixes ...querycache.Key) []Query {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Query
	for _, q := range r.queries {
		for _, prefix := range prefixes {
			if q.Key.HasPrefix(prefix) {
				out = append(out, q)
				break
			}
		}
	}
	return out
}
