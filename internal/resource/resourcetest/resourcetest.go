// Package resourcetest wires entity services against an in-process backend.
package resourcetest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/warehouse-console/internal/resource"
	"github.com/angelmondragon/warehouse-console/pkg/apiclient"
	"github.com/angelmondragon/warehouse-console/pkg/querycache"
)

// Request is one call observed by a Backend.
type Request struct {
	Method string
	Path   string
	Body   map[string]any
}

// Backend routes "METHOD /path" to canned handlers and records every call.
type Backend struct {
	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []Request
}

func NewBackend() *Backend {
	return &Backend{routes: make(map[string]http.HandlerFunc)}
}

func (b *Backend) Handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = h
}

// JSON registers a route answering status with body encoded as JSON.
func (b *Backend) JSON(method, path string, status int, body any) {
	b.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	b.mu.Lock()
	b.requests = append(b.requests, Request{Method: r.Method, Path: r.URL.Path, Body: body})
	h, ok := b.routes[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found"}`))
		return
	}
	h(w, r)
}

// Requests returns a snapshot of recorded calls.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Count reports how many calls matched method and path.
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Notices records every notice raised by the mutator.
type Notices struct {
	mu  sync.Mutex
	all []resource.Notice
}

func (n *Notices) Notify(_ context.Context, notice resource.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.all = append(n.all, notice)
}

func (n *Notices) All() []resource.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]resource.Notice(nil), n.all...)
}

// Env is a ready-to-use set of service dependencies.
type Env struct {
	Backend *Backend
	Deps    resource.Deps
	Notices *Notices
}

// New starts backend on an httptest server and builds Deps around it.
// now fixes the clock; pass the zero time to use time.Now.
func New(t *testing.T, backend *Backend, now time.Time) *Env {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client, err := apiclient.NewClient(srv.URL, apiclient.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	cache := querycache.New()
	registry := resource.NewRegistry()
	notices := &Notices{}
	mutator, err := resource.NewMutator(resource.MutatorParams{
		Cache:    cache,
		Registry: registry,
		Notifier: notices,
	})
	if err != nil {
		t.Fatalf("new mutator: %v", err)
	}

	deps := resource.Deps{Client: client, Cache: cache, Mutator: mutator, Registry: registry}
	if !now.IsZero() {
		deps.Now = func() time.Time { return now }
	}
	return &Env{Backend: backend, Deps: deps, Notices: notices}
}
