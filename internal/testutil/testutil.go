// Package testutil provides a fake voting backend for handler and
// repository tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"voterz/internal/backend"
)

// Request is a request the fake backend received.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Decode unmarshals the request body into v, failing the test on error.
func (r Request) Decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("Failed to decode %s %s body %q: %v", r.Method, r.Path, r.Body, err)
	}
}

// Backend is an httptest server that answers on registered "METHOD /path"
// routes and records every request it receives.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []Request
}

func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{routes: make(map[string]http.HandlerFunc)}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path

	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	h, ok := b.routes[key]
	b.mu.Unlock()

	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
		return
	}
	h(w, r)
}

// Handle registers h for pattern, e.g. "GET /api/election".
func (b *Backend) Handle(pattern string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[pattern] = h
}

// JSON registers a fixed JSON response for pattern.
func (b *Backend) JSON(pattern string, status int, v any) {
	b.Handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, v)
	})
}

func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Count returns how many requests matched "METHOD /path".
func (b *Backend) Count(pattern string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method+" "+r.Path == pattern {
			n++
		}
	}
	return n
}

// Last returns the most recent request matching "METHOD /path".
func (b *Backend) Last(pattern string) (Request, bool) {
	reqs := b.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method+" "+reqs[i].Path == pattern {
			return reqs[i], true
		}
	}
	return Request{}, false
}

// Client returns a backend client pointed at the fake server.
func (b *Backend) Client(t *testing.T) *backend.Client {
	t.Helper()
	c, err := backend.New(backend.Config{BaseURL: b.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Failed to create backend client: %v", err)
	}
	return c
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
