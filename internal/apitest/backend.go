// Package apitest provides an in-memory stand-in for the remote REST API,
// used by package tests to drive screens end to end over real HTTP.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type failure struct {
	status int
	body   string
}

type hold struct {
	arrived chan struct{}
	release chan struct{}
}

// Backend keeps one collection per resource path ("/Users", "/Rutas", ...).
type Backend struct {
	mu      sync.Mutex
	records map[string][]map[string]any
	nextID  map[string]int
	raw     map[string]string
	fail    map[string][]failure
	posted  map[string][]json.RawMessage
	headers map[string]http.Header
	calls   map[string]int
	holds   map[string]*hold
}

// NewBackend returns an empty backend.
func NewBackend() *Backend {
	return &Backend{
		records: map[string][]map[string]any{},
		nextID:  map[string]int{},
		raw:     map[string]string{},
		fail:    map[string][]failure{},
		posted:  map[string][]json.RawMessage{},
		headers: map[string]http.Header{},
		calls:   map[string]int{},
		holds:   map[string]*hold{},
	}
}

// Start serves the backend for the duration of the test and returns its base URL
// (server root + "/api").
func (b *Backend) Start(t testing.TB) string {
	t.Helper()
	srv := httptest.NewServer(b.Routes())
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

// Routes returns a chi.Router mounting every resource under /api.
func (b *Backend) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Get("/{resource}", b.list)
		r.Post("/{resource}", b.create)
	})
	return r
}

// Seed appends records to the collection at path. Records keep their own ids.
func (b *Backend) Seed(path string, records ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, rec := range records {
		data, _ := json.Marshal(rec)
		var m map[string]any
		_ = json.Unmarshal(data, &m)
		if id, ok := m["id"].(float64); ok && int(id) > b.nextID[path] {
			b.nextID[path] = int(id)
		}
		b.records[path] = append(b.records[path], m)
	}
}

// Raw makes every GET on path answer 200 with body verbatim.
func (b *Backend) Raw(path, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.raw[path] = body
}

// FailNext makes the next request on "METHOD /path" answer status with body.
func (b *Backend) FailNext(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := method + " " + path
	b.fail[key] = append(b.fail[key], failure{status: status, body: body})
}

// Hold parks POSTs on path until release is called. arrived receives once per parked request.
func (b *Backend) Hold(path string) (arrived <-chan struct{}, release func()) {
	h := &hold{arrived: make(chan struct{}, 16), release: make(chan struct{})}
	b.mu.Lock()
	b.holds[path] = h
	b.mu.Unlock()
	var once sync.Once
	return h.arrived, func() { once.Do(func() { close(h.release) }) }
}

// Posted returns every payload POSTed to path, in arrival order.
func (b *Backend) Posted(path string) []json.RawMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]json.RawMessage(nil), b.posted[path]...)
}

// Calls counts requests received on "METHOD /path".
func (b *Backend) Calls(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method+" "+path]
}

// LastHeader returns the headers of the latest request on "METHOD /path".
func (b *Backend) LastHeader(method, path string) http.Header {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.headers[method+" "+path]
}

func (b *Backend) list(w http.ResponseWriter, r *http.Request) {
	path := "/" + chi.URLParam(r, "resource")
	if b.injected(w, r, path) {
		return
	}

	b.mu.Lock()
	raw, hasRaw := b.raw[path]
	recs := append([]map[string]any{}, b.records[path]...)
	b.mu.Unlock()

	if hasRaw {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, raw)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (b *Backend) create(w http.ResponseWriter, r *http.Request) {
	path := "/" + chi.URLParam(r, "resource")
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeText(w, http.StatusBadRequest, "unreadable body")
		return
	}

	b.mu.Lock()
	b.posted[path] = append(b.posted[path], json.RawMessage(body))
	h := b.holds[path]
	b.mu.Unlock()

	if h != nil {
		h.arrived <- struct{}{}
		<-h.release
	}
	if b.injected(w, r, path) {
		return
	}

	var rec map[string]any
	if err := json.Unmarshal(body, &rec); err != nil {
		writeText(w, http.StatusBadRequest, "invalid body")
		return
	}

	b.mu.Lock()
	b.nextID[path]++
	rec["id"] = b.nextID[path]
	b.records[path] = append(b.records[path], rec)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, rec)
}

// injected records the call and answers with a queued failure, if any.
func (b *Backend) injected(w http.ResponseWriter, r *http.Request, path string) bool {
	key := r.Method + " " + path
	b.mu.Lock()
	b.calls[key]++
	b.headers[key] = r.Header.Clone()
	queue := b.fail[key]
	var f *failure
	if len(queue) > 0 {
		f = &queue[0]
		b.fail[key] = queue[1:]
	}
	b.mu.Unlock()

	if f == nil {
		return false
	}
	writeText(w, f.status, f.body)
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, body)
}
