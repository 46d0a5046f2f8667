// Package loader fetches a remote collection into screen-local state.
package loader

import (
	"context"
	"errors"
	"log"
	"sync"

	"bikeroute-client/internal/notify"
	"bikeroute-client/pkg/api"
)

// Lister is the part of the resource client a Loader needs.
type Lister interface {
	List(ctx context.Context, path string, out any) error
}

// Policy picks the default selection out of a freshly loaded collection.
type Policy[T any] func(items []T) (T, bool)

// DefaultToFirst selects the first element; an empty collection has no selection.
func DefaultToFirst[T any](items []T) (T, bool) {
	if len(items) == 0 {
		var zero T
		return zero, false
	}
	return items[0], true
}

// Loader holds the most recently loaded collection of one resource.
type Loader[T any] struct {
	client   Lister
	path     string
	notifier notify.Notifier
	generic  string
	policy   Policy[T]

	mu     sync.RWMutex
	items  []T
	loaded bool
}

// New returns a Loader for path. generic is shown when a load fails without a server message.
func New[T any](client Lister, path string, n notify.Notifier, generic string) *Loader[T] {
	return &Loader[T]{
		client:   client,
		path:     path,
		notifier: n,
		generic:  generic,
		policy:   DefaultToFirst[T],
	}
}

// Load fetches the collection and replaces the held items.
//
// A response that is not a collection is logged and leaves the held items as they were.
// A transport or status failure notifies the user and leaves the collection empty.
func (l *Loader[T]) Load(ctx context.Context) ([]T, error) {
	var fetched []T
	err := l.client.List(ctx, l.path, &fetched)
	switch {
	case err == nil:
		if fetched == nil {
			fetched = []T{}
		}
		l.mu.Lock()
		l.items = fetched
		l.loaded = true
		l.mu.Unlock()
		return l.Items(), nil

	case errors.Is(err, api.ErrShapeMismatch):
		log.Printf("[loader] %s: keeping previous state: %v", l.path, err)
		return l.Items(), err

	default:
		log.Printf("[loader] %s: load failed: %v", l.path, err)
		l.mu.Lock()
		l.items = []T{}
		l.loaded = false
		l.mu.Unlock()
		l.notifier.Notify(notify.FromError(err, l.generic))
		return nil, err
	}
}

// Items returns a copy of the held collection.
func (l *Loader[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T{}, l.items...)
}

// Loaded reports whether the latest load succeeded.
func (l *Loader[T]) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// Default applies the selection policy to the held collection.
func (l *Loader[T]) Default() (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.policy(l.items)
}

// Find returns the first held item matching pred.
func (l *Loader[T]) Find(pred func(T) bool) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, it := range l.items {
		if pred(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}
