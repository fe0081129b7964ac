// Package docstate owns the cached document collection: full-replace fetch,
// the loading flag, and the delete mutation state machine. It never merges
// partial updates; every successful fetch replaces the whole collection, so
// overlapping refreshes resolve as last-write-wins.
package docstate

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"preserva/internal/document"
)

// Backend is the slice of the API client the store needs.
type Backend interface {
	ListDocuments(ctx context.Context) ([]document.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// Store caches the fetched collection. Reads hand out copies; all mutation
// goes through the defined operations.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	log     *zap.Logger
	group   singleflight.Group

	docs    []document.Document
	loading bool
	pending map[string]bool // document ids with a delete in flight
}

// NewStore starts empty with loading set, matching a freshly mounted list
// view.
func NewStore(backend Backend, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		backend: backend,
		log:     log,
		loading: true,
		pending: make(map[string]bool),
	}
}

// FetchAll reads the full collection. Success replaces the stored
// collection entirely; failure keeps the previous collection, logs, and
// returns the error so mutating callers can decide to surface it. Either
// way the loading flag clears. Identical concurrent fetches (a manual
// refresh racing a timer tick) collapse into one request.
func (s *Store) FetchAll(ctx context.Context) error {
	_, err, _ := s.group.Do("list", func() (any, error) {
		docs, err := s.backend.ListDocuments(ctx)
		if err != nil {
			s.mu.Lock()
			s.loading = false
			s.mu.Unlock()
			s.log.Debug("document fetch failed, keeping stale collection", zap.Error(err))
			return nil, err
		}
		s.mu.Lock()
		s.docs = docs
		s.loading = false
		s.mu.Unlock()
		return nil, nil
	})
	return err
}

// Documents returns a snapshot of the collection in fetch order.
func (s *Store) Documents() []document.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]document.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// Filtered applies the pure filter to a snapshot of the collection.
func (s *Store) Filtered(c document.Criteria) []document.Document {
	return document.Filter(s.Documents(), c)
}

// Loading reports whether the first fetch has not completed yet.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Len returns the size of the cached collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Get looks a document up by id in the cached collection.
func (s *Store) Get(id string) (document.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.docs {
		if d.ID == id {
			return d, true
		}
	}
	return document.Document{}, false
}

// Delete removes a document through its mutation state machine:
// pending → committed on backend success, pending → rolled back on failure.
// The document stays in the collection until the deletion is confirmed; on
// failure the collection is unchanged and the error is returned for the
// caller to surface.
func (s *Store) Delete(ctx context.Context, id string) error {
	if !s.beginDelete(id) {
		return nil // already in flight; the first call will resolve it
	}
	if err := s.backend.DeleteDocument(ctx, id); err != nil {
		s.rollbackDelete(id)
		return err
	}
	s.commitDelete(id)
	return nil
}

// DeletePending reports whether a delete is in flight for id, so the view
// can render the document as being removed.
func (s *Store) DeletePending(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending[id]
}

func (s *Store) beginDelete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[id] {
		return false
	}
	s.pending[id] = true
	return true
}

func (s *Store) commitDelete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
	kept := s.docs[:0]
	for _, d := range s.docs {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	s.docs = kept
}

func (s *Store) rollbackDelete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}
