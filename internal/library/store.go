package library

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Store exposes parsed books through a bounded, least-recently-used cache.
// Concurrent use is safe; two requests racing on the same missing id may
// both hit the loader, which is harmless because loads are idempotent.
type Store struct {
	loader ArtifactLoader
	cache  *lru.Cache[string, *Book]
}

// NewStore creates a book store with the given cache capacity.
func NewStore(loader ArtifactLoader, capacity int) (*Store, error) {
	cache, err := lru.New[string, *Book](capacity)
	if err != nil {
		return nil, fmt.Errorf("create book cache: %w", err)
	}
	return &Store{loader: loader, cache: cache}, nil
}

// Get returns the cached book for an id, loading and caching the artifact on
// a miss. Returns ErrBookNotFound when no loadable artifact exists.
func (s *Store) Get(bookID string) (*Book, error) {
	if book, ok := s.cache.Get(bookID); ok {
		return book, nil
	}

	book, err := s.loader.Load(bookID)
	if err != nil {
		return nil, err
	}

	s.cache.Add(bookID, book)
	return book, nil
}

// Invalidate evicts the cache entry for a book id, if present.
func (s *Store) Invalidate(bookID string) {
	s.cache.Remove(bookID)
}
