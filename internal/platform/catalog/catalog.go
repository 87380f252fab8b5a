// Package catalog provides an ordered, in-memory collection keyed by UUID.
// It is not persistent: contents live for the lifetime of the process.
package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrDuplicateID = errors.New("duplicate id")
)

// Store keeps records in insertion order. All operations are safe for
// concurrent use; readers receive copies of the backing slice.
type Store[T any] struct {
	mu    sync.RWMutex
	items []T
	index map[uuid.UUID]int
	idOf  func(T) uuid.UUID
}

// New creates a store that identifies records with idOf, seeded with items.
// Seeds with a nil or repeated ID are skipped.
func New[T any](idOf func(T) uuid.UUID, items ...T) *Store[T] {
	s := &Store[T]{
		index: make(map[uuid.UUID]int, len(items)),
		idOf:  idOf,
	}
	for _, item := range items {
		_ = s.appendLocked(item)
	}
	return s
}

// Append adds item at the end of the catalog.
func (s *Store[T]) Append(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(item)
}

func (s *Store[T]) appendLocked(item T) error {
	id := s.idOf(item)
	if id == uuid.Nil {
		return errors.New("append: nil id")
	}
	if _, ok := s.index[id]; ok {
		return fmt.Errorf("append %s: %w", id, ErrDuplicateID)
	}
	s.index[id] = len(s.items)
	s.items = append(s.items, item)
	return nil
}

// Replace swaps the record with the same ID in place, keeping its position.
func (s *Store[T]) Replace(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.idOf(item)
	pos, ok := s.index[id]
	if !ok {
		return fmt.Errorf("replace %s: %w", id, ErrNotFound)
	}
	s.items[pos] = item
	return nil
}

// Update applies fn to a copy of the record and stores the result when fn
// succeeds. The record is left untouched if fn returns an error.
func (s *Store[T]) Update(id uuid.UUID, fn func(*T) error) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	pos, ok := s.index[id]
	if !ok {
		return zero, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	item := s.items[pos]
	if err := fn(&item); err != nil {
		return zero, err
	}
	if s.idOf(item) != id {
		return zero, fmt.Errorf("update %s: id changed", id)
	}
	s.items[pos] = item
	return item, nil
}

// Get returns the record with the given ID.
func (s *Store[T]) Get(id uuid.UUID) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return s.items[pos], nil
}

// All returns a snapshot of the catalog in insertion order.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Has reports whether id is present.
func (s *Store[T]) Has(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}
