package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/panchakarma/manager/internal/platform/catalog"
)

// ErrNotFound is returned when no session has the requested ID.
var ErrNotFound = errors.New("session not found")

type memoryRepo struct {
	store *catalog.Store[Session]
}

// NewMemoryRepo returns a process-lifetime repository seeded with sessions.
func NewMemoryRepo(seed ...Session) Repository {
	return &memoryRepo{store: catalog.New(func(s Session) uuid.UUID { return s.ID }, seed...)}
}

func notFound(err error) error {
	if errors.Is(err, catalog.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (r *memoryRepo) Create(_ context.Context, s Session) error {
	if err := r.store.Append(s); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (Session, error) {
	s, err := r.store.Get(id)
	return s, notFound(err)
}

func (r *memoryRepo) Update(_ context.Context, s Session) error {
	return notFound(r.store.Replace(s))
}

func (r *memoryRepo) Modify(_ context.Context, id uuid.UUID, fn func(*Session) error) (Session, error) {
	s, err := r.store.Update(id, fn)
	return s, notFound(err)
}

func (r *memoryRepo) List(_ context.Context) ([]Session, error) {
	return r.store.All(), nil
}
