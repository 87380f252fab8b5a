package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/panchakarma/manager/internal/platform/catalog"
)

var ErrNotFound = errors.New("notification not found")

type memoryRepo struct {
	store *catalog.Store[Notification]
}

func NewMemoryRepo(seed ...Notification) Repository {
	return &memoryRepo{store: catalog.New(func(n Notification) uuid.UUID { return n.ID }, seed...)}
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (Notification, error) {
	n, err := r.store.Get(id)
	if errors.Is(err, catalog.ErrNotFound) {
		return n, ErrNotFound
	}
	return n, err
}

func (r *memoryRepo) Modify(_ context.Context, id uuid.UUID, fn func(*Notification) error) (Notification, error) {
	n, err := r.store.Update(id, fn)
	if errors.Is(err, catalog.ErrNotFound) {
		return n, ErrNotFound
	}
	return n, err
}

func (r *memoryRepo) List(_ context.Context) ([]Notification, error) {
	return r.store.All(), nil
}
