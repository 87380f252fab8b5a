package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/panchakarma/manager/internal/platform/catalog"
)

// ErrNotFound is returned when no patient has the requested ID.
var ErrNotFound = errors.New("patient not found")

type memoryRepo struct {
	store *catalog.Store[Patient]
}

// NewMemoryRepo returns a process-lifetime repository seeded with patients.
func NewMemoryRepo(seed ...Patient) Repository {
	return &memoryRepo{store: catalog.New(func(p Patient) uuid.UUID { return p.ID }, seed...)}
}

func (r *memoryRepo) Create(_ context.Context, p Patient) error {
	if err := r.store.Append(p); err != nil {
		return fmt.Errorf("create patient: %w", err)
	}
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (Patient, error) {
	p, err := r.store.Get(id)
	if errors.Is(err, catalog.ErrNotFound) {
		return Patient{}, ErrNotFound
	}
	return p, err
}

func (r *memoryRepo) Update(_ context.Context, p Patient) error {
	err := r.store.Replace(p)
	if errors.Is(err, catalog.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (r *memoryRepo) List(_ context.Context) ([]Patient, error) {
	return r.store.All(), nil
}
