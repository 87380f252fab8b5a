package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (Patient, error)
	Update(ctx context.Context, p Patient) error
	List(ctx context.Context) ([]Patient, error)
}
