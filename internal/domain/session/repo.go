package session

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s Session) error
	GetByID(ctx context.Context, id uuid.UUID) (Session, error)
	Update(ctx context.Context, s Session) error
	// Modify applies fn to the stored session atomically.
	Modify(ctx context.Context, id uuid.UUID, fn func(*Session) error) (Session, error)
	List(ctx context.Context) ([]Session, error)
}
