package notification

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Notification, error)
	Modify(ctx context.Context, id uuid.UUID, fn func(*Notification) error) (Notification, error)
	List(ctx context.Context) ([]Notification, error)
}
