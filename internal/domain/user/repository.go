package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the operations for persisting and retrieving Users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	Update(ctx context.Context, u *User) error
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*User, error)
	ListAll(ctx context.Context) ([]*User, error)
	TouchLastAppOpen(ctx context.Context, id uuid.UUID) error
}
