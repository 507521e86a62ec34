package chore

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the operations for persisting chores and streaks.
type Repository interface {
	Create(ctx context.Context, c *Chore) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*Chore, error)
	Update(ctx context.Context, c *Chore) error
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*Chore, error)

	GetStreak(ctx context.Context, userID, choreID uuid.UUID) (*Streak, error)
	SaveStreak(ctx context.Context, s *Streak) error
	ListStreaksByOrg(ctx context.Context, orgID uuid.UUID) ([]*Streak, error)
}
