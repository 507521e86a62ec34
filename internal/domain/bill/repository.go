package bill

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the operations for persisting and retrieving Bills.
// All org-scoped methods filter by organization; ListPending crosses
// organizations and exists for the daily briefing sweep.
type Repository interface {
	Create(ctx context.Context, b *Bill) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*Bill, error)
	Update(ctx context.Context, b *Bill) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*Bill, error)

	// ListByName returns the bill series sharing a name within one
	// organization, most recent due date first, capped at limit.
	ListByName(ctx context.Context, orgID uuid.UUID, name string, limit int) ([]*Bill, error)

	// ListPaidByOrg feeds the user-behavior (lateness) computation.
	ListPaidByOrg(ctx context.Context, orgID uuid.UUID) ([]*Bill, error)

	// ListPending returns unpaid (pending or overdue) bills across all
	// organizations.
	ListPending(ctx context.Context) ([]*Bill, error)

	// MarkOverdue flips pending bills whose due date is before asOf to
	// overdue, returning the number of rows changed.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)

	// SaveUrgency persists the urgency columns only.
	SaveUrgency(ctx context.Context, b *Bill) error

	// CoTrackingRate computes, across all organizations, the fraction of
	// orgs tracking baseCategory that also track alsoCategory. Feeds the
	// missing-bill suggestions.
	CoTrackingRate(ctx context.Context, baseCategory, alsoCategory string) (float64, error)
}
