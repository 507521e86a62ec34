package bill

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when an amount string cannot be parsed into a
// non-negative decimal. Amounts are validated here, at the boundary, so the
// statistical heuristics never see a NaN.
var ErrInvalidAmount = errors.New("invalid bill amount")

// Status is the payment state of a bill.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// Bill is a household financial obligation, possibly recurring.
// Bills sharing the same Name within one organization form a series; the
// heuristics layer uses that series as its sample set.
type Bill struct {
	ID           uuid.UUID
	OrgID        uuid.UUID
	ResidenceID  uuid.NullUUID
	Name         string
	Amount       decimal.Decimal
	DueDate      time.Time
	Status       Status
	Category     sql.NullString
	PaidAt       sql.NullTime
	Recurrence   *RecurrenceConfig
	ParentBillID uuid.NullUUID

	// Last persisted urgency calculation; written by the application layer,
	// never by the scorer itself.
	UrgencyScore           sql.NullInt32
	UrgencyLevel           sql.NullString
	UrgencyReasons         []string
	LastUrgencyCalculation sql.NullTime

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOverdue reports whether the bill is pending and past due as of the given
// reference time.
func (b *Bill) IsOverdue(asOf time.Time) bool {
	return b.Status == StatusPending && b.DueDate.Before(asOf)
}

// ParseAmount parses a monetary amount string into a non-negative decimal.
// Malformed or negative input fails with ErrInvalidAmount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, raw)
	}
	return d, nil
}
