package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/alfieprojectsdev/homebase/internal/domain/bill"
)

// Application-level errors for the bill service.
var (
	ErrInvalidRecurrence = fmt.Errorf("invalid recurrence configuration")
	ErrBillAlreadyPaid   = fmt.Errorf("bill is already paid")
)

// BillService owns the bill lifecycle: CRUD, the overdue sweep, and the
// mark-paid flow that spawns the next occurrence of a recurring bill.
type BillService struct {
	bills  bill.Repository
	logger *logrus.Logger
}

func NewBillService(bills bill.Repository, logger *logrus.Logger) *BillService {
	return &BillService{bills: bills, logger: logger}
}

// CreateBillInput carries the validated fields for a new bill. Amount
// arrives as a string and goes through the parse boundary.
type CreateBillInput struct {
	Name        string
	Amount      string
	DueDate     time.Time
	Category    string
	ResidenceID uuid.NullUUID
	Recurrence  *bill.RecurrenceConfig
}

func (s *BillService) Create(ctx context.Context, orgID uuid.UUID, in CreateBillInput) (*bill.Bill, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("bill name is required")
	}
	amount, err := bill.ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	if err := validateRecurrence(in.Recurrence); err != nil {
		return nil, err
	}

	b := &bill.Bill{
		OrgID:       orgID,
		ResidenceID: in.ResidenceID,
		Name:        in.Name,
		Amount:      amount,
		DueDate:     in.DueDate,
		Status:      bill.StatusPending,
		Recurrence:  in.Recurrence,
	}
	if in.Category != "" {
		b.Category = sql.NullString{String: in.Category, Valid: true}
	}

	if err := s.bills.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"bill_id": b.ID, "org_id": orgID}).Info("bill created")
	return b, nil
}

func (s *BillService) Get(ctx context.Context, orgID, id uuid.UUID) (*bill.Bill, error) {
	return s.bills.GetByID(ctx, orgID, id)
}

func (s *BillService) List(ctx context.Context, orgID uuid.UUID) ([]*bill.Bill, error) {
	return s.bills.ListByOrg(ctx, orgID)
}

// UpdateBillInput mirrors CreateBillInput for edits.
type UpdateBillInput struct {
	Name        string
	Amount      string
	DueDate     time.Time
	Category    string
	ResidenceID uuid.NullUUID
	Recurrence  *bill.RecurrenceConfig
}

func (s *BillService) Update(ctx context.Context, orgID, id uuid.UUID, in UpdateBillInput) (*bill.Bill, error) {
	b, err := s.bills.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		b.Name = in.Name
	}
	if in.Amount != "" {
		amount, err := bill.ParseAmount(in.Amount)
		if err != nil {
			return nil, err
		}
		b.Amount = amount
	}
	if !in.DueDate.IsZero() {
		b.DueDate = in.DueDate
	}
	if in.Category != "" {
		b.Category = sql.NullString{String: in.Category, Valid: true}
	}
	if in.ResidenceID.Valid {
		b.ResidenceID = in.ResidenceID
	}
	if in.Recurrence != nil {
		if err := validateRecurrence(in.Recurrence); err != nil {
			return nil, err
		}
		b.Recurrence = in.Recurrence
	}

	if err := s.bills.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}
	return b, nil
}

func (s *BillService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return s.bills.Delete(ctx, orgID, id)
}

// MarkPaid settles a bill. When the bill recurs, the recurrence engine
// computes the next occurrence; a successor bill is created and linked via
// ParentBillID unless the engine signals the series has ended by returning
// the due date unchanged. Returns the paid bill and the successor (nil when
// none was created).
func (s *BillService) MarkPaid(ctx context.Context, orgID, id uuid.UUID, now time.Time) (*bill.Bill, *bill.Bill, error) {
	b, err := s.bills.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, nil, err
	}
	if b.Status == bill.StatusPaid {
		return nil, nil, ErrBillAlreadyPaid
	}

	b.Status = bill.StatusPaid
	b.PaidAt = sql.NullTime{Time: now, Valid: true}
	if err := s.bills.Update(ctx, b); err != nil {
		return nil, nil, fmt.Errorf("failed to mark bill paid: %w", err)
	}

	if b.Recurrence == nil {
		return b, nil, nil
	}

	next := bill.CalculateNextDate(b.DueDate, *b.Recurrence)
	if next.Equal(b.DueDate) {
		// Series ended: the engine hit the recurrence end date.
		s.logger.WithFields(logrus.Fields{"bill_id": b.ID, "name": b.Name}).Info("recurrence series ended")
		return b, nil, nil
	}

	successor := &bill.Bill{
		OrgID:        b.OrgID,
		ResidenceID:  b.ResidenceID,
		Name:         b.Name,
		Amount:       b.Amount,
		DueDate:      next,
		Status:       bill.StatusPending,
		Category:     b.Category,
		Recurrence:   b.Recurrence,
		ParentBillID: uuid.NullUUID{UUID: b.ID, Valid: true},
	}
	if err := s.bills.Create(ctx, successor); err != nil {
		return nil, nil, fmt.Errorf("failed to create next occurrence: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"bill_id":      b.ID,
		"successor_id": successor.ID,
		"next_due":     next.Format("2006-01-02"),
	}).Info("next occurrence created")
	return b, successor, nil
}

// SweepOverdue flips pending bills past their due date to overdue.
func (s *BillService) SweepOverdue(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.bills.MarkOverdue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep overdue bills: %w", err)
	}
	if n > 0 {
		s.logger.WithField("count", n).Info("bills marked overdue")
	}
	return n, nil
}

// validateRecurrence enforces the contract the engine itself only clamps
// defensively: a known frequency, interval 1-12 for month-based
// frequencies, and dayOfMonth within 1-31 when set.
func validateRecurrence(cfg *bill.RecurrenceConfig) error {
	if cfg == nil {
		return nil
	}
	if !cfg.Frequency.IsValid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidRecurrence, cfg.Frequency)
	}
	if cfg.Interval < 1 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidRecurrence)
	}
	if cfg.Frequency != bill.FrequencyWeekly && cfg.Interval > 12 {
		return fmt.Errorf("%w: interval must be between 1 and 12", ErrInvalidRecurrence)
	}
	if cfg.DayOfMonth != 0 && (cfg.DayOfMonth < 1 || cfg.DayOfMonth > 31) {
		return fmt.Errorf("%w: day of month must be between 1 and 31", ErrInvalidRecurrence)
	}
	return nil
}
