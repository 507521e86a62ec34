package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/alfieprojectsdev/homebase/internal/domain/bill"
)

type PostgresBillRepository struct {
	db *sql.DB
}

func NewPostgresBillRepository(db *sql.DB) *PostgresBillRepository {
	return &PostgresBillRepository{db: db}
}

const billColumns = `id, org_id, residence_id, name, amount, due_date, status, category, paid_at,
               recurrence_enabled, recurrence_frequency, recurrence_interval, recurrence_day_of_month, recurrence_end_date,
               parent_bill_id, urgency_score, urgency_level, urgency_reasons, last_urgency_calculation,
               created_at, updated_at`

func (r *PostgresBillRepository) Create(ctx context.Context, b *bill.Bill) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	query := `INSERT INTO bills (id, org_id, residence_id, name, amount, due_date, status, category,
               recurrence_enabled, recurrence_frequency, recurrence_interval, recurrence_day_of_month, recurrence_end_date,
               parent_bill_id)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
               RETURNING created_at, updated_at`

	freq, interval, dayOfMonth, endDate := recurrenceFields(b.Recurrence)
	err := r.db.QueryRowContext(ctx, query,
		b.ID, b.OrgID, b.ResidenceID, b.Name, b.Amount.String(), b.DueDate, b.Status, b.Category,
		b.Recurrence != nil, freq, interval, dayOfMonth, endDate,
		b.ParentBillID,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating bill: %w", err)
	}
	return nil
}

func (r *PostgresBillRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*bill.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1 AND org_id = $2`
	b, err := scanBill(r.db.QueryRowContext(ctx, query, id, orgID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("error getting bill by ID: %w", err)
	}
	return b, nil
}

func (r *PostgresBillRepository) Update(ctx context.Context, b *bill.Bill) error {
	query := `UPDATE bills
               SET name = $1, amount = $2, due_date = $3, status = $4, category = $5, paid_at = $6,
                   residence_id = $7, recurrence_enabled = $8, recurrence_frequency = $9,
                   recurrence_interval = $10, recurrence_day_of_month = $11, recurrence_end_date = $12,
                   updated_at = NOW()
               WHERE id = $13 AND org_id = $14
               RETURNING updated_at`

	freq, interval, dayOfMonth, endDate := recurrenceFields(b.Recurrence)
	err := r.db.QueryRowContext(ctx, query,
		b.Name, b.Amount.String(), b.DueDate, b.Status, b.Category, b.PaidAt,
		b.ResidenceID, b.Recurrence != nil, freq, interval, dayOfMonth, endDate,
		b.ID, b.OrgID,
	).Scan(&b.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrBillNotFound
		}
		return fmt.Errorf("error updating bill: %w", err)
	}
	return nil
}

func (r *PostgresBillRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return fmt.Errorf("error deleting bill: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted bill rows: %w", err)
	}
	if affected == 0 {
		return ErrBillNotFound
	}
	return nil
}

func (r *PostgresBillRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*bill.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE org_id = $1 ORDER BY due_date`
	return r.queryBills(ctx, query, orgID)
}

func (r *PostgresBillRepository) ListByName(ctx context.Context, orgID uuid.UUID, name string, limit int) ([]*bill.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills
               WHERE org_id = $1 AND name = $2 ORDER BY due_date DESC LIMIT $3`
	return r.queryBills(ctx, query, orgID, name, limit)
}

func (r *PostgresBillRepository) ListPaidByOrg(ctx context.Context, orgID uuid.UUID) ([]*bill.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE org_id = $1 AND status = 'paid' ORDER BY due_date`
	return r.queryBills(ctx, query, orgID)
}

func (r *PostgresBillRepository) ListPending(ctx context.Context) ([]*bill.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE status IN ('pending', 'overdue') ORDER BY org_id, due_date`
	return r.queryBills(ctx, query)
}

func (r *PostgresBillRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bills SET status = 'overdue', updated_at = NOW() WHERE status = 'pending' AND due_date < $1`, asOf)
	if err != nil {
		return 0, fmt.Errorf("error marking bills overdue: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error counting overdue bills: %w", err)
	}
	return affected, nil
}

func (r *PostgresBillRepository) SaveUrgency(ctx context.Context, b *bill.Bill) error {
	query := `UPDATE bills
               SET urgency_score = $1, urgency_level = $2, urgency_reasons = $3,
                   last_urgency_calculation = $4, updated_at = NOW()
               WHERE id = $5 AND org_id = $6
               RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		b.UrgencyScore, b.UrgencyLevel, pq.Array(b.UrgencyReasons), b.LastUrgencyCalculation,
		b.ID, b.OrgID,
	).Scan(&b.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrBillNotFound
		}
		return fmt.Errorf("error saving bill urgency: %w", err)
	}
	return nil
}

func (r *PostgresBillRepository) CoTrackingRate(ctx context.Context, baseCategory, alsoCategory string) (float64, error) {
	query := `SELECT
               (SELECT COUNT(DISTINCT org_id) FROM bills WHERE category = $1) AS base_orgs,
               (SELECT COUNT(DISTINCT org_id) FROM bills
                WHERE category = $2
                  AND org_id IN (SELECT DISTINCT org_id FROM bills WHERE category = $1)) AS both_orgs`
	var baseOrgs, bothOrgs int64
	if err := r.db.QueryRowContext(ctx, query, baseCategory, alsoCategory).Scan(&baseOrgs, &bothOrgs); err != nil {
		return 0, fmt.Errorf("error computing co-tracking rate: %w", err)
	}
	if baseOrgs == 0 {
		return 0, nil
	}
	return float64(bothOrgs) / float64(baseOrgs), nil
}

func (r *PostgresBillRepository) queryBills(ctx context.Context, query string, args ...any) ([]*bill.Bill, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing bills: %w", err)
	}
	defer rows.Close()

	bills := make([]*bill.Bill, 0)
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning bill: %w", err)
		}
		bills = append(bills, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bills: %w", err)
	}
	return bills, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (*bill.Bill, error) {
	b := &bill.Bill{}
	var (
		amountStr          string
		recurrenceEnabled  bool
		recurrenceFreq     sql.NullString
		recurrenceInterval sql.NullInt32
		recurrenceDay      sql.NullInt32
		recurrenceEnd      sql.NullTime
		reasons            pq.StringArray
	)
	err := row.Scan(
		&b.ID, &b.OrgID, &b.ResidenceID, &b.Name, &amountStr, &b.DueDate, &b.Status, &b.Category, &b.PaidAt,
		&recurrenceEnabled, &recurrenceFreq, &recurrenceInterval, &recurrenceDay, &recurrenceEnd,
		&b.ParentBillID, &b.UrgencyScore, &b.UrgencyLevel, &reasons, &b.LastUrgencyCalculation,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// The amount column is NUMERIC; going through the parse boundary keeps
	// malformed values out of the domain.
	b.Amount, err = bill.ParseAmount(amountStr)
	if err != nil {
		return nil, err
	}
	b.UrgencyReasons = reasons

	if recurrenceEnabled && recurrenceFreq.Valid {
		cfg := &bill.RecurrenceConfig{
			Frequency: bill.Frequency(recurrenceFreq.String),
			Interval:  1,
		}
		if recurrenceInterval.Valid {
			cfg.Interval = int(recurrenceInterval.Int32)
		}
		if recurrenceDay.Valid {
			cfg.DayOfMonth = int(recurrenceDay.Int32)
		}
		if recurrenceEnd.Valid {
			end := recurrenceEnd.Time
			cfg.EndDate = &end
		}
		b.Recurrence = cfg
	}
	return b, nil
}

func recurrenceFields(cfg *bill.RecurrenceConfig) (freq sql.NullString, interval, dayOfMonth sql.NullInt32, endDate sql.NullTime) {
	if cfg == nil {
		return
	}
	freq = sql.NullString{String: string(cfg.Frequency), Valid: true}
	interval = sql.NullInt32{Int32: int32(cfg.Interval), Valid: true}
	if cfg.DayOfMonth != 0 {
		dayOfMonth = sql.NullInt32{Int32: int32(cfg.DayOfMonth), Valid: true}
	}
	if cfg.EndDate != nil {
		endDate = sql.NullTime{Time: *cfg.EndDate, Valid: true}
	}
	return
}
