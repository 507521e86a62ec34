package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/alfieprojectsdev/homebase/internal/domain/heuristics"
	"github.com/alfieprojectsdev/homebase/internal/domain/notify"
)

type PostgresNotificationLogRepository struct {
	db *sql.DB
}

func NewPostgresNotificationLogRepository(db *sql.DB) *PostgresNotificationLogRepository {
	return &PostgresNotificationLogRepository{db: db}
}

func (r *PostgresNotificationLogRepository) Create(ctx context.Context, l *notify.Log) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	query := `INSERT INTO notification_logs (id, user_id, bill_id, level, type, status, title, body, error)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
               RETURNING sent_at`
	err := r.db.QueryRowContext(ctx, query,
		l.ID, l.UserID, l.BillID, l.Level, l.Type, l.Status, l.Title, l.Body, l.Error,
	).Scan(&l.SentAt)
	if err != nil {
		return fmt.Errorf("error creating notification log: %w", err)
	}
	return nil
}

func (r *PostgresNotificationLogRepository) LastForBill(ctx context.Context, userID, billID uuid.UUID, level heuristics.UrgencyLevel) (*notify.Log, error) {
	query := `SELECT id, user_id, bill_id, level, type, status, title, body, error, sent_at
               FROM notification_logs
               WHERE user_id = $1 AND bill_id = $2 AND level = $3
               ORDER BY sent_at DESC LIMIT 1`
	l := &notify.Log{}
	err := r.db.QueryRowContext(ctx, query, userID, billID, level).Scan(
		&l.ID, &l.UserID, &l.BillID, &l.Level, &l.Type, &l.Status, &l.Title, &l.Body, &l.Error, &l.SentAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotificationLogNotFound
		}
		return nil, fmt.Errorf("error getting last notification log: %w", err)
	}
	return l, nil
}
