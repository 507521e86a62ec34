package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/alfieprojectsdev/homebase/internal/domain/chore"
)

type PostgresChoreRepository struct {
	db *sql.DB
}

func NewPostgresChoreRepository(db *sql.DB) *PostgresChoreRepository {
	return &PostgresChoreRepository{db: db}
}

const choreColumns = `id, org_id, assigned_to, name, description, frequency, points, last_completed_at, created_at, updated_at`

func (r *PostgresChoreRepository) Create(ctx context.Context, c *chore.Chore) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	query := `INSERT INTO chores (id, org_id, assigned_to, name, description, frequency, points)
               VALUES ($1, $2, $3, $4, $5, $6, $7)
               RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.OrgID, c.AssignedTo, c.Name, c.Description, c.Frequency, c.Points,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating chore: %w", err)
	}
	return nil
}

func (r *PostgresChoreRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*chore.Chore, error) {
	query := `SELECT ` + choreColumns + ` FROM chores WHERE id = $1 AND org_id = $2`
	c := &chore.Chore{}
	err := r.db.QueryRowContext(ctx, query, id, orgID).Scan(
		&c.ID, &c.OrgID, &c.AssignedTo, &c.Name, &c.Description, &c.Frequency,
		&c.Points, &c.LastCompletedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrChoreNotFound
		}
		return nil, fmt.Errorf("error getting chore by ID: %w", err)
	}
	return c, nil
}

func (r *PostgresChoreRepository) Update(ctx context.Context, c *chore.Chore) error {
	query := `UPDATE chores
               SET assigned_to = $1, name = $2, description = $3, frequency = $4, points = $5,
                   last_completed_at = $6, updated_at = NOW()
               WHERE id = $7 AND org_id = $8
               RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		c.AssignedTo, c.Name, c.Description, c.Frequency, c.Points, c.LastCompletedAt, c.ID, c.OrgID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrChoreNotFound
		}
		return fmt.Errorf("error updating chore: %w", err)
	}
	return nil
}

func (r *PostgresChoreRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*chore.Chore, error) {
	query := `SELECT ` + choreColumns + ` FROM chores WHERE org_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("error listing chores: %w", err)
	}
	defer rows.Close()

	chores := make([]*chore.Chore, 0)
	for rows.Next() {
		c := &chore.Chore{}
		if err := rows.Scan(
			&c.ID, &c.OrgID, &c.AssignedTo, &c.Name, &c.Description, &c.Frequency,
			&c.Points, &c.LastCompletedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning chore: %w", err)
		}
		chores = append(chores, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chores: %w", err)
	}
	return chores, nil
}

func (r *PostgresChoreRepository) GetStreak(ctx context.Context, userID, choreID uuid.UUID) (*chore.Streak, error) {
	query := `SELECT id, org_id, user_id, chore_id, current_streak, longest_streak, last_completed_at, updated_at
               FROM chore_streaks WHERE user_id = $1 AND chore_id = $2`
	s := &chore.Streak{}
	err := r.db.QueryRowContext(ctx, query, userID, choreID).Scan(
		&s.ID, &s.OrgID, &s.UserID, &s.ChoreID, &s.CurrentStreak, &s.LongestStreak,
		&s.LastCompletedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStreakNotFound
		}
		return nil, fmt.Errorf("error getting streak: %w", err)
	}
	return s, nil
}

func (r *PostgresChoreRepository) SaveStreak(ctx context.Context, s *chore.Streak) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	query := `INSERT INTO chore_streaks (id, org_id, user_id, chore_id, current_streak, longest_streak, last_completed_at)
               VALUES ($1, $2, $3, $4, $5, $6, $7)
               ON CONFLICT (user_id, chore_id) DO UPDATE
               SET current_streak = EXCLUDED.current_streak,
                   longest_streak = EXCLUDED.longest_streak,
                   last_completed_at = EXCLUDED.last_completed_at,
                   updated_at = NOW()
               RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		s.ID, s.OrgID, s.UserID, s.ChoreID, s.CurrentStreak, s.LongestStreak, s.LastCompletedAt,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error saving streak: %w", err)
	}
	return nil
}

func (r *PostgresChoreRepository) ListStreaksByOrg(ctx context.Context, orgID uuid.UUID) ([]*chore.Streak, error) {
	query := `SELECT id, org_id, user_id, chore_id, current_streak, longest_streak, last_completed_at, updated_at
               FROM chore_streaks WHERE org_id = $1 ORDER BY current_streak DESC`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("error listing streaks: %w", err)
	}
	defer rows.Close()

	streaks := make([]*chore.Streak, 0)
	for rows.Next() {
		s := &chore.Streak{}
		if err := rows.Scan(
			&s.ID, &s.OrgID, &s.UserID, &s.ChoreID, &s.CurrentStreak, &s.LongestStreak,
			&s.LastCompletedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning streak: %w", err)
		}
		streaks = append(streaks, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating streaks: %w", err)
	}
	return streaks, nil
}
