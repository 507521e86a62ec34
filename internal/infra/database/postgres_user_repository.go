package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/alfieprojectsdev/homebase/internal/domain/user"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, org_id, residence_id, email, name, role, primary_residence, last_app_open, telegram_chat_id, created_at, updated_at`

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	query := `INSERT INTO users (id, org_id, residence_id, email, name, role, primary_residence, telegram_chat_id)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
               RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		u.ID, u.OrgID, u.ResidenceID, u.Email, u.Name, u.Role, u.PrimaryResidence, u.TelegramChatID,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") && strings.Contains(err.Error(), "users_email_key") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u := &user.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.OrgID, &u.ResidenceID, &u.Email, &u.Name, &u.Role,
		&u.PrimaryResidence, &u.LastAppOpen, &u.TelegramChatID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by ID: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, u *user.User) error {
	query := `UPDATE users
               SET name = $1, role = $2, residence_id = $3, primary_residence = $4, telegram_chat_id = $5, updated_at = NOW()
               WHERE id = $6
               RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		u.Name, u.Role, u.ResidenceID, u.PrimaryResidence, u.TelegramChatID, u.ID,
	).Scan(&u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE org_id = $1 ORDER BY name`
	return r.queryUsers(ctx, query, orgID)
}

func (r *PostgresUserRepository) ListAll(ctx context.Context) ([]*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY org_id, name`
	return r.queryUsers(ctx, query)
}

func (r *PostgresUserRepository) TouchLastAppOpen(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_app_open = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error touching last_app_open: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]*user.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u := &user.User{}
		if err := rows.Scan(
			&u.ID, &u.OrgID, &u.ResidenceID, &u.Email, &u.Name, &u.Role,
			&u.PrimaryResidence, &u.LastAppOpen, &u.TelegramChatID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}
