package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Role controls what a household member may do.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

// User represents a household member.
type User struct {
	ID          uuid.UUID
	OrgID       uuid.UUID
	ResidenceID uuid.NullUUID
	Email       string
	Name        string
	Role        Role

	// PrimaryResidence and LastAppOpen feed the behavior heuristics.
	PrimaryResidence sql.NullString
	LastAppOpen      sql.NullTime

	// TelegramChatID enables the optional Telegram reminder channel.
	TelegramChatID sql.NullInt64

	CreatedAt time.Time
	UpdatedAt time.Time
}
