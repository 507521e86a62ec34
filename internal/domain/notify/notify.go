package notify

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/alfieprojectsdev/homebase/internal/domain/heuristics"
	"github.com/alfieprojectsdev/homebase/internal/domain/user"
)

// Notifier delivers an alert to a household member. Implementations decide
// the channel; this interface keeps the application logic decoupled from the
// delivery library.
type Notifier interface {
	SendAlert(ctx context.Context, recipient *user.User, message string, level heuristics.UrgencyLevel) error
}

// Log records one delivery attempt, successful or not. The escalation
// throttle reads it to avoid spamming the same bill at the same urgency.
type Log struct {
	ID     uuid.UUID
	UserID uuid.UUID
	BillID uuid.UUID
	Level  heuristics.UrgencyLevel
	Type   string
	Status string
	Title  string
	Body   string
	Error  sql.NullString
	SentAt time.Time
}

// LogRepository persists and queries notification logs.
type LogRepository interface {
	Create(ctx context.Context, l *Log) error
	// LastForBill returns the most recent log for a bill/user at the given
	// urgency level.
	LastForBill(ctx context.Context, userID, billID uuid.UUID, level heuristics.UrgencyLevel) (*Log, error)
}

// ShouldNotify applies the escalation throttle: given when the last
// notification at this level went out, is another one due? Normal reminders
// go out at most weekly, high every two days, critical daily.
func ShouldNotify(level heuristics.UrgencyLevel, lastSentAt *time.Time, now time.Time) bool {
	if lastSentAt == nil {
		return true
	}
	hoursSince := now.Sub(*lastSentAt).Hours()
	switch level {
	case heuristics.UrgencyNormal:
		return hoursSince > 168
	case heuristics.UrgencyHigh:
		return hoursSince > 48
	case heuristics.UrgencyCritical:
		return hoursSince > 24
	default:
		return false
	}
}
