package chore

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Frequency is how often a chore is expected to be done.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// Chore is a recurring household task worth a number of points.
type Chore struct {
	ID              uuid.UUID
	OrgID           uuid.UUID
	AssignedTo      uuid.NullUUID
	Name            string
	Description     sql.NullString
	Frequency       Frequency
	Points          int
	LastCompletedAt sql.NullTime
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Streak tracks consecutive-day completions of one chore by one user.
type Streak struct {
	ID              uuid.UUID
	OrgID           uuid.UUID
	UserID          uuid.UUID
	ChoreID         uuid.UUID
	CurrentStreak   int
	LongestStreak   int
	LastCompletedAt time.Time
	UpdatedAt       time.Time
}

// Advance applies a completion at now to the streak. Completing twice on the
// same calendar day is a no-op, a next-day completion extends the streak and
// any longer gap resets it to 1. LongestStreak only ever grows.
func (s *Streak) Advance(now time.Time) {
	today := truncateToDay(now)
	lastDay := truncateToDay(s.LastCompletedAt)

	switch daysBetween(lastDay, today) {
	case 0:
		return
	case 1:
		s.CurrentStreak++
	default:
		s.CurrentStreak = 1
	}

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.LastCompletedAt = now
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
