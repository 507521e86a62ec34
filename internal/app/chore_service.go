package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/alfieprojectsdev/homebase/internal/domain/chore"
	"github.com/alfieprojectsdev/homebase/internal/infra/database"
)

// ErrInvalidChoreFrequency is returned when a chore is created with an
// unsupported cadence.
var ErrInvalidChoreFrequency = errors.New("invalid chore frequency")

// ChoreService manages household chores and completion streaks.
type ChoreService struct {
	chores chore.Repository
	logger *logrus.Logger
}

func NewChoreService(chores chore.Repository, logger *logrus.Logger) *ChoreService {
	return &ChoreService{chores: chores, logger: logger}
}

// CreateChoreInput carries the fields for a new chore.
type CreateChoreInput struct {
	Name        string
	Description string
	Frequency   string
	Points      int
	AssignedTo  uuid.NullUUID
}

func (s *ChoreService) CreateChore(ctx context.Context, orgID uuid.UUID, input CreateChoreInput) (*chore.Chore, error) {
	freq := chore.Frequency(input.Frequency)
	if freq != chore.FrequencyDaily && freq != chore.FrequencyWeekly {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChoreFrequency, input.Frequency)
	}
	points := input.Points
	if points <= 0 {
		points = 1
	}

	now := time.Now()
	c := &chore.Chore{
		ID:         uuid.New(),
		OrgID:      orgID,
		AssignedTo: input.AssignedTo,
		Name:       input.Name,
		Frequency:  freq,
		Points:     points,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if input.Description != "" {
		c.Description.String = input.Description
		c.Description.Valid = true
	}

	if err := s.chores.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create chore: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"chore_id": c.ID,
		"name":     c.Name,
	}).Info("Chore created")
	return c, nil
}

func (s *ChoreService) ListChores(ctx context.Context, orgID uuid.UUID) ([]*chore.Chore, error) {
	return s.chores.ListByOrg(ctx, orgID)
}

// Complete records that a user finished a chore now and advances their
// streak. A repeat completion on the same calendar day leaves the streak
// untouched.
func (s *ChoreService) Complete(ctx context.Context, orgID, userID, choreID uuid.UUID, now time.Time) (*chore.Streak, error) {
	c, err := s.chores.GetByID(ctx, orgID, choreID)
	if err != nil {
		return nil, err
	}

	streak, err := s.chores.GetStreak(ctx, userID, choreID)
	switch {
	case errors.Is(err, database.ErrStreakNotFound):
		streak = &chore.Streak{
			ID:              uuid.New(),
			OrgID:           orgID,
			UserID:          userID,
			ChoreID:         choreID,
			CurrentStreak:   1,
			LongestStreak:   1,
			LastCompletedAt: now,
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load streak: %w", err)
	default:
		streak.Advance(now)
	}
	streak.UpdatedAt = now

	if err := s.chores.SaveStreak(ctx, streak); err != nil {
		return nil, fmt.Errorf("failed to save streak: %w", err)
	}

	c.LastCompletedAt.Time = now
	c.LastCompletedAt.Valid = true
	c.UpdatedAt = now
	if err := s.chores.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update chore: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"chore_id":       choreID,
		"user_id":        userID,
		"current_streak": streak.CurrentStreak,
	}).Info("Chore completed")
	return streak, nil
}

// LeaderboardEntry aggregates one user's streaks across all chores.
type LeaderboardEntry struct {
	UserID        uuid.UUID `json:"userId"`
	ActiveStreaks int       `json:"activeStreaks"`
	TotalCurrent  int       `json:"totalCurrent"`
	BestStreak    int       `json:"bestStreak"`
	// Points sums current streak × chore points across active streaks.
	Points int `json:"points"`
}

// Leaderboard ranks household members by streak points, breaking ties on
// combined current streaks and then the single best streak.
func (s *ChoreService) Leaderboard(ctx context.Context, orgID uuid.UUID) ([]LeaderboardEntry, error) {
	streaks, err := s.chores.ListStreaksByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load streaks: %w", err)
	}
	chores, err := s.chores.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chores: %w", err)
	}
	pointsByChore := make(map[uuid.UUID]int, len(chores))
	for _, c := range chores {
		pointsByChore[c.ID] = c.Points
	}

	byUser := make(map[uuid.UUID]*LeaderboardEntry)
	order := make([]uuid.UUID, 0)
	for _, st := range streaks {
		entry := byUser[st.UserID]
		if entry == nil {
			entry = &LeaderboardEntry{UserID: st.UserID}
			byUser[st.UserID] = entry
			order = append(order, st.UserID)
		}
		if st.CurrentStreak > 0 {
			entry.ActiveStreaks++
		}
		entry.TotalCurrent += st.CurrentStreak
		entry.Points += st.CurrentStreak * pointsByChore[st.ChoreID]
		if st.LongestStreak > entry.BestStreak {
			entry.BestStreak = st.LongestStreak
		}
	}

	entries := make([]LeaderboardEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, *byUser[id])
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		if entries[i].TotalCurrent != entries[j].TotalCurrent {
			return entries[i].TotalCurrent > entries[j].TotalCurrent
		}
		return entries[i].BestStreak > entries[j].BestStreak
	})
	return entries, nil
}
