package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/alfieprojectsdev/homebase/internal/app"
	"github.com/alfieprojectsdev/homebase/internal/domain/chore"
)

type choreResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Frequency       string     `json:"frequency"`
	Points          int        `json:"points"`
	AssignedTo      string     `json:"assignedTo,omitempty"`
	LastCompletedAt *time.Time `json:"lastCompletedAt,omitempty"`
}

func toChoreResponse(c *chore.Chore) choreResponse {
	resp := choreResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Frequency: string(c.Frequency),
		Points:    c.Points,
	}
	if c.Description.Valid {
		resp.Description = c.Description.String
	}
	if c.AssignedTo.Valid {
		resp.AssignedTo = c.AssignedTo.UUID.String()
	}
	if c.LastCompletedAt.Valid {
		t := c.LastCompletedAt.Time
		resp.LastCompletedAt = &t
	}
	return resp
}

func (s *Server) handleListChores(w http.ResponseWriter, r *http.Request) {
	chores, err := s.chores.ListChores(r.Context(), orgFromContext(r.Context()))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	out := make([]choreResponse, len(chores))
	for i, c := range chores {
		out[i] = toChoreResponse(c)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateChore(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Frequency   string `json:"frequency"`
		Points      int    `json:"points"`
		AssignedTo  string `json:"assignedTo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	input := app.CreateChoreInput{
		Name:        payload.Name,
		Description: payload.Description,
		Frequency:   payload.Frequency,
		Points:      payload.Points,
	}
	if payload.AssignedTo != "" {
		assignee, err := uuid.Parse(payload.AssignedTo)
		if err != nil {
			respondError(w, http.StatusBadRequest, "assignedTo is not a valid UUID")
			return
		}
		input.AssignedTo = uuid.NullUUID{UUID: assignee, Valid: true}
	}

	created, err := s.chores.CreateChore(r.Context(), orgFromContext(r.Context()), input)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toChoreResponse(created))
}

func (s *Server) handleCompleteChore(w http.ResponseWriter, r *http.Request) {
	choreID, err := parseUUIDParam(r, "choreID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "choreID is not a valid UUID")
		return
	}
	var payload struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "userId is not a valid UUID")
		return
	}

	streak, err := s.chores.Complete(r.Context(), orgFromContext(r.Context()), userID, choreID, time.Now())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		CurrentStreak   int       `json:"currentStreak"`
		LongestStreak   int       `json:"longestStreak"`
		LastCompletedAt time.Time `json:"lastCompletedAt"`
	}{
		CurrentStreak:   streak.CurrentStreak,
		LongestStreak:   streak.LongestStreak,
		LastCompletedAt: streak.LastCompletedAt,
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.chores.Leaderboard(r.Context(), orgFromContext(r.Context()))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
