package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// billUserPayload is the request body shared by the heuristics that score
// one bill on behalf of one user.
type billUserPayload struct {
	BillID string `json:"billId"`
	UserID string `json:"userId"`
}

func (p billUserPayload) parse() (billID, userID uuid.UUID, err error) {
	billID, err = uuid.Parse(p.BillID)
	if err != nil {
		return
	}
	userID, err = uuid.Parse(p.UserID)
	return
}

// handleCalculateUrgency scores a bill and persists the result onto it.
func (s *Server) handleCalculateUrgency(w http.ResponseWriter, r *http.Request) {
	var payload billUserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	billID, userID, err := payload.parse()
	if err != nil {
		respondError(w, http.StatusBadRequest, "billId and userId must be valid UUIDs")
		return
	}
	score, err := s.heuristics.CalculateUrgency(r.Context(), orgFromContext(r.Context()), userID, billID, time.Now())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, score)
}

// handleAmountSuggestion predicts the next amount for a bill series,
// addressed either by billId or by name.
func (s *Server) handleAmountSuggestion(w http.ResponseWriter, r *http.Request) {
	var billID uuid.NullUUID
	if raw := r.URL.Query().Get("billId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "billId is not a valid UUID")
			return
		}
		billID = uuid.NullUUID{UUID: id, Valid: true}
	}
	name := r.URL.Query().Get("name")
	if !billID.Valid && name == "" {
		respondError(w, http.StatusBadRequest, "billId or name query parameter is required")
		return
	}
	prediction, err := s.heuristics.SuggestAmount(r.Context(), orgFromContext(r.Context()), billID, name)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prediction)
}

// handleAnalyzeBill checks a bill's amount against the rest of its series.
func (s *Server) handleAnalyzeBill(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		BillID string `json:"billId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	billID, err := uuid.Parse(payload.BillID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "billId is not a valid UUID")
		return
	}
	anomaly, err := s.heuristics.AnalyzeBill(r.Context(), orgFromContext(r.Context()), billID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, anomaly)
}

func (s *Server) handleDueDateSuggestion(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "name query parameter is required")
		return
	}
	cycle, err := s.heuristics.DueDateSuggestion(r.Context(), orgFromContext(r.Context()), name)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cycle)
}

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name   string `json:"name"`
		Amount string `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	categorization, err := s.heuristics.Categorize(payload.Name, payload.Amount)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categorization)
}

func (s *Server) handleForgetRisk(w http.ResponseWriter, r *http.Request) {
	var payload billUserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	billID, userID, err := payload.parse()
	if err != nil {
		respondError(w, http.StatusBadRequest, "billId and userId must be valid UUIDs")
		return
	}
	risk, err := s.heuristics.ForgetRisk(r.Context(), orgFromContext(r.Context()), userID, billID, time.Now())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, risk)
}

// handleBudgetForecast projects the bill load for a month (1-12); without
// the month parameter it targets the month after the current one.
func (s *Server) handleBudgetForecast(w http.ResponseWriter, r *http.Request) {
	month := time.Now().AddDate(0, 1, 0).Month()
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			respondError(w, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
		month = time.Month(m)
	}
	forecast, err := s.heuristics.Forecast(r.Context(), orgFromContext(r.Context()), month)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, forecast)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.heuristics.Suggestions(r.Context(), orgFromContext(r.Context()))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, suggestions)
}
