package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/alfieprojectsdev/homebase/internal/app"
	"github.com/alfieprojectsdev/homebase/internal/domain/bill"
)

// billPayload is the request body for creating and updating bills. Amount is
// a string so the decimal parse boundary sees the raw input.
type billPayload struct {
	Name        string             `json:"name"`
	Amount      string             `json:"amount"`
	DueDate     time.Time          `json:"dueDate"`
	Category    string             `json:"category"`
	ResidenceID string             `json:"residenceId"`
	Recurrence  *recurrencePayload `json:"recurrence"`
}

type recurrencePayload struct {
	Frequency  string     `json:"frequency"`
	Interval   int        `json:"interval"`
	DayOfMonth int        `json:"dayOfMonth,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
}

func (p *recurrencePayload) toConfig() *bill.RecurrenceConfig {
	if p == nil {
		return nil
	}
	return &bill.RecurrenceConfig{
		Frequency:  bill.Frequency(p.Frequency),
		Interval:   p.Interval,
		DayOfMonth: p.DayOfMonth,
		EndDate:    p.EndDate,
	}
}

type billResponse struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Amount         string             `json:"amount"`
	DueDate        time.Time          `json:"dueDate"`
	Status         string             `json:"status"`
	Category       string             `json:"category,omitempty"`
	ResidenceID    string             `json:"residenceId,omitempty"`
	PaidAt         *time.Time         `json:"paidAt,omitempty"`
	Recurrence     *recurrencePayload `json:"recurrence,omitempty"`
	RecurrenceText string             `json:"recurrenceText,omitempty"`
	ParentBillID   string             `json:"parentBillId,omitempty"`
	UrgencyScore   *int               `json:"urgencyScore,omitempty"`
	UrgencyLevel   string             `json:"urgencyLevel,omitempty"`
	UrgencyReasons []string           `json:"urgencyReasons,omitempty"`
}

func toBillResponse(b *bill.Bill) billResponse {
	resp := billResponse{
		ID:      b.ID.String(),
		Name:    b.Name,
		Amount:  b.Amount.StringFixed(2),
		DueDate: b.DueDate,
		Status:  string(b.Status),
	}
	if b.Category.Valid {
		resp.Category = b.Category.String
	}
	if b.ResidenceID.Valid {
		resp.ResidenceID = b.ResidenceID.UUID.String()
	}
	if b.PaidAt.Valid {
		t := b.PaidAt.Time
		resp.PaidAt = &t
	}
	if b.Recurrence != nil {
		resp.Recurrence = &recurrencePayload{
			Frequency:  string(b.Recurrence.Frequency),
			Interval:   b.Recurrence.Interval,
			DayOfMonth: b.Recurrence.DayOfMonth,
			EndDate:    b.Recurrence.EndDate,
		}
		resp.RecurrenceText = bill.RecurrenceLabel(*b.Recurrence)
	}
	if b.ParentBillID.Valid {
		resp.ParentBillID = b.ParentBillID.UUID.String()
	}
	if b.UrgencyScore.Valid {
		v := int(b.UrgencyScore.Int32)
		resp.UrgencyScore = &v
	}
	if b.UrgencyLevel.Valid {
		resp.UrgencyLevel = b.UrgencyLevel.String
		resp.UrgencyReasons = b.UrgencyReasons
	}
	return resp
}

func toBillResponses(bills []*bill.Bill) []billResponse {
	out := make([]billResponse, len(bills))
	for i, b := range bills {
		out[i] = toBillResponse(b)
	}
	return out
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := s.bills.List(r.Context(), orgFromContext(r.Context()))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBillResponses(bills))
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var payload billPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input := app.CreateBillInput{
		Name:       payload.Name,
		Amount:     payload.Amount,
		DueDate:    payload.DueDate,
		Category:   payload.Category,
		Recurrence: payload.Recurrence.toConfig(),
	}
	if payload.ResidenceID != "" {
		residenceID, err := uuid.Parse(payload.ResidenceID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "residenceId is not a valid UUID")
			return
		}
		input.ResidenceID = uuid.NullUUID{UUID: residenceID, Valid: true}
	}

	created, err := s.bills.Create(r.Context(), orgFromContext(r.Context()), input)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBillResponse(created))
}

func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	billID, err := parseUUIDParam(r, "billID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "billID is not a valid UUID")
		return
	}
	b, err := s.bills.Get(r.Context(), orgFromContext(r.Context()), billID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBillResponse(b))
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	billID, err := parseUUIDParam(r, "billID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "billID is not a valid UUID")
		return
	}
	var payload billPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input := app.UpdateBillInput{
		Name:       payload.Name,
		Amount:     payload.Amount,
		DueDate:    payload.DueDate,
		Category:   payload.Category,
		Recurrence: payload.Recurrence.toConfig(),
	}
	if payload.ResidenceID != "" {
		residenceID, err := uuid.Parse(payload.ResidenceID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "residenceId is not a valid UUID")
			return
		}
		input.ResidenceID = uuid.NullUUID{UUID: residenceID, Valid: true}
	}

	updated, err := s.bills.Update(r.Context(), orgFromContext(r.Context()), billID, input)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBillResponse(updated))
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	billID, err := parseUUIDParam(r, "billID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "billID is not a valid UUID")
		return
	}
	if err := s.bills.Delete(r.Context(), orgFromContext(r.Context()), billID); err != nil {
		s.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePayBill settles a bill and reports the successor occurrence when the
// bill recurs.
func (s *Server) handlePayBill(w http.ResponseWriter, r *http.Request) {
	billID, err := parseUUIDParam(r, "billID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "billID is not a valid UUID")
		return
	}
	paid, successor, err := s.bills.MarkPaid(r.Context(), orgFromContext(r.Context()), billID, time.Now())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	resp := struct {
		Bill     billResponse  `json:"bill"`
		NextBill *billResponse `json:"nextBill,omitempty"`
	}{Bill: toBillResponse(paid)}
	if successor != nil {
		next := toBillResponse(successor)
		resp.NextBill = &next
	}
	respondJSON(w, http.StatusOK, resp)
}
