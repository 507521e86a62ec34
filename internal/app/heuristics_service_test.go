package app

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfieprojectsdev/homebase/internal/domain/bill"
	"github.com/alfieprojectsdev/homebase/internal/domain/heuristics"
	"github.com/alfieprojectsdev/homebase/internal/domain/user"
)

func newHeuristicsService() (*HeuristicsService, *fakeBillRepo, *fakeUserRepo) {
	bills := &fakeBillRepo{}
	users := &fakeUserRepo{}
	return NewHeuristicsService(bills, users, testLogger()), bills, users
}

func seedBill(repo *fakeBillRepo, orgID uuid.UUID, name, amount string, due time.Time, status bill.Status, category string) *bill.Bill {
	d, _ := decimal.NewFromString(amount)
	b := &bill.Bill{
		ID:      uuid.New(),
		OrgID:   orgID,
		Name:    name,
		Amount:  d,
		DueDate: due,
		Status:  status,
	}
	if category != "" {
		b.Category = sql.NullString{String: category, Valid: true}
	}
	repo.bills = append(repo.bills, b)
	return b
}

func seedUser(repo *fakeUserRepo, orgID uuid.UUID) *user.User {
	u := &user.User{
		ID:               uuid.New(),
		OrgID:            orgID,
		Email:            "ana@example.com",
		PrimaryResidence: sql.NullString{String: "makati", Valid: true},
		LastAppOpen:      sql.NullTime{Time: time.Now(), Valid: true},
	}
	repo.users = append(repo.users, u)
	return u
}

func TestHeuristicsServiceUserBehavior(t *testing.T) {
	svc, bills, users := newHeuristicsService()
	orgID := uuid.New()
	u := seedUser(users, orgID)

	paidOn := func(b *bill.Bill, daysAfterDue int) {
		b.PaidAt = sql.NullTime{Time: b.DueDate.AddDate(0, 0, daysAfterDue), Valid: true}
	}

	// Two electric bills, one paid late; one water bill paid on time; one
	// pending bill that must not count.
	e1 := seedBill(bills, orgID, "Meralco", "2000", dueDate(2025, time.January, 10), bill.StatusPaid, "utility-electric")
	paidOn(e1, 3)
	e2 := seedBill(bills, orgID, "Meralco", "2100", dueDate(2025, time.February, 10), bill.StatusPaid, "utility-electric")
	paidOn(e2, -1)
	w1 := seedBill(bills, orgID, "Maynilad", "500", dueDate(2025, time.February, 12), bill.StatusPaid, "utility-water")
	paidOn(w1, 0)
	seedBill(bills, orgID, "Maynilad", "510", dueDate(2025, time.March, 12), bill.StatusPending, "utility-water")

	behavior, err := svc.UserBehavior(context.Background(), u.ID, orgID)
	require.NoError(t, err)

	assert.InDelta(t, 1.0/3.0, behavior.OverallForgetRate, 1e-9)
	assert.InDelta(t, 0.5, behavior.ForgetRateByType["utility-electric"], 1e-9)
	assert.InDelta(t, 0.0, behavior.ForgetRateByType["utility-water"], 1e-9)
	assert.Equal(t, "makati", behavior.PrimaryResidence)
}

func TestHeuristicsServiceSuggestAmount_ByNameUsesChronologicalOrder(t *testing.T) {
	svc, bills, _ := newHeuristicsService()
	orgID := uuid.New()

	// An upward trend over four months. The regression only extrapolates
	// correctly when the series is fed oldest first.
	amounts := []string{"100", "200", "300", "400"}
	for i, a := range amounts {
		seedBill(bills, orgID, "Meralco", a, dueDate(2025, time.January+time.Month(i), 10), bill.StatusPaid, "utility-electric")
	}

	got, err := svc.SuggestAmount(context.Background(), orgID, uuid.NullUUID{}, "Meralco")
	require.NoError(t, err)
	assert.Equal(t, 500.0, got.Suggested)
	assert.Equal(t, heuristics.PatternVariable, got.Pattern)
}

func TestHeuristicsServiceSuggestAmount_ByBillID(t *testing.T) {
	svc, bills, _ := newHeuristicsService()
	orgID := uuid.New()

	seedBill(bills, orgID, "Maynilad", "500", dueDate(2025, time.January, 12), bill.StatusPaid, "utility-water")
	b := seedBill(bills, orgID, "Maynilad", "505", dueDate(2025, time.February, 12), bill.StatusPaid, "utility-water")
	seedBill(bills, orgID, "Maynilad", "495", dueDate(2025, time.March, 12), bill.StatusPending, "utility-water")

	got, err := svc.SuggestAmount(context.Background(), orgID, uuid.NullUUID{UUID: b.ID, Valid: true}, "")
	require.NoError(t, err)
	assert.Equal(t, heuristics.PatternFixed, got.Pattern)
	assert.Equal(t, 500.0, got.Suggested)
}

func TestHeuristicsServiceCalculateUrgency_Persists(t *testing.T) {
	svc, bills, users := newHeuristicsService()
	orgID := uuid.New()
	u := seedUser(users, orgID)

	b := seedBill(bills, orgID, "Meralco", "2000",
		time.Now().Add(12*time.Hour), bill.StatusPending, "utility-electric")

	score, err := svc.CalculateUrgency(context.Background(), orgID, u.ID, b.ID, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 75, score.Score)
	assert.Equal(t, heuristics.UrgencyCritical, score.Level)

	require.True(t, b.UrgencyScore.Valid)
	assert.Equal(t, int32(75), b.UrgencyScore.Int32)
	assert.Equal(t, "critical", b.UrgencyLevel.String)
	assert.Equal(t, []string{"due-imminent", "essential-service"}, b.UrgencyReasons)
	assert.True(t, b.LastUrgencyCalculation.Valid)
}

func TestHeuristicsServiceAnalyzeBill_ExcludesSelfFromBaseline(t *testing.T) {
	svc, bills, _ := newHeuristicsService()
	orgID := uuid.New()

	for i, a := range []string{"100", "102", "98", "101"} {
		seedBill(bills, orgID, "Maynilad", a, dueDate(2025, time.January+time.Month(i), 12), bill.StatusPaid, "utility-water")
	}
	spike := seedBill(bills, orgID, "Maynilad", "110", dueDate(2025, time.May, 12), bill.StatusPending, "utility-water")

	got, err := svc.AnalyzeBill(context.Background(), orgID, spike.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAnomaly)
	assert.Equal(t, heuristics.SeverityHigh, got.Severity)
}

func TestHeuristicsServiceCategorize(t *testing.T) {
	svc, _, _ := newHeuristicsService()

	got, err := svc.Categorize("Meralco Bill", "2400")
	require.NoError(t, err)
	assert.Equal(t, "utility-electric", got.Category)

	_, err = svc.Categorize("Mystery", "not-a-number")
	assert.ErrorIs(t, err, bill.ErrInvalidAmount)
}

func TestHeuristicsServiceSuggestions_UsesObservedCoTracking(t *testing.T) {
	svc, bills, _ := newHeuristicsService()

	// Two orgs track electric; only one of them also tracks water. The org
	// under test tracks electric alone, so it gets the water suggestion at
	// the observed 50% rate.
	org1 := uuid.New()
	seedBill(bills, org1, "Meralco", "2000", dueDate(2025, time.June, 10), bill.StatusPending, "utility-electric")
	seedBill(bills, org1, "Maynilad", "500", dueDate(2025, time.June, 12), bill.StatusPending, "utility-water")

	org2 := uuid.New()
	seedBill(bills, org2, "PELCO", "1800", dueDate(2025, time.June, 10), bill.StatusPending, "utility-electric")

	got, err := svc.Suggestions(context.Background(), org2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Water bill", got[0].Bill)
	assert.Equal(t, 0.5, got[0].Confidence)
}
