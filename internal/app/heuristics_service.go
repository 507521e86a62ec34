package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/alfieprojectsdev/homebase/internal/domain/bill"
	"github.com/alfieprojectsdev/homebase/internal/domain/heuristics"
	"github.com/alfieprojectsdev/homebase/internal/domain/user"
)

// historyLimit caps the bill series fed into the heuristics at the most
// recent N entries.
const historyLimit = 12

// HeuristicsService orchestrates the pure heuristics: it loads bill history
// and user behavior from storage, maps entities to snapshots, invokes the
// pure functions, and persists what needs persisting. The heuristics
// themselves never see the repositories.
type HeuristicsService struct {
	bills  bill.Repository
	users  user.Repository
	logger *logrus.Logger
}

func NewHeuristicsService(bills bill.Repository, users user.Repository, logger *logrus.Logger) *HeuristicsService {
	return &HeuristicsService{bills: bills, users: users, logger: logger}
}

// snapshot maps the persisted entity onto the plain view the heuristics
// consume. Amounts were decimal-validated on the way in, so the float
// conversion cannot produce NaN.
func snapshot(b *bill.Bill) heuristics.Bill {
	s := heuristics.Bill{
		ID:      b.ID.String(),
		Name:    b.Name,
		Amount:  b.Amount.InexactFloat64(),
		DueDate: b.DueDate,
		Status:  string(b.Status),
	}
	if b.Category.Valid {
		s.Category = b.Category.String
	}
	if b.ResidenceID.Valid {
		s.ResidenceID = b.ResidenceID.UUID.String()
	}
	return s
}

func snapshots(bills []*bill.Bill) []heuristics.Bill {
	out := make([]heuristics.Bill, len(bills))
	for i, b := range bills {
		out[i] = snapshot(b)
	}
	return out
}

// seriesHistory loads the bill series for a name in chronological ascending
// order, capped at the most recent historyLimit entries. The regression
// heuristic reads order as chronology, so the descending fetch is reversed
// here.
func (s *HeuristicsService) seriesHistory(ctx context.Context, orgID uuid.UUID, name string) ([]heuristics.Bill, error) {
	recent, err := s.bills.ListByName(ctx, orgID, name, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load bill history: %w", err)
	}
	history := make([]heuristics.Bill, len(recent))
	for i, b := range recent {
		history[len(recent)-1-i] = snapshot(b)
	}
	return history, nil
}

// UserBehavior derives the behavior snapshot from the org's paid bills: the
// overall lateness rate, per-category lateness, and the user's residence
// and last check-in.
func (s *HeuristicsService) UserBehavior(ctx context.Context, userID, orgID uuid.UUID) (heuristics.UserBehavior, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return heuristics.UserBehavior{}, fmt.Errorf("failed to load user: %w", err)
	}

	paid, err := s.bills.ListPaidByOrg(ctx, orgID)
	if err != nil {
		return heuristics.UserBehavior{}, fmt.Errorf("failed to load paid bills: %w", err)
	}

	lateCount := 0
	total := 0
	type counts struct{ total, late int }
	byCategory := make(map[string]*counts)

	for _, b := range paid {
		if !b.PaidAt.Valid {
			continue
		}
		total++

		category := "uncategorized"
		if b.Category.Valid {
			category = b.Category.String
		}
		c := byCategory[category]
		if c == nil {
			c = &counts{}
			byCategory[category] = c
		}
		c.total++

		daysLate := int(b.PaidAt.Time.Sub(b.DueDate).Hours() / 24)
		if daysLate > 0 {
			lateCount++
			c.late++
		}
	}

	behavior := heuristics.UserBehavior{
		ForgetRateByType: make(map[string]float64, len(byCategory)),
	}
	if total > 0 {
		behavior.OverallForgetRate = float64(lateCount) / float64(total)
	}
	for category, c := range byCategory {
		behavior.ForgetRateByType[category] = float64(c.late) / float64(c.total)
	}
	if u.PrimaryResidence.Valid {
		behavior.PrimaryResidence = u.PrimaryResidence.String
	} else {
		behavior.PrimaryResidence = "unknown"
	}
	if u.LastAppOpen.Valid {
		behavior.LastAppOpen = u.LastAppOpen.Time
	} else {
		behavior.LastAppOpen = time.Now()
	}
	return behavior, nil
}

// CalculateUrgency scores a bill and persists the result onto it.
func (s *HeuristicsService) CalculateUrgency(ctx context.Context, orgID, userID, billID uuid.UUID, now time.Time) (heuristics.UrgencyScore, error) {
	b, err := s.bills.GetByID(ctx, orgID, billID)
	if err != nil {
		return heuristics.UrgencyScore{}, err
	}
	behavior, err := s.UserBehavior(ctx, userID, orgID)
	if err != nil {
		return heuristics.UrgencyScore{}, err
	}

	score := heuristics.CalculateUrgencyScore(snapshot(b), heuristics.UrgencyContext{
		CurrentResidence: behavior.PrimaryResidence,
		UserLatenessRate: behavior.OverallForgetRate,
		// The weather sensor is an external collaborator; without one the
		// forecast defaults to calm.
		SevereWeatherForecast: false,
	}, now)

	if err := saveUrgency(ctx, s.bills, b, score, now); err != nil {
		return heuristics.UrgencyScore{}, err
	}
	return score, nil
}

// SuggestAmount predicts the next amount for a bill series identified by
// bill ID or name.
func (s *HeuristicsService) SuggestAmount(ctx context.Context, orgID uuid.UUID, billID uuid.NullUUID, name string) (heuristics.AmountPrediction, error) {
	if billID.Valid {
		b, err := s.bills.GetByID(ctx, orgID, billID.UUID)
		if err != nil {
			return heuristics.AmountPrediction{}, err
		}
		name = b.Name
	}
	if name == "" {
		return heuristics.SuggestBillAmount(nil), nil
	}
	history, err := s.seriesHistory(ctx, orgID, name)
	if err != nil {
		return heuristics.AmountPrediction{}, err
	}
	return heuristics.SuggestBillAmount(history), nil
}

// AnalyzeBill checks a bill for amount anomalies against the rest of its
// series.
func (s *HeuristicsService) AnalyzeBill(ctx context.Context, orgID, billID uuid.UUID) (heuristics.Anomaly, error) {
	b, err := s.bills.GetByID(ctx, orgID, billID)
	if err != nil {
		return heuristics.Anomaly{}, err
	}
	history, err := s.seriesHistory(ctx, orgID, b.Name)
	if err != nil {
		return heuristics.Anomaly{}, err
	}
	// The bill under test is excluded from its own baseline.
	baseline := history[:0:0]
	for _, h := range history {
		if h.ID != b.ID.String() {
			baseline = append(baseline, h)
		}
	}
	return heuristics.DetectAnomalies(snapshot(b), baseline), nil
}

// DueDateSuggestion analyzes the due-date cadence of a bill series.
func (s *HeuristicsService) DueDateSuggestion(ctx context.Context, orgID uuid.UUID, name string) (heuristics.BillingCycle, error) {
	history, err := s.seriesHistory(ctx, orgID, name)
	if err != nil {
		return heuristics.BillingCycle{}, err
	}
	return heuristics.AnalyzeBillingCycle(history), nil
}

// Categorize guesses a category for a bill name/amount pair.
func (s *HeuristicsService) Categorize(name string, amountStr string) (heuristics.Categorization, error) {
	amount := 0.0
	if amountStr != "" {
		d, err := bill.ParseAmount(amountStr)
		if err != nil {
			return heuristics.Categorization{}, err
		}
		amount = d.InexactFloat64()
	}
	return heuristics.AutoCategorizeBill(name, amount), nil
}

// ForgetRisk predicts the chance the user misses the bill.
func (s *HeuristicsService) ForgetRisk(ctx context.Context, orgID, userID, billID uuid.UUID, now time.Time) (heuristics.ForgetRisk, error) {
	b, err := s.bills.GetByID(ctx, orgID, billID)
	if err != nil {
		return heuristics.ForgetRisk{}, err
	}
	behavior, err := s.UserBehavior(ctx, userID, orgID)
	if err != nil {
		return heuristics.ForgetRisk{}, err
	}
	return heuristics.PredictForgetRisk(snapshot(b), behavior, now), nil
}

// Forecast projects next month's bill load for the org.
func (s *HeuristicsService) Forecast(ctx context.Context, orgID uuid.UUID, month time.Month) (heuristics.BudgetForecast, error) {
	all, err := s.bills.ListByOrg(ctx, orgID)
	if err != nil {
		return heuristics.BudgetForecast{}, fmt.Errorf("failed to load bills: %w", err)
	}
	return heuristics.ForecastMonthlyBills(snapshots(all), month), nil
}

// Suggestions proposes commonly co-tracked bills the household is missing.
func (s *HeuristicsService) Suggestions(ctx context.Context, orgID uuid.UUID) ([]heuristics.BillSuggestion, error) {
	all, err := s.bills.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bills: %w", err)
	}

	electricWater, err := s.bills.CoTrackingRate(ctx, "utility-electric", "utility-water")
	if err != nil {
		s.logger.WithError(err).Warn("co-tracking rate query failed, using defaults")
		electricWater = 0.9
	}
	patterns := heuristics.CoTrackingPatterns{
		ElectricWater:     electricWater,
		InternetWater:     0.85,
		PropertyInsurance: 0.75,
	}
	return heuristics.SuggestMissingBills(snapshots(all), patterns), nil
}

// saveUrgency writes the score fields back onto the bill record.
func saveUrgency(ctx context.Context, repo bill.Repository, b *bill.Bill, score heuristics.UrgencyScore, now time.Time) error {
	b.UrgencyScore.Int32 = int32(score.Score)
	b.UrgencyScore.Valid = true
	b.UrgencyLevel.String = string(score.Level)
	b.UrgencyLevel.Valid = true
	b.UrgencyReasons = score.Reasons
	b.LastUrgencyCalculation.Time = now
	b.LastUrgencyCalculation.Valid = true
	if err := repo.SaveUrgency(ctx, b); err != nil {
		return fmt.Errorf("failed to persist urgency: %w", err)
	}
	return nil
}
