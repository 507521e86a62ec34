package heuristics

import (
	"sort"
	"time"
)

// BudgetForecast projects the coming month's total bill load.
type BudgetForecast struct {
	Predicted    float64            `json:"predicted"`
	Confidence   Confidence         `json:"confidence"`
	Breakdown    map[string]float64 `json:"breakdown"`
	SeasonalNote string             `json:"seasonalNote,omitempty"`
}

// ForecastMonthlyBills smooths monthly totals with exponential smoothing
// (α = 0.3) and applies the seasonal factor for the forecast month. The
// breakdown averages per-category spend across the months that have data.
func ForecastMonthlyBills(history []Bill, forecastMonth time.Month) BudgetForecast {
	const alpha = 0.3

	byMonth := make(map[time.Month][]Bill)
	for _, b := range history {
		m := b.DueDate.Month()
		byMonth[m] = append(byMonth[m], b)
	}

	months := make([]time.Month, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	var sums []float64
	categoryTotals := make(map[string]float64)
	for _, m := range months {
		var total float64
		for _, b := range byMonth[m] {
			total += b.Amount
			cat := b.Category
			if cat == "" {
				cat = "uncategorized"
			}
			categoryTotals[cat] += b.Amount
		}
		sums = append(sums, total)
	}

	var forecast float64
	if len(sums) > 0 {
		forecast = sums[0]
		for _, s := range sums[1:] {
			forecast = alpha*s + (1-alpha)*forecast
		}
	}
	forecast *= SeasonalFactor(forecastMonth)

	breakdown := make(map[string]float64, len(categoryTotals))
	if n := len(months); n > 0 {
		for cat, total := range categoryTotals {
			breakdown[cat] = total / float64(n)
		}
	}

	confidence := ConfidenceLow
	if len(history) > 6 {
		confidence = ConfidenceHigh
	}

	return BudgetForecast{
		Predicted:    round2(forecast),
		Confidence:   confidence,
		Breakdown:    breakdown,
		SeasonalNote: SeasonalNote(forecastMonth),
	}
}
