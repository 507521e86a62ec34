package heuristics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestForecastMonthlyBills_EmptyHistory(t *testing.T) {
	got := ForecastMonthlyBills(nil, time.June)
	assert.Equal(t, 0.0, got.Predicted)
	assert.Empty(t, got.Breakdown)
	assert.Equal(t, ConfidenceLow, got.Confidence)
}

func TestForecastMonthlyBills_SingleMonth(t *testing.T) {
	history := []Bill{
		{Name: "Meralco", Amount: 2000, Category: "utility-electric", DueDate: day(2025, time.January, 10)},
		{Name: "Maynilad", Amount: 500, Category: "utility-water", DueDate: day(2025, time.January, 12)},
	}
	got := ForecastMonthlyBills(history, time.February)

	// February has no seasonal factor, so the forecast is the lone
	// monthly total.
	assert.InDelta(t, 2500, got.Predicted, 0.01)
	assert.Equal(t, ConfidenceLow, got.Confidence)
	assert.InDelta(t, 2000, got.Breakdown["utility-electric"], 0.01)
	assert.InDelta(t, 500, got.Breakdown["utility-water"], 0.01)
}

func TestForecastMonthlyBills_SmoothsAcrossMonths(t *testing.T) {
	history := []Bill{
		{Name: "Meralco", Amount: 1000, Category: "utility-electric", DueDate: day(2025, time.January, 10)},
		{Name: "Meralco", Amount: 2000, Category: "utility-electric", DueDate: day(2025, time.February, 10)},
	}
	got := ForecastMonthlyBills(history, time.June)

	// Exponential smoothing with alpha 0.3: 0.3*2000 + 0.7*1000 = 1300.
	assert.InDelta(t, 1300, got.Predicted, 0.01)
	assert.InDelta(t, 1500, got.Breakdown["utility-electric"], 0.01)
}

func TestForecastMonthlyBills_AppliesSeasonalFactor(t *testing.T) {
	history := []Bill{
		{Name: "Meralco", Amount: 1000, Category: "utility-electric", DueDate: day(2025, time.January, 10)},
	}
	got := ForecastMonthlyBills(history, time.April)

	// April carries the summer aircon peak factor of 1.15.
	assert.InDelta(t, 1150, got.Predicted, 0.01)
	assert.NotEmpty(t, got.SeasonalNote)
}

func TestForecastMonthlyBills_UncategorizedBucket(t *testing.T) {
	history := []Bill{
		{Name: "Odds and ends", Amount: 700, DueDate: day(2025, time.January, 10)},
	}
	got := ForecastMonthlyBills(history, time.February)
	assert.InDelta(t, 700, got.Breakdown["uncategorized"], 0.01)
}

func TestForecastMonthlyBills_LongHistoryIsHighConfidence(t *testing.T) {
	var history []Bill
	for m := time.January; m <= time.July; m++ {
		history = append(history, Bill{Name: "Meralco", Amount: 1000, Category: "utility-electric", DueDate: day(2025, m, 10)})
	}
	got := ForecastMonthlyBills(history, time.February)
	assert.Equal(t, ConfidenceHigh, got.Confidence)
}
