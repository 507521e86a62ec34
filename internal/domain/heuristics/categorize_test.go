package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutoCategorizeBill_KeywordMatches(t *testing.T) {
	tests := []struct {
		name           string
		amount         float64
		wantCategory   string
		wantConfidence float64
	}{
		{"Meralco Bill", 2400, "utility-electric", 0.9},
		{"PELCO II", 1800, "utility-electric", 0.9},
		{"Maynilad", 600, "utility-water", 0.9},
		{"water district", 450, "utility-water", 0.9},
		{"PLDT Fibr", 1899, "telecom-internet", 0.9},
		{"Converge", 1500, "telecom-internet", 0.9},
		{"Netflix", 549, "subscription-entertainment", 0.95},
		{"SPOTIFY PREMIUM", 149, "subscription-entertainment", 0.95},
		{"Apartment Rent", 15000, "housing-rent", 0.85},
		{"Car Insurance", 3500, "insurance", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AutoCategorizeBill(tt.name, tt.amount)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
			assert.True(t, got.AutoDetected)
		})
	}
}

func TestAutoCategorizeBill_AmountFallbacks(t *testing.T) {
	small := AutoCategorizeBill("Mystery charge", 300)
	assert.Equal(t, "subscription", small.Category)
	assert.Equal(t, 0.5, small.Confidence)
	assert.True(t, small.AutoDetected)

	large := AutoCategorizeBill("Mystery charge", 15000)
	assert.Equal(t, "major-expense", large.Category)
	assert.Equal(t, 0.6, large.Confidence)

	midrange := AutoCategorizeBill("Mystery charge", 2000)
	assert.Equal(t, "uncategorized", midrange.Category)
	assert.Equal(t, 0.0, midrange.Confidence)
	assert.False(t, midrange.AutoDetected)
}

func TestAutoCategorizeBill_NameBeatsAmount(t *testing.T) {
	// A keyword match wins even when the amount would hit a fallback bucket.
	got := AutoCategorizeBill("Netflix", 300)
	assert.Equal(t, "subscription-entertainment", got.Category)
}

func TestAutoCategorizeBill_ZeroAmountWithoutKeyword(t *testing.T) {
	got := AutoCategorizeBill("Something else", 0)
	assert.Equal(t, "uncategorized", got.Category)
	assert.False(t, got.AutoDetected)
}
