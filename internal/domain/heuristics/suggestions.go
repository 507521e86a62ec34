package heuristics

import "fmt"

// BillSuggestion proposes a bill the household tracks elsewhere but not here.
type BillSuggestion struct {
	Bill       string  `json:"bill"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// CoTrackingPatterns holds cross-household co-occurrence rates: of the
// households tracking the first category, the fraction that also track the
// second.
type CoTrackingPatterns struct {
	ElectricWater     float64
	InternetWater     float64
	PropertyInsurance float64
}

// SuggestMissingBills flags common bills a household tracks nothing for,
// based on what similar households track alongside their existing
// categories.
func SuggestMissingBills(orgBills []Bill, patterns CoTrackingPatterns) []BillSuggestion {
	categories := make(map[string]bool, len(orgBills))
	for _, b := range orgBills {
		categories[b.Category] = true
	}

	var suggestions []BillSuggestion

	if categories["utility-electric"] && !categories["utility-water"] {
		suggestions = append(suggestions, BillSuggestion{
			Bill:       "Water bill",
			Reason:     fmt.Sprintf("%.0f%% of users with electric also track water", patterns.ElectricWater*100),
			Confidence: patterns.ElectricWater,
		})
	}

	if categories["telecom-internet"] && !categories["utility-water"] {
		suggestions = append(suggestions, BillSuggestion{
			Bill:       "Water bill",
			Reason:     fmt.Sprintf("%.0f%% of users with internet also track water", patterns.InternetWater*100),
			Confidence: patterns.InternetWater,
		})
	}

	if categories["housing-rent"] && !categories["insurance"] {
		suggestions = append(suggestions, BillSuggestion{
			Bill:       "Renter's insurance",
			Reason:     fmt.Sprintf("%.0f%% of renters also track insurance", patterns.PropertyInsurance*100),
			Confidence: patterns.PropertyInsurance,
		})
	}

	return suggestions
}
