package heuristics

import "regexp"

// Categorization is the result of name/amount based auto-categorization.
type Categorization struct {
	Category     string  `json:"category"`
	Confidence   float64 `json:"confidence"`
	AutoDetected bool    `json:"autoDetected"`
}

// categoryRules are tried in priority order; the first name match wins.
// The merchant keywords reflect common Philippine billers.
var categoryRules = []struct {
	re         *regexp.Regexp
	category   string
	confidence float64
}{
	{regexp.MustCompile(`(?i)electric|power|pelco|meralco`), "utility-electric", 0.9},
	{regexp.MustCompile(`(?i)water|maynilad`), "utility-water", 0.9},
	{regexp.MustCompile(`(?i)internet|wifi|pldt|globe|converge`), "telecom-internet", 0.9},
	{regexp.MustCompile(`(?i)netflix|spotify|disney|hbo`), "subscription-entertainment", 0.95},
	{regexp.MustCompile(`(?i)rent|lease`), "housing-rent", 0.85},
	{regexp.MustCompile(`(?i)insurance`), "insurance", 0.8},
}

// AutoCategorizeBill guesses a category from the bill name, falling back to
// amount-based buckets when no keyword matches: small amounts look like
// subscriptions, very large ones like major expenses.
func AutoCategorizeBill(name string, amount float64) Categorization {
	for _, rule := range categoryRules {
		if rule.re.MatchString(name) {
			return Categorization{
				Category:     rule.category,
				Confidence:   rule.confidence,
				AutoDetected: true,
			}
		}
	}

	if amount > 0 {
		if amount < 500 {
			return Categorization{Category: "subscription", Confidence: 0.5, AutoDetected: true}
		}
		if amount > 10000 {
			return Categorization{Category: "major-expense", Confidence: 0.6, AutoDetected: true}
		}
	}

	return Categorization{Category: "uncategorized", Confidence: 0, AutoDetected: false}
}
