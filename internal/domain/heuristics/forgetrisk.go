package heuristics

import (
	"math"
	"time"
)

// UserBehavior summarizes a user's payment habits. It is assembled by the
// application layer from the org's paid-bill history and the user record.
type UserBehavior struct {
	// OverallForgetRate is the fraction of past bills paid after their due
	// date, in [0,1].
	OverallForgetRate float64
	PrimaryResidence  string
	LastAppOpen       time.Time
	// ForgetRateByType holds per-category lateness rates.
	ForgetRateByType map[string]float64
}

// ForgetRisk is the predicted chance the user misses a bill.
type ForgetRisk struct {
	RiskLevel      Severity `json:"riskLevel"`
	Probability    float64  `json:"probability"`
	Recommendation string   `json:"recommendation"`
}

// PredictForgetRisk blends the user's overall lateness with bill-specific
// multipliers: bills tied to a residence the user may not be at triple the
// base rate, a stale app check-in (>7 days) adds half again, and the
// per-category rate is averaged in when known. The probability is capped at
// 0.95.
func PredictForgetRisk(b Bill, behavior UserBehavior, now time.Time) ForgetRisk {
	probability := behavior.OverallForgetRate

	if b.ResidenceID != "" {
		probability *= 3
	}

	daysSinceCheckIn := int(math.Floor(now.Sub(behavior.LastAppOpen).Hours() / 24))
	if daysSinceCheckIn > 7 {
		probability *= 1.5
	}

	if b.Category != "" {
		typeRate := behavior.ForgetRateByType[b.Category]
		if typeRate == 0 {
			typeRate = 0.5
		}
		probability = (probability + typeRate) / 2
	}

	probability = math.Min(probability, 0.95)

	var riskLevel Severity
	switch {
	case probability > 0.7:
		riskLevel = SeverityHigh
	case probability > 0.4:
		riskLevel = SeverityMedium
	default:
		riskLevel = SeverityLow
	}

	recommendation := "Standard notifications sufficient"
	if probability > 0.6 {
		recommendation = "Enable SMS fallback for this bill"
	}

	return ForgetRisk{RiskLevel: riskLevel, Probability: probability, Recommendation: recommendation}
}
