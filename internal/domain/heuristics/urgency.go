package heuristics

import (
	"math"
	"strings"
	"time"
)

// UrgencyLevel is the discrete urgency band of a bill. Exactly one of
// critical, high or normal; there is no "low".
type UrgencyLevel string

const (
	UrgencyCritical UrgencyLevel = "critical"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyNormal   UrgencyLevel = "normal"
)

// UrgencyContext is the user/context snapshot feeding the scorer.
type UrgencyContext struct {
	// CurrentResidence is where the user currently is; non-empty combined
	// with a bill tied to a residence signals a remote obligation.
	CurrentResidence string
	// UserLatenessRate is the fraction of past bills the user paid late.
	UserLatenessRate float64
	// SevereWeatherForecast flags weather risk at tracked residences.
	SevereWeatherForecast bool
}

// UrgencyScore is a bounded 0-100 additive score with the reasons that
// contributed, in rule-evaluation order.
type UrgencyScore struct {
	Score   int          `json:"score"`
	Level   UrgencyLevel `json:"level"`
	Reasons []string     `json:"reasons"`
}

// CalculateUrgencyScore ranks how pressing a bill is. Each applicable rule
// adds a fixed number of points and a named reason; the three due-date bands
// are mutually exclusive, every other rule fires independently. The sum is
// capped at 100. Persisting the result onto the bill is the caller's job.
func CalculateUrgencyScore(b Bill, uc UrgencyContext, now time.Time) UrgencyScore {
	score := 0
	reasons := []string{}

	daysUntilDue := int(math.Ceil(b.DueDate.Sub(now).Hours() / 24))

	switch {
	case daysUntilDue <= 1:
		score += 50
		reasons = append(reasons, "due-imminent")
	case daysUntilDue <= 3:
		score += 30
		reasons = append(reasons, "due-soon")
	case daysUntilDue <= 7:
		score += 15
		reasons = append(reasons, "due-week")
	}

	if b.ResidenceID != "" && uc.CurrentResidence != "" {
		score += 20
		reasons = append(reasons, "remote-location")
	}

	if b.Amount > 5000 {
		score += 10
		reasons = append(reasons, "high-amount")
	}

	if uc.UserLatenessRate > 0.3 {
		score += 15
		reasons = append(reasons, "history-late")
	}

	if strings.HasPrefix(b.Category, "utility-") {
		score += 25
		reasons = append(reasons, "essential-service")
	}

	if uc.SevereWeatherForecast && b.ResidenceID != "" {
		score += 30
		reasons = append(reasons, "weather-risk")
	}

	if score > 100 {
		score = 100
	}

	var level UrgencyLevel
	switch {
	case score > 70:
		level = UrgencyCritical
	case score > 40:
		level = UrgencyHigh
	default:
		level = UrgencyNormal
	}

	return UrgencyScore{Score: score, Level: level, Reasons: reasons}
}
