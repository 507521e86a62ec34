package heuristics

import (
	"fmt"
	"math"
)

// Anomaly reports whether a bill's amount deviates abnormally from its
// series history.
type Anomaly struct {
	IsAnomaly bool     `json:"isAnomaly"`
	Message   string   `json:"message,omitempty"`
	Severity  Severity `json:"severity,omitempty"`
}

// DetectAnomalies compares the current bill's amount against the z-score of
// its history. |z| > 3 is a high-severity anomaly, |z| > 2 medium. A history
// shorter than two entries, or one with zero spread, never flags anything.
func DetectAnomalies(current Bill, history []Bill) Anomaly {
	if len(history) < 2 {
		return Anomaly{IsAnomaly: false}
	}

	amounts := make([]float64, len(history))
	for i, b := range history {
		amounts[i] = b.Amount
	}
	m := mean(amounts)
	sd := sampleStdDev(amounts)

	if sd == 0 {
		return Anomaly{IsAnomaly: false}
	}

	z := (current.Amount - m) / sd

	switch {
	case math.Abs(z) > 3:
		return Anomaly{
			IsAnomaly: true,
			Message:   deviationMessage("⚠️", z, sd),
			Severity:  SeverityHigh,
		}
	case math.Abs(z) > 2:
		return Anomaly{
			IsAnomaly: true,
			Message:   deviationMessage("ℹ️", z, sd),
			Severity:  SeverityMedium,
		}
	}
	return Anomaly{IsAnomaly: false}
}

func deviationMessage(prefix string, z, sd float64) string {
	direction := "higher"
	if z < 0 {
		direction = "lower"
	}
	return fmt.Sprintf("%s This bill is ₱%.0f %s than usual", prefix, math.Abs(z*sd), direction)
}
