package heuristics

// AmountPattern classifies how a bill series behaves over time.
type AmountPattern string

const (
	PatternFixed    AmountPattern = "fixed"
	PatternVariable AmountPattern = "variable"
)

// AmountRange bounds a variable prediction at mean ± one standard deviation.
type AmountRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// AmountPrediction is the suggested amount for the next bill in a series.
type AmountPrediction struct {
	Suggested  float64       `json:"suggested"`
	Confidence Confidence    `json:"confidence"`
	Pattern    AmountPattern `json:"pattern"`
	Range      *AmountRange  `json:"range,omitempty"`
}

// SuggestBillAmount predicts the next amount from a bill series. The
// strategy branches on the coefficient of variation (stddev/mean): stable
// series (cv < 0.1) suggest the mean, moderately variable series
// (cv < 0.3) suggest the mean with a ±stddev range, and trending series
// fall back to a linear regression over (index, amount) extrapolated one
// step past the end. History must be in chronological ascending order;
// the regression reads the order as given.
func SuggestBillAmount(history []Bill) AmountPrediction {
	if len(history) == 0 {
		return AmountPrediction{Suggested: 0, Confidence: ConfidenceLow, Pattern: PatternFixed}
	}

	amounts := make([]float64, len(history))
	for i, b := range history {
		amounts[i] = b.Amount
	}
	m := mean(amounts)

	if len(history) == 1 {
		return AmountPrediction{Suggested: m, Confidence: ConfidenceLow, Pattern: PatternFixed}
	}

	sd := sampleStdDev(amounts)
	cv := sd / m

	switch {
	case cv < 0.1:
		confidence := ConfidenceMedium
		if len(history) >= 3 {
			confidence = ConfidenceHigh
		}
		return AmountPrediction{
			Suggested:  round2(m),
			Confidence: confidence,
			Pattern:    PatternFixed,
		}
	case cv < 0.3:
		return AmountPrediction{
			Suggested:  round2(m),
			Confidence: ConfidenceMedium,
			Pattern:    PatternVariable,
			Range:      &AmountRange{Low: round2(m - sd), High: round2(m + sd)},
		}
	default:
		slope, intercept := linearRegression(amounts)
		predicted := slope*float64(len(history)) + intercept

		confidence := ConfidenceLow
		if len(history) >= 6 {
			confidence = ConfidenceMedium
		}
		return AmountPrediction{
			Suggested:  round2(predicted),
			Confidence: confidence,
			Pattern:    PatternVariable,
			Range:      &AmountRange{Low: round2(m - sd), High: round2(m + sd)},
		}
	}
}
