package heuristics

import (
	"sort"
	"time"
)

// CyclePattern classifies the regularity of a bill's due-date spacing.
type CyclePattern string

const (
	CycleRegular   CyclePattern = "regular"
	CycleIrregular CyclePattern = "irregular"
)

// BillingCycle is the detected due-date rhythm of a bill series.
type BillingCycle struct {
	// Cycle is the modal gap in days between consecutive due dates.
	Cycle       int          `json:"cycle"`
	Pattern     CyclePattern `json:"pattern"`
	NextDueDate *time.Time   `json:"nextDueDate,omitempty"`
	Confidence  Confidence   `json:"confidence"`
}

// AnalyzeBillingCycle detects the billing cadence from due dates. The cycle
// is the statistical mode of the day gaps (first-seen value wins ties); the
// pattern is regular only when every gap sits within ±2 days of the mode,
// and only a regular pattern yields a next-due-date projection. Fewer than
// two bills default to a 30-day irregular cycle.
func AnalyzeBillingCycle(bills []Bill) BillingCycle {
	if len(bills) < 2 {
		return BillingCycle{Cycle: 30, Pattern: CycleIrregular, Confidence: ConfidenceLow}
	}

	sorted := make([]Bill, len(bills))
	copy(sorted, bills)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DueDate.Before(sorted[j].DueDate)
	})

	gaps := make([]int, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		days := int(sorted[i].DueDate.Sub(sorted[i-1].DueDate).Hours() / 24)
		gaps = append(gaps, days)
	}

	cycle := modeOf(gaps)
	regular := true
	for _, g := range gaps {
		if abs(g-cycle) > 2 {
			regular = false
			break
		}
	}

	result := BillingCycle{Cycle: cycle, Pattern: CycleIrregular, Confidence: ConfidenceLow}
	if regular {
		result.Pattern = CycleRegular
		next := sorted[len(sorted)-1].DueDate.AddDate(0, 0, cycle)
		result.NextDueDate = &next
		if len(gaps) >= 3 {
			result.Confidence = ConfidenceHigh
		}
	}
	return result
}

// modeOf returns the most frequent value; on ties the value seen first wins.
func modeOf(values []int) int {
	counts := make(map[int]int, len(values))
	best := values[0]
	bestCount := 0
	for _, v := range values {
		counts[v]++
		if counts[v] > bestCount {
			bestCount = counts[v]
			best = v
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
