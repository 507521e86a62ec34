package heuristics

import "time"

// Seasonal utility-cost factors for the Philippine climate: summer aircon
// load peaks around April, the monsoon season raises water and utility
// usage mid-year.
var seasonalFactors = map[time.Month]float64{
	time.March:     1.1,
	time.April:     1.15,
	time.May:       1.1,
	time.July:      1.05,
	time.August:    1.1,
	time.September: 1.05,
}

var seasonalNotes = map[time.Month]string{
	time.January:   "Holiday season - normal usage expected",
	time.February:  "Post-holiday - back to normal patterns",
	time.March:     "Higher electricity usage due to summer AC",
	time.April:     "Peak summer season - higher electric bill expected",
	time.May:       "Summer continues - elevated AC costs",
	time.July:      "Rainy season - potential water bill increase",
	time.August:    "Monsoon season - expect higher utility costs",
	time.September: "Late rainy season - watch for water usage",
	time.December:  "Holiday season approaching - normal utility usage",
}

// SeasonalFactor returns the expected utility-cost multiplier for a month.
func SeasonalFactor(m time.Month) float64 {
	if f, ok := seasonalFactors[m]; ok {
		return f
	}
	return 1.0
}

// SeasonalNote returns a human-readable note for a month, or "".
func SeasonalNote(m time.Month) string {
	return seasonalNotes[m]
}
