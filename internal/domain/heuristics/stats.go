package heuristics

import "math"

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev is the n-1 (sample) standard deviation.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// linearRegression fits ordinary least squares over points (i, values[i])
// for i = 0..n-1 and returns slope and intercept.
func linearRegression(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}
	xMean := (n - 1) / 2
	yMean := mean(values)

	var num, den float64
	for i, y := range values {
		dx := float64(i) - xMean
		num += dx * (y - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0, yMean
	}
	slope = num / den
	return slope, yMean - slope*xMean
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
