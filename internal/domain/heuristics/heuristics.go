// Package heuristics contains the pure scoring and prediction functions of
// the bill tracker: urgency scoring, amount suggestion, anomaly detection,
// billing-cycle analysis, auto-categorization, forget-risk prediction and
// budget forecasting.
//
// Every function here is a pure, synchronous computation over
// fully-materialized inputs. Nothing in this package touches storage, the
// network, or the wall clock; functions that need "now" take it as a
// parameter. Concurrent calls are trivially safe.
package heuristics

import "time"

// Bill is the immutable snapshot the heuristics operate on. It is mapped
// from the persisted entity at the application boundary; amounts arrive as
// float64 after decimal validation, so no NaN ever enters the statistics.
type Bill struct {
	ID          string
	Name        string
	Amount      float64
	DueDate     time.Time
	Status      string
	Category    string
	ResidenceID string
}

// Confidence grades how much weight a prediction deserves.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Severity grades anomalies and forget risk.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)
