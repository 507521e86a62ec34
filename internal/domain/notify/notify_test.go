package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alfieprojectsdev/homebase/internal/domain/heuristics"
)

func TestShouldNotify(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	hoursAgo := func(h int) *time.Time {
		t := now.Add(-time.Duration(h) * time.Hour)
		return &t
	}

	tests := []struct {
		name       string
		level      heuristics.UrgencyLevel
		lastSentAt *time.Time
		want       bool
	}{
		{"first notification always goes out", heuristics.UrgencyCritical, nil, true},
		{"critical repeats after a day", heuristics.UrgencyCritical, hoursAgo(25), true},
		{"critical is throttled within a day", heuristics.UrgencyCritical, hoursAgo(23), false},
		{"high repeats after two days", heuristics.UrgencyHigh, hoursAgo(49), true},
		{"high is throttled within two days", heuristics.UrgencyHigh, hoursAgo(47), false},
		{"normal repeats after a week", heuristics.UrgencyNormal, hoursAgo(169), true},
		{"normal is throttled within a week", heuristics.UrgencyNormal, hoursAgo(167), false},
		{"unknown level never repeats", heuristics.UrgencyLevel("weird"), hoursAgo(10000), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldNotify(tt.level, tt.lastSentAt, now))
		})
	}
}
