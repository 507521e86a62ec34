package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfieprojectsdev/homebase/internal/domain/bill"
)

func newBriefingService() (*BriefingService, *fakeBillRepo, *fakeUserRepo, *fakeLogRepo, *fakeNotifier) {
	bills := &fakeBillRepo{}
	users := &fakeUserRepo{}
	logs := &fakeLogRepo{}
	notifier := &fakeNotifier{}
	heuristicsService := NewHeuristicsService(bills, users, testLogger())
	svc := NewBriefingService(bills, users, logs, heuristicsService, notifier, testLogger())
	return svc, bills, users, logs, notifier
}

func TestRunSystemCheck_AlertsCriticalBills(t *testing.T) {
	svc, bills, users, logs, notifier := newBriefingService()
	orgID := uuid.New()
	seedUser(users, orgID)
	now := time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC)

	// A utility due tomorrow scores 75 and crosses the critical line; the
	// gym bill a month out stays quiet.
	critical := seedBill(bills, orgID, "Meralco", "2000", now.Add(20*time.Hour), bill.StatusPending, "utility-electric")
	seedBill(bills, orgID, "Gym", "1200", now.AddDate(0, 1, 0), bill.StatusPending, "")

	report, err := svc.RunSystemCheck(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 2, report.BillsScored)
	assert.Equal(t, 1, report.AlertsSent)
	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "Meralco")

	require.Len(t, logs.logs, 1)
	assert.Equal(t, critical.ID, logs.logs[0].BillID)
	assert.Equal(t, "sent", logs.logs[0].Status)

	require.True(t, critical.UrgencyScore.Valid)
	assert.Equal(t, int32(75), critical.UrgencyScore.Int32)
}

func TestRunSystemCheck_ThrottlesRepeatAlerts(t *testing.T) {
	svc, bills, users, _, notifier := newBriefingService()
	orgID := uuid.New()
	seedUser(users, orgID)
	now := time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC)

	seedBill(bills, orgID, "Meralco", "2000", now.Add(20*time.Hour), bill.StatusPending, "utility-electric")

	_, err := svc.RunSystemCheck(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, notifier.sent, 1)

	// Six hours later the bill is still critical, but within the 24-hour
	// critical window.
	report, err := svc.RunSystemCheck(context.Background(), now.Add(6*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, report.AlertsSent)
	assert.Len(t, notifier.sent, 1)

	// Past the window the alert repeats.
	report, err = svc.RunSystemCheck(context.Background(), now.Add(25*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, report.AlertsSent)
	assert.Len(t, notifier.sent, 2)
}

func TestRunSystemCheck_SweepsOverdueFirst(t *testing.T) {
	svc, bills, users, _, notifier := newBriefingService()
	orgID := uuid.New()
	seedUser(users, orgID)
	now := time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC)

	overdue := seedBill(bills, orgID, "Maynilad", "6000", now.Add(-72*time.Hour), bill.StatusPending, "utility-water")

	report, err := svc.RunSystemCheck(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.OverdueMarked)
	assert.Equal(t, bill.StatusOverdue, overdue.Status)
	// Overdue utility: due-imminent 50 + high-amount 10 + essential 25 = 85.
	require.Len(t, notifier.sent, 1)
}

func TestRunSystemCheck_OrgWithoutMembersIsSkipped(t *testing.T) {
	svc, bills, _, _, notifier := newBriefingService()
	now := time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC)

	seedBill(bills, uuid.New(), "Meralco", "2000", now.Add(20*time.Hour), bill.StatusPending, "utility-electric")

	report, err := svc.RunSystemCheck(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, report.BillsScored)
	assert.Empty(t, notifier.sent)
}
