package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/alfieprojectsdev/homebase/internal/app"
)

// HouseholdScheduler drives the recurring background work: the overdue
// sweep, the morning briefing, and the escalation re-check that lets the
// notification throttle promote bills that crossed an urgency band since
// the last run.
type HouseholdScheduler struct {
	cronEngine           *cron.Cron
	bills                *app.BillService
	briefing             *app.BriefingService
	logger               *logrus.Logger
	cronSpecBriefing     string
	cronSpecOverdueSweep string
	cronSpecEscalation   string
}

func NewHouseholdScheduler(
	bills *app.BillService,
	briefing *app.BriefingService,
	logger *logrus.Logger,
	cronSpecBriefing string, // e.g. "0 8 * * *" (8:00 AM daily)
	cronSpecOverdueSweep string, // e.g. "30 0 * * *" (just past midnight)
	cronSpecEscalation string, // e.g. "0 */6 * * *" (every 6 hours)
) *HouseholdScheduler {
	return &HouseholdScheduler{
		cronEngine:           cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		bills:                bills,
		briefing:             briefing,
		logger:               logger,
		cronSpecBriefing:     cronSpecBriefing,
		cronSpecOverdueSweep: cronSpecOverdueSweep,
		cronSpecEscalation:   cronSpecEscalation,
	}
}

func (s *HouseholdScheduler) Start() {
	s.logger.Info("Starting household scheduler...")

	// Overdue sweep runs first thing after midnight so the morning briefing
	// sees the flipped statuses.
	_, err := s.cronEngine.AddFunc(s.cronSpecOverdueSweep, func() {
		s.logger.Info("Cron job triggered for overdue sweep.")
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if _, err := s.bills.SweepOverdue(ctx, time.Now()); err != nil {
			s.logger.WithError(err).Error("Overdue sweep failed")
		}
	})
	if err != nil {
		s.logger.WithError(err).Fatal("Could not add overdue sweep cron job")
	}

	// Morning briefing: full system check with alerting.
	_, err = s.cronEngine.AddFunc(s.cronSpecBriefing, func() {
		s.logger.Info("Cron job triggered for daily briefing.")
		s.runSystemCheck(5 * time.Minute)
	})
	if err != nil {
		s.logger.WithError(err).Fatal("Could not add daily briefing cron job")
	}

	// Escalation check: same pass as the briefing, run more often. The
	// notification throttle keeps repeats quiet unless a bill escalated.
	_, err = s.cronEngine.AddFunc(s.cronSpecEscalation, func() {
		s.logger.Info("Cron job triggered for escalation check.")
		s.runSystemCheck(5 * time.Minute)
	})
	if err != nil {
		s.logger.WithError(err).Fatal("Could not add escalation check cron job")
	}

	s.cronEngine.Start()
	s.logger.Info("Household scheduler started with jobs.")
}

func (s *HouseholdScheduler) runSystemCheck(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	report, err := s.briefing.RunSystemCheck(ctx, time.Now())
	if err != nil {
		s.logger.WithError(err).Error("System check failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"overdue_marked": report.OverdueMarked,
		"bills_scored":   report.BillsScored,
		"alerts_sent":    report.AlertsSent,
	}).Info("System check run finished")
}

func (s *HouseholdScheduler) Stop() {
	s.logger.Info("Stopping household scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Household scheduler gracefully stopped.")
}
