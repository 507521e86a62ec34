package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/alfieprojectsdev/homebase/internal/domain/bill"
	"github.com/alfieprojectsdev/homebase/internal/domain/heuristics"
	"github.com/alfieprojectsdev/homebase/internal/domain/notify"
	"github.com/alfieprojectsdev/homebase/internal/domain/user"
	"github.com/alfieprojectsdev/homebase/internal/infra/database"
)

// BriefingService runs the daily system check: sweep overdue bills, rescore
// urgency for every pending bill, and alert household members about critical
// ones, subject to the escalation throttle.
type BriefingService struct {
	bills      bill.Repository
	users      user.Repository
	logs       notify.LogRepository
	heuristics *HeuristicsService
	notifier   notify.Notifier
	logger     *logrus.Logger
}

func NewBriefingService(
	bills bill.Repository,
	users user.Repository,
	logs notify.LogRepository,
	heuristicsService *HeuristicsService,
	notifier notify.Notifier,
	logger *logrus.Logger,
) *BriefingService {
	return &BriefingService{
		bills:      bills,
		users:      users,
		logs:       logs,
		heuristics: heuristicsService,
		notifier:   notifier,
		logger:     logger,
	}
}

// BriefingReport summarizes one system check run.
type BriefingReport struct {
	OverdueMarked int64 `json:"overdueMarked"`
	BillsScored   int   `json:"billsScored"`
	AlertsSent    int   `json:"alertsSent"`
}

// RunSystemCheck executes the full daily pass. It is safe to run repeatedly;
// the notification throttle prevents duplicate alerts.
func (s *BriefingService) RunSystemCheck(ctx context.Context, now time.Time) (BriefingReport, error) {
	var report BriefingReport

	marked, err := s.bills.MarkOverdue(ctx, now)
	if err != nil {
		return report, fmt.Errorf("failed to sweep overdue bills: %w", err)
	}
	report.OverdueMarked = marked
	if marked > 0 {
		s.logger.WithField("count", marked).Info("Marked bills overdue")
	}

	allUsers, err := s.users.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to load users: %w", err)
	}
	usersByOrg := make(map[uuid.UUID][]*user.User)
	for _, u := range allUsers {
		usersByOrg[u.OrgID] = append(usersByOrg[u.OrgID], u)
	}

	pending, err := s.bills.ListPending(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to load pending bills: %w", err)
	}
	billsByOrg := make(map[uuid.UUID][]*bill.Bill)
	for _, b := range pending {
		billsByOrg[b.OrgID] = append(billsByOrg[b.OrgID], b)
	}

	for orgID, orgBills := range billsByOrg {
		members := usersByOrg[orgID]
		if len(members) == 0 {
			continue
		}
		// Behavior is derived from shared org history, so one snapshot per
		// member covers all that member's bills.
		for _, member := range members {
			behavior, err := s.heuristics.UserBehavior(ctx, member.ID, orgID)
			if err != nil {
				s.logger.WithError(err).WithField("user_id", member.ID).Error("Failed to derive user behavior")
				continue
			}
			uc := heuristics.UrgencyContext{
				CurrentResidence:      behavior.PrimaryResidence,
				UserLatenessRate:      behavior.OverallForgetRate,
				SevereWeatherForecast: false,
			}

			for _, b := range orgBills {
				score := heuristics.CalculateUrgencyScore(snapshot(b), uc, now)
				if err := saveUrgency(ctx, s.bills, b, score, now); err != nil {
					s.logger.WithError(err).WithField("bill_id", b.ID).Error("Failed to persist urgency")
					continue
				}
				report.BillsScored++

				if score.Level != heuristics.UrgencyCritical {
					continue
				}
				sent, err := s.alertIfDue(ctx, member, b, score, now)
				if err != nil {
					s.logger.WithError(err).WithFields(logrus.Fields{
						"user_id": member.ID,
						"bill_id": b.ID,
					}).Error("Failed to send bill alert")
					continue
				}
				if sent {
					report.AlertsSent++
				}
			}
		}
	}

	s.logger.WithFields(logrus.Fields{
		"overdue_marked": report.OverdueMarked,
		"bills_scored":   report.BillsScored,
		"alerts_sent":    report.AlertsSent,
	}).Info("System check completed")
	return report, nil
}

// alertIfDue sends an urgency alert unless the throttle says one already went
// out recently, and records the delivery attempt either way.
func (s *BriefingService) alertIfDue(ctx context.Context, recipient *user.User, b *bill.Bill, score heuristics.UrgencyScore, now time.Time) (bool, error) {
	last, err := s.logs.LastForBill(ctx, recipient.ID, b.ID, score.Level)
	if err != nil && !errors.Is(err, database.ErrNotificationLogNotFound) {
		return false, fmt.Errorf("failed to check notification history: %w", err)
	}
	var lastSentAt *time.Time
	if last != nil {
		lastSentAt = &last.SentAt
	}
	if !notify.ShouldNotify(score.Level, lastSentAt, now) {
		return false, nil
	}

	message := alertMessage(b, score, now)
	entry := &notify.Log{
		ID:     uuid.New(),
		UserID: recipient.ID,
		BillID: b.ID,
		Level:  score.Level,
		Type:   "bill_urgency",
		Status: "sent",
		Title:  fmt.Sprintf("Bill alert: %s", b.Name),
		Body:   message,
		SentAt: now,
	}

	if err := s.notifier.SendAlert(ctx, recipient, message, score.Level); err != nil {
		entry.Status = "failed"
		entry.Error.String = err.Error()
		entry.Error.Valid = true
		if logErr := s.logs.Create(ctx, entry); logErr != nil {
			s.logger.WithError(logErr).Error("Failed to record notification log")
		}
		return false, err
	}

	if err := s.logs.Create(ctx, entry); err != nil {
		s.logger.WithError(err).Error("Failed to record notification log")
	}
	return true, nil
}

func alertMessage(b *bill.Bill, score heuristics.UrgencyScore, now time.Time) string {
	days := int(b.DueDate.Sub(now).Hours() / 24)
	switch {
	case days < 0:
		return fmt.Sprintf("%s (₱%s) is overdue. Urgency %d/100.", b.Name, b.Amount.StringFixed(2), score.Score)
	case days == 0:
		return fmt.Sprintf("%s (₱%s) is due today. Urgency %d/100.", b.Name, b.Amount.StringFixed(2), score.Score)
	default:
		return fmt.Sprintf("%s (₱%s) is due in %d day(s). Urgency %d/100.", b.Name, b.Amount.StringFixed(2), days, score.Score)
	}
}
