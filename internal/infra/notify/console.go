package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/alfieprojectsdev/homebase/internal/domain/heuristics"
	"github.com/alfieprojectsdev/homebase/internal/domain/user"
)

// ConsoleNotifier writes alerts to the structured log. It is the default
// delivery channel in development and the fallback when no Telegram chat is
// linked.
type ConsoleNotifier struct {
	log *logrus.Logger
}

func NewConsoleNotifier(log *logrus.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{log: log}
}

func (n *ConsoleNotifier) SendAlert(ctx context.Context, recipient *user.User, message string, level heuristics.UrgencyLevel) error {
	n.log.WithFields(logrus.Fields{
		"user_id": recipient.ID,
		"email":   recipient.Email,
		"level":   level,
	}).Info(message)
	return nil
}
