package telegram

import (
	"context"
	"fmt"

	"gopkg.in/telebot.v3"

	"github.com/alfieprojectsdev/homebase/internal/domain/heuristics"
	"github.com/alfieprojectsdev/homebase/internal/domain/user"
)

// Notifier delivers bill reminders over Telegram for users who linked a chat
// ID. It implements notify.Notifier.
type Notifier struct {
	bot *telebot.Bot
}

func NewNotifier(b *telebot.Bot) *Notifier {
	return &Notifier{bot: b}
}

// SendAlert sends the reminder as a plain text message. Users without a
// linked chat ID are skipped with an error so the caller can fall back to
// another channel.
func (n *Notifier) SendAlert(ctx context.Context, recipient *user.User, message string, level heuristics.UrgencyLevel) error {
	if !recipient.TelegramChatID.Valid {
		return fmt.Errorf("user %s has no linked telegram chat", recipient.ID)
	}

	text := fmt.Sprintf("[%s] %s", level, message)
	chat := &telebot.User{ID: recipient.TelegramChatID.Int64}
	_, err := n.bot.Send(chat, text, &telebot.SendOptions{})
	if err != nil {
		return fmt.Errorf("failed to send telegram alert to chat %d: %w", recipient.TelegramChatID.Int64, err)
	}
	return nil
}
